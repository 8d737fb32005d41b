// This file is part of mindc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import "strconv"

// Op identifies the operation an Instr performs. The tag set is exactly the
// one spec.md §3 requires, no more, no less.
type Op int

// TAC opcodes.
const (
	OpLoadImm4 Op = iota
	OpLoadSymbol
	OpLoad
	OpStore
	OpAssign
	OpNeg
	OpBNot
	OpLNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEqu
	OpNeq
	OpLes
	OpLeq
	OpGtr
	OpGeq
	OpLAnd
	OpLOr
	OpJump
	OpJZero
	OpLabel
	OpCall
	OpPush
	OpPop
	OpParam
	OpReturn
	OpMarkParameters
)

var opNames = [...]string{
	OpLoadImm4:       "LOAD_IMM4",
	OpLoadSymbol:     "LOAD_SYMBOL",
	OpLoad:           "LOAD",
	OpStore:          "STORE",
	OpAssign:         "ASSIGN",
	OpNeg:            "NEG",
	OpBNot:           "BNOT",
	OpLNot:           "LNOT",
	OpAdd:            "ADD",
	OpSub:            "SUB",
	OpMul:            "MUL",
	OpDiv:            "DIV",
	OpMod:            "MOD",
	OpEqu:            "EQU",
	OpNeq:            "NEQ",
	OpLes:            "LES",
	OpLeq:            "LEQ",
	OpGtr:            "GTR",
	OpGeq:            "GEQ",
	OpLAnd:           "LAND",
	OpLOr:            "LOR",
	OpJump:           "JUMP",
	OpJZero:          "JZERO",
	OpLabel:          "LABEL",
	OpCall:           "CALL",
	OpPush:           "PUSH",
	OpPop:            "POP",
	OpParam:          "PARAM",
	OpReturn:         "RETURN",
	OpMarkParameters: "MARK_PARAMETERS",
}

func (o Op) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return "OP(?)"
	}
	return opNames[o]
}

// Operand is the tagged union carried in each TAC slot: exactly one of Temp,
// Label, Imm (when Kind == OperandImm) or Sym (when Kind == OperandSym) is
// meaningful, selected by Kind.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandTemp
	OperandLabel
	OperandImm
	OperandSym
)

type Operand struct {
	Kind  OperandKind
	Temp  *Temp
	Label *Label
	Imm   int
	Sym   string
}

// TempOperand wraps a Temp as an Operand.
func TempOperand(t *Temp) Operand { return Operand{Kind: OperandTemp, Temp: t} }

// LabelOperand wraps a Label as an Operand.
func LabelOperand(l *Label) Operand { return Operand{Kind: OperandLabel, Label: l} }

// ImmOperand wraps an integer literal as an Operand.
func ImmOperand(v int) Operand { return Operand{Kind: OperandImm, Imm: v} }

// SymOperand wraps a symbol name (global variable, callee) as an Operand.
func SymOperand(s string) Operand { return Operand{Kind: OperandSym, Sym: s} }

func (o Operand) String() string {
	switch o.Kind {
	case OperandTemp:
		return o.Temp.String()
	case OperandLabel:
		return o.Label.String()
	case OperandImm:
		return strconv.Itoa(o.Imm)
	case OperandSym:
		return o.Sym
	default:
		return "-"
	}
}

// Instr is one TAC instruction: an Op tag plus up to three operand slots,
// linked in a singly-linked intrusive chain via Next (spec.md §3). LiveOut
// is populated by the cfg package's liveness pass and is nil until then.
type Instr struct {
	Op      Op
	Dst     Operand
	Src1    Operand
	Src2    Operand
	Next    *Instr
	LiveOut map[*Temp]struct{}
}

func (in *Instr) String() string {
	s := in.Op.String()
	for _, o := range []Operand{in.Dst, in.Src1, in.Src2} {
		if o.Kind != OperandNone {
			s += " " + o.String()
		}
	}
	return s
}

// Chain is an append-only builder for an Instr singly-linked list. It is the
// explicit "builder object" spec.md §9 asks for in place of a process-wide
// mutable emission cursor: each function owns exactly one Chain while being
// lowered.
type Chain struct {
	head, tail *Instr
}

// Append adds in to the end of the chain and returns it.
func (c *Chain) Append(in *Instr) *Instr {
	if c.tail == nil {
		c.head = in
	} else {
		c.tail.Next = in
	}
	c.tail = in
	return in
}

// Head returns the first instruction of the chain, or nil if empty.
func (c *Chain) Head() *Instr { return c.head }

// Tail returns the last instruction of the chain, or nil if empty.
func (c *Chain) Tail() *Instr { return c.tail }
