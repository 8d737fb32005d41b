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

package riscv

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mkpreference/minidecaf/cfg"
	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/ir"
	"github.com/pkg/errors"
)

// sortedTemps returns the temporaries in set ordered by id, so that emission
// order and frame-slot assignment are deterministic given the same input AST
// (spec.md §5), independent of Go's randomized map iteration.
func sortedTemps(set map[*ir.Temp]struct{}) []*ir.Temp {
	out := make([]*ir.Temp, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Option configures one Generate call, the same functional-option shape as
// vm.Option in vm/vm.go.
type Option func(*genConfig)

type genConfig struct {
	comments bool
}

// WithComments enables the "# comment" tail (spec.md §6): each block-body
// TAC instruction dumped before the code it produces, plus the allocator's
// register loads and spills. The CLI's "-O" flag leaves this
// disabled (SPEC_FULL.md §6); it is off by default.
func WithComments(enabled bool) Option {
	return func(c *genConfig) { c.comments = enabled }
}

// Generate walks the Piece list built by trans/lower and writes RISC-V
// assembly text to w (spec.md §4.H). pool supplies fresh "__LLn" block
// labels, sharing its counter with the TAC-level "_Ln" labels so every
// assembly-level symbol in the unit is unique.
func Generate(pool *ir.Pool, pieces *ir.Piece, w io.Writer, opts ...Option) error {
	cfgOpt := &genConfig{}
	for _, o := range opts {
		o(cfgOpt)
	}
	out := NewWriter(w)
	if cfgOpt.comments {
		out.EnableComments()
	}
	out.Directive(".text")

	var globals []*ir.Piece
	for p := pieces; p != nil; p = p.Next {
		switch p.Kind {
		case ir.PieceFunc:
			compileFunc(pool, p, out)
		case ir.PieceGlobal:
			globals = append(globals, p)
		default:
			diag.Fail("riscv: unreachable piece kind %v", p.Kind)
		}
	}

	if len(globals) > 0 {
		out.Directive(".data")
		for _, g := range globals {
			out.Directive(".globl %s", g.Name)
			out.Label(g.Name)
			out.Instr(".word", strconv.Itoa(g.Init))
		}
	}
	return errors.Wrap(out.Err(), "riscv: write failed")
}

// compileFunc builds f's CFG, runs liveness, and emits its prolog plus every
// block in trace order (spec.md §4.H).
func compileFunc(pool *ir.Pool, f *ir.Piece, w *Writer) {
	g := cfg.Build(f.Body)
	cfg.Simplify(g)
	cfg.Liveness(g)

	frame := NewFrame()
	// parameters take their argument-area offsets first, so the LiveOut
	// reservation below never gives one a local slot instead.
	bindParameters(g.Block(g.Entry))
	for _, b := range g.Blocks() {
		for _, t := range sortedTemps(b.LiveOut) {
			frame.Reserve(t)
		}
	}
	f.FrameBytes = frame.GetStackFrameSize()

	labels := make([]*ir.Label, len(g.Blocks()))
	for _, b := range g.Blocks() {
		if b.ID == g.Entry {
			labels[b.ID] = f.Entry
			continue
		}
		labels[b.ID] = pool.NewBlockLabel()
	}

	w.Directive(".globl %s", f.Entry.Name)
	w.Label(f.Entry.Name)
	w.Instr("sw", "ra", "-4(sp)")
	w.Instr("sw", "fp", "-8(sp)")
	w.Instr("mv", "fp", "sp")
	w.Instr("addi", "sp", "sp", signed(-(frame.TotalFrameSize())))

	fc := &funcGen{pool: pool, w: w, frame: frame, graph: g, labels: labels}
	fc.machine = NewMachine(frame, w)

	fc.trace(g.Entry)
	for _, b := range g.Blocks() {
		if !b.Mark {
			fc.trace(b.ID)
		}
	}
}

type funcGen struct {
	pool    *ir.Pool
	w       *Writer
	frame   *Frame
	graph   *cfg.Graph
	labels  []*ir.Label
	machine *Machine
}

// trace emits block id and, per spec.md §4.H step 6, recurses depth-first
// preferring the fall-through successor so the emitted text naturally lays
// blocks out one after another.
func (fc *funcGen) trace(id int) {
	b := fc.graph.Block(id)
	if b.Mark {
		return
	}
	b.Mark = true

	if id != fc.graph.Entry {
		fc.w.Label(fc.labels[id].Name)
	}
	fc.machine.Reset()
	fc.emitBody(b)
	fc.emitTerminator(b)

	switch b.EndKind {
	case cfg.ByJump:
		fc.trace(b.Next[0])
	case cfg.ByJZero:
		fc.trace(b.Next[1])
	case cfg.ByReturn:
	}
}

func (fc *funcGen) emitBody(b *cfg.Block) {
	var pendingArgs []*ir.Temp
	for in := b.Body; in != nil; in = in.Next {
		fc.w.Comment("%s", in)
		switch in.Op {
		case ir.OpParam:
			pendingArgs = append(pendingArgs, in.Dst.Temp)
		case ir.OpCall:
			fc.emitCall(in, pendingArgs)
			pendingArgs = nil
		case ir.OpMarkParameters:
			// parameters live in the caller's argument area (the call-site
			// protocol's mirror image); position k is at offset 4*k(fp),
			// bound by bindParameters before any code is emitted.
		default:
			fc.emitInstr(in)
		}
	}
}

// bindParameters assigns a fixed non-negative frame offset to every
// MARK_PARAMETERS temp in entry block b, in declaration order, matching the
// call-site protocol's argument area layout (spec.md §4.H rationale).
// compileFunc runs it before any other temp is given a frame slot.
func bindParameters(b *cfg.Block) {
	k := 0
	for in := b.Body; in != nil; in = in.Next {
		if in.Op != ir.OpMarkParameters {
			continue
		}
		t := in.Dst.Temp
		if !t.IsOffsetFixed {
			t.Offset = ir.WordSize * k
			t.IsOffsetFixed = true
		}
		k++
	}
}

var binaryMnemonic = map[ir.Op]string{
	ir.OpAdd: "add", ir.OpSub: "sub", ir.OpMul: "mul", ir.OpDiv: "div", ir.OpMod: "rem",
	ir.OpLAnd: "and", ir.OpLOr: "or",
}

func (fc *funcGen) emitInstr(in *ir.Instr) {
	live := in.LiveOut
	m := fc.machine
	switch in.Op {
	case ir.OpLoadImm4:
		rd := m.GetRegForWrite(in.Dst.Temp, nil, nil, live)
		if rd != nil {
			fc.w.Instr("li", reg(rd), strconv.Itoa(in.Src1.Imm))
		}
	case ir.OpLoadSymbol:
		rd := m.GetRegForWrite(in.Dst.Temp, nil, nil, live)
		if rd != nil {
			fc.w.Instr("la", reg(rd), in.Src1.Sym)
		}
	case ir.OpLoad:
		rb := m.GetRegForRead(in.Src1.Temp, nil, live)
		rd := m.GetRegForWrite(in.Dst.Temp, rb, nil, live)
		if rd != nil {
			fc.w.Instr("lw", reg(rd), offParen(in.Src2.Imm, reg(rb)))
		}
	case ir.OpStore:
		rb := m.GetRegForRead(in.Dst.Temp, nil, live)
		rv := m.GetRegForRead(in.Src2.Temp, rb, live)
		fc.w.Instr("sw", reg(rv), offParen(in.Src1.Imm, reg(rb)))
	case ir.OpAssign:
		rs := m.GetRegForRead(in.Src1.Temp, nil, live)
		rd := m.GetRegForWrite(in.Dst.Temp, rs, nil, live)
		if rd != nil {
			fc.w.Instr("mv", reg(rd), reg(rs))
		}
	case ir.OpNeg, ir.OpBNot, ir.OpLNot:
		rs := m.GetRegForRead(in.Src1.Temp, nil, live)
		rd := m.GetRegForWrite(in.Dst.Temp, rs, nil, live)
		if rd != nil {
			fc.w.Instr(unaryMnemonic[in.Op], reg(rd), reg(rs))
		}
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpLAnd, ir.OpLOr:
		ra := m.GetRegForRead(in.Src1.Temp, nil, live)
		rb := m.GetRegForRead(in.Src2.Temp, ra, live)
		rd := m.GetRegForWrite(in.Dst.Temp, ra, rb, live)
		if rd != nil {
			fc.w.Instr(binaryMnemonic[in.Op], reg(rd), reg(ra), reg(rb))
		}
	case ir.OpEqu, ir.OpNeq, ir.OpLes, ir.OpLeq, ir.OpGtr, ir.OpGeq:
		fc.emitCompare(in, live)
	case ir.OpPush:
		rt := m.GetRegForRead(in.Dst.Temp, nil, live)
		fc.w.Instr("addi", "sp", "sp", "-4")
		fc.w.Instr("sw", reg(rt), "0(sp)")
	case ir.OpPop:
		fc.w.Instr("addi", "sp", "sp", "4")
	default:
		diag.Fail("riscv: unreachable TAC opcode in block body %v", in.Op)
	}
}

var unaryMnemonic = map[ir.Op]string{ir.OpNeg: "neg", ir.OpBNot: "not", ir.OpLNot: "seqz"}

func (fc *funcGen) emitCompare(in *ir.Instr, live map[*ir.Temp]struct{}) {
	m := fc.machine
	ra := m.GetRegForRead(in.Src1.Temp, nil, live)
	rb := m.GetRegForRead(in.Src2.Temp, ra, live)
	rd := m.GetRegForWrite(in.Dst.Temp, ra, rb, live)
	if rd == nil {
		return
	}
	switch in.Op {
	case ir.OpEqu:
		fc.w.Instr("sub", reg(rd), reg(ra), reg(rb))
		fc.w.Instr("seqz", reg(rd), reg(rd))
	case ir.OpNeq:
		fc.w.Instr("sub", reg(rd), reg(ra), reg(rb))
		fc.w.Instr("snez", reg(rd), reg(rd))
	case ir.OpLes:
		fc.w.Instr("slt", reg(rd), reg(ra), reg(rb))
	case ir.OpGtr:
		fc.w.Instr("sgt", reg(rd), reg(ra), reg(rb))
	case ir.OpLeq:
		fc.w.Instr("sgt", reg(rd), reg(ra), reg(rb))
		fc.w.Instr("seqz", reg(rd), reg(rd))
	case ir.OpGeq:
		fc.w.Instr("slt", reg(rd), reg(ra), reg(rb))
		fc.w.Instr("seqz", reg(rd), reg(rd))
	}
}

// emitCall implements the call-site protocol of spec.md §4.H: every live
// temporary and every marshalled argument is spilled to a stack area below
// sp, the callee is invoked, and live temporaries are reloaded afterward.
func (fc *funcGen) emitCall(call *ir.Instr, args []*ir.Temp) {
	m := fc.machine
	live := call.LiveOut
	liveList := sortedTemps(live)

	for i, t := range liveList {
		r := m.GetRegForRead(t, nil, live)
		fc.w.Instr("sw", reg(r), negOff(i+1)+"(sp)")
	}
	if len(liveList) > 0 {
		fc.w.Instr("addi", "sp", "sp", signed(-(ir.WordSize * len(liveList))))
	}

	// arg i is written so that it ends up at offset 4*i above sp as it
	// stands at the call, so that once the callee sets fp to that same
	// address (its prologue runs right after this call), MARK_PARAMETERS can
	// bind parameter k to the fixed offset 4*k(fp) (bindParameters above) —
	// the mirror image of this layout.
	for i, t := range args {
		r := m.GetRegForRead(t, nil, live)
		fc.w.Instr("sw", reg(r), negOff(len(args)-i)+"(sp)")
	}
	if len(args) > 0 {
		fc.w.Instr("addi", "sp", "sp", signed(-(ir.WordSize * len(args))))
	}

	fc.w.Instr("call", call.Src1.Sym)

	total := ir.WordSize * (len(liveList) + len(args))
	if total > 0 {
		fc.w.Instr("addi", "sp", "sp", signed(total))
	}

	m.Reset()
	for i, t := range liveList {
		r := m.acquireFree(nil, nil, live)
		m.bind(r, t)
		fc.w.Instr("lw", reg(r), negOff(i+1)+"(sp)")
		// dirty registers are not spilled before the call, so the frame
		// slot may be older than the reloaded value.
		r.dirty = true
	}

	rd := m.GetRegForWrite(call.Dst.Temp, nil, nil, live)
	if rd != nil {
		fc.w.Instr("mv", reg(rd), string(RegA0))
	}
}

// emitTerminator implements spec.md §4.H step 4's per-block terminator cases.
func (fc *funcGen) emitTerminator(b *cfg.Block) {
	m := fc.machine
	live := b.LiveOut
	switch b.EndKind {
	case cfg.ByJump:
		m.SpillDirtyRegs(live)
		fc.w.Instr("j", fc.labels[b.Next[0]].Name)
	case cfg.ByJZero:
		r := m.GetRegForRead(b.Var.Temp, nil, live)
		m.SpillDirtyRegs(live)
		fc.w.Instr("beqz", reg(r), fc.labels[b.Next[0]].Name)
		fc.w.Instr("j", fc.labels[b.Next[1]].Name)
	case cfg.ByReturn:
		r := m.GetRegForRead(b.Var.Temp, nil, live)
		m.SpillDirtyRegs(live)
		fc.w.Instr("mv", string(RegA0), reg(r))
		fc.w.Instr("mv", "sp", "fp")
		fc.w.Instr("lw", "ra", "-4(fp)")
		fc.w.Instr("lw", "fp", "-8(fp)")
		fc.w.Instr("ret")
	}
}

func reg(r *regEntry) string {
	if r == nil {
		return string(RegZero)
	}
	return string(r.name)
}

func negOff(k int) string {
	return "-" + strconv.Itoa(ir.WordSize*k)
}

func offParen(off int, base string) string {
	return fmt.Sprintf("%d(%s)", off, base)
}

func signed(n int) string {
	return strconv.Itoa(n)
}
