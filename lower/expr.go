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

package lower

import (
	"github.com/mkpreference/minidecaf/ast"
	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/ir"
)

// expr lowers e, sets its Val attribute, and returns that Temp (spec.md
// §4.C: "every Expr node, after visit, must have its val attribute set").
func (lw *lowerer) expr(e ast.Expr) *ir.Temp {
	var t *ir.Temp
	switch n := e.(type) {
	case *ast.IntConst:
		t = lw.h.GenLoadImm4(n.Value)
	case *ast.UnaryExpr:
		t = lw.unaryExpr(n)
	case *ast.BinaryExpr:
		t = lw.binaryExpr(n)
	case *ast.CondExpr:
		t = lw.condExpr(n)
	case *ast.AssignExpr:
		t = lw.assignExpr(n)
	case *ast.VarRef:
		t = n.Sym.Sym
	case *ast.GlobalRef:
		addr := lw.h.GenLoadSymbolAddr(n.Name)
		t = lw.h.GenLoad(addr, 0)
	case *ast.CallExpr:
		t = lw.callExpr(n)
	default:
		diag.Fail("lower: unreachable expression kind %T", e)
	}
	ast.SetVal(e, t)
	return t
}

var unaryTag = map[ast.UnaryOp]ir.Op{
	ast.UnaryNeg:  ir.OpNeg,
	ast.UnaryBNot: ir.OpBNot,
	ast.UnaryLNot: ir.OpLNot,
}

func (lw *lowerer) unaryExpr(n *ast.UnaryExpr) *ir.Temp {
	src := lw.expr(n.Inner)
	op, ok := unaryTag[n.Op]
	if !ok {
		diag.Fail("lower: unreachable unary operator %v", n.Op)
	}
	return lw.h.GenUnary(op, src)
}

var binaryTag = map[ast.BinaryOp]ir.Op{
	ast.BinAdd: ir.OpAdd,
	ast.BinSub: ir.OpSub,
	ast.BinMul: ir.OpMul,
	ast.BinDiv: ir.OpDiv,
	ast.BinMod: ir.OpMod,
	ast.BinEqu: ir.OpEqu,
	ast.BinNeq: ir.OpNeq,
	ast.BinLes: ir.OpLes,
	ast.BinLeq: ir.OpLeq,
	ast.BinGtr: ir.OpGtr,
	ast.BinGeq: ir.OpGeq,
}

func (lw *lowerer) binaryExpr(n *ast.BinaryExpr) *ir.Temp {
	switch n.Op {
	case ast.BinLAnd:
		return lw.shortCircuit(n, true)
	case ast.BinLOr:
		return lw.shortCircuit(n, false)
	}
	op, ok := binaryTag[n.Op]
	if !ok {
		diag.Fail("lower: unreachable binary operator %v", n.Op)
	}
	// left-to-right evaluation (spec.md §4.C).
	l := lw.expr(n.Left)
	r := lw.expr(n.Right)
	return lw.h.GenBinary(op, l, r)
}

// shortCircuit lowers && (isAnd) and || (!isAnd) with strict left-to-right
// evaluation: the right operand is never evaluated once the left side
// already determines the result (spec.md §4.C, §8 property 8).
//
// && : t := left; JZERO t -> Lshort; t := right; JUMP Lend; Lshort: t := 0; Lend:
// || : t := left; JZERO t -> Leval; JUMP Lshort(taken); ... (symmetrical: skip
//      evaluating the right side once left is already true)
//
// No LAND/LOR TAC is emitted: the result is assigned from the right operand
// or from a constant 0/1. Each operand is normalized to 0/1 through
// LNOT LNOT first (normalizeBool), comparison results included.
func (lw *lowerer) shortCircuit(n *ast.BinaryExpr, isAnd bool) *ir.Temp {
	dst := lw.h.NewTempI4()
	lEnd := lw.h.NewLabel()
	l := lw.normalizeBool(lw.expr(n.Left))

	if isAnd {
		// left == 0 already decides the result: false, without evaluating
		// the right operand.
		lShortFalse := lw.h.NewLabel()
		lw.h.GenJZero(l, lShortFalse)
		r := lw.normalizeBool(lw.expr(n.Right))
		lw.h.GenAssign(dst, r)
		lw.h.GenJump(lEnd)
		lw.h.GenLabel(lShortFalse)
		lw.h.GenAssign(dst, lw.h.GenLoadImm4(0))
		lw.h.GenLabel(lEnd)
	} else {
		// left != 0 already decides the result: true, without evaluating
		// the right operand.
		lEvalRight := lw.h.NewLabel()
		lShortTrue := lw.h.NewLabel()
		lw.h.GenJZero(l, lEvalRight)
		lw.h.GenJump(lShortTrue)
		lw.h.GenLabel(lEvalRight)
		r := lw.normalizeBool(lw.expr(n.Right))
		lw.h.GenAssign(dst, r)
		lw.h.GenJump(lEnd)
		lw.h.GenLabel(lShortTrue)
		lw.h.GenAssign(dst, lw.h.GenLoadImm4(1))
		lw.h.GenLabel(lEnd)
	}
	return dst
}

// normalizeBool returns a Temp holding exactly 0 or 1 for t. Every value,
// including an already-normalized comparison result, is forced through
// "LNOT LNOT" (double logical negation).
func (lw *lowerer) normalizeBool(t *ir.Temp) *ir.Temp {
	once := lw.h.GenUnary(ir.OpLNot, t)
	return lw.h.GenUnary(ir.OpLNot, once)
}

func (lw *lowerer) condExpr(n *ast.CondExpr) *ir.Temp {
	dst := lw.h.NewTempI4()
	lFalse := lw.h.NewLabel()
	lEnd := lw.h.NewLabel()

	c := lw.expr(n.Cond)
	lw.h.GenJZero(c, lFalse)
	t := lw.expr(n.Then)
	lw.h.GenAssign(dst, t)
	lw.h.GenJump(lEnd)
	lw.h.GenLabel(lFalse)
	e := lw.expr(n.Else)
	lw.h.GenAssign(dst, e)
	lw.h.GenLabel(lEnd)
	return dst
}

func (lw *lowerer) assignExpr(n *ast.AssignExpr) *ir.Temp {
	v := lw.expr(n.Rhs)
	switch lhs := n.Lhs.(type) {
	case *ast.VarRef:
		return lw.h.GenAssign(lhs.Sym.Sym, v)
	case *ast.GlobalRef:
		addr := lw.h.GenLoadSymbolAddr(lhs.Name)
		lw.h.GenStore(addr, 0, v)
		return v
	default:
		diag.Fail("lower: unreachable assignment target %T", n.Lhs)
		return nil
	}
}

func (lw *lowerer) callExpr(n *ast.CallExpr) *ir.Temp {
	args := make([]*ir.Temp, len(n.Args))
	for i, a := range n.Args {
		args[i] = lw.expr(a)
	}
	for _, a := range args {
		lw.h.GenParam(a)
	}
	return lw.h.GenCall(lw.h.NewEntryLabel(n.Callee).Name)
}
