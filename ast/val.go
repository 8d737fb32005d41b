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

package ast

import "github.com/mkpreference/minidecaf/ir"

// SetVal records the Temp carrying an expression's run-time result (spec.md
// §4.C: "every Expr node, after visit, must have its val attribute set").
// lower/expr.go calls this once per node, immediately after emitting the TAC that
// computes it.
func SetVal(e Expr, t *ir.Temp) {
	switch n := e.(type) {
	case *IntConst:
		n.Val = t
	case *UnaryExpr:
		n.Val = t
	case *BinaryExpr:
		n.Val = t
	case *CondExpr:
		n.Val = t
	case *AssignExpr:
		n.Val = t
	case *VarRef:
		n.Val = t
	case *GlobalRef:
		n.Val = t
	case *CallExpr:
		n.Val = t
	default:
		panic("ast.SetVal: unhandled Expr type")
	}
}

// Val returns the Temp previously recorded by SetVal.
func Val(e Expr) *ir.Temp {
	switch n := e.(type) {
	case *IntConst:
		return n.Val
	case *UnaryExpr:
		return n.Val
	case *BinaryExpr:
		return n.Val
	case *CondExpr:
		return n.Val
	case *AssignExpr:
		return n.Val
	case *VarRef:
		return n.Val
	case *GlobalRef:
		return n.Val
	case *CallExpr:
		return n.Val
	default:
		panic("ast.Val: unhandled Expr type")
	}
}
