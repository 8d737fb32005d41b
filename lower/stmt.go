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
)

// stmt lowers a single statement, emitting TAC with no resulting value
// (spec.md §4.C).
func (lw *lowerer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.EmptyStmt:
		// nothing to emit.
	case *ast.VarDecl:
		lw.varDecl(n)
	case *ast.ExprStmt:
		lw.expr(n.X)
	case *ast.CompStmt:
		for _, sub := range n.Stmts {
			lw.stmt(sub)
		}
	case *ast.IfStmt:
		lw.ifStmt(n)
	case *ast.WhileStmt:
		lw.whileStmt(n)
	case *ast.ForStmt:
		lw.forStmt(n)
	case *ast.BreakStmt:
		lw.h.GenJump(lw.currentLoop().brk)
	case *ast.ContinueStmt:
		lw.h.GenJump(lw.currentLoop().cont)
	case *ast.ReturnStmt:
		lw.h.GenReturn(lw.expr(n.X))
	default:
		diag.Fail("lower: unreachable statement kind %T", s)
	}
}

// varDecl associates the declared symbol with a fresh Temp, emitting the
// initializer's TAC and an ASSIGN if present (spec.md §4.C).
func (lw *lowerer) varDecl(n *ast.VarDecl) {
	n.Sym = lw.h.NewTempI4()
	n.Sym.Sym = n.Name
	if n.Init != nil {
		v := lw.expr(n.Init)
		lw.h.GenAssign(n.Sym, v)
	}
}

func (lw *lowerer) ifStmt(n *ast.IfStmt) {
	lElse := lw.h.NewLabel()
	lEnd := lw.h.NewLabel()

	c := lw.expr(n.Cond)
	lw.h.GenJZero(c, lElse)
	lw.stmt(n.TrueBrch)
	lw.h.GenJump(lEnd)
	lw.h.GenLabel(lElse)
	lw.stmt(n.FalseBrch)
	lw.h.GenLabel(lEnd)
}

func (lw *lowerer) whileStmt(n *ast.WhileStmt) {
	lCont := lw.h.NewLabel()
	lBrk := lw.h.NewLabel()

	lw.h.GenLabel(lCont)
	c := lw.expr(n.Cond)
	lw.h.GenJZero(c, lBrk)
	lw.pushLoop(lBrk, lCont)
	lw.stmt(n.Body)
	lw.popLoop()
	lw.h.GenJump(lCont)
	lw.h.GenLabel(lBrk)
}

// forStmt lowers the same loop shape as whileStmt, with an initializer
// block before the condition and an update block before the back edge
// (spec.md §4.C). Init is either an *ast.VarDecl or an *ast.ExprStmt (or
// *ast.EmptyStmt); both lower uniformly through stmt.
//
// Unlike a while loop, a for loop's continue target is not the condition
// re-check: it is lUpdate, which runs n.Update before falling into the
// re-check. A while has no update step, so there lCont legitimately is the
// re-check point; here, jumping continue straight to the re-check would
// skip the update on every continuing iteration.
func (lw *lowerer) forStmt(n *ast.ForStmt) {
	lw.stmt(n.Init)

	lCheck := lw.h.NewLabel()
	lUpdate := lw.h.NewLabel()
	lBrk := lw.h.NewLabel()

	lw.h.GenLabel(lCheck)
	if n.Cond != nil {
		c := lw.expr(n.Cond)
		lw.h.GenJZero(c, lBrk)
	}
	lw.pushLoop(lBrk, lUpdate)
	lw.stmt(n.Body)
	lw.popLoop()
	lw.h.GenLabel(lUpdate)
	lw.stmt(n.Update)
	lw.h.GenJump(lCheck)
	lw.h.GenLabel(lBrk)
}
