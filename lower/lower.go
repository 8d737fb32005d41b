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

// Package lower is the syntax-directed translator from ast to trans/ir TAC
// (spec.md §4.C). It threads a single mutable "current function" context
// through a plain Go type switch over ast.Node, the way asm/parser.go
// threads one mutable parser struct through its whole pass instead of using
// per-node visitor objects (spec.md §9).
package lower

import (
	"github.com/mkpreference/minidecaf/ast"
	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/ir"
	"github.com/mkpreference/minidecaf/trans"
)

// loopLabels is the (break, continue) label pair pushed on loop entry and
// popped on exit (spec.md §4.C).
type loopLabels struct {
	brk, cont *ir.Label
}

type lowerer struct {
	h         *trans.Helper
	loopStack []loopLabels
	globals   map[string]bool
}

// Program lowers an entire *ast.Program into TAC, returning the Helper that
// owns the resulting Piece list.
func Program(p *ast.Program) *trans.Helper {
	h := trans.NewHelper()
	lw := &lowerer{h: h, globals: map[string]bool{}}

	for _, d := range p.Decls {
		if g, ok := d.(*ast.GlobalDecl); ok {
			lw.globals[g.Name] = true
		}
	}
	for _, d := range p.Decls {
		switch n := d.(type) {
		case *ast.GlobalDecl:
			h.Global(n.Name, n.Init)
		case *ast.FuncDecl:
			lw.funcDecl(n)
		default:
			diag.Fail("lower: unreachable top-level declaration kind %T", d)
		}
	}
	return h
}

func (lw *lowerer) funcDecl(f *ast.FuncDecl) {
	entry := lw.h.NewEntryLabel(f.Name)
	lw.h.StartFunc(entry)
	for _, p := range f.Params {
		p.Sym = lw.h.NewTempI4()
		p.Sym.Sym = p.Name
		lw.h.MarkParameter(p.Sym)
	}
	lw.stmt(f.Body)
	lw.h.EndFunc()
}

func (lw *lowerer) pushLoop(brk, cont *ir.Label) {
	lw.loopStack = append(lw.loopStack, loopLabels{brk, cont})
}

func (lw *lowerer) popLoop() {
	lw.loopStack = lw.loopStack[:len(lw.loopStack)-1]
}

func (lw *lowerer) currentLoop() loopLabels {
	if len(lw.loopStack) == 0 {
		diag.Fail("lower: break/continue outside loop")
	}
	return lw.loopStack[len(lw.loopStack)-1]
}
