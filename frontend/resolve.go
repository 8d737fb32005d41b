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

package frontend

import "github.com/mkpreference/minidecaf/ast"

// scope is one block's name table, chained to its enclosing scope. The
// parser resolves every identifier reference inline, as it is parsed,
// against the scope chain and then the top-level globals set — there is no
// separate AST-rewriting resolution pass, matching spec.md §6's contract
// that a VarRef always arrives already bound to its VarDecl.
type scope struct {
	parent *scope
	vars   map[string]*ast.VarDecl
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]*ast.VarDecl{}}
}

// declare binds name in this scope. It returns false if name is already
// declared in this exact scope (shadowing an outer scope is fine; a
// duplicate in the same scope is a redeclaration error).
func (s *scope) declare(name string, d *ast.VarDecl) bool {
	if _, ok := s.vars[name]; ok {
		return false
	}
	s.vars[name] = d
	return true
}

// lookup searches this scope and every enclosing one, innermost first.
func (s *scope) lookup(name string) (*ast.VarDecl, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.vars[name]; ok {
			return d, true
		}
	}
	return nil, false
}

func (p *Parser) pushScope() { p.cur = newScope(p.cur) }
func (p *Parser) popScope()  { p.cur = p.cur.parent }

// resolveName turns a bare identifier into a VarRef (local/parameter) or a
// GlobalRef (top-level global), the only two possibilities once a program
// satisfies spec.md §6 ("no undefined variable references"). Mind requires
// declaration-before-use for both locals and globals (a front-end
// simplification recorded in DESIGN.md, not a backend concern): a forward
// reference is reported as an undefined-variable error rather than resolved
// by a second pass.
func (p *Parser) resolveName(name string) ast.Expr {
	if vd, ok := p.cur.lookup(name); ok {
		return &ast.VarRef{Name: name, Sym: vd}
	}
	if p.globals[name] {
		return &ast.GlobalRef{Name: name}
	}
	p.errorf("undefined variable %q", name)
	return &ast.IntConst{Value: 0}
}
