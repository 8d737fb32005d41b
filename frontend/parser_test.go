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

package frontend_test

import (
	"strings"
	"testing"

	"github.com/mkpreference/minidecaf/ast"
	"github.com/mkpreference/minidecaf/frontend"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := frontend.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(%q) = %v", src, err)
	}
	return prog
}

func TestParse_constantReturn(t *testing.T) {
	prog := mustParse(t, `int main(){ return 42; }`)
	if len(prog.Decls) != 1 {
		t.Fatalf("got %d top-level decls, want 1", len(prog.Decls))
	}
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok || fd.Name != "main" {
		t.Fatalf("got %#v, want FuncDecl main", prog.Decls[0])
	}
	body := fd.Body.(*ast.CompStmt)
	if len(body.Stmts) != 1 {
		t.Fatalf("got %d body statements, want 1", len(body.Stmts))
	}
	ret, ok := body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ReturnStmt", body.Stmts[0])
	}
	ic, ok := ret.X.(*ast.IntConst)
	if !ok || ic.Value != 42 {
		t.Fatalf("got %#v, want IntConst{42}", ret.X)
	}
}

func TestParse_precedence(t *testing.T) {
	// 2+3*4-5 should parse as (2 + (3*4)) - 5, i.e. top is Sub.
	prog := mustParse(t, `int main(){ return 2+3*4-5; }`)
	fd := prog.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.(*ast.CompStmt).Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.X.(*ast.BinaryExpr)
	if !ok || top.Op != ast.BinSub {
		t.Fatalf("top operator = %#v, want Sub", ret.X)
	}
	left, ok := top.Left.(*ast.BinaryExpr)
	if !ok || left.Op != ast.BinAdd {
		t.Fatalf("left operand = %#v, want Add", top.Left)
	}
	mul, ok := left.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.BinMul {
		t.Fatalf("add's right operand = %#v, want Mul", left.Right)
	}
}

func TestParse_globalsAndLocals(t *testing.T) {
	prog := mustParse(t, `
		int g;
		int main(){
			g = 7;
			return g * 6;
		}
	`)
	if len(prog.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(prog.Decls))
	}
	gd, ok := prog.Decls[0].(*ast.GlobalDecl)
	if !ok || gd.Name != "g" || gd.Init != 0 {
		t.Fatalf("got %#v, want GlobalDecl{g, 0}", prog.Decls[0])
	}
	fd := prog.Decls[1].(*ast.FuncDecl)
	stmts := fd.Body.(*ast.CompStmt).Stmts
	assign := stmts[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	if _, ok := assign.Lhs.(*ast.GlobalRef); !ok {
		t.Fatalf("assignment target = %#v, want *ast.GlobalRef", assign.Lhs)
	}
}

func TestParse_forLoopScopesInitVariable(t *testing.T) {
	prog := mustParse(t, `
		int main(){
			int s;
			s = 0;
			for (int i = 0; i < 10; i = i + 1) s = s + i;
			return s;
		}
	`)
	fd := prog.Decls[0].(*ast.FuncDecl)
	stmts := fd.Body.(*ast.CompStmt).Stmts
	forStmt := stmts[2].(*ast.ForStmt)
	if _, ok := forStmt.Init.(*ast.VarDecl); !ok {
		t.Fatalf("for-init = %#v, want *ast.VarDecl", forStmt.Init)
	}
	cond := forStmt.Cond.(*ast.BinaryExpr)
	ref := cond.Left.(*ast.VarRef)
	if ref.Sym != forStmt.Init.(*ast.VarDecl) {
		t.Fatalf("loop condition's `i` does not resolve to the for-init declaration")
	}
}

func TestParse_recursiveCall(t *testing.T) {
	prog := mustParse(t, `
		int fact(int n){
			if (n <= 1) return 1;
			return n * fact(n - 1);
		}
	`)
	fd := prog.Decls[0].(*ast.FuncDecl)
	ifStmt := fd.Body.(*ast.CompStmt).Stmts[0].(*ast.IfStmt)
	_ = ifStmt
	ret := fd.Body.(*ast.CompStmt).Stmts[1].(*ast.ReturnStmt)
	mul := ret.X.(*ast.BinaryExpr)
	call, ok := mul.Right.(*ast.CallExpr)
	if !ok || call.Callee != "fact" || len(call.Args) != 1 {
		t.Fatalf("got %#v, want a recursive call to fact/1", mul.Right)
	}
}

func TestParse_errors(t *testing.T) {
	cases := []struct {
		name, src string
	}{
		{"undefined variable", `int main(){ return x; }`},
		{"break outside loop", `int main(){ break; return 0; }`},
		{"continue outside loop", `int main(){ continue; return 0; }`},
		{"redeclared local", `int main(){ int a; int a; return a; }`},
		{"call to undeclared function", `int main(){ return f(); }`},
		{"missing semicolon", `int main(){ return 0 }`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := frontend.Parse("test", strings.NewReader(c.src)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want an error", c.src)
			}
		})
	}
}

func TestParse_shortCircuitAndTernary(t *testing.T) {
	prog := mustParse(t, `
		int main(){
			int x;
			x = 0;
			return (1 || (x = 1)) + x;
		}
	`)
	fd := prog.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.(*ast.CompStmt).Stmts[2].(*ast.ReturnStmt)
	add := ret.X.(*ast.BinaryExpr)
	if add.Op != ast.BinAdd {
		t.Fatalf("got %#v, want Add at top", ret.X)
	}
	or, ok := add.Left.(*ast.BinaryExpr)
	if !ok || or.Op != ast.BinLOr {
		t.Fatalf("got %#v, want Or as the left operand", add.Left)
	}
}

func TestParse_ternary(t *testing.T) {
	prog := mustParse(t, `int main(){ int a; int b; a = 3; b = 4; return a < b ? b - a : a - b; }`)
	fd := prog.Decls[0].(*ast.FuncDecl)
	stmts := fd.Body.(*ast.CompStmt).Stmts
	ret := stmts[len(stmts)-1].(*ast.ReturnStmt)
	cond, ok := ret.X.(*ast.CondExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CondExpr", ret.X)
	}
	if _, ok := cond.Cond.(*ast.BinaryExpr); !ok {
		t.Fatalf("condition = %#v, want a comparison", cond.Cond)
	}
}
