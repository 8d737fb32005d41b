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

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"

	"github.com/mkpreference/minidecaf/ast"
)

// maxErrors caps error accumulation, the same bound asm/parser.go uses for
// ErrAsm.
const maxErrors = 10

// ParseError is one recorded front-end diagnostic.
type ParseError struct {
	Pos scanner.Position
	Msg string
}

// ErrParse collects every diagnostic from one Parse call.
type ErrParse []ParseError

func (e ErrParse) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("%s: %s", err.Pos, err.Msg))
	}
	return strings.Join(l, "\n")
}

// Parser is Mind's single mutable recursive-descent parser, threading scope
// resolution and function/global name tables through the whole pass — the
// same single-struct, no-visitor-objects shape asm/parser.go uses for the
// ngaro assembler (spec.md §9's design note on sum-type dispatch, extended
// here to "no separate resolver pass" too).
type Parser struct {
	lex *lexer
	tok Token

	cur       *scope
	globals   map[string]bool
	funcs     map[string]int
	loopDepth int

	errs []ParseError
}

// Parse parses and resolves one Mind translation unit.
func Parse(name string, r io.Reader) (*ast.Program, error) {
	p := &Parser{
		lex:     newLexer(name, r),
		globals: map[string]bool{},
		funcs:   map[string]int{},
	}
	p.advance()

	prog := &ast.Program{}
	for p.tok.Kind != TokEOF && !p.aborted() {
		d := p.topLevel()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
	}
	for _, e := range p.lex.errs {
		p.record(e.pos, e.msg)
	}
	if len(p.errs) > 0 {
		return nil, ErrParse(p.errs)
	}
	return prog, nil
}

func (p *Parser) advance() { p.tok = p.lex.next() }

func (p *Parser) aborted() bool { return len(p.errs) >= maxErrors }

func (p *Parser) record(pos scanner.Position, msg string) {
	if p.aborted() {
		return
	}
	p.errs = append(p.errs, ParseError{Pos: pos, Msg: msg})
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.record(p.tok.Pos, fmt.Sprintf(format, args...))
}

func (p *Parser) isOp(s string) bool  { return p.tok.Kind == TokOp && p.tok.Text == s }
func (p *Parser) isKeyword(s string) bool {
	return p.tok.Kind == TokIdent && p.tok.Text == s
}

// expectOp consumes an operator/punctuation token, recording an error (and
// not advancing) if the current token does not match.
func (p *Parser) expectOp(s string) {
	if !p.isOp(s) {
		p.errorf("expected %q, found %q", s, p.tok.String())
		return
	}
	p.advance()
}

// expectKeyword consumes a keyword token.
func (p *Parser) expectKeyword(s string) {
	if !p.isKeyword(s) {
		p.errorf("expected %q, found %q", s, p.tok.String())
		return
	}
	p.advance()
}

// expectIdent consumes and returns an identifier's text.
func (p *Parser) expectIdent() string {
	if p.tok.Kind != TokIdent || isKeyword(p.tok.Text) {
		p.errorf("expected identifier, found %q", p.tok.String())
		return ""
	}
	name := p.tok.Text
	p.advance()
	return name
}

var keywords = map[string]bool{
	"int": true, "if": true, "else": true, "while": true, "for": true,
	"break": true, "continue": true, "return": true,
}

func isKeyword(s string) bool { return keywords[s] }

// --- top level ---

// topLevel parses one "int NAME ..." declaration: a function definition if
// followed by "(", otherwise a global variable (original_source's
// FOD/FuncOrGlobal shape, SPEC_FULL.md §5).
func (p *Parser) topLevel() ast.TopLevel {
	p.expectKeyword("int")
	name := p.expectIdent()

	if p.isOp("(") {
		p.advance()
		params := p.paramList()
		p.expectOp(")")

		fd := &ast.FuncDecl{Name: name, Params: params}
		p.funcs[name] = len(params)

		p.pushScope()
		for _, prm := range params {
			if !p.cur.declare(prm.Name, prm) {
				p.errorf("parameter %q redeclared", prm.Name)
			}
		}
		fd.Body = p.block()
		p.popScope()
		return fd
	}

	init := 0
	if p.isOp("=") {
		p.advance()
		init = p.constInt()
	}
	p.expectOp(";")
	p.globals[name] = true
	return &ast.GlobalDecl{Name: name, Init: init}
}

// constInt parses a (possibly negated) integer literal, for global
// initializers (spec.md §3 Piece global "initial integer value").
func (p *Parser) constInt() int {
	neg := false
	if p.isOp("-") {
		neg = true
		p.advance()
	}
	if p.tok.Kind != TokInt {
		p.errorf("expected integer constant, found %q", p.tok.String())
		return 0
	}
	v := p.tok.IntVal
	p.advance()
	if neg {
		v = -v
	}
	return v
}

func (p *Parser) paramList() []*ast.VarDecl {
	var params []*ast.VarDecl
	if p.isOp(")") {
		return params
	}
	for {
		p.expectKeyword("int")
		name := p.expectIdent()
		params = append(params, &ast.VarDecl{Name: name})
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return params
}

// --- statements ---

func (p *Parser) block() *ast.CompStmt {
	p.expectOp("{")
	var stmts []ast.Stmt
	for !p.isOp("}") && p.tok.Kind != TokEOF && !p.aborted() {
		stmts = append(stmts, p.stmt())
	}
	p.expectOp("}")
	return &ast.CompStmt{Stmts: stmts}
}

func (p *Parser) stmt() ast.Stmt {
	switch {
	case p.isOp("{"):
		p.pushScope()
		b := p.block()
		p.popScope()
		return b
	case p.isOp(";"):
		p.advance()
		return &ast.EmptyStmt{}
	case p.isKeyword("int"):
		return p.varDeclStmt()
	case p.isKeyword("if"):
		return p.ifStmt()
	case p.isKeyword("while"):
		return p.whileStmt()
	case p.isKeyword("for"):
		return p.forStmt()
	case p.isKeyword("break"):
		p.advance()
		if p.loopDepth == 0 {
			p.errorf("break outside loop")
		}
		p.expectOp(";")
		return &ast.BreakStmt{}
	case p.isKeyword("continue"):
		p.advance()
		if p.loopDepth == 0 {
			p.errorf("continue outside loop")
		}
		p.expectOp(";")
		return &ast.ContinueStmt{}
	case p.isKeyword("return"):
		p.advance()
		x := p.expr()
		p.expectOp(";")
		return &ast.ReturnStmt{X: x}
	default:
		x := p.expr()
		p.expectOp(";")
		return &ast.ExprStmt{X: x}
	}
}

// varDeclStmt parses "int NAME [= expr] ;" and declares NAME in the
// innermost scope.
func (p *Parser) varDeclStmt() *ast.VarDecl {
	p.advance() // "int"
	name := p.expectIdent()
	vd := &ast.VarDecl{Name: name}
	if p.isOp("=") {
		p.advance()
		vd.Init = p.expr()
	}
	p.expectOp(";")
	if !p.cur.declare(name, vd) {
		p.errorf("variable %q redeclared", name)
	}
	return vd
}

func (p *Parser) ifStmt() *ast.IfStmt {
	p.advance() // "if"
	p.expectOp("(")
	cond := p.expr()
	p.expectOp(")")
	trueBrch := p.stmt()
	var falseBrch ast.Stmt = &ast.EmptyStmt{}
	if p.isKeyword("else") {
		p.advance()
		falseBrch = p.stmt()
	}
	return &ast.IfStmt{Cond: cond, TrueBrch: trueBrch, FalseBrch: falseBrch}
}

func (p *Parser) whileStmt() *ast.WhileStmt {
	p.advance() // "while"
	p.expectOp("(")
	cond := p.expr()
	p.expectOp(")")
	p.loopDepth++
	body := p.stmt()
	p.loopDepth--
	return &ast.WhileStmt{Cond: cond, Body: body}
}

// forStmt parses the init/cond/update triple, declaring init's variable (if
// any) in a scope that spans the whole loop — cond, update and body all see
// it (spec.md §4.C: "the AST carries init as either expression or variable
// declaration; both lower uniformly").
func (p *Parser) forStmt() *ast.ForStmt {
	p.advance() // "for"
	p.expectOp("(")
	p.pushScope()

	var init ast.Stmt
	switch {
	case p.isOp(";"):
		init = &ast.EmptyStmt{}
		p.advance()
	case p.isKeyword("int"):
		init = p.varDeclStmt()
	default:
		x := p.expr()
		p.expectOp(";")
		init = &ast.ExprStmt{X: x}
	}

	var cond ast.Expr
	if !p.isOp(";") {
		cond = p.expr()
	}
	p.expectOp(";")

	var update ast.Stmt = &ast.EmptyStmt{}
	if !p.isOp(")") {
		update = &ast.ExprStmt{X: p.expr()}
	}
	p.expectOp(")")

	p.loopDepth++
	body := p.stmt()
	p.loopDepth--
	p.popScope()
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body}
}

// --- expressions (precedence climbing, lowest to highest) ---

func (p *Parser) expr() ast.Expr { return p.assignExpr() }

func (p *Parser) assignExpr() ast.Expr {
	left := p.ternaryExpr()
	if p.isOp("=") {
		p.advance()
		switch left.(type) {
		case *ast.VarRef, *ast.GlobalRef:
		default:
			p.errorf("invalid assignment target")
		}
		right := p.assignExpr()
		return &ast.AssignExpr{Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) ternaryExpr() ast.Expr {
	cond := p.logicOrExpr()
	if p.isOp("?") {
		p.advance()
		then := p.expr()
		p.expectOp(":")
		els := p.ternaryExpr()
		return &ast.CondExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) logicOrExpr() ast.Expr {
	left := p.logicAndExpr()
	for p.isOp("||") {
		p.advance()
		right := p.logicAndExpr()
		left = &ast.BinaryExpr{Op: ast.BinLOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) logicAndExpr() ast.Expr {
	left := p.equalityExpr()
	for p.isOp("&&") {
		p.advance()
		right := p.equalityExpr()
		left = &ast.BinaryExpr{Op: ast.BinLAnd, Left: left, Right: right}
	}
	return left
}

var equalityOps = map[string]ast.BinaryOp{"==": ast.BinEqu, "!=": ast.BinNeq}

func (p *Parser) equalityExpr() ast.Expr {
	left := p.relationalExpr()
	for {
		op, ok := equalityOps[p.tok.Text]
		if !ok || p.tok.Kind != TokOp {
			return left
		}
		p.advance()
		right := p.relationalExpr()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

var relationalOps = map[string]ast.BinaryOp{"<": ast.BinLes, "<=": ast.BinLeq, ">": ast.BinGtr, ">=": ast.BinGeq}

func (p *Parser) relationalExpr() ast.Expr {
	left := p.additiveExpr()
	for {
		op, ok := relationalOps[p.tok.Text]
		if !ok || p.tok.Kind != TokOp {
			return left
		}
		p.advance()
		right := p.additiveExpr()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

var additiveOps = map[string]ast.BinaryOp{"+": ast.BinAdd, "-": ast.BinSub}

func (p *Parser) additiveExpr() ast.Expr {
	left := p.multiplicativeExpr()
	for {
		op, ok := additiveOps[p.tok.Text]
		if !ok || p.tok.Kind != TokOp {
			return left
		}
		p.advance()
		right := p.multiplicativeExpr()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

var multiplicativeOps = map[string]ast.BinaryOp{"*": ast.BinMul, "/": ast.BinDiv, "%": ast.BinMod}

func (p *Parser) multiplicativeExpr() ast.Expr {
	left := p.unaryExpr()
	for {
		op, ok := multiplicativeOps[p.tok.Text]
		if !ok || p.tok.Kind != TokOp {
			return left
		}
		p.advance()
		right := p.unaryExpr()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) unaryExpr() ast.Expr {
	switch {
	case p.isOp("-"):
		p.advance()
		return &ast.UnaryExpr{Op: ast.UnaryNeg, Inner: p.unaryExpr()}
	case p.isOp("~"):
		p.advance()
		return &ast.UnaryExpr{Op: ast.UnaryBNot, Inner: p.unaryExpr()}
	case p.isOp("!"):
		p.advance()
		return &ast.UnaryExpr{Op: ast.UnaryLNot, Inner: p.unaryExpr()}
	default:
		return p.primaryExpr()
	}
}

func (p *Parser) primaryExpr() ast.Expr {
	switch {
	case p.tok.Kind == TokInt:
		v := p.tok.IntVal
		p.advance()
		return &ast.IntConst{Value: v}
	case p.isOp("("):
		p.advance()
		e := p.expr()
		p.expectOp(")")
		return e
	case p.tok.Kind == TokIdent && !isKeyword(p.tok.Text):
		name := p.tok.Text
		p.advance()
		if p.isOp("(") {
			p.advance()
			var args []ast.Expr
			if !p.isOp(")") {
				args = append(args, p.expr())
				for p.isOp(",") {
					p.advance()
					args = append(args, p.expr())
				}
			}
			p.expectOp(")")
			if _, ok := p.funcs[name]; !ok {
				p.errorf("call to undeclared function %q", name)
			} else if n := p.funcs[name]; n != len(args) {
				p.errorf("function %q called with %d arguments, want %d", name, len(args), n)
			}
			return &ast.CallExpr{Callee: name, Args: args}
		}
		return p.resolveName(name)
	default:
		p.errorf("unexpected token %q", p.tok.String())
		p.advance()
		return &ast.IntConst{Value: 0}
	}
}
