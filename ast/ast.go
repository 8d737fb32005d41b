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

// Package ast defines the validated, scope-resolved AST the backend
// consumes (spec.md §6's input contract). Node kinds dispatch via Go type
// switches in the lower package rather than an Accept/Visitor method set —
// spec.md §9's "sum-type dispatch" design note.
package ast

import "github.com/mkpreference/minidecaf/ir"

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Expr is implemented by every expression node. After lowering, Val carries
// the Temp holding the expression's run-time result (spec.md §4.C).
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TopLevel is implemented by FuncDecl and GlobalDecl.
type TopLevel interface {
	Node
	topLevelNode()
}

// Program is the root of a compilation unit: an ordered list of function and
// global-variable declarations (original_source's FOD/FuncOrGlobal list,
// SPEC_FULL.md §5).
type Program struct {
	Decls []TopLevel
}

func (*Program) node() {}

// FuncDecl is a function definition: name, resolved parameter Temps (filled
// in by lower.Program, one per Params entry, in order), and a body statement.
type FuncDecl struct {
	Name   string
	Params []*VarDecl
	Body   Stmt
}

func (*FuncDecl) node()         {}
func (*FuncDecl) topLevelNode() {}

// GlobalDecl is a top-level global variable with a constant initial value
// (riscv_md.cpp's Piece::GLOBAL, SPEC_FULL.md §5).
type GlobalDecl struct {
	Name string
	Init int
}

func (*GlobalDecl) node()         {}
func (*GlobalDecl) topLevelNode() {}

// --- Statements ---

// VarDecl declares a local variable, optionally with an initializer. Sym is
// bound by lower.Program when the declaration is visited (spec.md §4.C).
type VarDecl struct {
	Name string
	Init Expr // nil if no initializer
	Sym  *ir.Temp
}

func (*VarDecl) node()     {}
func (*VarDecl) stmtNode() {}

// EmptyStmt stands in for an absent if/for/else clause (spec.md §4.C).
type EmptyStmt struct{}

func (*EmptyStmt) node()     {}
func (*EmptyStmt) stmtNode() {}

// ExprStmt evaluates an expression for its side effects and discards the
// result.
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) node()     {}
func (*ExprStmt) stmtNode() {}

// CompStmt is a brace-delimited statement sequence; lowering opens and
// closes a scope around it (spec.md §4.C).
type CompStmt struct {
	Stmts []Stmt
}

func (*CompStmt) node()     {}
func (*CompStmt) stmtNode() {}

// IfStmt: TrueBrch and FalseBrch are never nil — an absent branch is an
// EmptyStmt (spec.md §4.C).
type IfStmt struct {
	Cond      Expr
	TrueBrch  Stmt
	FalseBrch Stmt
}

func (*IfStmt) node()     {}
func (*IfStmt) stmtNode() {}

// WhileStmt is a pretest loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) node()     {}
func (*WhileStmt) stmtNode() {}

// ForStmt: Init is either a *VarDecl or an Expr wrapped as *ExprStmt (and
// Init itself may be an *EmptyStmt); Update is nil-able via *EmptyStmt as
// well, both lowering uniformly (spec.md §4.C).
type ForStmt struct {
	Init   Stmt
	Cond   Expr // nil means "always true"
	Update Stmt
	Body   Stmt
}

func (*ForStmt) node()     {}
func (*ForStmt) stmtNode() {}

// BreakStmt / ContinueStmt must appear only inside a loop; lower.Program
// asserts this (spec.md §4.C, §7).
type BreakStmt struct{}

func (*BreakStmt) node()     {}
func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{}

func (*ContinueStmt) node()     {}
func (*ContinueStmt) stmtNode() {}

// ReturnStmt: X is nil for a bare `return;` in a void-equivalent context —
// Mind only has int functions, so in practice X is always non-nil at the
// AST-contract boundary (spec.md §6).
type ReturnStmt struct {
	X Expr
}

func (*ReturnStmt) node()     {}
func (*ReturnStmt) stmtNode() {}

// --- Expressions ---

// IntConst is an integer literal.
type IntConst struct {
	Value int
	Val   *ir.Temp
}

func (*IntConst) node()     {}
func (*IntConst) exprNode() {}

// UnaryOp distinguishes the three unary TAC tags (spec.md §3).
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryBNot
	UnaryLNot
)

type UnaryExpr struct {
	Op    UnaryOp
	Inner Expr
	Val   *ir.Temp
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// BinaryOp distinguishes every binary TAC tag (arithmetic, comparison,
// short-circuit logical).
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEqu
	BinNeq
	BinLes
	BinLeq
	BinGtr
	BinGeq
	BinLAnd // short-circuit &&
	BinLOr  // short-circuit ||
)

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Val   *ir.Temp
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// CondExpr is the ternary `c ? a : b` (original_source's IfExpr).
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Val  *ir.Temp
}

func (*CondExpr) node()     {}
func (*CondExpr) exprNode() {}

// AssignExpr: Lhs is always a VarRef or GlobalRef in this language (no
// pointers/arrays, spec.md §1 Non-goals).
type AssignExpr struct {
	Lhs Expr
	Rhs Expr
	Val *ir.Temp
}

func (*AssignExpr) node()     {}
func (*AssignExpr) exprNode() {}

// VarRef references a resolved local variable or parameter. Sym is bound by
// the front end's name resolution to the VarDecl (or parameter VarDecl) this
// reference names; by the time any well-formed program reaches a VarRef, the
// referenced VarDecl has already been lowered and Sym.Sym is non-nil
// (declarations precede uses, spec.md §6).
type VarRef struct {
	Name string
	Sym  *VarDecl
	Val  *ir.Temp
}

func (*VarRef) node()     {}
func (*VarRef) exprNode() {}

// GlobalRef references a resolved global variable: lowers to LOAD_SYMBOL +
// LOAD when read, LOAD_SYMBOL + STORE when it is the target of an
// AssignExpr (spec.md §4.C).
type GlobalRef struct {
	Name string
	Val  *ir.Temp
}

func (*GlobalRef) node()     {}
func (*GlobalRef) exprNode() {}

// CallExpr: Args are evaluated left-to-right before the contiguous PARAM run
// that immediately precedes CALL (spec.md §4.C — a contract the code
// generator's call-site protocol depends on).
type CallExpr struct {
	Callee string
	Args   []Expr
	Val    *ir.Temp
}

func (*CallExpr) node()     {}
func (*CallExpr) exprNode() {}
