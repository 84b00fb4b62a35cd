package ast

import (
	"decaflang/decaf/scope"
)

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase
	Value bool
}

// StringLit is a string literal.
type StringLit struct {
	ExprBase
	Value string
}

// NullLit is the `null` literal.
type NullLit struct {
	ExprBase
}

// This is the `this` expression.
type This struct {
	ExprBase
}

// Unary is a unary operator expression: `-e` or `!e`.
type Unary struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// Binary is a binary operator expression.
type Binary struct {
	ExprBase
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
}

// NewArray is `new T[n]`.
type NewArray struct {
	ExprBase
	ElemType TypeLit
	Length   Expr
}

// NewClass is `new C()`.
type NewClass struct {
	ExprBase
	ClassName string

	Symbol *scope.ClassSymbol
}

// VarSel is a (possibly receiver-qualified) name reference: a bare local
// or member variable, a class name used as a value, or a member method
// name used as a value (to be immediately called). Receiver is nil for a
// bare name; HasThis records whether the typer rewrote it to carry an
// implicit `this` receiver.
type VarSel struct {
	ExprBase
	Receiver Expr
	Name     string

	Symbol             scope.Symbol
	IsClassName        bool
	IsArrayLength      bool
	IsMemberMethodName bool
	HasThis            bool
}

// SetThis records that this bare member reference carries an implicit
// `this` receiver, for later TAC emission.
func (v *VarSel) SetThis() { v.HasThis = true }

// IndexSel is `arr[i]`.
type IndexSel struct {
	ExprBase
	Array Expr
	Index Expr
}

// Call is a function/method call, `f(args...)`.
type Call struct {
	ExprBase
	Func          Expr
	Args          []Expr
	IsArrayLength bool
}

// ClassTest is `obj instanceof C`.
type ClassTest struct {
	ExprBase
	Obj       Expr
	ClassName string

	Symbol *scope.ClassSymbol
}

// ClassCast is `(class C) obj`.
type ClassCast struct {
	ExprBase
	Obj       Expr
	ClassName string

	Symbol *scope.ClassSymbol
}

// Lambda is a lambda literal, either expression-bodied (Expr set, Body
// nil) or block-bodied (Body set, Expr nil).
type Lambda struct {
	ExprBase
	Params []*Formal
	Expr   Expr
	Body   *Block

	Symbol *scope.LambdaSymbol
}
