// Package ast defines Decaf's abstract syntax tree and the annotation
// fields the semantic analysis core fills in as it walks it.
package ast

import (
	"decaflang/decaf/scope"
	"decaflang/decaf/token"
	"decaflang/decaf/types"
)

// Node is anything with a source position.
type Node interface {
	Pos() token.Pos
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node; every Expr acquires a Type during typing.
type Expr interface {
	Node
	exprNode()
	GetType() types.Type
	SetType(types.Type)
}

// Field is a class member: either a VarDef or a MethodDef.
type Field interface {
	Node
	fieldNode()
}

// TypeLit is a type syntax node: TInt, TBool, TString, TVoid, TClass,
// TArray or TLambda. Both passes resolve it to a semantic Type via the
// shared type-literal resolver.
type TypeLit interface {
	Node
	typeLitNode()
	GetType() types.Type
	SetType(types.Type)
}

// ExprBase is embedded by every Expr implementation.
type ExprBase struct {
	PosVal token.Pos
	Type   types.Type
}

func (e *ExprBase) Pos() token.Pos      { return e.PosVal }
func (*ExprBase) exprNode()             {}
func (e *ExprBase) GetType() types.Type { return e.Type }
func (e *ExprBase) SetType(t types.Type) { e.Type = t }

// StmtBase is embedded by every Stmt implementation.
type StmtBase struct {
	PosVal  token.Pos
	Returns bool
	IsClose bool
}

func (s *StmtBase) Pos() token.Pos { return s.PosVal }
func (*StmtBase) stmtNode()        {}

// TypeLitBase is embedded by every TypeLit implementation.
type TypeLitBase struct {
	PosVal token.Pos
	Type   types.Type
}

func (t *TypeLitBase) Pos() token.Pos      { return t.PosVal }
func (*TypeLitBase) typeLitNode()          {}
func (t *TypeLitBase) GetType() types.Type { return t.Type }
func (t *TypeLitBase) SetType(u types.Type) { t.Type = u }

// TopLevel is the root of the tree: every class in the source file, plus
// the scope tree and main-class pointer the namer fills in.
type TopLevel struct {
	Classes     []*ClassDef
	GlobalScope *scope.GlobalScope
	MainClass   *scope.ClassSymbol
}

func (t *TopLevel) Pos() token.Pos { return token.NoPos }
