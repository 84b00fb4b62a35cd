package ast

import (
	"decaflang/decaf/scope"
	"decaflang/decaf/token"
)

// ClassDef is a top-level class declaration.
type ClassDef struct {
	PosVal     token.Pos
	Name       string
	ParentName string // "" if there is no `extends` clause
	HasParent  bool
	SuperClass *ClassDef // filled in by the namer once the parent resolves
	IsAbstract bool
	Fields     []Field

	Symbol   *scope.ClassSymbol
	Resolved bool // namer's member-resolution visited flag
}

func (c *ClassDef) Pos() token.Pos { return c.PosVal }

// VarDef is a class field declaration.
type VarDef struct {
	PosVal  token.Pos
	Name    string
	TypeLit TypeLit

	Symbol *scope.VarSymbol
}

func (v *VarDef) Pos() token.Pos { return v.PosVal }
func (*VarDef) fieldNode()       {}

// MethodDef is a class method declaration. Body is nil for an abstract
// method.
type MethodDef struct {
	PosVal     token.Pos
	IDPos      token.Pos // position of the method's own name, for `this`
	Name       string
	IsStatic   bool
	IsAbstract bool
	ReturnType TypeLit
	Params     []*Formal
	Body       *Block

	Symbol *scope.MethodSymbol
}

func (m *MethodDef) Pos() token.Pos { return m.PosVal }
func (*MethodDef) fieldNode()       {}

// Formal is a method or lambda parameter.
type Formal struct {
	PosVal  token.Pos
	Name    string
	TypeLit TypeLit

	Symbol *scope.VarSymbol
}

func (f *Formal) Pos() token.Pos { return f.PosVal }
