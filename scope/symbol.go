package scope

import (
	"fmt"

	"decaflang/decaf/token"
	"decaflang/decaf/types"
)

// Symbol is anything a scope can hold a name→entry binding for.
type Symbol interface {
	Name() string
	Pos() token.Pos
	Domain() Scope
	isSymbol()
}

// ClassSymbol names a class: its type, its member scope, its base class
// (nil at the root of a chain), and the set of inherited abstract method
// names that still need an override (notOverride).
type ClassSymbol struct {
	NameVal  string
	PosVal   token.Pos
	Abstract bool
	Type     *types.Class
	Scope    *ClassScope
	Super    *ClassSymbol

	// NotOverride holds the names of abstract methods (own or inherited)
	// that have not yet been given a concrete override. A non-abstract
	// class must end member resolution with this set empty.
	NotOverride map[string]bool

	IsMain bool

	domain Scope
}

func NewClassSymbol(name string, abstract bool, typ *types.Class, sc *ClassScope, super *ClassSymbol, pos token.Pos, domain Scope) *ClassSymbol {
	cs := &ClassSymbol{
		NameVal:     name,
		PosVal:      pos,
		Abstract:    abstract,
		Type:        typ,
		Scope:       sc,
		Super:       super,
		NotOverride: map[string]bool{},
		domain:      domain,
	}
	sc.Owner = cs
	return cs
}

func (c *ClassSymbol) Name() string   { return c.NameVal }
func (c *ClassSymbol) Pos() token.Pos { return c.PosVal }
func (c *ClassSymbol) Domain() Scope  { return c.domain }
func (*ClassSymbol) isSymbol()        {}

// MethodSymbol names a method or static function: its signature, the
// formal scope holding its parameters, and the class that declares it.
type MethodSymbol struct {
	NameVal  string
	PosVal   token.Pos
	Type     *types.Function
	Scope    *FormalScope
	Owner    *ClassSymbol
	Static   bool
	Abstract bool
	IsMain   bool

	domain Scope
}

func NewMethodSymbol(name string, typ *types.Function, sc *FormalScope, owner *ClassSymbol, static, abstract bool, pos token.Pos, domain Scope) *MethodSymbol {
	ms := &MethodSymbol{
		NameVal:  name,
		PosVal:   pos,
		Type:     typ,
		Scope:    sc,
		Owner:    owner,
		Static:   static,
		Abstract: abstract,
		domain:   domain,
	}
	sc.Owner = ms
	return ms
}

func (m *MethodSymbol) Name() string   { return m.NameVal }
func (m *MethodSymbol) Pos() token.Pos { return m.PosVal }
func (m *MethodSymbol) Domain() Scope  { return m.domain }
func (*MethodSymbol) isSymbol()        {}

// VarSymbol names a local variable, a formal parameter, or a class field.
// Type is nil until inferred for a `var`-declared local whose initializer
// has not yet been typed.
type VarSymbol struct {
	NameVal string
	PosVal  token.Pos
	Type    types.Type
	domain  Scope

	// Owner is set only for member variables (fields): the class that
	// declares them, used for the protected-access check on field reads.
	Owner *ClassSymbol
}

func NewVarSymbol(name string, typ types.Type, pos token.Pos, domain Scope) *VarSymbol {
	return &VarSymbol{NameVal: name, Type: typ, PosVal: pos, domain: domain}
}

// ThisVar builds the synthetic `this` binding declared at the top of every
// non-static method's formal scope.
func ThisVar(classType *types.Class, pos token.Pos, domain Scope) *VarSymbol {
	return &VarSymbol{NameVal: "this", Type: classType, PosVal: pos, domain: domain}
}

func (v *VarSymbol) Name() string   { return v.NameVal }
func (v *VarSymbol) Pos() token.Pos { return v.PosVal }
func (v *VarSymbol) Domain() Scope  { return v.domain }
func (*VarSymbol) isSymbol()        {}

// IsMemberVar reports whether this variable is a class field rather than
// a local or a formal parameter.
func (v *VarSymbol) IsMemberVar() bool {
	return v.domain != nil && v.domain.Kind() == ClassKind
}

// LambdaSymbol names a lambda literal. Its synthetic name embeds the
// source position so two lambdas never collide. LocalScope is nil for a
// block-bodied lambda (the block carries its own nested local scope).
type LambdaSymbol struct {
	NameVal     string
	PosVal      token.Pos
	Type        *types.Function
	LambdaScope *LambdaScope
	LocalScope  *LocalScope

	// Capture is every VarSymbol this lambda reads or writes that is
	// declared outside the lambda, in a non-class scope. Stable order of
	// first reference.
	Capture []*VarSymbol

	domain Scope
}

func NewLambdaSymbol(typ *types.Function, ls *LambdaScope, local *LocalScope, pos token.Pos, domain Scope) *LambdaSymbol {
	sym := &LambdaSymbol{
		NameVal:     fmt.Sprintf("lambda@%s", pos),
		PosVal:      pos,
		Type:        typ,
		LambdaScope: ls,
		LocalScope:  local,
		domain:      domain,
	}
	ls.Owner = sym
	return sym
}

func (l *LambdaSymbol) Name() string   { return l.NameVal }
func (l *LambdaSymbol) Pos() token.Pos { return l.PosVal }
func (l *LambdaSymbol) Domain() Scope  { return l.domain }
func (*LambdaSymbol) isSymbol()        {}

// AddCapture appends sym to the capture list if it isn't already present.
func (l *LambdaSymbol) AddCapture(sym *VarSymbol) {
	for _, c := range l.Capture {
		if c == sym {
			return
		}
	}
	l.Capture = append(l.Capture, sym)
}
