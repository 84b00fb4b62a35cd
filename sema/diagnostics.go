// Package sema implements the two-pass semantic analyzer: a name resolver
// ("Namer") followed by a type checker ("Typer"), both sharing a scope
// stack and a diagnostic sink.
package sema

import (
	"fmt"

	"decaflang/decaf/token"
)

// Diagnostic is one reported problem, carrying enough to format and sort
// it without re-walking the tree.
type Diagnostic struct {
	Pos     token.Pos
	Kind    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// Sink accumulates diagnostics in encounter order. Nothing is ever thrown;
// callers keep going and let Error types suppress cascades.
type Sink struct {
	diags []Diagnostic
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Diagnostics() []Diagnostic { return s.diags }
func (s *Sink) HasErrors() bool           { return len(s.diags) > 0 }

func (s *Sink) add(pos token.Pos, kind, msg string) {
	s.diags = append(s.diags, Diagnostic{Pos: pos, Kind: kind, Message: msg})
}

func (s *Sink) DeclConflict(pos token.Pos, name string) {
	s.add(pos, "DeclConflict", fmt.Sprintf("declaration of '%s' conflicts with an earlier declaration in the same scope", name))
}

func (s *Sink) ClassNotFound(pos token.Pos, name string) {
	s.add(pos, "ClassNotFound", fmt.Sprintf("class '%s' not found", name))
}

func (s *Sink) BadInheritance(pos token.Pos) {
	s.add(pos, "BadInheritance", "illegal class inheritance (a cycle was detected)")
}

func (s *Sink) NoAbstract(pos token.Pos, class string) {
	s.add(pos, "NoAbstract", fmt.Sprintf("'%s' is not abstract and does not override all abstract methods", class))
}

func (s *Sink) NoMainClass(pos token.Pos) {
	s.add(pos, "NoMainClass", "no legal Main class named 'Main' was found")
}

func (s *Sink) BadOverride(pos token.Pos, method, class string) {
	s.add(pos, "BadOverride", fmt.Sprintf("overriding method '%s' doesn't match the type signature in class '%s'", method, class))
}

func (s *Sink) OverridingVar(pos token.Pos, name string) {
	s.add(pos, "OverridingVar", fmt.Sprintf("overriding variable '%s' is not allowed for vars", name))
}

func (s *Sink) UndeclVar(pos token.Pos, name string) {
	s.add(pos, "UndeclVar", fmt.Sprintf("undeclared variable '%s'", name))
}

func (s *Sink) BadVarType(pos token.Pos, name string) {
	s.add(pos, "BadVarType", fmt.Sprintf("variable '%s' cannot be declared void", name))
}

func (s *Sink) BadArrElement(pos token.Pos) {
	s.add(pos, "BadArrElement", "array element type must be a non-void known type")
}

func (s *Sink) VoidArgs(pos token.Pos) {
	s.add(pos, "VoidArgs", "arguments in function type must be non-void known type")
}

func (s *Sink) AssignToCapturedVar(pos token.Pos, name string) {
	s.add(pos, "AssignToCapturedVar", fmt.Sprintf("cannot assign to variable '%s' captured from an enclosing scope", name))
}

func (s *Sink) AssignToMemberMethod(pos token.Pos, name string) {
	s.add(pos, "AssignToMemberMethod", fmt.Sprintf("cannot assign value to class member method '%s'", name))
}

func (s *Sink) BreakOutOfLoop(pos token.Pos) {
	s.add(pos, "BreakOutOfLoop", "'break' is only allowed inside a loop")
}

func (s *Sink) MissingReturn(pos token.Pos) {
	s.add(pos, "MissingReturn", "missing return statement: not all paths return a value")
}

func (s *Sink) BadReturnType(pos token.Pos, got, want string) {
	s.add(pos, "BadReturnType", fmt.Sprintf("incompatible return type: expected '%s', found '%s'", want, got))
}

func (s *Sink) BadPrintArg(pos token.Pos, index int, got string) {
	s.add(pos, "BadPrintArg", fmt.Sprintf("argument %d of Print should be int/bool/string but got '%s' instead", index, got))
}

func (s *Sink) BadTestExpr(pos token.Pos) {
	s.add(pos, "BadTestExpr", "test expression must have bool type")
}

func (s *Sink) IncompatUnOp(pos token.Pos, op, operand string) {
	s.add(pos, "IncompatUnOp", fmt.Sprintf("incompatible operand: %s%s", op, operand))
}

func (s *Sink) IncompatBinOp(pos token.Pos, lhs, op, rhs string) {
	s.add(pos, "IncompatBinOp", fmt.Sprintf("incompatible operand types: %s %s %s", lhs, op, rhs))
}

func (s *Sink) NotCallable(pos token.Pos, got string) {
	s.add(pos, "NotCallable", fmt.Sprintf("'%s' is not a function and cannot be called", got))
}

func (s *Sink) NotArray(pos token.Pos, got string) {
	s.add(pos, "NotArray", fmt.Sprintf("'%s' is not an array type", got))
}

func (s *Sink) NotClass(pos token.Pos, got string) {
	s.add(pos, "NotClass", fmt.Sprintf("'%s' is not a class type", got))
}

func (s *Sink) SubNotInt(pos token.Pos, got string) {
	s.add(pos, "SubNotInt", fmt.Sprintf("array subscript must be an integer, found '%s'", got))
}

func (s *Sink) BadNewArrayLength(pos token.Pos, got string) {
	s.add(pos, "BadNewArrayLength", fmt.Sprintf("array length must be an integer, found '%s'", got))
}

func (s *Sink) BadArgCount(pos token.Pos, name string, want, got int) {
	if name == "" {
		s.add(pos, "BadArgCount", fmt.Sprintf("function expects %d argument(s) but %d given", want, got))
		return
	}
	s.add(pos, "BadArgCount", fmt.Sprintf("function '%s' expects %d argument(s) but %d given", name, want, got))
}

func (s *Sink) BadArgType(pos token.Pos, index int, got, want string) {
	s.add(pos, "BadArgType", fmt.Sprintf("incompatible argument %d: '%s' given, '%s' expected", index, got, want))
}

func (s *Sink) BadLengthArg(pos token.Pos) {
	s.add(pos, "BadLengthArg", "length() should have no arguments")
}

func (s *Sink) RefNonStatic(pos token.Pos, name string) {
	s.add(pos, "RefNonStatic", fmt.Sprintf("cannot reference a non-static member '%s' from a static method", name))
}

func (s *Sink) NotClassField(pos token.Pos, name string) {
	s.add(pos, "NotClassField", fmt.Sprintf("cannot access non-static member '%s' through a class name", name))
}

func (s *Sink) FieldNotAccess(pos token.Pos, name, owner string) {
	s.add(pos, "FieldNotAccess", fmt.Sprintf("member '%s' of class '%s' is not accessible from this scope", name, owner))
}

func (s *Sink) FieldNotFound(pos token.Pos, name, class string) {
	s.add(pos, "FieldNotFound", fmt.Sprintf("field '%s' not found in class '%s'", name, class))
}

func (s *Sink) BadInstantiate(pos token.Pos, class string) {
	s.add(pos, "BadInstantiate", fmt.Sprintf("cannot instantiate abstract class '%s'", class))
}

func (s *Sink) BadVarTypeMismatch(pos token.Pos, got, want string) {
	s.add(pos, "BadVarType", fmt.Sprintf("cannot assign value of type '%s' to a variable of type '%s'", got, want))
}

func (s *Sink) IncompatRetType(pos token.Pos) {
	s.add(pos, "IncompatRetType", "incompatible return types in blocked expression")
}
