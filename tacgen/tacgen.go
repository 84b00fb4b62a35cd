// Package tacgen is the thin hand-off point between the semantic core and
// a real code generator: given a fully annotated, diagnostic-free tree it
// declares one LLVM function per concrete method, without emitting any
// instruction bodies. Lambdas are not declared. A full backend is out of scope; this
// exists to exercise the handoff itself.
package tacgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"decaflang/decaf/ast"
	"decaflang/decaf/scope"
	decaftypes "decaflang/decaf/types"
)

// Stub builds a skeletal ir.Module from an annotated tree. Callers are
// expected to have already run the namer and typer and confirmed there
// are no diagnostics; Stub does not itself validate anything.
type Stub struct {
	module  *ir.Module
	classes map[string]types.Type
}

func NewStub() *Stub {
	return &Stub{
		module:  ir.NewModule(),
		classes: make(map[string]types.Type),
	}
}

// Generate walks top and returns the resulting module. One function is
// declared per non-abstract method (static and instance alike — instance
// methods take an extra leading `this` parameter). Lambda bodies are left
// for a real backend to lower; Stub only needs the method-level surface
// to demonstrate the hand-off.
func (s *Stub) Generate(top *ast.TopLevel) *ir.Module {
	if top.GlobalScope == nil {
		return s.module
	}
	for _, sym := range top.GlobalScope.Symbols() {
		cs, ok := sym.(*scope.ClassSymbol)
		if !ok {
			continue
		}
		s.declareClass(cs)
	}
	return s.module
}

func (s *Stub) declareClass(cs *scope.ClassSymbol) {
	s.classes[cs.Name()] = types.NewPointer(types.I8)
	for _, member := range cs.Scope.Symbols() {
		ms, ok := member.(*scope.MethodSymbol)
		if !ok || ms.Abstract {
			continue
		}
		s.declareMethod(cs, ms)
	}
}

func (s *Stub) declareMethod(cs *scope.ClassSymbol, ms *scope.MethodSymbol) {
	retType := llvmType(ms.Type.Ret)
	fn := s.module.NewFunc(mangle(cs.Name(), ms.Name()), retType)
	if !ms.Static {
		fn.Params = append(fn.Params, ir.NewParam("this", types.NewPointer(types.I8)))
	}
	for i, argType := range ms.Type.Args {
		fn.Params = append(fn.Params, ir.NewParam(fmt.Sprintf("arg%d", i), llvmType(argType)))
	}
}

// mangle produces a unique symbol name for a class method, matching the
// teacher's ClassName_methodName convention for generated constructors.
func mangle(class, method string) string {
	return fmt.Sprintf("%s_%s", class, method)
}

// llvmType derives a rough, declaration-level LLVM type from a Decaf type.
// Array and class values are both represented as opaque pointers, since
// Stub never needs to read or write through them.
func llvmType(t decaftypes.Type) types.Type {
	if t == nil {
		return types.Void
	}
	switch {
	case t.IsVoidType():
		return types.Void
	case t.IsArrayType(), t.IsClassType():
		return types.NewPointer(types.I8)
	case t.IsFuncType():
		return types.NewPointer(types.I8)
	}
	switch t.String() {
	case "int":
		return types.I32
	case "bool":
		return types.I1
	case "string":
		return types.NewPointer(types.I8)
	default:
		return types.Void
	}
}
