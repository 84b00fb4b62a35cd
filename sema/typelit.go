package sema

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/scope"
	"decaflang/decaf/types"
)

// resolveTypeLit turns a type-syntax node into the semantic Type it
// denotes, stashing the result on the node itself so both passes can reuse
// it without re-resolving. Shared by the namer (explicit field/param/local
// types) and the typer (local declaration types and `new T[n]` element
// types).
func resolveTypeLit(t ast.TypeLit, stack *scope.ScopeStack, sink *Sink) types.Type {
	if t == nil {
		return types.Error
	}
	if got := t.GetType(); got != nil {
		return got
	}

	var resolved types.Type
	switch lit := t.(type) {
	case *ast.TInt:
		resolved = types.Int
	case *ast.TBool:
		resolved = types.Bool
	case *ast.TString:
		resolved = types.String
	case *ast.TVoid:
		resolved = types.Void
	case *ast.TClass:
		cs, ok := stack.LookupClass(lit.Name)
		if !ok {
			sink.ClassNotFound(lit.Pos(), lit.Name)
			resolved = types.Error
		} else {
			resolved = cs.Type
		}
	case *ast.TArray:
		elem := resolveTypeLit(lit.Elem, stack, sink)
		if elem.IsVoidType() {
			sink.BadArrElement(lit.Pos())
			resolved = types.Error
		} else if elem.HasError() {
			resolved = types.Error
		} else {
			resolved = types.NewArray(elem)
		}
	case *ast.TLambda:
		ret := resolveTypeLit(lit.Ret, stack, sink)
		args := make([]types.Type, len(lit.Params))
		bad := ret.HasError()
		for i, p := range lit.Params {
			pt := resolveTypeLit(p, stack, sink)
			if pt.IsVoidType() {
				sink.VoidArgs(p.Pos())
				bad = true
			} else if pt.HasError() {
				bad = true
			}
			args[i] = pt
		}
		if bad {
			resolved = types.Error
		} else {
			resolved = types.NewFunction(ret, args)
		}
	default:
		resolved = types.Error
	}

	t.SetType(resolved)
	return resolved
}
