package scope

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"

	"decaflang/decaf/token"
	"decaflang/decaf/types"
)

func buildSimpleHierarchy() (*GlobalScope, *ClassSymbol, *ClassSymbol) {
	global := NewGlobalScope()

	aType := types.NewClass("A", nil)
	aScope := NewClassScope(nil)
	a := NewClassSymbol("A", false, aType, aScope, nil, token.NoPos, global)
	global.Declare(a)

	bType := types.NewClass("B", aType)
	bScope := NewClassScope(aScope)
	b := NewClassSymbol("B", false, bType, bScope, a, token.NoPos, global)
	global.Declare(b)

	return global, a, b
}

func TestClassScopeInheritsMembers(t *testing.T) {
	global, a, b := buildSimpleHierarchy()

	x := NewVarSymbol("x", types.Int, token.NoPos, a.Scope)
	a.Scope.Declare(x)

	sym, ok := b.Scope.Lookup("x")
	if !ok || sym != x {
		t.Fatalf("expected B's scope to inherit field x from A")
	}
	_ = global
}

func TestScopeStackLookupThroughNesting(t *testing.T) {
	global, _, b := buildSimpleHierarchy()
	stack := NewScopeStack(global)

	method := NewMethodSymbol("m", types.NewFunction(types.Void, nil), NewFormalScope(), b, false, false, token.NoPos, b.Scope)
	b.Scope.Declare(method)

	stack.Open(b.Scope)
	stack.Open(method.Scope)

	thisVar := ThisVar(b.Type, token.NoPos, method.Scope)
	stack.Declare(thisVar)

	local := NewLocalScope(method.Scope)
	stack.Open(local)

	y := NewVarSymbol("y", types.Int, token.NoPos, local)
	stack.Declare(y)

	if sym, ok := stack.Lookup("y"); !ok || sym != y {
		t.Fatalf("expected to find local var y")
	}
	if sym, ok := stack.Lookup("this"); !ok || sym != thisVar {
		t.Fatalf("expected to find this var through formal scope")
	}
	if stack.CurrentClass() != b {
		t.Fatalf("expected current class to be B")
	}
	if stack.CurrentMethod() != method {
		t.Fatalf("expected current method to be m")
	}
}

func TestLookupBeforeExcludesSelfReference(t *testing.T) {
	global, _, b := buildSimpleHierarchy()
	stack := NewScopeStack(global)
	stack.Open(b.Scope)

	local := NewLocalScope(b.Scope)
	stack.Open(local)

	declPos := token.Pos{Line: 5, Column: 1}
	x := NewVarSymbol("x", nil, declPos, local)
	stack.Declare(x)

	if _, ok := stack.LookupBefore("x", declPos); ok {
		t.Fatalf("expected lookupBefore to hide a symbol declared at or after pos")
	}

	laterPos := token.Pos{Line: 6, Column: 1}
	if sym, ok := stack.LookupBefore("x", laterPos); !ok || sym != x {
		t.Fatalf("expected lookupBefore to find a symbol declared strictly before pos")
	}
}

func TestFindConflictSkipsGlobalNamespace(t *testing.T) {
	global, a, _ := buildSimpleHierarchy()
	stack := NewScopeStack(global)
	stack.Open(a.Scope)

	if _, ok := stack.FindConflict("A"); ok {
		t.Fatalf("class names live in a separate namespace; FindConflict must not see them")
	}

	x := NewVarSymbol("x", types.Int, token.NoPos, a.Scope)
	stack.Declare(x)
	if sym, ok := stack.FindConflict("x"); !ok || sym != x {
		t.Fatalf("expected to find the same-scope field x as a conflict")
	}
}

func TestPrettyPrintRoundTripsSymbolOrder(t *testing.T) {
	global, a, _ := buildSimpleHierarchy()

	x := NewVarSymbol("x", types.Int, token.NoPos, a.Scope)
	y := NewVarSymbol("y", types.Bool, token.NoPos, a.Scope)
	a.Scope.Declare(x)
	a.Scope.Declare(y)

	names := make([]string, 0)
	for _, s := range a.Scope.Symbols() {
		names = append(names, s.Name())
	}
	if diff := deep.Equal(names, []string{"x", "y"}); diff != nil {
		t.Fatalf("expected insertion order x,y, diff: %v", diff)
	}

	var buf bytes.Buffer
	PrettyPrint(&buf, global)
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty scope dump")
	}
	xAt := bytes.Index(buf.Bytes(), []byte("var x : int"))
	yAt := bytes.Index(buf.Bytes(), []byte("var y : bool"))
	if xAt < 0 || yAt < 0 || xAt > yAt {
		t.Fatalf("expected the dump to list x before y, got:\n%s", buf.String())
	}
}
