package sema

import (
	"strings"
	"testing"

	"decaflang/decaf/ast"
	"decaflang/decaf/lexer"
	"decaflang/decaf/parser"
)

func parseProgram(t *testing.T, src string) *ast.TopLevel {
	t.Helper()
	l := lexer.NewLexer(strings.NewReader(src))
	p := parser.New(l)
	top := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors for %q: %v", src, errs)
	}
	return top
}

func analyze(t *testing.T, src string) (*ast.TopLevel, *Sink) {
	t.Helper()
	top := parseProgram(t, src)
	sink := NewSink()
	NewNamer(sink).Run(top)
	if !sink.HasErrors() {
		NewTyper(sink, top.GlobalScope).Run(top)
	}
	return top, sink
}

func kindsOf(sink *Sink) []string {
	var ks []string
	for _, d := range sink.Diagnostics() {
		ks = append(ks, d.Kind)
	}
	return ks
}

func hasKind(sink *Sink, kind string) bool {
	for _, d := range sink.Diagnostics() {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func countKind(sink *Sink, kind string) int {
	n := 0
	for _, d := range sink.Diagnostics() {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func TestValidThreeLevelInheritanceChain(t *testing.T) {
	src := `
	class Animal {
		string name;
		string speak() { return "..."; }
	}
	class Dog extends Animal {
		string speak() { return "woof"; }
	}
	class Puppy extends Dog {
		string speak() { return "yip"; }
	}
	class Main {
		static void main() {
			Animal a = new Puppy();
			Print(a.speak());
		}
	}`
	top, sink := analyze(t, src)
	if sink.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", kindsOf(sink))
	}
	if top.MainClass == nil {
		t.Fatalf("expected Main class to be located")
	}

	main := top.Classes[3].Fields[0].(*ast.MethodDef)
	localDef := main.Body.Stmts[0].(*ast.LocalVarDef)
	if localDef.InitVal.GetType() == nil {
		t.Fatalf("expected new Puppy() to have an assigned type")
	}
	if main.Body.Scope == nil {
		t.Fatalf("expected method body block to carry a scope")
	}
}

func TestInheritanceCycleReportsExactlyOne(t *testing.T) {
	src := `
	class A extends B { }
	class B extends A { }
	class Main {
		static void main() { }
	}`
	_, sink := analyze(t, src)
	if n := countKind(sink, "BadInheritance"); n != 1 {
		t.Fatalf("expected exactly one BadInheritance, got %d (%v)", n, kindsOf(sink))
	}
}

func TestUnimplementedAbstractMethodReportsNoAbstract(t *testing.T) {
	src := `
	abstract class Shape {
		abstract int area();
	}
	class Circle extends Shape {
	}
	class Main {
		static void main() { }
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "NoAbstract") {
		t.Fatalf("expected NoAbstract, got %v", kindsOf(sink))
	}
}

func TestSelfReferencingVarInitializerIsUndeclared(t *testing.T) {
	src := `
	class Main {
		static void main() {
			var x = x + 1;
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "UndeclVar") {
		t.Fatalf("expected UndeclVar, got %v", kindsOf(sink))
	}
}

func TestExplicitlyTypedSelfReferencingInitializerIsUndeclared(t *testing.T) {
	src := `
	class Main {
		static void main() {
			int x = x + 1;
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "UndeclVar") {
		t.Fatalf("expected UndeclVar, got %v", kindsOf(sink))
	}
}

func TestLocalShadowingParamIsDeclConflict(t *testing.T) {
	src := `
	class Main {
		static void main() {
			foo(1);
		}
		static void foo(int x) {
			{
				int x;
			}
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "DeclConflict") {
		t.Fatalf("expected DeclConflict, got %v", kindsOf(sink))
	}
}

func TestLocalShadowingOuterBlockLocalIsDeclConflict(t *testing.T) {
	src := `
	class Main {
		static void main() {
			int y;
			{
				int y;
			}
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "DeclConflict") {
		t.Fatalf("expected DeclConflict, got %v", kindsOf(sink))
	}
}

func TestSelfReferencingVarShadowingOuterLocalStopsAtDeclConflict(t *testing.T) {
	src := `
	class Main {
		static void main() {
			int x = 0;
			{
				var x = x + 1;
			}
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "DeclConflict") {
		t.Fatalf("expected DeclConflict, got %v", kindsOf(sink))
	}
	if !hasKind(sink, "UndeclVar") {
		t.Fatalf("expected UndeclVar for the self-reference even though an outer 'x' exists, got %v", kindsOf(sink))
	}
}

func TestBinaryOpWithOneErrorOperandDoesNotCascade(t *testing.T) {
	src := `
	class Main {
		static void main() {
			bool b = undeclared + "s";
		}
	}`
	_, sink := analyze(t, src)
	if hasKind(sink, "IncompatBinOp") {
		t.Fatalf("expected the Error operand to suppress IncompatBinOp, got %v", kindsOf(sink))
	}
	if !hasKind(sink, "UndeclVar") {
		t.Fatalf("expected UndeclVar for the undeclared operand, got %v", kindsOf(sink))
	}
}

func TestBadNewArrayLengthForNonIntLength(t *testing.T) {
	src := `
	class Main {
		static void main() {
			var a = new int[true];
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "BadNewArrayLength") {
		t.Fatalf("expected BadNewArrayLength, got %v", kindsOf(sink))
	}
}

func TestBareReturnDoesNotCountAsReturningAValue(t *testing.T) {
	src := `
	class Main {
		static void main() {
			return;
		}
	}
	class Other {
		int f() {
			if (true) {
				return;
			}
			return 1;
		}
	}`
	_, sink := analyze(t, src)
	if hasKind(sink, "MissingReturn") {
		t.Fatalf("did not expect MissingReturn, got %v", kindsOf(sink))
	}
}

func TestLambdaWithNoFreeVariablesHasEmptyCapture(t *testing.T) {
	src := `
	class Main {
		static void main() {
			var f = fun(int x) => x + 1;
			Print(f(3));
		}
	}`
	top, sink := analyze(t, src)
	if sink.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", kindsOf(sink))
	}

	main := top.Classes[0].Fields[0].(*ast.MethodDef)
	lv := main.Body.Stmts[0].(*ast.LocalVarDef)
	lam := lv.InitVal.(*ast.Lambda)
	if lam.Symbol == nil {
		t.Fatalf("expected the lambda to have a symbol")
	}
	if len(lam.Symbol.Capture) != 0 {
		t.Fatalf("expected an empty capture list, got %v", lam.Symbol.Capture)
	}
}

func TestLambdaAssigningToCapturedLocalIsRejected(t *testing.T) {
	src := `
	class Main {
		static void main() {
			var count = 0;
			var inc = fun() {
				count = count + 1;
				return count;
			};
		}
	}`
	top, sink := analyze(t, src)
	if !hasKind(sink, "AssignToCapturedVar") {
		t.Fatalf("expected AssignToCapturedVar, got %v", kindsOf(sink))
	}

	main := top.Classes[0].Fields[0].(*ast.MethodDef)
	countDef := main.Body.Stmts[0].(*ast.LocalVarDef)
	incDef := main.Body.Stmts[1].(*ast.LocalVarDef)
	lam := incDef.InitVal.(*ast.Lambda)

	found := false
	for _, c := range lam.Symbol.Capture {
		if c == countDef.Symbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected count to appear in the lambda's capture list, got %v", lam.Symbol.Capture)
	}
}

func TestDiagnosticsAreOrderedBySourcePosition(t *testing.T) {
	src := `
	class Main {
		static void main() {
			y = 1;
			z = 2;
		}
	}`
	_, sink := analyze(t, src)
	diags := sink.Diagnostics()
	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1].Pos, diags[i].Pos
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Fatalf("diagnostics out of source-position order: %v then %v", prev, cur)
		}
	}
}

func TestBadOverrideSignatureMismatch(t *testing.T) {
	src := `
	class Animal {
		string speak() { return "..."; }
	}
	class Dog extends Animal {
		int speak() { return 1; }
	}
	class Main {
		static void main() { }
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "BadOverride") {
		t.Fatalf("expected BadOverride, got %v", kindsOf(sink))
	}
}

func TestCovariantReturnOverrideIsAccepted(t *testing.T) {
	src := `
	class Animal {
		Animal reproduce() { return new Animal(); }
	}
	class Dog extends Animal {
		Dog reproduce() { return new Dog(); }
	}
	class Main {
		static void main() { }
	}`
	_, sink := analyze(t, src)
	if hasKind(sink, "BadOverride") {
		t.Fatalf("expected the covariant-return override to be accepted, got %v", kindsOf(sink))
	}
}

func TestAbstractInstantiationIsRejected(t *testing.T) {
	src := `
	abstract class Shape {
		abstract int area();
	}
	class Main {
		static void main() {
			Shape s = new Shape();
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "BadInstantiate") {
		t.Fatalf("expected BadInstantiate, got %v", kindsOf(sink))
	}
}

func TestMissingMainClassIsReported(t *testing.T) {
	src := `
	class Foo {
		void bar() { }
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "NoMainClass") {
		t.Fatalf("expected NoMainClass, got %v", kindsOf(sink))
	}
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	src := `
	class Main {
		static void main() {
			break;
		}
	}`
	_, sink := analyze(t, src)
	if !hasKind(sink, "BreakOutOfLoop") {
		t.Fatalf("expected BreakOutOfLoop, got %v", kindsOf(sink))
	}
}
