package tacgen

import (
	"strings"
	"testing"

	"decaflang/decaf/ast"
	"decaflang/decaf/lexer"
	"decaflang/decaf/parser"
	"decaflang/decaf/sema"
)

func analyzed(t *testing.T, src string) *ast.TopLevel {
	t.Helper()
	l := lexer.NewLexer(strings.NewReader(src))
	p := parser.New(l)
	top := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	sink := sema.NewSink()
	sema.NewNamer(sink).Run(top)
	if !sink.HasErrors() {
		sema.NewTyper(sink, top.GlobalScope).Run(top)
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}
	return top
}

func TestStubDeclaresOneFunctionPerConcreteMethod(t *testing.T) {
	top := analyzed(t, `
	class Greeter {
		string prefix;
		string greet(string name) { return prefix; }
		static int add(int a, int b) { return a + b; }
	}
	class Main {
		static void main() {
			Greeter g = new Greeter();
			Print(g.greet("x"));
		}
	}`)

	module := NewStub().Generate(top)

	names := map[string]bool{}
	for _, fn := range module.Funcs {
		names[fn.Name()] = true
	}
	for _, want := range []string{"Greeter_greet", "Greeter_add", "Main_main"} {
		if !names[want] {
			t.Fatalf("expected declared function %q, got %v", want, names)
		}
	}
}

func TestStubSkipsAbstractMethods(t *testing.T) {
	top := analyzed(t, `
	abstract class Shape {
		abstract int area();
	}
	class Circle extends Shape {
		int area() { return 1; }
	}
	class Main {
		static void main() { }
	}`)

	module := NewStub().Generate(top)

	for _, fn := range module.Funcs {
		if fn.Name() == "Shape_area" {
			t.Fatalf("abstract method should not be declared, got %q", fn.Name())
		}
	}
}
