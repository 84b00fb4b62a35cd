package scope

import (
	"fmt"
	"io"
	"strings"
)

// PrettyPrint writes an indented dump of the scope tree rooted at global,
// in the same fixed form the rest of the toolchain's golden files expect:
// a "GLOBAL SCOPE:" header listing every class, then one "CLASS SCOPE OF
// 'C':" block per class with a line per field and a nested "FORMAL SCOPE
// OF 'm':" block per method listing its parameters. Local and lambda
// scopes are not printed.
func PrettyPrint(w io.Writer, global *GlobalScope) {
	p := &prettyPrinter{w: w}
	p.printGlobal(global)
}

type prettyPrinter struct {
	w     io.Writer
	depth int
}

func (p *prettyPrinter) indent() string {
	return strings.Repeat("    ", p.depth)
}

func (p *prettyPrinter) line(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", p.indent(), fmt.Sprintf(format, args...))
}

func (p *prettyPrinter) printGlobal(g *GlobalScope) {
	p.line("GLOBAL SCOPE:")
	p.depth++
	for _, sym := range g.Symbols() {
		cs := sym.(*ClassSymbol)
		p.line("class %s", cs.Name())
	}
	for _, sym := range g.Symbols() {
		cs := sym.(*ClassSymbol)
		p.printClass(cs)
	}
	p.depth--
}

func (p *prettyPrinter) printClass(cs *ClassSymbol) {
	p.line("CLASS SCOPE OF '%s':", cs.Name())
	p.depth++
	for _, sym := range cs.Scope.Symbols() {
		switch s := sym.(type) {
		case *VarSymbol:
			p.line("var %s : %s", s.Name(), typeStr(s.Type))
		case *MethodSymbol:
			p.printMethod(s)
		}
	}
	p.depth--
}

func (p *prettyPrinter) printMethod(ms *MethodSymbol) {
	p.line("FORMAL SCOPE OF '%s':", ms.Name())
	p.depth++
	for _, sym := range ms.Scope.Symbols() {
		v := sym.(*VarSymbol)
		p.line("var %s : %s", v.Name(), typeStr(v.Type))
	}
	p.depth--
}

func typeStr(t any) string {
	if t == nil {
		return "<unresolved>"
	}
	type stringer interface{ String() string }
	if s, ok := t.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", t)
}
