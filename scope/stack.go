package scope

import "decaflang/decaf/token"

// ScopeStack is the ordered stack of currently open scopes shared by the
// namer and typer passes. It always starts with the program's single
// GlobalScope at the bottom.
type ScopeStack struct {
	Global *GlobalScope
	stack  []Scope
}

func NewScopeStack(global *GlobalScope) *ScopeStack {
	return &ScopeStack{Global: global, stack: []Scope{global}}
}

func (s *ScopeStack) Open(sc Scope) {
	s.stack = append(s.stack, sc)
}

func (s *ScopeStack) Close() {
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *ScopeStack) CurrentScope() Scope {
	return s.stack[len(s.stack)-1]
}

// Frames returns the currently open scopes, outermost first. Used by the
// typer's capture analysis to tell which open frame a symbol's defining
// scope corresponds to.
func (s *ScopeStack) Frames() []Scope {
	frames := make([]Scope, len(s.stack))
	copy(frames, s.stack)
	return frames
}

func (s *ScopeStack) Declare(sym Symbol) {
	s.CurrentScope().Declare(sym)
}

// CurrentClass returns the nearest enclosing class, scanning outward from
// the top of the stack, skipping formal/local/lambda frames.
func (s *ScopeStack) CurrentClass() *ClassSymbol {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if cs, ok := s.stack[i].(*ClassScope); ok {
			return cs.Owner
		}
	}
	return nil
}

// CurrentMethod returns the nearest enclosing method, scanning outward
// from the top of the stack and skipping over any lambda/local frames —
// a lambda body still has an enclosing method even though it has its own
// function-like frame.
func (s *ScopeStack) CurrentMethod() *MethodSymbol {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if fs, ok := s.stack[i].(*FormalScope); ok {
			return fs.Owner
		}
	}
	return nil
}

// FormalOrLambdaScope returns the nearest enclosing function-like frame:
// a method's FormalScope or a lambda's LambdaScope.
func (s *ScopeStack) FormalOrLambdaScope() Scope {
	for i := len(s.stack) - 1; i >= 0; i-- {
		switch s.stack[i].Kind() {
		case FormalKind, LambdaKind:
			return s.stack[i]
		}
	}
	return nil
}

// Lookup resolves name against the full open scope chain, innermost
// first, following a ClassScope's inheritance parent when the walk
// passes through one. It is the only lookup that reaches the global
// scope, so it is the one that can resolve a bare class name.
func (s *ScopeStack) Lookup(name string) (Symbol, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if sym, ok := findInScope(s.stack[i], name); ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupBefore behaves like Lookup, except that in the innermost scope
// (when it is a LocalScope) it ignores any symbol declared at a position
// at or after pos — the rule that keeps `var x = x + 1` from resolving
// its own left-hand side inside its initializer.
func (s *ScopeStack) LookupBefore(name string, pos token.Pos) (Symbol, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	top := s.stack[len(s.stack)-1]
	if ls, ok := top.(*LocalScope); ok {
		if sym, ok := ls.Find(name); ok && before(sym.Pos(), pos) {
			return sym, true
		}
	} else if sym, ok := findInScope(top, name); ok {
		return sym, true
	}
	for i := len(s.stack) - 2; i >= 0; i-- {
		if sym, ok := findInScope(s.stack[i], name); ok {
			return sym, true
		}
	}
	return nil, false
}

func before(a, b token.Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// LookupClass resolves a class name directly in the global scope.
func (s *ScopeStack) LookupClass(name string) (*ClassSymbol, bool) {
	return s.Global.GetClass(name)
}

// FindConflict looks for a same-name declaration visible from the
// current scope, stopping before the global scope (class names live in
// a separate namespace from fields/methods/locals). A result in the
// current scope is always a conflict; a result found in an enclosing
// scope (an ancestor class's member, or an outer local/formal scope) is
// reported as member-variable shadowing or a plain conflict depending on
// what kind of symbol it is and where it lives, decided by the caller.
func (s *ScopeStack) FindConflict(name string) (Symbol, bool) {
	for i := len(s.stack) - 1; i >= 1; i-- {
		if sym, ok := findInScope(s.stack[i], name); ok {
			return sym, true
		}
	}
	return nil, false
}

func findInScope(sc Scope, name string) (Symbol, bool) {
	if cs, ok := sc.(*ClassScope); ok {
		return cs.Lookup(name)
	}
	return sc.Find(name)
}
