package sema

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/scope"
	"decaflang/decaf/token"
	"decaflang/decaf/types"
)

// Namer is the semantic analyzer's first pass: it builds the class
// hierarchy, resolves every member declaration (catching conflicts,
// overrides and abstractness), locates the Main class, and walks each
// method body just deep enough to allocate its block/lambda scopes and
// declare its locals and parameters. It never assigns an Expr's Type;
// that is the Typer's job.
type Namer struct {
	sink   *Sink
	global *scope.GlobalScope
	stack  *scope.ScopeStack

	classes map[string]*ast.ClassDef
	order   []*ast.ClassDef
}

func NewNamer(sink *Sink) *Namer {
	global := scope.NewGlobalScope()
	return &Namer{
		sink:    sink,
		global:  global,
		stack:   scope.NewScopeStack(global),
		classes: map[string]*ast.ClassDef{},
	}
}

// Run performs the full pass over top, filling in top.GlobalScope and
// top.MainClass as a side effect.
func (n *Namer) Run(top *ast.TopLevel) {
	n.collectClasses(top)
	n.resolveParents()
	n.detectCycles()

	for _, cd := range n.order {
		n.createClassSymbol(cd)
	}
	for _, cd := range n.order {
		n.resolveMembers(cd)
	}
	n.locateMainClass(top)

	for _, cd := range n.order {
		for _, f := range cd.Fields {
			if md, ok := f.(*ast.MethodDef); ok {
				n.buildMethodBodyScopes(cd, md)
			}
		}
	}
	top.GlobalScope = n.global
}

func (n *Namer) collectClasses(top *ast.TopLevel) {
	for _, cd := range top.Classes {
		if _, exists := n.classes[cd.Name]; exists {
			n.sink.DeclConflict(cd.Pos(), cd.Name)
			continue
		}
		n.classes[cd.Name] = cd
		n.order = append(n.order, cd)
	}
}

func (n *Namer) resolveParents() {
	for _, cd := range n.order {
		if !cd.HasParent {
			continue
		}
		parent, ok := n.classes[cd.ParentName]
		if !ok {
			n.sink.ClassNotFound(cd.Pos(), cd.ParentName)
			cd.HasParent = false
			continue
		}
		cd.SuperClass = parent
	}
}

// detectCycles walks each class's extends chain with a three-color mark,
// cutting (and reporting once) the first inheritance edge that closes a
// cycle, so createClassSymbol's own recursion can never loop forever.
func (n *Namer) detectCycles() {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(n.order))

	var visit func(cd *ast.ClassDef)
	visit = func(cd *ast.ClassDef) {
		if state[cd.Name] == done {
			return
		}
		state[cd.Name] = visiting
		if cd.HasParent && cd.SuperClass != nil {
			if state[cd.SuperClass.Name] == visiting {
				n.sink.BadInheritance(cd.Pos())
				cd.HasParent = false
				cd.SuperClass = nil
			} else {
				visit(cd.SuperClass)
			}
		}
		state[cd.Name] = done
	}
	for _, cd := range n.order {
		visit(cd)
	}
}

func (n *Namer) createClassSymbol(cd *ast.ClassDef) *scope.ClassSymbol {
	if cd.Symbol != nil {
		return cd.Symbol
	}
	var super *scope.ClassSymbol
	var superType *types.Class
	var parentScope *scope.ClassScope
	if cd.HasParent && cd.SuperClass != nil {
		super = n.createClassSymbol(cd.SuperClass)
		superType = super.Type
		parentScope = super.Scope
	}
	classType := types.NewClass(cd.Name, superType)
	classScope := scope.NewClassScope(parentScope)
	sym := scope.NewClassSymbol(cd.Name, cd.IsAbstract, classType, classScope, super, cd.Pos(), n.global)
	cd.Symbol = sym
	n.global.Declare(sym)
	return sym
}

func (n *Namer) resolveMembers(cd *ast.ClassDef) {
	if cd.Resolved {
		return
	}
	if cd.SuperClass != nil {
		n.resolveMembers(cd.SuperClass)
	}
	cd.Resolved = true

	sym := cd.Symbol
	if sym.Super != nil {
		for name := range sym.Super.NotOverride {
			sym.NotOverride[name] = true
		}
	}
	for _, f := range cd.Fields {
		switch field := f.(type) {
		case *ast.VarDef:
			n.resolveVarDef(sym, field)
		case *ast.MethodDef:
			n.resolveMethodDef(sym, field)
		}
	}
	if !sym.Abstract && len(sym.NotOverride) > 0 {
		n.sink.NoAbstract(cd.Pos(), cd.Name)
	}
}

func (n *Namer) resolveVarDef(owner *scope.ClassSymbol, vd *ast.VarDef) {
	n.stack.Open(owner.Scope)
	defer n.stack.Close()

	typ := resolveTypeLit(vd.TypeLit, n.stack, n.sink)
	if typ.IsVoidType() {
		n.sink.BadVarType(vd.Pos(), vd.Name)
		typ = types.Error
	}

	if _, exists := owner.Scope.Find(vd.Name); exists {
		n.sink.DeclConflict(vd.Pos(), vd.Name)
		return
	}
	if inherited, ok := owner.Scope.Lookup(vd.Name); ok {
		if _, isVar := inherited.(*scope.VarSymbol); isVar {
			n.sink.OverridingVar(vd.Pos(), vd.Name)
		} else {
			n.sink.DeclConflict(vd.Pos(), vd.Name)
		}
		return
	}

	sym := scope.NewVarSymbol(vd.Name, typ, vd.Pos(), owner.Scope)
	sym.Owner = owner
	vd.Symbol = sym
	owner.Scope.Declare(sym)
}

func (n *Namer) resolveMethodDef(owner *scope.ClassSymbol, md *ast.MethodDef) {
	n.stack.Open(owner.Scope)
	defer n.stack.Close()

	ret := resolveTypeLit(md.ReturnType, n.stack, n.sink)
	argTypes := make([]types.Type, len(md.Params))
	for i, f := range md.Params {
		pt := resolveTypeLit(f.TypeLit, n.stack, n.sink)
		if pt.IsVoidType() {
			n.sink.VoidArgs(f.Pos())
			pt = types.Error
		}
		argTypes[i] = pt
	}
	fnType := types.NewFunction(ret, argTypes)

	if _, exists := owner.Scope.Find(md.Name); exists {
		n.sink.DeclConflict(md.Pos(), md.Name)
		return
	}

	if inherited, ok := owner.Scope.Lookup(md.Name); ok {
		old, isMethod := inherited.(*scope.MethodSymbol)
		if !isMethod {
			n.sink.DeclConflict(md.Pos(), md.Name)
			return
		}
		if old.Static || md.IsStatic {
			n.sink.DeclConflict(md.Pos(), md.Name)
			return
		}
		if !old.Abstract && md.IsAbstract {
			n.sink.DeclConflict(md.Pos(), md.Name)
			return
		}
		if !fnType.SubtypeOf(old.Type) {
			n.sink.BadOverride(md.Pos(), md.Name, old.Owner.NameVal)
			return
		}
	}

	formalScope := scope.NewFormalScope()
	msym := scope.NewMethodSymbol(md.Name, fnType, formalScope, owner, md.IsStatic, md.IsAbstract, md.Pos(), owner.Scope)
	md.Symbol = msym
	owner.Scope.Declare(msym)

	if !md.IsStatic {
		formalScope.Declare(scope.ThisVar(owner.Type, md.IDPos, formalScope))
	}
	for i, f := range md.Params {
		if _, exists := formalScope.Find(f.Name); exists {
			n.sink.DeclConflict(f.Pos(), f.Name)
			continue
		}
		psym := scope.NewVarSymbol(f.Name, argTypes[i], f.Pos(), formalScope)
		f.Symbol = psym
		formalScope.Declare(psym)
	}

	if md.IsAbstract {
		owner.NotOverride[md.Name] = true
	} else {
		delete(owner.NotOverride, md.Name)
	}
}

// locateMainClass requires exactly one class named "Main": it must be
// concrete and declare a static main() of type ()->Void. An abstract
// class named Main is rejected on the spot, before even looking for a
// main method.
func (n *Namer) locateMainClass(top *ast.TopLevel) {
	cd, ok := n.classes["Main"]
	if !ok {
		n.sink.NoMainClass(token.NoPos)
		return
	}
	if cd.IsAbstract || cd.Symbol == nil {
		n.sink.NoMainClass(cd.Pos())
		return
	}
	sym := cd.Symbol
	found, ok := sym.Scope.Find("main")
	if !ok {
		n.sink.NoMainClass(cd.Pos())
		return
	}
	method, ok := found.(*scope.MethodSymbol)
	if !ok || !method.Static || method.Abstract {
		n.sink.NoMainClass(cd.Pos())
		return
	}
	if !method.Type.Ret.Eq(types.Void) || len(method.Type.Args) != 0 {
		n.sink.NoMainClass(cd.Pos())
		return
	}
	method.IsMain = true
	sym.IsMain = true
	top.MainClass = sym
}

func (n *Namer) buildMethodBodyScopes(cd *ast.ClassDef, md *ast.MethodDef) {
	if md.IsAbstract || md.Body == nil || md.Symbol == nil {
		return
	}
	n.stack.Open(cd.Symbol.Scope)
	n.stack.Open(md.Symbol.Scope)
	n.buildBlockScopes(md.Body)
	n.stack.Close()
	n.stack.Close()
}

func (n *Namer) buildBlockScopes(b *ast.Block) {
	ls := scope.NewLocalScope(n.stack.CurrentScope())
	b.Scope = ls
	n.stack.Open(ls)
	for _, s := range b.Stmts {
		n.buildStmtScopes(s)
	}
	n.stack.Close()
}

func (n *Namer) buildStmtScopes(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		n.buildBlockScopes(st)
	case *ast.LocalVarDef:
		n.declareLocal(st)
		if st.InitVal != nil {
			n.buildExprScopes(st.InitVal)
		}
	case *ast.If:
		n.buildExprScopes(st.Cond)
		n.buildBlockScopes(st.TrueBranch)
		if st.FalseBranch != nil {
			n.buildBlockScopes(st.FalseBranch)
		}
	case *ast.While:
		n.buildExprScopes(st.Cond)
		n.buildBlockScopes(st.Body)
	case *ast.For:
		n.buildForScopes(st)
	case *ast.Return:
		if st.Expr != nil {
			n.buildExprScopes(st.Expr)
		}
	case *ast.Print:
		for _, e := range st.Exprs {
			n.buildExprScopes(e)
		}
	case *ast.ExprEval:
		n.buildExprScopes(st.Expr)
	case *ast.Assign:
		n.buildExprScopes(st.Lhs)
		n.buildExprScopes(st.Rhs)
	}
}

// buildForScopes gives a for loop a single LocalScope shared by its init,
// cond, update clauses and its body, matching ast.For's documented shape.
func (n *Namer) buildForScopes(st *ast.For) {
	ls := scope.NewLocalScope(n.stack.CurrentScope())
	st.Scope = ls
	n.stack.Open(ls)
	if st.Init != nil {
		n.buildStmtScopes(st.Init)
	}
	if st.Cond != nil {
		n.buildExprScopes(st.Cond)
	}
	if st.Update != nil {
		n.buildStmtScopes(st.Update)
	}
	if st.Body != nil {
		st.Body.Scope = ls
		for _, bs := range st.Body.Stmts {
			n.buildStmtScopes(bs)
		}
	}
	n.stack.Close()
}

func (n *Namer) declareLocal(lv *ast.LocalVarDef) {
	if _, exists := n.stack.FindConflict(lv.Name); exists {
		n.sink.DeclConflict(lv.Pos(), lv.Name)
		return
	}
	var typ types.Type
	if lv.TypeLit != nil {
		typ = resolveTypeLit(lv.TypeLit, n.stack, n.sink)
		if typ.IsVoidType() {
			n.sink.BadVarType(lv.Pos(), lv.Name)
			typ = types.Error
		}
	}
	sym := scope.NewVarSymbol(lv.Name, typ, lv.IDPos, n.stack.CurrentScope())
	lv.Symbol = sym
	n.stack.Declare(sym)
}

func (n *Namer) buildExprScopes(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Lambda:
		n.buildLambdaScopes(expr)
	case *ast.Unary:
		n.buildExprScopes(expr.Operand)
	case *ast.Binary:
		n.buildExprScopes(expr.Lhs)
		n.buildExprScopes(expr.Rhs)
	case *ast.NewArray:
		n.buildExprScopes(expr.Length)
	case *ast.VarSel:
		if expr.Receiver != nil {
			n.buildExprScopes(expr.Receiver)
		}
	case *ast.IndexSel:
		n.buildExprScopes(expr.Array)
		n.buildExprScopes(expr.Index)
	case *ast.Call:
		n.buildExprScopes(expr.Func)
		for _, a := range expr.Args {
			n.buildExprScopes(a)
		}
	case *ast.ClassTest:
		n.buildExprScopes(expr.Obj)
	case *ast.ClassCast:
		n.buildExprScopes(expr.Obj)
	}
}

// buildLambdaScopes declares the lambda's own parameter scope and, for an
// expression body, the single implicit local scope wrapping it (a block
// body gets its own local scope from buildBlockScopes). The lambda's
// return type is left nil on its Function type: the typer fills it in once
// the body has been typed (the expression's type, or the Join of a block
// body's return types).
func (n *Namer) buildLambdaScopes(lam *ast.Lambda) {
	parentScope := n.stack.CurrentScope()
	ls := scope.NewLambdaScope(parentScope)
	n.stack.Open(ls)

	paramTypes := make([]types.Type, len(lam.Params))
	for i, f := range lam.Params {
		if _, exists := ls.Find(f.Name); exists {
			n.sink.DeclConflict(f.Pos(), f.Name)
			continue
		}
		t := resolveTypeLit(f.TypeLit, n.stack, n.sink)
		if t.IsVoidType() {
			n.sink.VoidArgs(f.Pos())
			t = types.Error
		}
		psym := scope.NewVarSymbol(f.Name, t, f.Pos(), ls)
		f.Symbol = psym
		ls.Declare(psym)
		paramTypes[i] = t
	}
	fnType := types.NewFunction(nil, paramTypes)

	var localScope *scope.LocalScope
	if lam.Body != nil {
		n.buildBlockScopes(lam.Body)
	} else {
		localScope = scope.NewLocalScope(ls)
		n.stack.Open(localScope)
		n.buildExprScopes(lam.Expr)
		n.stack.Close()
	}

	sym := scope.NewLambdaSymbol(fnType, ls, localScope, lam.Pos(), parentScope)
	lam.Symbol = sym
	n.stack.Close()
}
