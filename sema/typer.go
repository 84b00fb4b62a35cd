package sema

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/scope"
	"decaflang/decaf/token"
	"decaflang/decaf/types"
)

// Typer is the semantic analyzer's second pass. It reuses the exact scope
// tree the Namer built (every class/method/lambda scope already exists
// and is hung off the AST) and walks it again assigning a Type to every
// expression, a returns/isClose flag to every statement, and a capture
// list to every lambda.
type Typer struct {
	sink  *Sink
	stack *scope.ScopeStack

	loopLevel         int
	typingVarPos      token.Pos // set while typing a local's own initializer
	typingVarNames    []string  // names currently having their `var` initializer typed, innermost last
	allowClassNameVar bool      // set for the one step of typing a VarSel receiver
	lambdaRetStack    [][]types.Type
}

func (t *Typer) pushTypingVar(name string) {
	t.typingVarNames = append(t.typingVarNames, name)
}

func (t *Typer) popTypingVar() {
	t.typingVarNames = t.typingVarNames[:len(t.typingVarNames)-1]
}

func (t *Typer) isTypingVar(name string) bool {
	for _, n := range t.typingVarNames {
		if n == name {
			return true
		}
	}
	return false
}

func NewTyper(sink *Sink, global *scope.GlobalScope) *Typer {
	return &Typer{sink: sink, stack: scope.NewScopeStack(global)}
}

func (t *Typer) Run(top *ast.TopLevel) {
	if top.GlobalScope == nil {
		return
	}
	for _, cd := range top.Classes {
		if cd.Symbol == nil {
			continue
		}
		t.typeClass(cd)
	}
}

func (t *Typer) typeClass(cd *ast.ClassDef) {
	t.stack.Open(cd.Symbol.Scope)
	for _, f := range cd.Fields {
		if md, ok := f.(*ast.MethodDef); ok && !md.IsAbstract && md.Body != nil {
			t.typeMethod(md)
		}
	}
	t.stack.Close()
}

func (t *Typer) typeMethod(md *ast.MethodDef) {
	if md.Symbol == nil {
		return
	}
	t.stack.Open(md.Symbol.Scope)
	t.typeBlock(md.Body)
	t.stack.Close()
	if !md.Symbol.Type.Ret.IsVoidType() && !md.Body.Returns {
		t.sink.MissingReturn(md.Pos())
	}
}

// typeBlock opens the block's own scope, types every statement in order,
// then derives Returns (did the last statement return) and IsClose (did
// any statement close every path) from its children.
func (t *Typer) typeBlock(b *ast.Block) {
	t.stack.Open(b.Scope)
	for _, s := range b.Stmts {
		t.typeStmt(s)
	}
	t.stack.Close()

	if n := len(b.Stmts); n > 0 {
		b.Returns = stmtReturns(b.Stmts[n-1])
	}
	for _, s := range b.Stmts {
		if stmtIsClose(s) {
			b.IsClose = true
			break
		}
	}
}

func stmtReturns(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Block:
		return st.Returns
	case *ast.If:
		return st.Returns
	case *ast.Return:
		return st.Returns
	}
	return false
}

func stmtIsClose(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Block:
		return st.IsClose
	case *ast.If:
		return st.IsClose
	case *ast.Return:
		return st.IsClose
	}
	return false
}

func (t *Typer) typeStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		t.typeBlock(st)
	case *ast.LocalVarDef:
		t.typeLocalVarDef(st)
	case *ast.If:
		t.typeIf(st)
	case *ast.While:
		t.typeWhile(st)
	case *ast.For:
		t.typeFor(st)
	case *ast.Break:
		t.typeBreak(st)
	case *ast.Return:
		t.typeReturn(st)
	case *ast.Print:
		t.typePrint(st)
	case *ast.ExprEval:
		t.typeExpr(st.Expr)
	case *ast.Assign:
		t.typeAssign(st)
	}
}

func (t *Typer) typeLocalVarDef(lv *ast.LocalVarDef) {
	var declared types.Type
	if lv.TypeLit != nil {
		declared = resolveTypeLit(lv.TypeLit, t.stack, t.sink)
	}

	var initType types.Type
	if lv.InitVal != nil {
		prevPos := t.typingVarPos
		t.typingVarPos = lv.IDPos
		if lv.TypeLit == nil {
			t.pushTypingVar(lv.Name)
		}
		initType = t.typeExpr(lv.InitVal)
		t.typingVarPos = prevPos
		if lv.TypeLit == nil {
			t.popTypingVar()
		}
	}

	if lv.TypeLit == nil {
		if initType == nil {
			initType = types.Error
		}
		if initType.IsVoidType() {
			t.sink.BadVarType(lv.Pos(), lv.Name)
			initType = types.Error
		}
		declared = initType
		if lv.Symbol != nil {
			lv.Symbol.Type = declared
		}
		return
	}

	if lv.InitVal != nil && initType.NoError() && declared.NoError() && !initType.SubtypeOf(declared) {
		t.sink.BadVarTypeMismatch(lv.Pos(), initType.String(), declared.String())
	}
}

func (t *Typer) typeIf(ifs *ast.If) {
	condType := t.typeExpr(ifs.Cond)
	if condType.NoError() && !condType.Eq(types.Bool) {
		t.sink.BadTestExpr(ifs.Pos())
	}
	t.typeBlock(ifs.TrueBranch)
	if ifs.FalseBranch != nil {
		t.typeBlock(ifs.FalseBranch)
		ifs.Returns = ifs.TrueBranch.Returns && ifs.FalseBranch.Returns
		ifs.IsClose = ifs.TrueBranch.IsClose && ifs.FalseBranch.IsClose
	}
}

func (t *Typer) typeWhile(w *ast.While) {
	condType := t.typeExpr(w.Cond)
	if condType.NoError() && !condType.Eq(types.Bool) {
		t.sink.BadTestExpr(w.Pos())
	}
	t.loopLevel++
	t.typeBlock(w.Body)
	t.loopLevel--
}

// typeFor shares For's single scope between its init/cond/update clauses
// and its body, matching how the namer built it.
func (t *Typer) typeFor(f *ast.For) {
	t.stack.Open(f.Scope)
	if f.Init != nil {
		t.typeStmt(f.Init)
	}
	if f.Cond != nil {
		condType := t.typeExpr(f.Cond)
		if condType.NoError() && !condType.Eq(types.Bool) {
			t.sink.BadTestExpr(f.Pos())
		}
	}
	if f.Update != nil {
		t.typeStmt(f.Update)
	}
	t.loopLevel++
	if f.Body != nil {
		for _, s := range f.Body.Stmts {
			t.typeStmt(s)
		}
	}
	t.loopLevel--
	t.stack.Close()
}

func (t *Typer) typeBreak(b *ast.Break) {
	if t.loopLevel == 0 {
		t.sink.BreakOutOfLoop(b.Pos())
	}
}

func (t *Typer) typeReturn(r *ast.Return) {
	var actual types.Type = types.Void
	if r.Expr != nil {
		actual = t.typeExpr(r.Expr)
	}

	if n := len(t.lambdaRetStack); n > 0 {
		t.lambdaRetStack[n-1] = append(t.lambdaRetStack[n-1], actual)
		r.Returns = r.Expr != nil
		r.IsClose = true
		return
	}

	m := t.stack.CurrentMethod()
	if m == nil {
		return
	}
	if actual.NoError() && !actual.SubtypeOf(m.Type.Ret) {
		t.sink.BadReturnType(r.Pos(), actual.String(), m.Type.Ret.String())
	}
	r.Returns = r.Expr != nil
	r.IsClose = true
}

func (t *Typer) typePrint(p *ast.Print) {
	for i, e := range p.Exprs {
		et := t.typeExpr(e)
		if et.NoError() && !et.IsBaseType() {
			t.sink.BadPrintArg(p.Pos(), i+1, et.String())
		}
	}
}

func (t *Typer) typeAssign(a *ast.Assign) {
	leftType := t.typeExpr(a.Lhs)
	rightType := t.typeExpr(a.Rhs)

	if sel, ok := a.Lhs.(*ast.VarSel); ok {
		switch sym := sel.Symbol.(type) {
		case *scope.VarSymbol:
			if sel.Receiver == nil && t.checkCapturedAssignment(sym) {
				t.sink.AssignToCapturedVar(a.Pos(), sel.Name)
			}
		case *scope.MethodSymbol:
			t.sink.AssignToMemberMethod(a.Pos(), sel.Name)
			return
		}
	}

	if leftType.NoError() && rightType.NoError() && !rightType.SubtypeOf(leftType) {
		t.sink.BadVarTypeMismatch(a.Pos(), rightType.String(), leftType.String())
	}
}

func (t *Typer) typeExpr(e ast.Expr) types.Type {
	var result types.Type
	switch expr := e.(type) {
	case *ast.IntLit:
		result = types.Int
	case *ast.BoolLit:
		result = types.Bool
	case *ast.StringLit:
		result = types.String
	case *ast.NullLit:
		result = types.Null
	case *ast.This:
		result = t.typeThis(expr)
	case *ast.Unary:
		result = t.typeUnary(expr)
	case *ast.Binary:
		result = t.typeBinary(expr)
	case *ast.NewArray:
		result = t.typeNewArray(expr)
	case *ast.NewClass:
		result = t.typeNewClass(expr)
	case *ast.VarSel:
		result = t.typeVarSel(expr)
	case *ast.IndexSel:
		result = t.typeIndexSel(expr)
	case *ast.Call:
		result = t.typeCall(expr)
	case *ast.ClassTest:
		result = t.typeClassTest(expr)
	case *ast.ClassCast:
		result = t.typeClassCast(expr)
	case *ast.Lambda:
		result = t.typeLambda(expr)
	default:
		result = types.Error
	}
	e.SetType(result)
	return result
}

func (t *Typer) typeThis(th *ast.This) types.Type {
	if t.currentMethodIsStatic() || t.stack.CurrentMethod() == nil {
		t.sink.RefNonStatic(th.Pos(), "this")
		return types.Error
	}
	cls := t.stack.CurrentClass()
	if cls == nil {
		return types.Error
	}
	return cls.Type
}

func (t *Typer) typeUnary(u *ast.Unary) types.Type {
	operand := t.typeExpr(u.Operand)
	switch u.Op {
	case ast.Not:
		if operand.NoError() && !operand.Eq(types.Bool) {
			t.sink.IncompatUnOp(u.Pos(), u.Op.String(), operand.String())
		}
		return types.Bool
	default: // ast.Neg
		if operand.NoError() && !operand.Eq(types.Int) {
			t.sink.IncompatUnOp(u.Pos(), u.Op.String(), operand.String())
		}
		return types.Int
	}
}

func (t *Typer) typeBinary(b *ast.Binary) types.Type {
	lhs := t.typeExpr(b.Lhs)
	rhs := t.typeExpr(b.Rhs)

	switch {
	case b.Op.IsArith():
		if lhs.NoError() && rhs.NoError() && (!lhs.Eq(types.Int) || !rhs.Eq(types.Int)) {
			t.sink.IncompatBinOp(b.Pos(), lhs.String(), b.Op.String(), rhs.String())
		}
		return types.Int
	case b.Op.IsLogic():
		if lhs.NoError() && rhs.NoError() && (!lhs.Eq(types.Bool) || !rhs.Eq(types.Bool)) {
			t.sink.IncompatBinOp(b.Pos(), lhs.String(), b.Op.String(), rhs.String())
		}
		return types.Bool
	case b.Op.IsEquality():
		if lhs.NoError() && rhs.NoError() && !lhs.SubtypeOf(rhs) && !rhs.SubtypeOf(lhs) {
			t.sink.IncompatBinOp(b.Pos(), lhs.String(), b.Op.String(), rhs.String())
		}
		return types.Bool
	default: // <, <=, >, >=
		if lhs.NoError() && rhs.NoError() && (!lhs.Eq(types.Int) || !rhs.Eq(types.Int)) {
			t.sink.IncompatBinOp(b.Pos(), lhs.String(), b.Op.String(), rhs.String())
		}
		return types.Bool
	}
}

func (t *Typer) typeNewArray(na *ast.NewArray) types.Type {
	elem := resolveTypeLit(na.ElemType, t.stack, t.sink)
	if elem.IsVoidType() {
		t.sink.BadArrElement(na.Pos())
		elem = types.Error
	}
	lengthType := t.typeExpr(na.Length)
	if lengthType.NoError() && !lengthType.Eq(types.Int) {
		t.sink.BadNewArrayLength(na.Length.Pos(), lengthType.String())
	}
	if elem.HasError() {
		return types.Error
	}
	return types.NewArray(elem)
}

func (t *Typer) typeNewClass(nc *ast.NewClass) types.Type {
	cs, ok := t.stack.LookupClass(nc.ClassName)
	if !ok {
		t.sink.ClassNotFound(nc.Pos(), nc.ClassName)
		return types.Error
	}
	nc.Symbol = cs
	if cs.Abstract {
		t.sink.BadInstantiate(nc.Pos(), nc.ClassName)
		return types.Error
	}
	return cs.Type
}

func (t *Typer) typeIndexSel(is *ast.IndexSel) types.Type {
	arrType := t.typeExpr(is.Array)
	idxType := t.typeExpr(is.Index)
	if idxType.NoError() && !idxType.Eq(types.Int) {
		t.sink.SubNotInt(is.Index.Pos(), idxType.String())
	}
	if arrType.HasError() {
		return types.Error
	}
	arr, ok := arrType.(*types.Array)
	if !ok {
		t.sink.NotArray(is.Pos(), arrType.String())
		return types.Error
	}
	return arr.Elem
}

func (t *Typer) typeClassTest(ct *ast.ClassTest) types.Type {
	objType := t.typeExpr(ct.Obj)
	cs, ok := t.stack.LookupClass(ct.ClassName)
	if !ok {
		t.sink.ClassNotFound(ct.Pos(), ct.ClassName)
		return types.Bool
	}
	ct.Symbol = cs
	if objType.NoError() && !objType.IsClassType() {
		t.sink.NotClass(ct.Pos(), objType.String())
	}
	return types.Bool
}

func (t *Typer) typeClassCast(cc *ast.ClassCast) types.Type {
	objType := t.typeExpr(cc.Obj)
	cs, ok := t.stack.LookupClass(cc.ClassName)
	if !ok {
		t.sink.ClassNotFound(cc.Pos(), cc.ClassName)
		return types.Error
	}
	cc.Symbol = cs
	if objType.NoError() && !objType.IsClassType() {
		t.sink.NotClass(cc.Pos(), objType.String())
		return types.Error
	}
	return cs.Type
}

// typeVarSel implements the no-receiver / with-receiver dichotomy: a bare
// name resolves through the scope stack (respecting the self-reference
// guard on a `var`'s own initializer); a receiver-qualified name first
// types its receiver, briefly allowing a class name to stand as a value,
// then resolves the member against that class's inherited member table.
func (t *Typer) typeVarSel(v *ast.VarSel) types.Type {
	if v.Receiver == nil {
		return t.typeVarSelNoReceiver(v)
	}

	prevAllow := t.allowClassNameVar
	t.allowClassNameVar = true
	recvType := t.typeExpr(v.Receiver)
	t.allowClassNameVar = prevAllow

	if recvType.HasError() {
		return types.Error
	}

	if arr, ok := recvType.(*types.Array); ok && v.Name == "length" {
		_ = arr
		v.IsArrayLength = true
		return types.NewFunction(types.Int, nil)
	}

	classType, ok := recvType.(*types.Class)
	if !ok {
		t.sink.NotClass(v.Pos(), recvType.String())
		return types.Error
	}
	cs, ok := t.stack.LookupClass(classType.Name)
	if !ok {
		return types.Error
	}
	member, ok := cs.Scope.Lookup(v.Name)
	if !ok {
		t.sink.FieldNotFound(v.Pos(), v.Name, classType.Name)
		return types.Error
	}

	receiverIsClassName := false
	if sel, ok := v.Receiver.(*ast.VarSel); ok {
		receiverIsClassName = sel.IsClassName
	}

	switch s := member.(type) {
	case *scope.VarSymbol:
		if receiverIsClassName {
			t.sink.NotClassField(v.Pos(), v.Name)
			return types.Error
		}
		current := t.stack.CurrentClass()
		if current == nil || !current.Type.SubtypeOf(s.Owner.Type) {
			t.sink.FieldNotAccess(v.Pos(), v.Name, s.Owner.NameVal)
			return types.Error
		}
		v.Symbol = s
		return s.Type
	case *scope.MethodSymbol:
		if receiverIsClassName && !s.Static {
			t.sink.NotClassField(v.Pos(), v.Name)
			return types.Error
		}
		v.Symbol = s
		v.IsMemberMethodName = true
		return s.Type
	default:
		t.sink.FieldNotFound(v.Pos(), v.Name, classType.Name)
		return types.Error
	}
}

func (t *Typer) typeVarSelNoReceiver(v *ast.VarSel) types.Type {
	var sym scope.Symbol
	var ok bool
	if t.typingVarPos != token.NoPos {
		sym, ok = t.stack.LookupBefore(v.Name, t.typingVarPos)
	} else {
		sym, ok = t.stack.Lookup(v.Name)
	}
	if !ok || t.isTypingVar(v.Name) {
		t.sink.UndeclVar(v.Pos(), v.Name)
		return types.Error
	}

	switch s := sym.(type) {
	case *scope.VarSymbol:
		v.Symbol = s
		t.recordCapture(s)
		if s.IsMemberVar() {
			if t.currentMethodIsStatic() {
				t.sink.RefNonStatic(v.Pos(), v.Name)
				return types.Error
			}
			v.SetThis()
		}
		if s.Type == nil {
			t.sink.UndeclVar(v.Pos(), v.Name)
			return types.Error
		}
		return s.Type
	case *scope.ClassSymbol:
		if !t.allowClassNameVar {
			t.sink.UndeclVar(v.Pos(), v.Name)
			return types.Error
		}
		v.Symbol = s
		v.IsClassName = true
		return s.Type
	case *scope.MethodSymbol:
		v.Symbol = s
		v.IsMemberMethodName = true
		if !s.Static {
			if t.currentMethodIsStatic() {
				t.sink.RefNonStatic(v.Pos(), v.Name)
				return types.Error
			}
			v.SetThis()
		}
		return s.Type
	default:
		t.sink.UndeclVar(v.Pos(), v.Name)
		return types.Error
	}
}

func (t *Typer) typeCall(c *ast.Call) types.Type {
	fnType := t.typeExpr(c.Func)

	calleeName := ""
	if sel, ok := c.Func.(*ast.VarSel); ok {
		calleeName = sel.Name
		if sel.IsArrayLength {
			c.IsArrayLength = true
		}
	}

	if fnType.HasError() {
		for _, a := range c.Args {
			t.typeExpr(a)
		}
		return types.Error
	}
	fn, ok := fnType.(*types.Function)
	if !ok {
		t.sink.NotCallable(c.Pos(), fnType.String())
		for _, a := range c.Args {
			t.typeExpr(a)
		}
		return types.Error
	}
	if c.IsArrayLength {
		if len(c.Args) != 0 {
			t.sink.BadLengthArg(c.Pos())
		}
		for _, a := range c.Args {
			t.typeExpr(a)
		}
		return types.Int
	}

	n := len(c.Args)
	if fn.Arity() < n {
		n = fn.Arity()
	}
	argTypes := make([]types.Type, len(c.Args))
	for i, a := range c.Args {
		argTypes[i] = t.typeExpr(a)
	}
	if len(c.Args) != fn.Arity() {
		t.sink.BadArgCount(c.Pos(), calleeName, fn.Arity(), len(c.Args))
	}
	for i := 0; i < n; i++ {
		if argTypes[i].NoError() && !argTypes[i].SubtypeOf(fn.Args[i]) {
			t.sink.BadArgType(c.Args[i].Pos(), i+1, argTypes[i].String(), fn.Args[i].String())
		}
	}
	return fn.Ret
}

// typeLambda types an expression- or block-bodied lambda under its own
// scope (already built by the namer) and fills in its inferred return
// type via inferLambdaReturn for the block form.
func (t *Typer) typeLambda(lam *ast.Lambda) types.Type {
	sym := lam.Symbol
	t.stack.Open(sym.LambdaScope)

	if lam.Expr != nil {
		t.stack.Open(sym.LocalScope)
		sym.Type.Ret = t.typeExpr(lam.Expr)
		t.stack.Close()
	} else {
		t.lambdaRetStack = append(t.lambdaRetStack, nil)
		t.typeBlock(lam.Body)
		n := len(t.lambdaRetStack)
		rets := t.lambdaRetStack[n-1]
		t.lambdaRetStack = t.lambdaRetStack[:n-1]
		sym.Type.Ret = t.inferLambdaReturn(lam.Body, rets)
	}

	t.stack.Close()
	return sym.Type
}

func (t *Typer) inferLambdaReturn(block *ast.Block, rets []types.Type) types.Type {
	if len(rets) == 0 {
		return types.Void
	}
	if !block.IsClose {
		for _, r := range rets {
			if !r.IsVoidType() {
				t.sink.MissingReturn(block.Pos())
				break
			}
		}
	}
	joined := types.Join(rets)
	if joined.HasError() {
		t.sink.IncompatRetType(block.Pos())
		return types.Error
	}
	return joined
}

func (t *Typer) currentMethodIsStatic() bool {
	m := t.stack.CurrentMethod()
	return m != nil && m.Static
}

// recordCapture adds sym to the capture list of every lambda open between
// its defining scope and the current point, skipping member fields
// (domain is a class scope) which are reached through `this`, not a
// closure slot.
func (t *Typer) recordCapture(sym *scope.VarSymbol) {
	domain := sym.Domain()
	if domain == nil || domain.Kind() == scope.ClassKind {
		return
	}
	frames := t.stack.Frames()
	domainIdx := -1
	for i, f := range frames {
		if f == domain {
			domainIdx = i
			break
		}
	}
	if domainIdx == -1 {
		return
	}
	for i := domainIdx + 1; i < len(frames); i++ {
		if ls, ok := frames[i].(*scope.LambdaScope); ok && ls.Owner != nil {
			ls.Owner.AddCapture(sym)
		}
	}
}

// checkCapturedAssignment reports whether sym's defining scope lies
// outside the innermost enclosing lambda frame: the rule that forbids
// assigning to a captured local directly (assigning through a captured
// object or array is still fine, since that mutates the referent, not
// the binding).
func (t *Typer) checkCapturedAssignment(sym *scope.VarSymbol) bool {
	domain := sym.Domain()
	if domain == nil || domain.Kind() == scope.ClassKind {
		return false
	}
	inner := t.stack.FormalOrLambdaScope()
	if inner == nil || inner.Kind() != scope.LambdaKind {
		return false
	}
	frames := t.stack.Frames()
	innerIdx, domainIdx := -1, -1
	for i, f := range frames {
		if f == inner {
			innerIdx = i
		}
		if f == domain {
			domainIdx = i
		}
	}
	if innerIdx == -1 || domainIdx == -1 {
		return false
	}
	return domainIdx < innerIdx
}
