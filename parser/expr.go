package parser

import (
	"strconv"

	"decaflang/decaf/ast"
	"decaflang/decaf/token"
)

func binaryOpFor(t token.Type) ast.BinaryOp {
	switch t {
	case token.PLUS:
		return ast.Add
	case token.MINUS:
		return ast.Sub
	case token.STAR:
		return ast.Mul
	case token.SLASH:
		return ast.Div
	case token.MOD:
		return ast.Mod
	case token.AND:
		return ast.And
	case token.OR:
		return ast.Or
	case token.EQ:
		return ast.Eq
	case token.NE:
		return ast.Ne
	case token.LT:
		return ast.Lt
	case token.LE:
		return ast.Le
	case token.GT:
		return ast.Gt
	case token.GE:
		return ast.Ge
	default:
		return -1
	}
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseIntLit() ast.Expr {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf(p.cur.Pos, "invalid integer literal %q", p.cur.Literal)
	}
	return &ast.IntLit{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}, Value: v}
}

func (p *Parser) parseStringLit() ast.Expr {
	return &ast.StringLit{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}, Value: p.cur.Literal}
}

func (p *Parser) parseBoolLit() ast.Expr {
	return &ast.BoolLit{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}, Value: p.curIs(token.TRUE)}
}

func (p *Parser) parseNullLit() ast.Expr {
	return &ast.NullLit{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}}
}

func (p *Parser) parseThis() ast.Expr {
	return &ast.This{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}}
}

// parseVarSel handles a bare name reference. Whether it denotes a local, a
// member field, a class name used as a value or a member method used as a
// value is decided later by the typer, once symbols exist to resolve against.
func (p *Parser) parseVarSel() ast.Expr {
	return &ast.VarSel{ExprBase: ast.ExprBase{PosVal: p.cur.Pos}, Name: p.cur.Literal}
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.cur.Pos
	op := ast.Neg
	if p.curIs(token.NOT) {
		op = ast.Not
	}
	p.nextToken()
	operand := p.parseExpr(PREFIX)
	return &ast.Unary{ExprBase: ast.ExprBase{PosVal: pos}, Op: op, Operand: operand}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := binaryOpFor(p.cur.Type)
	pos := p.cur.Pos
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(prec)
	return &ast.Binary{ExprBase: ast.ExprBase{PosVal: pos}, Op: op, Lhs: left, Rhs: right}
}

// parseExprList parses a comma-separated expression list up to (and
// consuming) end. cur must be the token right before the first element
// (or right before end, for an empty list) on entry; cur == end on exit.
func (p *Parser) parseExprList(end token.Type) []ast.Expr {
	var list []ast.Expr
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpr(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpr(LOWEST))
	}
	p.expectPeek(end)
	return list
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	pos := p.cur.Pos
	args := p.parseExprList(token.RPAREN)
	return &ast.Call{ExprBase: ast.ExprBase{PosVal: pos}, Func: fn, Args: args}
}

func (p *Parser) parseIndex(arr ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.nextToken()
	idx := p.parseExpr(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexSel{ExprBase: ast.ExprBase{PosVal: pos}, Array: arr, Index: idx}
}

func (p *Parser) parseDot(receiver ast.Expr) ast.Expr {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.VarSel{ExprBase: ast.ExprBase{PosVal: pos}, Receiver: receiver, Name: p.cur.Literal}
}

func (p *Parser) parseInstanceof(obj ast.Expr) ast.Expr {
	pos := p.cur.Pos
	if !p.expectPeek(token.TYPEIDENT) {
		return nil
	}
	return &ast.ClassTest{ExprBase: ast.ExprBase{PosVal: pos}, Obj: obj, ClassName: p.cur.Literal}
}

// parseGroupedOrCast disambiguates `(expr)` from a class cast `(class C) expr`
// by peeking for the `class` keyword right after the opening paren.
func (p *Parser) parseGroupedOrCast() ast.Expr {
	pos := p.cur.Pos
	if p.peekIs(token.CLASS) {
		p.nextToken()
		if !p.expectPeek(token.TYPEIDENT) {
			return nil
		}
		name := p.cur.Literal
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		p.nextToken()
		obj := p.parseExpr(PREFIX)
		return &ast.ClassCast{ExprBase: ast.ExprBase{PosVal: pos}, Obj: obj, ClassName: name}
	}
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseNew handles both `new C()` and `new T[n]`.
func (p *Parser) parseNew() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // cur = start of the element/class type
	elemType := p.parseBaseTypeLit()
	if elemType == nil {
		return nil
	}
	if p.peekIs(token.LPAREN) {
		class, ok := elemType.(*ast.TClass)
		if !ok {
			p.errorf(pos, "only a class type can be instantiated with ()")
			return nil
		}
		p.nextToken()
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.NewClass{ExprBase: ast.ExprBase{PosVal: pos}, ClassName: class.Name}
	}
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	length := p.parseExpr(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.NewArray{ExprBase: ast.ExprBase{PosVal: pos}, ElemType: elemType, Length: length}
}

// parseLambda handles both the expression-bodied (`fun(...) => expr`) and
// block-bodied (`fun(...) { ... }`) lambda forms.
func (p *Parser) parseLambda() ast.Expr {
	pos := p.cur.Pos
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseFormals()
	if p.peekIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		body := p.parseExpr(LOWEST)
		return &ast.Lambda{ExprBase: ast.ExprBase{PosVal: pos}, Params: params, Expr: body}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	block := p.parseBlockNoAdvance()
	return &ast.Lambda{ExprBase: ast.ExprBase{PosVal: pos}, Params: params, Body: block}
}
