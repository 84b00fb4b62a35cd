package parser

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/token"
)

// parseBaseTypeLit parses a single type literal with no trailing `[]`
// suffix: a built-in name, a class name, or a parenthesized lambda type.
// cur is left on the last token of the base type.
func (p *Parser) parseBaseTypeLit() ast.TypeLit {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.INT:
		return &ast.TInt{TypeLitBase: ast.TypeLitBase{PosVal: pos}}
	case token.BOOL:
		return &ast.TBool{TypeLitBase: ast.TypeLitBase{PosVal: pos}}
	case token.STRING:
		return &ast.TString{TypeLitBase: ast.TypeLitBase{PosVal: pos}}
	case token.VOID:
		return &ast.TVoid{TypeLitBase: ast.TypeLitBase{PosVal: pos}}
	case token.TYPEIDENT:
		return &ast.TClass{TypeLitBase: ast.TypeLitBase{PosVal: pos}, Name: p.cur.Literal}
	case token.LPAREN:
		return p.parseLambdaTypeLit()
	default:
		p.errorf(pos, "expected a type, got %s", p.cur.Type)
		return nil
	}
}

// parseTypeLit parses a full type literal, including any number of
// trailing `[]` array suffixes. On entry cur is the first token of the
// type; on exit cur is the last token consumed.
func (p *Parser) parseTypeLit() ast.TypeLit {
	pos := p.cur.Pos
	base := p.parseBaseTypeLit()
	if base == nil {
		return nil
	}
	for p.peekIs(token.LBRACKET) {
		p.nextToken() // cur = [
		if !p.expectPeek(token.RBRACKET) {
			return base
		}
		base = &ast.TArray{TypeLitBase: ast.TypeLitBase{PosVal: pos}, Elem: base}
	}
	return base
}

// parseLambdaTypeLit parses `(T1, T2, ...) => R`. cur is LPAREN on entry.
func (p *Parser) parseLambdaTypeLit() ast.TypeLit {
	pos := p.cur.Pos
	var params []ast.TypeLit
	if p.peekIs(token.RPAREN) {
		p.nextToken() // cur = )
	} else {
		p.nextToken() // cur = first param type
		t := p.parseTypeLit()
		if t == nil {
			return nil
		}
		params = append(params, t)
		for p.peekIs(token.COMMA) {
			p.nextToken() // cur = ,
			p.nextToken() // cur = next type
			t := p.parseTypeLit()
			if t == nil {
				return nil
			}
			params = append(params, t)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken() // cur = first token of return type
	ret := p.parseTypeLit()
	return &ast.TLambda{TypeLitBase: ast.TypeLitBase{PosVal: pos}, Ret: ret, Params: params}
}
