package parser

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/token"
)

// parseClassDef parses `[abstract] class C [extends P] { field* }`. On
// entry cur is the first token of the class (ABSTRACT or CLASS); on exit
// cur is the first token after the closing brace.
func (p *Parser) parseClassDef() *ast.ClassDef {
	pos := p.cur.Pos
	abstract := false
	if p.curIs(token.ABSTRACT) {
		abstract = true
		p.nextToken()
	}
	if !p.expectCurrent(token.CLASS) {
		return nil
	}
	if !p.curIs(token.TYPEIDENT) {
		p.currentError(token.TYPEIDENT)
		return nil
	}
	cd := &ast.ClassDef{PosVal: pos, Name: p.cur.Literal, IsAbstract: abstract}
	p.nextToken()

	if p.curIs(token.EXTENDS) {
		p.nextToken()
		if !p.curIs(token.TYPEIDENT) {
			p.currentError(token.TYPEIDENT)
			return cd
		}
		cd.ParentName = p.cur.Literal
		cd.HasParent = true
		p.nextToken()
	}

	if !p.expectCurrent(token.LBRACE) {
		return cd
	}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		f := p.parseField()
		if f == nil {
			return cd
		}
		cd.Fields = append(cd.Fields, f)
	}
	p.expectCurrent(token.RBRACE)
	return cd
}

// parseField parses one class member: a typed var declaration or a method
// declaration, disambiguated by whether `(` follows the member's name.
func (p *Parser) parseField() ast.Field {
	pos := p.cur.Pos
	static, abstract := false, false
	for p.curIs(token.STATIC) || p.curIs(token.ABSTRACT) {
		if p.curIs(token.STATIC) {
			static = true
		} else {
			abstract = true
		}
		p.nextToken()
	}

	typeLit := p.parseTypeLit()
	if typeLit == nil {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	idPos := p.cur.Pos
	name := p.cur.Literal

	if p.peekIs(token.LPAREN) {
		return p.parseMethodDef(pos, idPos, name, static, abstract, typeLit)
	}

	if static {
		p.errorf(pos, "field %q cannot be static", name)
	}
	if abstract {
		p.errorf(pos, "field %q cannot be abstract", name)
	}
	if !p.expectPeek(token.SEMI) {
		return nil
	}
	p.nextToken()
	return &ast.VarDef{PosVal: pos, Name: name, TypeLit: typeLit}
}

func (p *Parser) parseMethodDef(pos, idPos token.Pos, name string, static, abstract bool, retType ast.TypeLit) ast.Field {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseFormals() // leaves cur on RPAREN
	md := &ast.MethodDef{
		PosVal: pos, IDPos: idPos, Name: name,
		IsStatic: static, IsAbstract: abstract,
		ReturnType: retType, Params: params,
	}
	p.nextToken() // cur = { or ;
	if abstract {
		if !p.curIs(token.SEMI) {
			p.currentError(token.SEMI)
			return md
		}
		p.nextToken()
		return md
	}
	if !p.curIs(token.LBRACE) {
		p.currentError(token.LBRACE)
		return md
	}
	md.Body = p.parseBlock()
	return md
}

// parseFormals expects cur to be LPAREN on entry; it parses
// `T1 n1, T2 n2, ...` and leaves cur on RPAREN.
func (p *Parser) parseFormals() []*ast.Formal {
	var formals []*ast.Formal
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return formals
	}
	p.nextToken()
	f := p.parseFormal()
	if f != nil {
		formals = append(formals, f)
	}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		f := p.parseFormal()
		if f != nil {
			formals = append(formals, f)
		}
	}
	if !p.curIs(token.RPAREN) {
		p.expectPeek(token.RPAREN)
	}
	return formals
}

func (p *Parser) parseFormal() *ast.Formal {
	pos := p.cur.Pos
	t := p.parseTypeLit()
	if t == nil {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.Formal{PosVal: pos, Name: p.cur.Literal, TypeLit: t}
}
