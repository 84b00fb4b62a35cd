// Package parser implements a hand-written recursive-descent/Pratt parser
// that turns a token stream into a Decaf *ast.TopLevel.
package parser

import (
	"fmt"

	"decaflang/decaf/ast"
	"decaflang/decaf/lexer"
	"decaflang/decaf/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALS
	LESSGREATER
	INSTANCEOF_PREC
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
	DOT
)

var precedences = map[token.Type]int{
	token.OR:         OR_PREC,
	token.AND:        AND_PREC,
	token.EQ:         EQUALS,
	token.NE:         EQUALS,
	token.LT:         LESSGREATER,
	token.LE:         LESSGREATER,
	token.GT:         LESSGREATER,
	token.GE:         LESSGREATER,
	token.INSTANCEOF: INSTANCEOF_PREC,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.STAR:       PRODUCT,
	token.SLASH:      PRODUCT,
	token.MOD:        PRODUCT,
	token.LPAREN:     CALL,
	token.LBRACKET:   INDEX,
	token.DOT:        DOT,
}

// Parser is a single-pass, lookahead-1 parser over a Lexer's token stream.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	errors []string

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[token.Type]prefixParseFn{}
	p.infixFns = map[token.Type]infixParseFn{}

	p.registerPrefix(token.INT_LIT, p.parseIntLit)
	p.registerPrefix(token.STRING_LIT, p.parseStringLit)
	p.registerPrefix(token.TRUE, p.parseBoolLit)
	p.registerPrefix(token.FALSE, p.parseBoolLit)
	p.registerPrefix(token.NULL, p.parseNullLit)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.IDENT, p.parseVarSel)
	p.registerPrefix(token.TYPEIDENT, p.parseVarSel)
	p.registerPrefix(token.NOT, p.parseUnary)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrCast)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.FUN, p.parseLambda)

	p.registerInfix(token.PLUS, p.parseBinary)
	p.registerInfix(token.MINUS, p.parseBinary)
	p.registerInfix(token.STAR, p.parseBinary)
	p.registerInfix(token.SLASH, p.parseBinary)
	p.registerInfix(token.MOD, p.parseBinary)
	p.registerInfix(token.AND, p.parseBinary)
	p.registerInfix(token.OR, p.parseBinary)
	p.registerInfix(token.EQ, p.parseBinary)
	p.registerInfix(token.NE, p.parseBinary)
	p.registerInfix(token.LT, p.parseBinary)
	p.registerInfix(token.LE, p.parseBinary)
	p.registerInfix(token.GT, p.parseBinary)
	p.registerInfix(token.GE, p.parseBinary)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.DOT, p.parseDot)
	p.registerInfix(token.INSTANCEOF, p.parseInstanceof)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixFns[t] = fn }

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) expectCurrent(t token.Type) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.currentError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s at %s", t, p.peek.Type, p.peek.Pos))
}

func (p *Parser) currentError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("expected current token to be %s, got %s at %s", t, p.cur.Type, p.cur.Pos))
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a whole source file into a TopLevel.
func (p *Parser) ParseProgram() *ast.TopLevel {
	top := &ast.TopLevel{}
	for !p.curIs(token.EOF) {
		c := p.parseClassDef()
		if c == nil {
			return top
		}
		top.Classes = append(top.Classes, c)
	}
	return top
}

func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf(p.cur.Pos, "no prefix parse function for %s", p.cur.Type)
		p.nextToken()
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMI) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}
