package parser

import (
	"decaflang/decaf/ast"
	"decaflang/decaf/token"
)

// parseBlockNoAdvance parses `{ stmt* }` leaving cur on the closing brace
// itself, the convention an expression-context caller (a lambda body)
// needs so it can keep treating the block as the last token of an Expr.
func (p *Parser) parseBlockNoAdvance() *ast.Block {
	pos := p.cur.Pos
	block := &ast.Block{StmtBase: ast.StmtBase{PosVal: pos}}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		s := p.parseStmt()
		if s == nil {
			break
		}
		block.Stmts = append(block.Stmts, s)
	}
	if !p.curIs(token.RBRACE) {
		p.currentError(token.RBRACE)
	}
	return block
}

// parseBlock is parseBlockNoAdvance plus consuming the closing brace, the
// convention every statement-level caller (if/while/for/method bodies)
// needs so cur lands on the token right after the block.
func (p *Parser) parseBlock() *ast.Block {
	b := p.parseBlockNoAdvance()
	if p.curIs(token.RBRACE) {
		p.nextToken()
	}
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.curIs(token.LBRACE):
		return p.parseBlock()
	case p.curIs(token.VAR):
		return p.parseLocalVarDef(true)
	case p.curIs(token.INT), p.curIs(token.BOOL), p.curIs(token.STRING), p.curIs(token.VOID):
		return p.parseLocalVarDef(false)
	case p.curIs(token.TYPEIDENT) && p.peekIs(token.IDENT):
		return p.parseLocalVarDef(false)
	case p.curIs(token.IF):
		return p.parseIf()
	case p.curIs(token.WHILE):
		return p.parseWhile()
	case p.curIs(token.FOR):
		return p.parseFor()
	case p.curIs(token.BREAK):
		return p.parseBreak()
	case p.curIs(token.RETURN):
		return p.parseReturn()
	case p.curIs(token.PRINT):
		return p.parsePrint()
	default:
		return p.parseSimpleStmt()
	}
}

// parseLocalVarDef parses `var x = expr;` (inferred) or `T x [= expr];`
// (explicit). cur is the leading `var`/type token on entry.
func (p *Parser) parseLocalVarDef(inferred bool) ast.Stmt {
	pos := p.cur.Pos
	var typeLit ast.TypeLit
	if inferred {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
	} else {
		typeLit = p.parseTypeLit()
		if typeLit == nil {
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
	}
	idPos := p.cur.Pos
	name := p.cur.Literal
	lv := &ast.LocalVarDef{StmtBase: ast.StmtBase{PosVal: pos}, IDPos: idPos, Name: name, TypeLit: typeLit}

	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		lv.AssignPos = p.cur.Pos
		p.nextToken()
		lv.InitVal = p.parseExpr(LOWEST)
	} else if inferred {
		p.errorf(pos, "'var' declaration of %q requires an initializer", name)
	}
	if !p.expectPeek(token.SEMI) {
		return lv
	}
	p.nextToken()
	return lv
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	trueBranch := p.parseBlock()

	stmt := &ast.If{StmtBase: ast.StmtBase{PosVal: pos}, Cond: cond, TrueBranch: trueBranch}
	if p.curIs(token.ELSE) {
		p.nextToken()
		switch {
		case p.curIs(token.IF):
			nested := p.parseIf()
			stmt.FalseBranch = &ast.Block{StmtBase: ast.StmtBase{PosVal: nested.Pos()}, Stmts: []ast.Stmt{nested}}
		case p.curIs(token.LBRACE):
			stmt.FalseBranch = p.parseBlock()
		default:
			p.currentError(token.LBRACE)
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.While{StmtBase: ast.StmtBase{PosVal: pos}, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	var init ast.Stmt
	if !p.curIs(token.SEMI) {
		init = p.parseForClauseStmt()
		p.nextToken()
	}
	if !p.expectCurrent(token.SEMI) {
		return nil
	}

	var cond ast.Expr
	if !p.curIs(token.SEMI) {
		cond = p.parseExpr(LOWEST)
		p.nextToken()
	}
	if !p.expectCurrent(token.SEMI) {
		return nil
	}

	var update ast.Stmt
	if !p.curIs(token.RPAREN) {
		update = p.parseForClauseStmt()
		p.nextToken()
	}
	if !p.expectCurrent(token.RPAREN) {
		return nil
	}
	if !p.curIs(token.LBRACE) {
		p.currentError(token.LBRACE)
		return nil
	}
	body := p.parseBlock()
	return &ast.For{StmtBase: ast.StmtBase{PosVal: pos}, Init: init, Cond: cond, Update: update, Body: body}
}

// parseForClauseStmt parses the init/update clause of a for loop: a local
// var declaration, an assignment or a bare expression, with no trailing
// semicolon of its own (the for-loop grammar supplies the separators).
func (p *Parser) parseForClauseStmt() ast.Stmt {
	pos := p.cur.Pos
	switch {
	case p.curIs(token.VAR):
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		idPos := p.cur.Pos
		name := p.cur.Literal
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		assignPos := p.cur.Pos
		p.nextToken()
		init := p.parseExpr(LOWEST)
		return &ast.LocalVarDef{StmtBase: ast.StmtBase{PosVal: pos}, IDPos: idPos, AssignPos: assignPos, Name: name, InitVal: init}
	case p.curIs(token.INT), p.curIs(token.BOOL), p.curIs(token.STRING),
		p.curIs(token.TYPEIDENT) && p.peekIs(token.IDENT):
		t := p.parseTypeLit()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		idPos := p.cur.Pos
		name := p.cur.Literal
		lv := &ast.LocalVarDef{StmtBase: ast.StmtBase{PosVal: pos}, IDPos: idPos, Name: name, TypeLit: t}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			lv.AssignPos = p.cur.Pos
			p.nextToken()
			lv.InitVal = p.parseExpr(LOWEST)
		}
		return lv
	default:
		left := p.parseExpr(LOWEST)
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			assignPos := p.cur.Pos
			p.nextToken()
			right := p.parseExpr(LOWEST)
			return &ast.Assign{StmtBase: ast.StmtBase{PosVal: assignPos}, Lhs: left, Rhs: right}
		}
		return &ast.ExprEval{StmtBase: ast.StmtBase{PosVal: pos}, Expr: left}
	}
}

func (p *Parser) parseBreak() ast.Stmt {
	pos := p.cur.Pos
	if !p.expectPeek(token.SEMI) {
		return nil
	}
	p.nextToken()
	return &ast.Break{StmtBase: ast.StmtBase{PosVal: pos}}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	if p.peekIs(token.SEMI) {
		p.nextToken()
		p.nextToken()
		return &ast.Return{StmtBase: ast.StmtBase{PosVal: pos}}
	}
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	ret := &ast.Return{StmtBase: ast.StmtBase{PosVal: pos}, Expr: expr}
	if !p.expectPeek(token.SEMI) {
		return ret
	}
	p.nextToken()
	return ret
}

func (p *Parser) parsePrint() ast.Stmt {
	pos := p.cur.Pos
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	exprs := p.parseExprList(token.RPAREN)
	pr := &ast.Print{StmtBase: ast.StmtBase{PosVal: pos}, Exprs: exprs}
	if !p.expectPeek(token.SEMI) {
		return pr
	}
	p.nextToken()
	return pr
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.cur.Pos
	left := p.parseExpr(LOWEST)
	var stmt ast.Stmt
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		assignPos := p.cur.Pos
		p.nextToken()
		right := p.parseExpr(LOWEST)
		stmt = &ast.Assign{StmtBase: ast.StmtBase{PosVal: assignPos}, Lhs: left, Rhs: right}
	} else {
		stmt = &ast.ExprEval{StmtBase: ast.StmtBase{PosVal: pos}, Expr: left}
	}
	if !p.expectPeek(token.SEMI) {
		return stmt
	}
	p.nextToken()
	return stmt
}
