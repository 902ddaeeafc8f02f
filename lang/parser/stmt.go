package parser

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/token"
)

// declaration is the top of the statement grammar: `var`, `def`, or a plain
// statement. It wraps the whole production in panic-mode recovery so a
// syntax error anywhere inside one statement doesn't abort the whole parse.
func (p *Parser) declaration() (stmt ast.Stmt) {
	start := p.cur.Span
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			end := p.synchronize()
			stmt = &ast.BadStmt{Start: start, End: end}
		}
	}()

	switch p.cur.Kind {
	case token.VAR:
		return p.varDecl()
	case token.DEF:
		return p.funcDecl()
	default:
		return p.statement()
	}
}

// expectStmtEnd consumes the NEWLINE that normally terminates a statement,
// tolerating EOF or DEDENT for a final statement with no trailing newline.
func (p *Parser) expectStmtEnd() {
	switch p.cur.Kind {
	case token.NEWLINE:
		p.advance()
	case token.EOF, token.DEDENT:
	default:
		p.fail("expected end of statement, got %s", p.cur.Kind)
	}
}

// block parses `: NEWLINE INDENT stmt* DEDENT`, the body of any compound
// statement (if/elif/else/while/def). End of input also closes a block,
// since the scanner emits EOF rather than trailing DEDENTs.
func (p *Parser) block() []ast.Stmt {
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	var stmts []ast.Stmt
	for p.cur.Kind != token.DEDENT && p.cur.Kind != token.EOF {
		if p.cur.Kind == token.NEWLINE {
			p.advance()
			continue
		}
		stmts = append(stmts, p.declaration())
	}
	if p.cur.Kind != token.EOF {
		p.expect(token.DEDENT)
	}
	return stmts
}

func (p *Parser) varDecl() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'var'
	mutable := p.match(token.MUT)
	name := p.expect(token.IDENT)
	p.expect(token.EQ)
	value := p.expression()
	p.expectStmtEnd()
	return &ast.VarStmt{Name: name.Raw, Mutable: mutable, Value: value, VarSpan: sp}
}

func (p *Parser) funcDecl() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'def'
	name := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []ast.Param
	if p.cur.Kind != token.RPAREN {
		params = append(params, p.param())
		for p.match(token.COMMA) {
			params = append(params, p.param())
		}
	}
	p.expect(token.RPAREN)

	body := p.block()
	return &ast.Function{Name: name.Raw, Params: params, Body: body, Typing: objects.Unknown, FnSpan: sp}
}

func (p *Parser) param() ast.Param {
	mutable := p.match(token.MUT)
	name := p.expect(token.IDENT)
	return ast.Param{Name: name.Raw, Typing: objects.Typing{Kind: objects.KindUnknown, Mutable: mutable}}
}

func (p *Parser) statement() ast.Stmt {
	switch p.cur.Kind {
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.ASSERT:
		return p.assertStmt()
	default:
		return p.exprStmt()
	}
}

// ifStmt parses `if COND: THEN (elif COND: THEN)* (else: ELSE)?`. Each
// `elif` desugars into a single-statement Else holding a nested
// ConditionStmt (SPEC_FULL.md §7.1).
func (p *Parser) ifStmt() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'if'
	return p.conditionTail(sp)
}

func (p *Parser) conditionTail(sp objects.Span) ast.Stmt {
	cond := p.expression()
	then := p.block()

	var elseStmts []ast.Stmt
	switch p.cur.Kind {
	case token.ELIF:
		elifSp := p.cur.Span
		p.advance()
		elseStmts = []ast.Stmt{p.conditionTail(elifSp)}
	case token.ELSE:
		p.advance()
		elseStmts = p.block()
	}

	return &ast.ConditionStmt{Cond: cond, Then: then, Else: elseStmts, CondSpan: sp}
}

func (p *Parser) whileStmt() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'while'
	cond := p.expression()
	body := p.block()
	return &ast.WhileStmt{Cond: cond, Body: body, WhileSpan: sp}
}

func (p *Parser) returnStmt() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'return'
	var value *ast.Expr
	if p.cur.Kind != token.NEWLINE && p.cur.Kind != token.EOF && p.cur.Kind != token.DEDENT {
		value = p.expression()
	}
	p.expectStmtEnd()
	return &ast.ReturnStmt{Value: value, ReturnSpan: sp}
}

func (p *Parser) assertStmt() ast.Stmt {
	sp := p.cur.Span
	p.advance() // 'assert'
	value := p.expression()
	p.expectStmtEnd()
	return &ast.AssertStmt{Value: value, AssertSpan: sp}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.expectStmtEnd()
	return &ast.ExpressionStmt{Expr: expr}
}
