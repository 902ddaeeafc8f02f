package parser

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/token"
)

// expression is the entry point of the precedence climb, starting at
// assignment (the lowest-precedence, right-associative production).
func (p *Parser) expression() *ast.Expr {
	return p.assignment()
}

// assignment handles `target = value` and the compound forms `target += value`
// etc, desugaring the latter into `target = target OP value` (SPEC_FULL.md
// §7.2). It is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) assignment() *ast.Expr {
	left := p.or()

	if p.cur.Kind == token.EQ {
		eq := p.cur.Span
		p.advance()
		if _, ok := left.Body.(*ast.ValueExpr); !ok || left.Body.(*ast.ValueExpr).Kind != ast.ValVariable {
			p.failAt(left.Span, "invalid assignment target")
		}
		value := p.assignment()
		return &ast.Expr{
			Body:   &ast.AssignExpr{Target: left, Value: value},
			Typing: objects.Unknown,
			Span:   eq,
		}
	}

	if token.IsCompoundAssign(p.cur.Kind) {
		opTok := p.cur.Kind
		eq := p.cur.Span
		p.advance()
		if _, ok := left.Body.(*ast.ValueExpr); !ok || left.Body.(*ast.ValueExpr).Kind != ast.ValVariable {
			p.failAt(left.Span, "invalid assignment target")
		}
		rhs := p.assignment()
		bin := &ast.Expr{
			Body:   &ast.BinaryExpr{Left: left, Op: token.BinaryOpFor(opTok), Right: rhs},
			Typing: objects.Unknown,
			Span:   eq,
		}
		return &ast.Expr{
			Body:   &ast.AssignExpr{Target: left, Value: bin},
			Typing: objects.Unknown,
			Span:   eq,
		}
	}

	return left
}

// or is right-associative.
func (p *Parser) or() *ast.Expr {
	left := p.and()
	if p.cur.Kind == token.OR {
		sp := p.cur.Span
		p.advance()
		right := p.or()
		return &ast.Expr{Body: &ast.LogicalExpr{Left: left, Kind: ast.LogicalOr, Right: right}, Typing: objects.Unknown, Span: sp}
	}
	return left
}

// and is right-associative.
func (p *Parser) and() *ast.Expr {
	left := p.equality()
	if p.cur.Kind == token.AND {
		sp := p.cur.Span
		p.advance()
		right := p.and()
		return &ast.Expr{Body: &ast.LogicalExpr{Left: left, Kind: ast.LogicalAnd, Right: right}, Typing: objects.Unknown, Span: sp}
	}
	return left
}

// binaryLevel is the shared left-associative precedence-climbing loop used
// by equality, comparison, term and factor: a plain iterative loop, so
// `a - b - c` parses as `(a - b) - c` rather than the wrong-associativity
// result a mutually right-recursive descent would produce.
func (p *Parser) binaryLevel(next func() *ast.Expr, ops ...token.Token) *ast.Expr {
	left := next()
	for {
		matched := false
		for _, op := range ops {
			if p.cur.Kind == op {
				sp := p.cur.Span
				p.advance()
				right := next()
				left = &ast.Expr{Body: &ast.BinaryExpr{Left: left, Op: op, Right: right}, Typing: objects.Unknown, Span: sp}
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *Parser) equality() *ast.Expr {
	return p.binaryLevel(p.comparison, token.EQEQ, token.NEQ)
}

func (p *Parser) comparison() *ast.Expr {
	return p.binaryLevel(p.term, token.LT, token.LE, token.GT, token.GE)
}

func (p *Parser) term() *ast.Expr {
	return p.binaryLevel(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() *ast.Expr {
	return p.binaryLevel(p.unary, token.STAR, token.SLASH, token.PERCENT)
}

// unary is right-associative prefix: `not not x` parses as `not (not x)`.
func (p *Parser) unary() *ast.Expr {
	if p.cur.Kind == token.MINUS || p.cur.Kind == token.NOT {
		op := p.cur.Kind
		sp := p.cur.Span
		p.advance()
		right := p.unary()
		return &ast.Expr{Body: &ast.UnaryExpr{Op: op, Right: right}, Typing: objects.Unknown, Span: sp}
	}
	return p.call()
}

// call handles postfix call syntax: `callee(args...)`.
func (p *Parser) call() *ast.Expr {
	expr := p.primary()
	for p.cur.Kind == token.LPAREN {
		sp := p.cur.Span
		p.advance()
		var args []*ast.Expr
		if p.cur.Kind != token.RPAREN {
			args = append(args, p.expression())
			for p.cur.Kind == token.COMMA {
				p.advance()
				args = append(args, p.expression())
			}
		}
		p.expect(token.RPAREN)
		expr = &ast.Expr{Body: &ast.CallExpr{Callee: expr, Args: args}, Typing: objects.Unknown, Span: sp}
	}
	return expr
}

// primary parses literals, variable references, break/continue and
// parenthesized expressions.
func (p *Parser) primary() *ast.Expr {
	t := p.cur
	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValInteger, Int: t.Int}, Typing: objects.Typing{Kind: objects.KindInt, Mutable: true}, Span: t.Span}
	case token.FLOAT:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValFloat, Float: t.Float}, Typing: objects.Typing{Kind: objects.KindFloat, Mutable: true}, Span: t.Span}
	case token.STRING:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValString, Str: t.Str}, Typing: objects.Typing{Kind: objects.KindString, Mutable: true}, Span: t.Span}
	case token.TRUE:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValTrue}, Typing: objects.Typing{Kind: objects.KindBool, Mutable: true}, Span: t.Span}
	case token.FALSE:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValFalse}, Typing: objects.Typing{Kind: objects.KindBool, Mutable: true}, Span: t.Span}
	case token.NONE:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValNone}, Typing: objects.None, Span: t.Span}
	case token.IDENT:
		p.advance()
		return &ast.Expr{Body: &ast.ValueExpr{Kind: ast.ValVariable, Name: t.Raw}, Typing: objects.Unknown, Span: t.Span}
	case token.BREAK, token.CONTINUE:
		p.advance()
		return &ast.Expr{Body: &ast.LoopKeywordExpr{Kind: ast.LoopKindFor(t.Kind)}, Typing: objects.None, Span: t.Span}
	case token.LPAREN:
		p.advance()
		inner := p.expression()
		p.expect(token.RPAREN)
		return &ast.Expr{Body: &ast.GroupingExpr{Inner: inner}, Typing: inner.Typing, Span: t.Span}
	}

	p.fail("unexpected %s", t.Kind)
	panic("unreachable")
}
