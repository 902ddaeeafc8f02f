// Package parser implements Vif's recursive-descent, Pratt-style parser,
// turning a scanner.Scanner's token stream into an *ast.Function (the
// top-level program). Error recovery is panic-mode: a deferred recover()
// in declaration() synchronizes to the next safe point and emits a
// BadStmt so the parser can keep reporting further errors in one pass.
package parser

import (
	"errors"

	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/scanner"
	"github.com/vif-lang/vif/lang/token"
	"github.com/vif-lang/vif/lang/viferr"
)

// errPanicMode is the sentinel recovered by declaration to resynchronize
// after an unrecoverable parse error within a single statement.
var errPanicMode = errors.New("vif: parser panic mode")

// Parser turns a token stream into an AST, accumulating every ParsingError
// it encounters instead of aborting at the first one.
type Parser struct {
	sc   *scanner.Scanner
	cur  scanner.Token
	errs viferr.List
}

// New returns a Parser reading from src.
func New(src []byte) *Parser {
	p := &Parser{sc: scanner.New(src)}
	p.advance()
	return p
}

// Build drives declaration() until EOF, accumulating top-level statements
// into the returned *ast.Function (spec's implicit top-level frame). It
// returns a non-nil error (a *viferr.List) iff any error was accumulated.
func Build(src []byte) (*ast.Function, error) {
	p := New(src)
	top := &ast.Function{Typing: objects.Unknown}

	for p.cur.Kind != token.EOF {
		if stmt := p.declaration(); stmt != nil {
			top.Body = append(top.Body, stmt)
		}
	}

	if p.errs.Len() > 0 {
		return top, &p.errs
	}
	return top, nil
}

func (p *Parser) advance() {
	for {
		t, err := p.sc.Scan()
		p.cur = t
		if err != nil {
			if verr, ok := err.(*viferr.Error); ok {
				p.errs.AddErr(verr)
			}
			continue
		}
		return
	}
}

func (p *Parser) check(kind token.Token) bool { return p.cur.Kind == kind }

func (p *Parser) match(kinds ...token.Token) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given kind, returning it.
// Otherwise it records a ParsingError and panics in panic mode.
func (p *Parser) expect(kind token.Token) scanner.Token {
	if p.cur.Kind != kind {
		p.fail("expected %s, got %s", kind, p.cur.Kind)
	}
	t := p.cur
	p.advance()
	return t
}

// fail records a ParsingError at the current token's span and unwinds to
// the nearest recover point via panic mode.
func (p *Parser) fail(format string, args ...any) {
	p.errs.Add(viferr.KindParsingError, p.cur.Span, format, args...)
	panic(errPanicMode)
}

func (p *Parser) failAt(span objects.Span, format string, args ...any) {
	p.errs.Add(viferr.KindParsingError, span, format, args...)
	panic(errPanicMode)
}

// skipNewlines consumes any run of NEWLINE tokens (blank lines).
func (p *Parser) skipNewlines() {
	for p.cur.Kind == token.NEWLINE {
		p.advance()
	}
}

// synchronize skips tokens until it reaches a likely statement boundary:
// NEWLINE, DEDENT or EOF.
func (p *Parser) synchronize() objects.Span {
	for p.cur.Kind != token.NEWLINE && p.cur.Kind != token.DEDENT && p.cur.Kind != token.EOF {
		p.advance()
	}
	end := p.cur.Span
	if p.cur.Kind == token.NEWLINE {
		p.advance()
	}
	return end
}
