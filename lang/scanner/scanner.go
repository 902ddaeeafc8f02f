// Package scanner tokenizes Vif source into the token stream the parser
// consumes, including the INDENT/DEDENT state machine that makes Vif
// indentation-sensitive.
//
// The rune-at-a-time scanning core (advance/peek over a byte slice, with an
// explicit UTF-8 decode fast path) follows a conventional hand-written
// lexer shape; the indentation stack layers Python-style INDENT/DEDENT
// tracking on top of it.
package scanner

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/token"
	"github.com/vif-lang/vif/lang/viferr"
)

// Token combines a lexical kind with its literal value (if any) and the
// span it occupies in the source.
type Token struct {
	Kind  token.Token
	Raw   string // the lexeme as it appeared in the source
	Int   int64
	Float float64
	Str   string // decoded value for STRING tokens
	Span  objects.Span
}

// Scanner tokenizes a single source unit. Only the scanner constructs
// Tokens.
type Scanner struct {
	src []byte
	cur rune
	off int
	roff int
	line int

	lineStart   bool
	indentStack []int

	peeked    *Token
	peekedErr error
}

// New returns a Scanner ready to tokenize src.
func New(src []byte) *Scanner {
	s := &Scanner{src: src, line: 1, lineStart: true}
	s.advance()
	return s
}

// indentKind tags the transient result of scanning a line's indentation;
// Ignore and IgnoreNewLine never escape the scanner.
type indentKind uint8

const (
	indentNone indentKind = iota
	indentIgnore
	indentIgnoreNewLine
	indentIndent
	indentDedent
	indentEOF
)

func isDecimal(r rune) bool { return r >= '0' && r <= '9' }
func isLetter(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r >= utf8.RuneSelf && unicode.IsLetter(r)
}
func isAlnum(r rune) bool { return isLetter(r) || isDecimal(r) || r >= utf8.RuneSelf && unicode.IsDigit(r) }

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

// peekByte returns the byte following the current character, or 0 at EOF.
func (s *Scanner) peekByte() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) span() objects.Span { return objects.Span{Line: s.line, Index: s.off} }

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (Token, error) {
	if s.peeked == nil {
		t, err := s.scan()
		s.peeked = &t
		s.peekedErr = err
	}
	return *s.peeked, s.peekedErr
}

// Scan consumes and returns the next token.
func (s *Scanner) Scan() (Token, error) {
	if s.peeked != nil {
		t, err := *s.peeked, s.peekedErr
		s.peeked, s.peekedErr = nil, nil
		return t, err
	}
	return s.scan()
}

// Check reports whether the peeked token has the given kind.
func (s *Scanner) Check(kind token.Token) bool {
	t, err := s.Peek()
	return err == nil && t.Kind == kind
}

func (s *Scanner) scan() (Token, error) {
	for {
		if s.lineStart {
			kind, sp, err := s.scanIndentation()
			if err != nil {
				return Token{Kind: token.ILLEGAL, Span: sp}, err
			}
			switch kind {
			case indentIgnore, indentIgnoreNewLine:
				continue
			case indentIndent:
				return Token{Kind: token.INDENT, Raw: "indent", Span: sp}, nil
			case indentDedent:
				return Token{Kind: token.DEDENT, Raw: "dedent", Span: sp}, nil
			case indentEOF:
				return Token{Kind: token.EOF, Span: sp}, nil
			}
		}
		return s.scanToken()
	}
}

func (s *Scanner) scanIndentation() (indentKind, objects.Span, error) {
	count := 0
	lineOff := s.off
	s.lineStart = false
loop:
	for {
		switch s.cur {
		case ' ':
			s.advance()
			count++
		case '\t':
			s.advance()
			count += 4
		case '\n':
			s.advance()
			return indentIgnoreNewLine, s.span(), nil
		case -1:
			return indentEOF, s.span(), nil
		default:
			break loop
		}
	}

	sp := s.span()
	if len(s.indentStack) == 0 {
		s.indentStack = append(s.indentStack, count)
	}
	top := s.indentStack[len(s.indentStack)-1]

	switch {
	case count == top:
		return indentIgnore, sp, nil
	case count > top:
		s.indentStack = append(s.indentStack, count)
		return indentIndent, sp, nil
	default:
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
		newTop := s.indentStack[len(s.indentStack)-1]
		switch {
		case count == newTop:
			return indentDedent, sp, nil
		case newTop > count:
			// leave another dedent to report on the next Scan() call: rewind
			// to the start of the line so that call measures the same
			// indentation again and pops the next level.
			s.roff = lineOff
			s.advance()
			s.lineStart = true
			return indentDedent, sp, nil
		default:
			return indentNone, sp, viferr.New(viferr.KindIndentationError, sp, "indentation error")
		}
	}
}

// scanToken scans a single non-structural token: identifiers/keywords,
// numbers, strings, punctuation and operators. Leading indentation has
// already been consumed by scanIndentation.
func (s *Scanner) scanToken() (Token, error) {
	// skip non-leading whitespace and comments
	for {
		switch s.cur {
		case ' ', '\t', '\r':
			s.advance()
			continue
		case '#':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		break
	}

	sp := s.span()

	switch {
	case s.cur == -1:
		return Token{Kind: token.EOF, Span: sp}, nil

	case s.cur == '\n':
		s.advance()
		s.lineStart = true
		return Token{Kind: token.NEWLINE, Raw: "\n", Span: sp}, nil

	case isLetter(s.cur):
		start := s.off
		for isAlnum(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		return Token{Kind: token.LookupIdent(lit), Raw: lit, Span: sp}, nil

	case isDecimal(s.cur) || (s.cur == '.' && isDecimal(rune(s.peekByte()))):
		return s.scanNumber(sp)

	case s.cur == '"':
		return s.scanString(sp)
	}

	return s.scanOperator(sp)
}

func (s *Scanner) scanNumber(sp objects.Span) (Token, error) {
	start := s.off
	isFloat := false
	for isDecimal(s.cur) {
		s.advance()
	}
	if s.cur == '.' {
		isFloat = true
		s.advance()
		for isDecimal(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[start:s.off])
	if isFloat {
		v, _ := strconv.ParseFloat(lit, 64)
		return Token{Kind: token.FLOAT, Raw: lit, Float: v, Span: sp}, nil
	}
	v, _ := strconv.ParseInt(lit, 10, 64)
	return Token{Kind: token.INT, Raw: lit, Int: v, Span: sp}, nil
}

func (s *Scanner) scanString(sp objects.Span) (Token, error) {
	s.advance() // opening quote
	start := s.off
	for s.cur != '"' {
		if s.cur == '\n' || s.cur == -1 {
			lit := string(s.src[start:s.off])
			return Token{Kind: token.STRING, Raw: lit, Str: lit, Span: sp},
				viferr.New(viferr.KindUnclosedString, sp, "unclosed string literal")
		}
		s.advance()
	}
	lit := string(s.src[start:s.off])
	s.advance() // closing quote
	return Token{Kind: token.STRING, Raw: lit, Str: lit, Span: sp}, nil
}

func (s *Scanner) scanOperator(sp objects.Span) (Token, error) {
	cur := s.cur
	s.advance()

	two := func(second rune, withEq, without token.Token) (Token, error) {
		if s.cur == second {
			s.advance()
			return Token{Kind: withEq, Span: sp}, nil
		}
		return Token{Kind: without, Span: sp}, nil
	}

	switch cur {
	case '(':
		return Token{Kind: token.LPAREN, Span: sp}, nil
	case ')':
		return Token{Kind: token.RPAREN, Span: sp}, nil
	case '[':
		return Token{Kind: token.LBRACK, Span: sp}, nil
	case ']':
		return Token{Kind: token.RBRACK, Span: sp}, nil
	case '{':
		return Token{Kind: token.LBRACE, Span: sp}, nil
	case '}':
		return Token{Kind: token.RBRACE, Span: sp}, nil
	case ',':
		return Token{Kind: token.COMMA, Span: sp}, nil
	case ':':
		return Token{Kind: token.COLON, Span: sp}, nil
	case ';':
		return Token{Kind: token.SEMI, Span: sp}, nil
	case '@':
		return Token{Kind: token.AT, Span: sp}, nil
	case '+':
		return two('=', token.PLUSEQ, token.PLUS)
	case '-':
		return two('=', token.MINUSEQ, token.MINUS)
	case '*':
		return two('=', token.STAREQ, token.STAR)
	case '/':
		return two('=', token.SLASHEQ, token.SLASH)
	case '%':
		return Token{Kind: token.PERCENT, Span: sp}, nil
	case '=':
		return two('=', token.EQEQ, token.EQ)
	case '<':
		return two('=', token.LE, token.LT)
	case '>':
		return two('=', token.GE, token.GT)
	case '!':
		if s.cur == '=' {
			s.advance()
			return Token{Kind: token.NEQ, Span: sp}, nil
		}
		return Token{Kind: token.ILLEGAL, Span: sp}, viferr.New(viferr.KindUnidentifiedError, sp, "unexpected character '!'")
	}

	return Token{Kind: token.ILLEGAL, Span: sp}, viferr.New(viferr.KindUnidentifiedError, sp, "unexpected character %q", cur)
}
