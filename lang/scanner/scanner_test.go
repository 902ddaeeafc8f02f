package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/scanner"
	"github.com/vif-lang/vif/lang/token"
)

func scanAll(t *testing.T, src string) ([]scanner.Token, error) {
	t.Helper()
	s := scanner.New([]byte(src))
	var toks []scanner.Token
	for {
		tok, err := s.Scan()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func kinds(toks []scanner.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanOperatorsAndPunctuation(t *testing.T) {
	toks, err := scanAll(t, "( ) [ ] { } , : ; @ + - * / % == != <= >= < > = += -= *= /=\n")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK, token.LBRACE, token.RBRACE,
		token.COMMA, token.COLON, token.SEMI, token.AT,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQEQ, token.NEQ, token.LE, token.GE, token.LT, token.GT, token.EQ,
		token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ,
		token.NEWLINE, token.EOF,
	}, kinds(toks))
}

func TestScanIntAndFloatLiterals(t *testing.T) {
	toks, err := scanAll(t, "10 3.5\n")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, int64(10), toks[0].Int)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, 3.5, toks[1].Float)
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := scanAll(t, `"hello world"` + "\n")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Str)
}

func TestScanUnclosedStringReportsError(t *testing.T) {
	_, err := scanAll(t, `"unterminated`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnclosedString")
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, err := scanAll(t, "var def if else while return assert and or not break continue True False None foo_bar\n")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.VAR, token.DEF, token.IF, token.ELSE, token.WHILE, token.RETURN, token.ASSERT,
		token.AND, token.OR, token.NOT, token.BREAK, token.CONTINUE,
		token.TRUE, token.FALSE, token.NONE,
		token.IDENT, token.NEWLINE, token.EOF,
	}, kinds(toks))
}

func TestScanCommentIsIgnored(t *testing.T) {
	toks, err := scanAll(t, "1 # a comment\n2\n")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.NEWLINE, toks[1].Kind)
	assert.Equal(t, token.INT, toks[2].Kind)
}

func TestScanIndentAndDedent(t *testing.T) {
	src := "if True:\n    1\n2\n"
	toks, err := scanAll(t, src)
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.IF, token.TRUE, token.COLON, token.NEWLINE,
		token.INDENT, token.INT, token.NEWLINE,
		token.DEDENT, token.INT, token.NEWLINE,
		token.EOF,
	}, kinds(toks))
}

func TestScanInconsistentDedentIsIndentationError(t *testing.T) {
	// dedents to a column that was never pushed on the indent stack.
	src := "if True:\n    if True:\n        1\n      2\n"
	_, err := scanAll(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IndentationError")
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := scanner.New([]byte("var x\n"))
	first, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.VAR, first.Kind)

	second, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	consumed, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, token.VAR, consumed.Kind)
}
