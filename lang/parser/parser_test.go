package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/parser"
	"github.com/vif-lang/vif/lang/token"
)

func TestBuildVarAndWhile(t *testing.T) {
	src := "var mut i = 0\nwhile i < 10:\n    i = i + 1\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.Len(t, top.Body, 2)

	v, ok := top.Body[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "i", v.Name)
	assert.True(t, v.Mutable)

	w, ok := top.Body[1].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, w.Body, 1)
	assign, ok := w.Body[0].(*ast.ExpressionStmt)
	require.True(t, ok)
	assignExpr, ok := assign.Expr.Body.(*ast.AssignExpr)
	require.True(t, ok)
	bin, ok := assignExpr.Value.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
}

func TestBuildFunctionAndReturn(t *testing.T) {
	src := "def add(a, mut b):\n    return a + b\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.Len(t, top.Body, 1)

	fn, ok := top.Body[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.False(t, fn.Params[0].Typing.Mutable)
	assert.True(t, fn.Params[1].Typing.Mutable)

	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
}

func TestBuildIfElifElse(t *testing.T) {
	src := "if x < 0:\n    y = 0\nelif x == 0:\n    y = 1\nelse:\n    y = 2\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.Len(t, top.Body, 1)

	cond, ok := top.Body[0].(*ast.ConditionStmt)
	require.True(t, ok)
	require.Len(t, cond.Else, 1)

	elif, ok := cond.Else[0].(*ast.ConditionStmt)
	require.True(t, ok)
	require.Len(t, elif.Else, 1)
	if _, ok := elif.Else[0].(*ast.ExpressionStmt); !ok {
		t.Fatalf("expected the final else branch to be a plain statement, got %T", elif.Else[0])
	}
}

func TestBuildCompoundAssignDesugars(t *testing.T) {
	src := "var mut x = 1\nx += 2\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.Len(t, top.Body, 2)

	stmt, ok := top.Body[1].(*ast.ExpressionStmt)
	require.True(t, ok)
	assign, ok := stmt.Expr.Body.(*ast.AssignExpr)
	require.True(t, ok)
	bin, ok := assign.Value.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
}

func TestBuildLeftAssociativeSubtraction(t *testing.T) {
	// 10 - 3 - 2 must parse as (10 - 3) - 2, i.e. left-associative, not
	// right-associative.
	src := "var r = 10 - 3 - 2\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	v, ok := top.Body[0].(*ast.VarStmt)
	require.True(t, ok)

	outer, ok := v.Value.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.MINUS, outer.Op)

	rightLit, ok := outer.Right.Body.(*ast.ValueExpr)
	require.True(t, ok)
	assert.Equal(t, int64(2), rightLit.Int)

	inner, ok := outer.Left.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.MINUS, inner.Op)
}

func TestBuildAssertAndBreak(t *testing.T) {
	src := "while True:\n    assert x\n    break\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)

	w, ok := top.Body[0].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, w.Body, 2)

	_, ok = w.Body[0].(*ast.AssertStmt)
	assert.True(t, ok)

	brk, ok := w.Body[1].(*ast.ExpressionStmt)
	require.True(t, ok)
	lk, ok := brk.Expr.Body.(*ast.LoopKeywordExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LoopBreak, lk.Kind)
}

func TestBuildInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := parser.Build([]byte("1 + 1 = 2\n"))
	assert.Error(t, err)
}

func TestBuildCallExpression(t *testing.T) {
	src := "var r = add(1, 2)\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	v, ok := top.Body[0].(*ast.VarStmt)
	require.True(t, ok)
	call, ok := v.Value.Body.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}
