package static_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/parser"
	"github.com/vif-lang/vif/lang/static"
)

func TestCheckFunctionReturnTyping(t *testing.T) {
	src := "def add(a, b):\n    return a + b\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))

	fn, ok := top.Body[0].(*ast.Function)
	require.True(t, ok)
	require.Equal(t, objects.KindCallable, fn.Typing.Kind)
	require.Equal(t, objects.KindInt, fn.Typing.Callable.Output.Kind)
}

func TestCheckDifferentSignatureBetweenReturns(t *testing.T) {
	src := "def f():\n    if True:\n        return 1\n    else:\n        return \"x\"\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	err = static.Check(top)
	assert.Error(t, err)
}

func TestCheckWrongArgumentNumber(t *testing.T) {
	src := "def add(a, b):\n    return a + b\nadd(1)\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	err = static.Check(top)
	assert.Error(t, err)
}

func TestCheckNonMutableArgumentToMutableVariable(t *testing.T) {
	src := "def make():\n    var y = 1\n    return y\nvar mut x = make()\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	err = static.Check(top)
	assert.Error(t, err)
}

func TestCheckAssignToImmutableVariable(t *testing.T) {
	src := "var x = 1\nx = 2\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	err = static.Check(top)
	assert.Error(t, err)
}

func TestCheckBinaryIsMutable(t *testing.T) {
	src := "var x = 1\nvar mut y = x + 1\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
}

func TestCheckCallableParameterMonomorphicInference(t *testing.T) {
	src := "def twice(f, x):\n    return f(f(x))\ndef inc(n):\n    return n + 1\nvar r = twice(inc, 1)\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
}
