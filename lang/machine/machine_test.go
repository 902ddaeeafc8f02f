package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/compiler"
	"github.com/vif-lang/vif/lang/machine"
	"github.com/vif-lang/vif/lang/parser"
	"github.com/vif-lang/vif/lang/static"
)

// runSource compiles and executes src, returning whatever print() wrote to
// stdout. Mirrors the snippet -> expected-stdout tests the original source
// language's own VM suite uses.
func runSource(t *testing.T, src string) string {
	t.Helper()
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	fn, globals, err := compiler.Compile(top)
	require.NoError(t, err)

	var out bytes.Buffer
	th := machine.NewThread(globals)
	th.Stdout = &out
	require.NoError(t, machine.Run(th, fn))
	return out.String()
}

func TestRunVariablesAndWhileLoop(t *testing.T) {
	src := "var mut total = 0\nvar mut i = 1\nwhile i <= 5:\n    total = total + i\n    i = i + 1\nprint(total)\n"
	assert.Equal(t, "15\n", runSource(t, src))
}

func TestRunFunctionAndReturn(t *testing.T) {
	src := "def add(a, b):\n    return a + b\nprint(add(2, 3))\n"
	assert.Equal(t, "5\n", runSource(t, src))
}

func TestRunRecursiveFunction(t *testing.T) {
	src := "def fact(n):\n    if n == 0:\n        return 1\n    return n * fact(n - 1)\nprint(fact(5))\n"
	assert.Equal(t, "120\n", runSource(t, src))
}

func TestRunClosureCapturesEnclosingLocal(t *testing.T) {
	src := "def make(x):\n    def get():\n        return x\n    return get\nvar f = make(7)\nprint(f())\n"
	assert.Equal(t, "7\n", runSource(t, src))
}

func TestRunBreakExitsLoop(t *testing.T) {
	src := "var mut i = 0\nwhile True:\n    if i == 3:\n        break\n    print(i)\n    i = i + 1\n"
	assert.Equal(t, "0\n1\n2\n", runSource(t, src))
}

func TestRunContinueSkipsIteration(t *testing.T) {
	src := "var mut i = 0\nwhile i < 5:\n    i = i + 1\n    if i == 3:\n        continue\n    print(i)\n"
	assert.Equal(t, "1\n2\n4\n5\n", runSource(t, src))
}

func TestRunAssertFailureHalts(t *testing.T) {
	top, err := parser.Build([]byte("assert 1 == 2\n"))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	fn, globals, err := compiler.Compile(top)
	require.NoError(t, err)

	th := machine.NewThread(globals)
	err = machine.Run(th, fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AssertFail")
}

func TestRunDivideByZero(t *testing.T) {
	top, err := parser.Build([]byte("var x = 1 / 0\n"))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	fn, globals, err := compiler.Compile(top)
	require.NoError(t, err)

	th := machine.NewThread(globals)
	err = machine.Run(th, fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DivideByZero")
}

func TestRunStringConcatenation(t *testing.T) {
	src := `print("hello" + " " + "world")` + "\n"
	assert.Equal(t, "hello world\n", runSource(t, src))
}

func TestRunLeftAssociativeSubtraction(t *testing.T) {
	src := "print(10 - 3 - 2)\n"
	assert.Equal(t, "5\n", runSource(t, src))
}

func TestRunLogicalShortCircuit(t *testing.T) {
	src := "def boom():\n    assert False\n    return 1\nprint(True or boom())\n"
	assert.Equal(t, "True\n", runSource(t, src))
}

func TestRunMaxStepsAborts(t *testing.T) {
	top, err := parser.Build([]byte("var mut i = 0\nwhile True:\n    i = i + 1\n"))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	fn, globals, err := compiler.Compile(top)
	require.NoError(t, err)

	th := machine.NewThread(globals)
	th.MaxSteps = 100
	err = machine.Run(th, fn)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "step budget") || strings.Contains(err.Error(), "FunctionCall"))
}
