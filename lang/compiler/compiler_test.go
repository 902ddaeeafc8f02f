package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/compiler"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/parser"
	"github.com/vif-lang/vif/lang/static"
)

func mustCompile(t *testing.T, src string) (*objects.Function, *objects.GlobalStore) {
	t.Helper()
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	fn, globals, err := compiler.Compile(top)
	require.NoError(t, err)
	return fn, globals
}

func lastOp(fn *objects.Function) objects.OpCode { return fn.Chunk[len(fn.Chunk)-1] }

func TestCompileChunkEndsWithReturn(t *testing.T) {
	fn, _ := mustCompile(t, "var x = 1\n")
	assert.Equal(t, objects.OpReturn, lastOp(fn).Kind)
}

func TestCompileVarEmitsGlobalVariable(t *testing.T) {
	fn, _ := mustCompile(t, "var x = 1\n")
	var found bool
	for _, op := range fn.Chunk {
		if op.Kind == objects.OpGlobalVariable {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileFunctionRegistersGlobalFunction(t *testing.T) {
	_, globals := mustCompile(t, "def f(a):\n    return a\n")
	var found bool
	for _, g := range globals.All() {
		if g.Kind == objects.GlobalFunction && g.Name() == "f" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileWhileLoopPatchesBreak(t *testing.T) {
	src := "var mut i = 0\nwhile i < 10:\n    i = i + 1\n    if i == 5:\n        break\n"
	fn, _ := mustCompile(t, src)

	var gotoCount int
	for _, op := range fn.Chunk {
		if op.Kind == objects.OpGoto {
			gotoCount++
		}
	}
	// one Goto for the loop-back edge, one for the break.
	assert.Equal(t, 2, gotoCount)
}

func TestCompileAssignToImmutableGlobalFails(t *testing.T) {
	top, err := parser.Build([]byte("var x = 1\nx = 2\n"))
	require.NoError(t, err)
	// bypass the static pass, which would already catch this, to exercise
	// the compiler's own redundant mutability check.
	_, _, err = compiler.Compile(top)
	assert.Error(t, err)
}

func TestCompileRecursiveFunctionResolvesSelfReference(t *testing.T) {
	src := "def fact(n):\n    if n == 0:\n        return 1\n    return n * fact(n - 1)\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	_, _, err = compiler.Compile(top)
	require.NoError(t, err)
}

func TestCompileClosureEmitsInheritedLocalOps(t *testing.T) {
	src := "def make():\n    var x = 42\n    def get():\n        return x\n    return get\n"
	top, err := parser.Build([]byte(src))
	require.NoError(t, err)
	require.NoError(t, static.Check(top))
	_, globals, err := compiler.Compile(top)
	require.NoError(t, err)

	var found bool
	for _, g := range globals.All() {
		if g.Kind == objects.GlobalFunction && g.Name() == "get" {
			for _, op := range g.Function.Chunk {
				if op.Kind == objects.OpGetInheritedLocal {
					found = true
				}
			}
		}
	}
	assert.True(t, found)
}
