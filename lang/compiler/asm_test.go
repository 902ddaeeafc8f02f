package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/compiler"
	"github.com/vif-lang/vif/lang/objects"
)

func TestAssembleSimpleAddition(t *testing.T) {
	src := `
globals:
  int 2
  int 3

function :
  GLOBAL 0
  GLOBAL 1
  ADD
  RETURN
`
	fn, globals, err := compiler.Assemble([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 4, len(fn.Chunk))
	assert.Equal(t, objects.OpAdd, fn.Chunk[2].Kind)
	assert.Equal(t, 2, globals.Len())
}

func TestAssembleJumpTargetsAreTranslatedToRelative(t *testing.T) {
	src := `
function :
  TRUE
  JUMP_IF_FALSE 4
  FALSE
  RETURN
  NONE
  RETURN
`
	fn, _, err := compiler.Assemble([]byte(src))
	require.NoError(t, err)
	// JUMP_IF_FALSE at index 1 targets index 4: relative offset 4-1-1=2.
	assert.Equal(t, 2, fn.Chunk[1].A)
}

func TestDisassembleRendersOffsetAndMnemonic(t *testing.T) {
	src := `
function :
  TRUE
  NOT
  RETURN
`
	fn, _, err := compiler.Assemble([]byte(src))
	require.NoError(t, err)
	out := compiler.Disassemble(fn)
	assert.Contains(t, out, "OP_TRUE")
	assert.Contains(t, out, "OP_NOT")
	assert.Contains(t, out, "OP_RETURN")
}
