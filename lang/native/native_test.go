package native_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vif-lang/vif/lang/native"
	"github.com/vif-lang/vif/lang/objects"
)

func TestPrintWritesSpaceSeparatedArgsAndNewline(t *testing.T) {
	var out bytes.Buffer
	_, err := native.Print.Fn(&out, []objects.StackValue{
		objects.IntValue(1), objects.StringValue("two"), objects.BoolValue(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "1 two True\n", out.String())
}

func TestGetTimeReturnsIncreasingTimestamps(t *testing.T) {
	var out bytes.Buffer
	first, err := native.GetTime.Fn(&out, nil)
	require.NoError(t, err)
	second, err := native.GetTime.Fn(&out, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, second.Int, first.Int)
}

func TestSleepRejectsNonNumericArgument(t *testing.T) {
	var out bytes.Buffer
	_, err := native.Sleep.Fn(&out, []objects.StackValue{objects.StringValue("nope")})
	require.Error(t, err)
}

func TestLookupFindsEveryDeclaredNative(t *testing.T) {
	for _, name := range native.Names() {
		nf, ok := native.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, nf.Name)
	}
	_, ok := native.Lookup("nonexistent")
	assert.False(t, ok)
}
