package typeshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFirstReportWins(t *testing.T) {
	ctx := NewContext()
	ctx.report(OSError, "could not open %s", "a.txt")
	ctx.report(ParseError, "later failure")

	require.True(t, ctx.Failed())
	assert.Equal(t, OSError, ctx.Err().Kind)
	assert.Equal(t, "could not open a.txt", ctx.Err().Message)
}

func TestContextReset(t *testing.T) {
	ctx := NewContext()
	ctx.report(LexError, "lexer initialization failed")
	require.True(t, ctx.Failed())

	ctx.Reset()
	assert.False(t, ctx.Failed())
	assert.Nil(t, ctx.Err())

	ctx.report(ValueError, "second call")
	assert.Equal(t, ValueError, ctx.Err().Kind)
}

func TestNilContextIsSafe(t *testing.T) {
	var ctx *Context
	ctx.report(MemoryError, "dropped")
	assert.False(t, ctx.Failed())
	assert.Nil(t, ctx.Err())
	ctx.Reset()
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: MemoryError, Message: "out of memory"}
	assert.Equal(t, "MemoryError: out of memory", err.Error())
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{kind: NoError, expected: "Success"},
		{kind: ValueError, expected: "ValueError"},
		{kind: InvalidArgumentError, expected: "InvalidArgumentError"},
		{kind: LexError, expected: "LexError"},
		{kind: ParseError, expected: "ParseError"},
		{kind: OSError, expected: "OSError"},
		{kind: MemoryError, expected: "MemoryError"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.kind.String())
	}
}
