package lineindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPosition_BasicLines(t *testing.T) {
	idx := New([]byte("abc\ndef\nghi"))

	assert.Equal(t, Position{Line: 0, Character: 0}, idx.ToPosition(0))
	assert.Equal(t, Position{Line: 0, Character: 3}, idx.ToPosition(3))
	assert.Equal(t, Position{Line: 1, Character: 0}, idx.ToPosition(4))
	assert.Equal(t, Position{Line: 2, Character: 2}, idx.ToPosition(10))
}

func TestToPosition_ClampsPastEnd(t *testing.T) {
	idx := New([]byte("abc"))
	pos := idx.ToPosition(1000)
	assert.Equal(t, Position{Line: 0, Character: 3}, pos)
}

func TestToPosition_NeverPanicsOnEmptyText(t *testing.T) {
	idx := New(nil)
	require.NotPanics(t, func() {
		_ = idx.ToPosition(0)
		_ = idx.ToPosition(-5)
		_ = idx.ToPosition(100)
	})
	assert.Equal(t, Position{Line: 0, Character: 0}, idx.ToPosition(0))
}

func TestToPosition_NegativeOffsetClampsToZero(t *testing.T) {
	idx := New([]byte("hello"))
	assert.Equal(t, Position{Line: 0, Character: 0}, idx.ToPosition(-1))
}

func TestToPosition_TrailingNewline(t *testing.T) {
	idx := New([]byte("abc\n"))
	// offset 4 is end-of-text, right after the trailing newline: line 1, char 0.
	assert.Equal(t, Position{Line: 1, Character: 0}, idx.ToPosition(4))
}

func TestToRange(t *testing.T) {
	idx := New([]byte("abcde\nfghij"))
	r := idx.ToRange(1, 7)
	assert.Equal(t, Position{Line: 0, Character: 1}, r.Start)
	assert.Equal(t, Position{Line: 1, Character: 1}, r.End)
}

// ToPosition must be total over every offset in [0, len(text)] without panicking,
// exercising the full domain rather than a handful of spot checks.
func TestToPosition_TotalOverDomain(t *testing.T) {
	text := []byte("line one\nline two\n\nline four\n")
	idx := New(text)
	for off := 0; off <= len(text); off++ {
		require.NotPanics(t, func() {
			_ = idx.ToPosition(off)
		})
	}
}
