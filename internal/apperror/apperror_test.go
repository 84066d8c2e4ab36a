package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ToolExit, cause, "command failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "command failed")
}

func TestKindOfFindsWrappedKind(t *testing.T) {
	err := Wrap(ToolTimeout, errors.New("deadline"), "slow")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ToolTimeout, kind)
}

func TestKindOfFalseOnPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsComparesByKindNotCause(t *testing.T) {
	a := Wrap(StateConflict, errors.New("one"), "a")
	b := New(StateConflict, "b")
	assert.True(t, errors.Is(a, b))

	c := New(Fatal, "c")
	assert.False(t, errors.Is(a, c))
}

func TestFieldSetsFieldName(t *testing.T) {
	err := Field(Validation, "ramMB", "must be positive")
	assert.Equal(t, "validation: ramMB: must be positive", err.Error())
}

func TestTruncateCapsRuneLength(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "he", Truncate("hello", 2))
}
