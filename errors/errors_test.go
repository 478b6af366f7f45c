package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestMark(t *testing.T) {
	sentinel := New("invalid rate")
	cause := New("strconv failure")

	err := Mark(Wrap(cause, "rate \"x\""), sentinel)

	assert.True(t, Is(err, sentinel))
	assert.True(t, Is(err, cause))
	assert.Equal(t, "rate \"x\": strconv failure", err.Error())
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestHints(t *testing.T) {
	err := WithHint(New("error"), "try this fix")
	err = WithHint(Wrap(err, "outer"), "try this fix")
	err = WithHintf(err, "or set %s", "decim:10")

	assert.Equal(t, []string{"try this fix", "or set decim:10"}, Hints(err))
	assert.Nil(t, Hints(nil))
}

func TestNotFound(t *testing.T) {
	err := NewNotFoundError("no observations between %s and %s", "a", "b")

	assert.True(t, IsNotFoundError(err))
	assert.True(t, IsNotFoundError(Wrap(err, "load")))
	assert.False(t, IsNotFoundError(New("other")))
	assert.False(t, IsNotFoundError(nil))
	assert.Equal(t, "no observations between a and b", err.Error())
}

func TestInvalidInput(t *testing.T) {
	err := Mark(New("bad scope"), ErrInvalidInput)

	assert.True(t, IsInvalidInputError(err))
	assert.False(t, IsInvalidInputError(ErrNotFound))
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	baseErr := New("invalid item")
	err := Wrap(baseErr, "mask \">GPS\"")
	fmt.Println(err)
	// Output: mask ">GPS": invalid item
}
