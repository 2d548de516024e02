package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorKinds(t *testing.T) {
	err := Validationf("Proposal[%d] expired", 3)
	require.True(t, IsValidation(err))
	require.False(t, IsExecution(err))
	require.Equal(t, "Proposal[3] expired", Message(err))

	wrapped := fmt.Errorf("governance: %w", err)
	require.True(t, IsValidation(wrapped))
	require.Equal(t, "Proposal[3] expired", Message(wrapped))
}

func TestOverflowWrapsSentinel(t *testing.T) {
	err := Overflow()
	require.True(t, IsValidation(err))
	require.True(t, stderrors.Is(err, ErrLongOverflow))

	exec := Execution(ErrLongOverflow)
	require.True(t, IsExecution(exec))
	require.True(t, stderrors.Is(exec, ErrLongOverflow))
	require.Equal(t, "long overflow", exec.Error())
}

func TestExecutionIsIdempotent(t *testing.T) {
	first := Executionf("missing account %x", []byte{1})
	require.Same(t, first, Execution(first))
	require.Nil(t, Execution(nil))
}
