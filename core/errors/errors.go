// Package errors defines the two failure kinds an operation can produce.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrLongOverflow reports 64-bit signed arithmetic that would wrap.
var ErrLongOverflow = stderrors.New("long overflow")

// ValidationError rejects an operation before any state is touched. Msg is a
// stable, user facing message.
type ValidationError struct {
	Msg   string
	Cause error
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return e.Cause }

// ExecutionError is raised while applying an operation that already passed
// validation. It marks a gap in validation coverage or a storage fault.
type ExecutionError struct {
	Msg   string
	Cause error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil && e.Msg != e.Cause.Error() {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// Validation returns a ValidationError with msg.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// Validationf formats a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Execution wraps cause into an ExecutionError. Existing ExecutionErrors are
// returned unchanged.
func Execution(cause error) error {
	if cause == nil {
		return nil
	}
	var execErr *ExecutionError
	if stderrors.As(cause, &execErr) {
		return cause
	}
	return &ExecutionError{Msg: cause.Error(), Cause: cause}
}

// Executionf formats an ExecutionError.
func Executionf(format string, args ...any) error {
	return &ExecutionError{Msg: fmt.Sprintf(format, args...)}
}

// Overflow reports ErrLongOverflow as a validation failure.
func Overflow() error {
	return &ValidationError{Msg: ErrLongOverflow.Error(), Cause: ErrLongOverflow}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsExecution reports whether err is or wraps an ExecutionError.
func IsExecution(err error) bool {
	var e *ExecutionError
	return stderrors.As(err, &e)
}

// Message returns the stable message carried by err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.Msg
	}
	return err.Error()
}
