// Package assert evaluates predicates against values and turns
// failed evaluations into *Failure errors with a composed message.
// It also captures errors returned, panicked or reported through a
// trigger.Runtime by a unit of work, so tests can assert on them.
package assert

import (
	"errors"
	"fmt"
)

// ErrAssertionFailed is the sentinel every *Failure unwraps to.
var ErrAssertionFailed = errors.New("assertion failed")

// Failure is returned when an assertion does not hold.
type Failure struct {
	message string
}

// NewFailure creates a Failure. A non-empty note is appended after
// a blank line.
func NewFailure(message string, note ...string) *Failure {
	if len(note) > 0 && note[0] != "" {
		message += "\n\n" + note[0]
	}
	return &Failure{message: message}
}

// Error implements the error interface.
func (f *Failure) Error() string { return f.message }

// Message returns the composed failure message.
func (f *Failure) Message() string { return f.message }

// Unwrap returns ErrAssertionFailed.
func (f *Failure) Unwrap() error { return ErrAssertionFailed }

// IsFailure reports whether err is or wraps a *Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// PanicError wraps a recovered panic value that is not an error.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
