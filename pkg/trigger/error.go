package trigger

import (
	"fmt"

	"digital.vasic.assert/pkg/logging"
)

// Error is an immutable snapshot of a runtime-reported error.
type Error struct {
	level   Level
	message string
	file    string
	line    int
	context []logging.Field
}

// NewError builds a snapshot. The context fields are copied.
func NewError(
	level Level,
	message string,
	file string,
	line int,
	context ...logging.Field,
) *Error {
	return &Error{
		level:   level,
		message: message,
		file:    file,
		line:    line,
		context: logging.CopyFields(context),
	}
}

// Level returns the severity.
func (e *Error) Level() Level { return e.level }

// Name returns the canonical name of the severity.
func (e *Error) Name() string { return e.level.Name() }

// Message returns the reported message.
func (e *Error) Message() string { return e.message }

// File returns the file the error was reported from.
func (e *Error) File() string { return e.file }

// Line returns the line the error was reported from.
func (e *Error) Line() int { return e.line }

// Context returns a copy of the contextual fields in report order.
func (e *Error) Context() []logging.Field {
	return logging.CopyFields(e.context)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf(
		"%s: %s in %s on line %d",
		e.level.Name(), e.message, e.file, e.line,
	)
}
