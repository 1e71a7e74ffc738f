package assert

import (
	"digital.vasic.assert/pkg/logging"
	"digital.vasic.assert/pkg/predicate"
	"digital.vasic.assert/pkg/trigger"
)

// CatchedError is an error reported to a trigger.Runtime during a
// unit of work, with chainable assertions on it. Like Expectation,
// calls after a failure are no-ops and Err returns the first one.
type CatchedError struct {
	asserter *Asserter
	err      *trigger.Error
	failure  error
}

// Catch runs fn, capturing the first error it reports to rt. The
// result fails when nothing was reported.
func Catch(rt *trigger.Runtime, fn func()) *CatchedError {
	return defaultAsserter.Catch(rt, fn)
}

// Catch runs fn, capturing the first error it reports to rt.
func (a *Asserter) Catch(rt *trigger.Runtime, fn func()) *CatchedError {
	return a.ExpectFunc(fn, WithRuntime(rt)).Triggers()
}

// Snapshot returns the captured error, or nil when none was
// captured.
func (c *CatchedError) Snapshot() *trigger.Error { return c.err }

// Level returns the severity, or 0 when nothing was captured.
func (c *CatchedError) Level() trigger.Level {
	if c.err == nil {
		return 0
	}
	return c.err.Level()
}

// Name returns the canonical name of the severity.
func (c *CatchedError) Name() string { return c.Level().Name() }

// Errstr returns the reported message.
func (c *CatchedError) Errstr() string {
	if c.err == nil {
		return ""
	}
	return c.err.Message()
}

// File returns the file the error was reported from.
func (c *CatchedError) File() string {
	if c.err == nil {
		return ""
	}
	return c.err.File()
}

// Line returns the line the error was reported from.
func (c *CatchedError) Line() int {
	if c.err == nil {
		return 0
	}
	return c.err.Line()
}

// Context returns the contextual fields reported with the error.
func (c *CatchedError) Context() []logging.Field {
	if c.err == nil {
		return nil
	}
	return c.err.Context()
}

// WithMessage asserts that the reported message equals msg.
func (c *CatchedError) WithMessage(msg string) *CatchedError {
	return c.Message(predicate.Equals(msg))
}

// Message asserts that the reported message satisfies p.
func (c *CatchedError) Message(p predicate.Predicate) *CatchedError {
	if c.failure != nil {
		return c
	}
	c.failure = c.asserter.That(
		c.err.Message(),
		predicate.Wrap(p, "error message %s"),
	)
	return c
}

// After asserts that value satisfies p, typically state the unit of
// work left behind after reporting the error.
func (c *CatchedError) After(
	value any,
	p predicate.Predicate,
	note ...string,
) *CatchedError {
	if c.failure != nil {
		return c
	}
	c.failure = c.asserter.That(value, p, note...)
	return c
}

// Err returns the first failure of the chain, or nil.
func (c *CatchedError) Err() error { return c.failure }
