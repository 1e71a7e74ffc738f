package assert

import (
	"errors"
	"fmt"

	"digital.vasic.assert/pkg/predicate"
	"digital.vasic.assert/pkg/trigger"
)

// Expectation wraps a unit of work and asserts on the error it
// returns or panics with. The unit of work runs lazily, at most
// once, on the first terminal call. Chained calls after a failure
// are no-ops; Err returns the first failure.
type Expectation struct {
	asserter *Asserter
	fn       func() error
	runtime  *trigger.Runtime

	ran       bool
	thrown    bool
	caught    error
	triggered *trigger.Error
	failure   error
}

// ExpectOption configures an Expectation.
type ExpectOption func(*Expectation)

// WithRuntime makes the unit of work's reports to rt visible to
// Triggers. Reports are captured when Triggers is the first terminal
// call; otherwise they are only observed and also reach rt's outer
// handlers.
func WithRuntime(rt *trigger.Runtime) ExpectOption {
	return func(e *Expectation) {
		e.runtime = rt
	}
}

// Expect wraps fn without running it.
func (a *Asserter) Expect(fn func() error, opts ...ExpectOption) *Expectation {
	e := &Expectation{asserter: a, fn: fn}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExpectFunc wraps a unit of work that signals errors only by
// panicking or through a trigger.Runtime.
func (a *Asserter) ExpectFunc(fn func(), opts ...ExpectOption) *Expectation {
	return a.Expect(func() error {
		fn()
		return nil
	}, opts...)
}

// Expect wraps fn with the default Asserter.
func Expect(fn func() error, opts ...ExpectOption) *Expectation {
	return defaultAsserter.Expect(fn, opts...)
}

// ExpectFunc wraps fn with the default Asserter.
func ExpectFunc(fn func(), opts ...ExpectOption) *Expectation {
	return defaultAsserter.ExpectFunc(fn, opts...)
}

// run executes the unit of work once. Runtime reports are captured
// only when the first terminal call asks for them; otherwise the
// first one is observed and they reach the runtime's outer handlers.
func (e *Expectation) run(captureReports bool) {
	if e.ran {
		return
	}
	e.ran = true

	exec := func() { e.caught = invoke(e.fn) }
	switch {
	case e.runtime == nil:
		exec()
	case captureReports:
		e.triggered = e.runtime.Capture(exec)
	default:
		e.triggered = e.runtime.Observe(exec)
	}
}

func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(error); ok {
				err = re
				return
			}
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

func (e *Expectation) fail(kind string, err error) *Expectation {
	e.failure = e.asserter.capture(kind, err)
	return e
}

// Throws asserts that the unit of work returned or panicked with an
// error. The optional target narrows the expected error: a sentinel
// error is matched with errors.Is, a pointer to an error type or
// interface with errors.As, which also fills it.
//
// A *Failure raised inside the unit of work becomes the chain's
// failure unless target explicitly asks for a *Failure or
// ErrAssertionFailed.
func (e *Expectation) Throws(target ...any) *Expectation {
	if e.failure != nil {
		return e
	}
	e.run(false)
	e.thrown = true

	var want any
	if len(target) > 0 {
		want = target[0]
	}

	if e.caught == nil {
		msg := "Failed asserting that an error is thrown."
		if want != nil {
			msg = fmt.Sprintf(
				"Failed asserting that error of type \"%s\" is thrown.",
				predicate.ErrorTypeName(want),
			)
		}
		return e.fail("throws", NewFailure(msg))
	}

	if IsFailure(e.caught) && !wantsFailure(want) {
		return e.fail("throws", e.caught)
	}

	if want != nil && !predicate.MatchesError(e.caught, want) {
		return e.fail("throws",
			e.asserter.That(e.caught, predicate.IsErrorOfType(want)))
	}

	e.asserter.capture("throws", nil)
	return e
}

func wantsFailure(target any) bool {
	switch t := target.(type) {
	case **Failure:
		return true
	case error:
		return errors.Is(t, ErrAssertionFailed)
	}
	return false
}

// WithMessage asserts that the thrown error's message equals msg.
func (e *Expectation) WithMessage(msg string) *Expectation {
	return e.Message(predicate.Equals(msg))
}

// Message asserts that the thrown error's message satisfies p. It
// implies Throws() when no terminal call happened yet.
func (e *Expectation) Message(p predicate.Predicate) *Expectation {
	if e.failure != nil {
		return e
	}
	if !e.thrown {
		if e.Throws(); e.failure != nil {
			return e
		}
	}
	e.failure = e.asserter.That(
		e.caught.Error(),
		predicate.Wrap(p, "error message %s"),
	)
	return e
}

// DoesNotThrow asserts that the unit of work neither returned nor
// panicked with an error. A *Failure raised inside it becomes the
// chain's failure unchanged.
func (e *Expectation) DoesNotThrow() *Expectation {
	if e.failure != nil {
		return e
	}
	e.run(false)

	if e.caught == nil {
		e.asserter.capture("does_not_throw", nil)
		return e
	}
	if IsFailure(e.caught) {
		return e.fail("does_not_throw", e.caught)
	}
	return e.fail("does_not_throw", NewFailure(fmt.Sprintf(
		"Failed asserting that no error is thrown, but error of type \"%T\" with message \"%s\" was thrown.",
		e.caught, e.caught.Error(),
	)))
}

// After asserts that value satisfies p, typically state the unit of
// work changed. The unit of work runs first if it has not yet.
func (e *Expectation) After(
	value any,
	p predicate.Predicate,
	note ...string,
) *Expectation {
	if e.failure != nil {
		return e
	}
	e.run(false)
	e.failure = e.asserter.That(value, p, note...)
	return e
}

// Triggers asserts that the unit of work reported an error to the
// runtime set with WithRuntime, optionally of the given level, and
// returns it for further assertions. An error the unit of work
// returned or panicked with becomes the failure. When an earlier
// call such as DoesNotThrow already ran the unit of work, the report
// was observed rather than captured and also reached the outer
// handlers.
func (e *Expectation) Triggers(level ...trigger.Level) *CatchedError {
	if e.failure != nil {
		return &CatchedError{asserter: e.asserter, failure: e.failure}
	}
	if e.runtime == nil {
		e.failure = errors.New("assert: Triggers requires WithRuntime")
		return &CatchedError{asserter: e.asserter, failure: e.failure}
	}
	e.run(true)

	catched := &CatchedError{asserter: e.asserter, err: e.triggered}

	switch {
	case e.caught != nil:
		e.fail("triggers", e.caught)
	case e.triggered == nil:
		msg := "Failed asserting that an error is triggered."
		if len(level) > 0 {
			msg = fmt.Sprintf(
				"Failed asserting that error of level \"%s\" is triggered.",
				level[0].Name(),
			)
		}
		e.fail("triggers", NewFailure(msg))
	case len(level) > 0 && e.triggered.Level() != level[0]:
		e.fail("triggers", e.asserter.That(
			e.triggered.Name(),
			predicate.Equals(level[0].Name()),
		))
	default:
		e.asserter.capture("triggers", nil)
	}

	catched.failure = e.failure
	return catched
}

// Caught runs the unit of work if needed and returns the error it
// returned or panicked with.
func (e *Expectation) Caught() error {
	e.run(false)
	return e.caught
}

// Err returns the first failure of the chain, or nil.
func (e *Expectation) Err() error { return e.failure }
