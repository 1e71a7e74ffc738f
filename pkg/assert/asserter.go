package assert

import (
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"

	"digital.vasic.assert/pkg/logging"
	"digital.vasic.assert/pkg/metrics"
	"digital.vasic.assert/pkg/predicate"
)

// EventType distinguishes predicate evaluations from error
// captures.
type EventType string

const (
	// EventAssertion is emitted for every predicate evaluation.
	EventAssertion EventType = "assertion"
	// EventCapture is emitted when an expectation on a thrown or
	// triggered error is checked.
	EventCapture EventType = "capture"
)

// Event describes one assertion outcome. Observers registered with
// WithObserver receive every event.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Kind      string    `json:"kind"`
	Predicate string    `json:"predicate,omitempty"`
	Passed    bool      `json:"passed"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Asserter is the dispatcher all assertions go through. It is safe
// for concurrent use once constructed.
type Asserter struct {
	logger    logging.Logger
	metrics   metrics.AssertionMetrics
	observers []func(Event)
	now       func() time.Time
}

// Option configures an Asserter.
type Option func(*Asserter)

// WithLogger sets the logger. Failures are logged at debug level.
func WithLogger(l logging.Logger) Option {
	return func(a *Asserter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.AssertionMetrics) Option {
	return func(a *Asserter) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithObserver adds a function receiving every Event.
func WithObserver(fn func(Event)) Option {
	return func(a *Asserter) {
		if fn != nil {
			a.observers = append(a.observers, fn)
		}
	}
}

// New creates an Asserter with a null logger and no-op metrics
// unless configured otherwise.
func New(opts ...Option) *Asserter {
	a := &Asserter{
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// That evaluates p against value. It returns nil when p holds and a
// *Failure otherwise. The optional note is appended to the failure
// message.
func (a *Asserter) That(
	value any,
	p predicate.Predicate,
	note ...string,
) error {
	kind := predicate.Kind(p)
	passed, diff := predicate.Evaluate(p, value)
	a.metrics.RecordAssertion(kind, passed)

	if passed {
		a.emit(Event{
			Type:      EventAssertion,
			Kind:      kind,
			Predicate: p.String(),
			Passed:    true,
		})
		return nil
	}

	failure := NewFailure(compose(value, p, diff), note...)
	a.logger.Debug("assertion failed",
		logging.StringField("predicate", kind),
		logging.StringField("message", failure.Message()),
		logging.StringField("value", dumper.Sdump(value)),
	)
	a.emit(Event{
		Type:      EventAssertion,
		Kind:      kind,
		Predicate: p.String(),
		Passed:    false,
		Message:   failure.Message(),
	})
	return failure
}

// Compose builds the failure message for value not satisfying p,
// without the note.
func Compose(value any, p predicate.Predicate) string {
	return compose(value, p, predicate.DiffOf(p, value))
}

func compose(value any, p predicate.Predicate, diff string) string {
	msg := "Failed asserting that " + predicate.DescribeValue(p, value) +
		" " + p.String() + "."
	if diff != "" {
		msg += "\n" + diff
	}
	return msg
}

// capture records the outcome of a capture expectation of the given
// kind and passes err through.
func (a *Asserter) capture(kind string, err error) error {
	matched := err == nil
	a.metrics.RecordCapture(kind, matched)

	event := Event{Type: EventCapture, Kind: kind, Passed: matched}
	if err != nil {
		event.Message = err.Error()
		a.logger.Debug("capture expectation failed",
			logging.StringField("capture", kind),
			logging.ErrorField(err),
		)
	}
	a.emit(event)
	return err
}

func (a *Asserter) emit(e Event) {
	if len(a.observers) == 0 {
		return
	}
	e.ID = uuid.NewString()
	e.Timestamp = a.now()
	for _, fn := range a.observers {
		fn(e)
	}
}

var defaultAsserter = New()

// Default returns the Asserter used by the package-level functions.
func Default() *Asserter { return defaultAsserter }

// That evaluates p against value with the default Asserter.
func That(value any, p predicate.Predicate, note ...string) error {
	return defaultAsserter.That(value, p, note...)
}
