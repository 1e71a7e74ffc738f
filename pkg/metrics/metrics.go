// Package metrics records assertion outcomes. Implementations are
// a no-op, an in-memory counter set and an OpenTelemetry bridge.
package metrics

import "time"

// AssertionMetrics defines the interface for recording assertion
// metrics. kind is a low-cardinality predicate or capture name such
// as "equals" or "throws".
type AssertionMetrics interface {
	// RecordAssertion records one predicate evaluation.
	RecordAssertion(kind string, passed bool)
	// RecordCapture records one error capture, with matched
	// telling whether it met the expectation.
	RecordCapture(kind string, matched bool)
	// RecordSuite records a finished suite run.
	RecordSuite(name string, total, failed int, duration time.Duration)
}

// NoopMetrics is a no-op implementation of AssertionMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

// RecordAssertion does nothing.
func (NoopMetrics) RecordAssertion(_ string, _ bool) {}

// RecordCapture does nothing.
func (NoopMetrics) RecordCapture(_ string, _ bool) {}

// RecordSuite does nothing.
func (NoopMetrics) RecordSuite(_ string, _, _ int, _ time.Duration) {}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
