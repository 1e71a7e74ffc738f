package metrics

import (
	"sync"
	"time"
)

// InMemoryMetrics implements AssertionMetrics with counters kept
// in memory. It is safe for concurrent use.
type InMemoryMetrics struct {
	mu         sync.Mutex
	assertions map[string]int
	captures   map[string]int
	suites     map[string][]time.Duration
	failed     map[string]int
}

// NewInMemoryMetrics creates an empty InMemoryMetrics.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		assertions: make(map[string]int),
		captures:   make(map[string]int),
		suites:     make(map[string][]time.Duration),
		failed:     make(map[string]int),
	}
}

// RecordAssertion counts one evaluation of kind by outcome.
func (m *InMemoryMetrics) RecordAssertion(kind string, passed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assertions[kind+":"+outcome(passed, "passed", "failed")]++
}

// RecordCapture counts one capture of kind by outcome.
func (m *InMemoryMetrics) RecordCapture(kind string, matched bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures[kind+":"+outcome(matched, "matched", "unmatched")]++
}

// RecordSuite keeps the duration of a run and adds its failed
// assertions to the suite's total.
func (m *InMemoryMetrics) RecordSuite(
	name string,
	_ int,
	failed int,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suites[name] = append(m.suites[name], duration)
	m.failed[name] += failed
}

// AssertionCount returns the number of evaluations of kind with
// the given outcome.
func (m *InMemoryMetrics) AssertionCount(kind string, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assertions[kind+":"+outcome(passed, "passed", "failed")]
}

// CaptureCount returns the number of captures of kind with the
// given outcome.
func (m *InMemoryMetrics) CaptureCount(kind string, matched bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures[kind+":"+outcome(matched, "matched", "unmatched")]
}

// SuiteRuns returns the number of recorded runs of a suite.
func (m *InMemoryMetrics) SuiteRuns(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.suites[name])
}

// SuiteFailures returns the failed assertions summed over all runs
// of a suite.
func (m *InMemoryMetrics) SuiteFailures(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[name]
}
