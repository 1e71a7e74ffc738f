package suite

import (
	"fmt"
	"time"

	"digital.vasic.assert/pkg/assert"
	"digital.vasic.assert/pkg/logging"
	"digital.vasic.assert/pkg/metrics"
)

// Engine evaluates definitions through an assert.Asserter, so
// failure messages are the dispatcher's messages.
type Engine struct {
	registry *Registry
	asserter *assert.Asserter
	logger   logging.Logger
	metrics  metrics.AssertionMetrics
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistry sets the registry used to build predicates.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithAsserter sets the dispatcher assertions are evaluated with.
func WithAsserter(a *assert.Asserter) EngineOption {
	return func(e *Engine) {
		if a != nil {
			e.asserter = a
		}
	}
}

// WithLogger sets the logger for suite progress.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the recorder for suite runs.
func WithMetrics(m metrics.AssertionMetrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine creates an Engine using DefaultRegistry and the default
// Asserter unless configured otherwise.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry: DefaultRegistry,
		asserter: assert.Default(),
		logger:   logging.NullLogger{},
		metrics:  metrics.NoopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine builds predicates with.
func (e *Engine) Registry() *Registry { return e.registry }

// Evaluate runs a single assertion against the provided value.
func (e *Engine) Evaluate(def Definition, value any) Result {
	def = normalize(def)

	p, err := e.registry.Build(def)
	if err != nil {
		return Result{
			Type:    def.Type,
			Target:  def.Target,
			Passed:  false,
			Message: err.Error(),
		}
	}

	result := Result{
		Type:      def.Type,
		Target:    def.Target,
		Predicate: p.String(),
		Expected:  def.Value,
		Actual:    value,
		Passed:    true,
	}
	if err := e.asserter.That(value, p, def.Message); err != nil {
		result.Passed = false
		result.Message = err.Error()
	}
	return result
}

// EvaluateAll runs multiple assertions against a document. Each
// assertion's Target is resolved inside doc; a missing target fails
// the assertion.
func (e *Engine) EvaluateAll(defs []Definition, doc any) []Result {
	results := make([]Result, 0, len(defs))

	for _, d := range defs {
		value, exists := Resolve(doc, d.Target)
		if !exists {
			results = append(results, Result{
				Type:   d.Type,
				Target: d.Target,
				Passed: false,
				Message: fmt.Sprintf(
					"target not found: %s", d.Target,
				),
			})
			continue
		}

		results = append(results, e.Evaluate(d, value))
	}

	return results
}

// Run evaluates every assertion of s against doc.
func (e *Engine) Run(s Suite, doc any) *SuiteResult {
	started := e.now()
	results := e.EvaluateAll(s.Assertions, doc)

	run := &SuiteResult{
		Name:      s.Name,
		Source:    s.Source,
		StartedAt: started,
		Duration:  e.now().Sub(started),
		Results:   results,
		Summary:   Summarize(results),
	}

	e.metrics.RecordSuite(
		s.Name, run.Summary.Total, run.Summary.Failed, run.Duration,
	)
	e.logger.Info("suite finished",
		logging.StringField("suite", s.Name),
		logging.IntField("total", run.Summary.Total),
		logging.IntField("failed", run.Summary.Failed),
	)
	for _, r := range results {
		if !r.Passed {
			e.logger.Debug("assertion failed",
				logging.StringField("suite", s.Name),
				logging.StringField("target", r.Target),
				logging.StringField("type", r.Type),
			)
		}
	}

	return run
}
