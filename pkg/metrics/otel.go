package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// MeterName is the instrumentation scope of OTelMetrics.
const MeterName = "digital.vasic.assert"

// OTelMetrics implements AssertionMetrics with OpenTelemetry
// instruments.
type OTelMetrics struct {
	assertions    metric.Int64Counter
	captures      metric.Int64Counter
	suiteFailures metric.Int64Counter
	suiteDuration metric.Float64Histogram
}

// NewOTelMetrics creates the instruments on a meter from provider,
// or from the global provider when provider is nil.
func NewOTelMetrics(provider metric.MeterProvider) (*OTelMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(MeterName)

	var (
		m   OTelMetrics
		err error
	)

	m.assertions, err = meter.Int64Counter(
		"assert.evaluations",
		metric.WithDescription("Number of predicate evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create assert.evaluations counter: %w", err)
	}

	m.captures, err = meter.Int64Counter(
		"assert.captures",
		metric.WithDescription("Number of thrown or triggered error captures"),
		metric.WithUnit("{capture}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create assert.captures counter: %w", err)
	}

	m.suiteFailures, err = meter.Int64Counter(
		"assert.suite.failures",
		metric.WithDescription("Number of failed assertions in suite runs"),
		metric.WithUnit("{assertion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create assert.suite.failures counter: %w", err)
	}

	m.suiteDuration, err = meter.Float64Histogram(
		"assert.suite.duration",
		metric.WithDescription("Time taken per suite run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create assert.suite.duration histogram: %w", err)
	}

	return &m, nil
}

// RecordAssertion adds one evaluation to assert.evaluations,
// labelled with kind and outcome.
func (m *OTelMetrics) RecordAssertion(kind string, passed bool) {
	m.assertions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("passed", passed),
	))
}

// RecordCapture adds one capture to assert.captures, labelled with
// kind and whether it matched.
func (m *OTelMetrics) RecordCapture(kind string, matched bool) {
	m.captures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("matched", matched),
	))
}

// RecordSuite adds the failed assertions of a run to
// assert.suite.failures and records its duration.
func (m *OTelMetrics) RecordSuite(
	name string,
	_ int,
	failed int,
	duration time.Duration,
) {
	attrs := metric.WithAttributes(attribute.String("suite", name))
	m.suiteFailures.Add(context.Background(), int64(failed), attrs)
	m.suiteDuration.Record(context.Background(), duration.Seconds(), attrs)
}

// Collector is an OTelMetrics backed by its own SDK meter provider,
// read on demand through a manual reader.
type Collector struct {
	*OTelMetrics

	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// NewCollector creates a Collector with a fresh meter provider.
func NewCollector() (*Collector, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewOTelMetrics(provider)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, err
	}
	return &Collector{OTelMetrics: m, reader: reader, provider: provider}, nil
}

// Totals collects the integer counters and returns each one summed
// over all its attribute sets, keyed by instrument name.
func (c *Collector) Totals(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals, nil
}

// Shutdown stops the meter provider. Totals fails afterwards.
func (c *Collector) Shutdown(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}
