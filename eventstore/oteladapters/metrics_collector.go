package oteladapters

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// MetricsCollector maps the event store metrics interface onto OpenTelemetry instruments:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created lazily per metric name and cached.
type MetricsCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a collector for meter, usually obtained from the MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	if histogram := m.histogram(metricName); histogram != nil {
		histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
	}
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	if counter := m.counter(metricName); counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
	}
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	if gauge := m.gauge(metricName); gauge != nil {
		gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
	}
}

// instrument creation errors only happen for invalid names; such metrics are dropped.

func (m *MetricsCollector) histogram(name string) metric.Float64Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, ok := m.histograms[name]; ok {
		return histogram
	}

	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription(describe(name)), metric.WithUnit("s"))
	if err != nil {
		return nil
	}

	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) counter(name string) metric.Int64Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, ok := m.counters[name]; ok {
		return counter
	}

	counter, err := m.meter.Int64Counter(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) gauge(name string) metric.Float64Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, ok := m.gauges[name]; ok {
		return gauge
	}

	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil
	}

	m.gauges[name] = gauge

	return gauge
}

// describe turns "commandhandler_handle_calls_total" into "commandhandler handle calls total".
func describe(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

var _ eventstore.ContextualMetricsCollector = (*MetricsCollector)(nil)
