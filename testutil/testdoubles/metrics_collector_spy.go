package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy records calls of eventstore.MetricsCollector and eventstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyDurationRecord
	counters  []SpyCounterRecord
	values    []SpyValueRecord
}

type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyDurationRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, SpyCounterRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, SpyValueRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// DurationRecords returns the recorded durations for metric.
func (s *MetricsCollectorSpy) DurationRecords(metric string) []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyDurationRecord
	for _, r := range s.durations {
		if r.Metric == metric {
			records = append(records, r)
		}
	}

	return records
}

// CounterRecords returns the recorded counter increments for metric.
func (s *MetricsCollectorSpy) CounterRecords(metric string) []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyCounterRecord
	for _, r := range s.counters {
		if r.Metric == metric {
			records = append(records, r)
		}
	}

	return records
}

// ValueRecords returns the recorded values for metric.
func (s *MetricsCollectorSpy) ValueRecords(metric string) []SpyValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyValueRecord
	for _, r := range s.values {
		if r.Metric == metric {
			records = append(records, r)
		}
	}

	return records
}
