package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	name       string
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

func (c *SpySpanContext) Name() string {
	return c.name
}

func (c *SpySpanContext) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

func (c *SpySpanContext) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpySpanRecord is a finished span.
type SpySpanRecord struct {
	Name       string
	Status     string
	Attributes map[string]string
}

// TracingCollectorSpy records started and finished spans.
type TracingCollectorSpy struct {
	mu       sync.Mutex
	started  []*SpySpanContext
	finished []SpySpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpySpanContext{name: name, attributes: maps.Clone(attrs)}
	if span.attributes == nil {
		span.attributes = make(map[string]string)
	}
	s.started = append(s.started, span)

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	span.SetStatus(status)
	for k, v := range attrs {
		span.AddAttribute(k, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.finished = append(s.finished, SpySpanRecord{Name: span.Name(), Status: status, Attributes: span.Attributes()})
}

// FinishedSpans returns the finished spans named name.
func (s *TracingCollectorSpy) FinishedSpans(name string) []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpySpanRecord
	for _, r := range s.finished {
		if r.Name == name {
			records = append(records, r)
		}
	}

	return records
}
