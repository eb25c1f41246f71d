package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// TracingCollector implements eventstore.TracingCollector with an OpenTelemetry tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector for tracer, usually obtained from the TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a child span of the span in ctx, if any.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets the final attributes and status and ends the span. Foreign SpanContexts are ignored.
func (t *TracingCollector) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ eventstore.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext wraps an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps the status strings used by the ledger onto span status codes.
// Unknown statuses are kept as a "status" attribute.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "ok", "success", "completed":
		s.span.SetStatus(codes.Ok, "")
	case "error", "failed", "failure":
		s.span.SetStatus(codes.Error, "operation failed")
	case "canceled", "cancelled":
		s.span.SetStatus(codes.Error, "operation canceled")
	case "timeout":
		s.span.SetStatus(codes.Error, "operation timed out")
	case "conflict", "concurrency_conflict":
		s.span.SetStatus(codes.Error, "concurrency conflict")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ eventstore.SpanContext = (*OTelSpanContext)(nil)
