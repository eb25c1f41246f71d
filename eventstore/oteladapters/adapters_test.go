package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bookbnb/rental-ledger-go/eventstore/oteladapters"
)

func Test_TracingCollector_FinishSpan_MapsStatusAndAttributes(t *testing.T) {
	tests := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "concurrency_conflict", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Error},
		{status: "something_else", expectedCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			// arrange
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

			// act
			_, span := collector.StartSpan(t.Context(), "rentbook.handle", map[string]string{"listing_id": "3"})
			span.AddAttribute("renter", "bob")
			collector.FinishSpan(span, tt.status, map[string]string{"duration_ms": "1.5"})

			// assert
			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "rentbook.handle", ended[0].Name())
			assert.Equal(t, tt.expectedCode, ended[0].Status().Code)

			attrs := map[string]string{}
			for _, kv := range ended[0].Attributes() {
				attrs[string(kv.Key)] = kv.Value.AsString()
			}
			assert.Equal(t, "3", attrs["listing_id"])
			assert.Equal(t, "bob", attrs["renter"])
			assert.Equal(t, "1.5", attrs["duration_ms"])
		})
	}
}

func Test_TracingCollector_StartSpan_PropagatesParent(t *testing.T) {
	// arrange
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	parentCtx, parent := collector.StartSpan(t.Context(), "parent", nil)
	_, child := collector.StartSpan(parentCtx, "child", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().TraceID(), ended[0].SpanContext().TraceID())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func Test_MetricsCollector_RecordsHistogramCounterAndGauge(t *testing.T) {
	// arrange
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))
	labels := map[string]string{"command_type": "RentBook", "status": "success"}

	// act
	collector.RecordDuration("commandhandler_handle_duration_seconds", 250*time.Millisecond, labels)
	collector.IncrementCounter("commandhandler_handle_calls_total", labels)
	collector.IncrementCounterContext(t.Context(), "commandhandler_handle_calls_total", labels)
	collector.RecordValueContext(t.Context(), "commandhandler_retry_attempts", 3, labels)

	// assert
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	histogram, ok := byName["commandhandler_handle_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.25, histogram.DataPoints[0].Sum, 0.0001)
	assert.Equal(t, "s", byName["commandhandler_handle_duration_seconds"].Unit)

	counter, ok := byName["commandhandler_handle_calls_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), counter.DataPoints[0].Value)

	gauge, ok := byName["commandhandler_retry_attempts"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	assert.Equal(t, float64(3), gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))
	done := make(chan struct{})

	// act
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			collector.IncrementCounter("queryhandler_handle_calls_total", nil)
		}()
	}

	// assert
	for i := 0; i < 8; i++ {
		<-done
	}
}

func Test_Loggers_DoNotPanicWithOddArguments(t *testing.T) {
	otelLogger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	bridge := oteladapters.NewSlogBridgeLoggerWithProvider("test", noop.NewLoggerProvider())

	assert.NotPanics(t, func() {
		otelLogger.InfoContext(t.Context(), "listing rented", "listing_id", 3, "dangling")
		otelLogger.ErrorContext(t.Context(), "transfer failed", 42, "not-a-key")
		bridge.WarnContext(t.Context(), "conflict", "attempt", 2)
	})
	assert.NotNil(t, bridge.Slog())
}
