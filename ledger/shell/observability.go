package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerCanceledMetric tracks canceled operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"

	// CommandHandlerTimeoutMetric tracks timeout operations.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"

	// CommandHandlerConcurrencyConflictMetric tracks commands that exhausted their retries on conflicts.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// CommandHandlerRejectedMetric tracks business rule violations, labeled with the error code.
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// CommandHandlerTransferFailedMetric tracks commands rolled back because a payout failed.
	CommandHandlerTransferFailedMetric = "commandhandler_transfer_failures_total"

	// CommandHandlerRetriesMetric tracks retries, labeled with command_type, attempt_number and error_type.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks the total backoff delay of a command.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks when max retries are exhausted.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// QueryHandlerCanceledMetric tracks canceled query operations.
	QueryHandlerCanceledMetric = "queryhandler_canceled_operations_total"

	// QueryHandlerTimeoutMetric tracks timeout query operations.
	QueryHandlerTimeoutMetric = "queryhandler_timeout_operations_total"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusRejected            = "rejected"
	StatusTransferFailed      = "transfer_failed"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected command"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrErrorCode       = "error_code"
	LogAttrError           = "error"
	LogAttrEventType       = "event_type"
	LogAttrListingID       = "listing_id"
	LogAttrRetryAttempts   = "retry_attempts"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"

	// SpanNameQueryHandle is the tracing span name for query handling.
	SpanNameQueryHandle = "queryhandler.handle"
)

// Aliases of the event store observability interfaces, so the ledger has one set of them.

type MetricsCollector = eventstore.MetricsCollector

type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

type TracingCollector = eventstore.TracingCollector

type SpanContext = eventstore.SpanContext

type ContextualLogger = eventstore.ContextualLogger

type Logger = eventstore.Logger

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   strconv.Itoa(attemptNumber),
		"error_type":       errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// ClassifyCommandError maps a command error to the status used in metrics, spans and logs.
func ClassifyCommandError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case errors.Is(err, core.ErrTransferFailure):
		return StatusTransferFailed
	case core.CodeOf(err) != "":
		return StatusRejected
	}

	return StatusError
}

// ClassifyQueryError maps a query error to the status used in metrics, spans and logs.
func ClassifyQueryError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	}

	return StatusError
}

// RecordCommandMetrics records duration and calls, plus the per-status counter for notable outcomes.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
	err error,
) {

	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	switch status {
	case StatusCanceled:
		incrementCounter(ctx, collector, CommandHandlerCanceledMetric, labels)
	case StatusTimeout:
		incrementCounter(ctx, collector, CommandHandlerTimeoutMetric, labels)
	case StatusConcurrencyConflict:
		incrementCounter(ctx, collector, CommandHandlerConcurrencyConflictMetric, labels)
	case StatusTransferFailed:
		incrementCounter(ctx, collector, CommandHandlerTransferFailedMetric, labels)
	case StatusRejected:
		rejectedLabels := BuildCommandLabels(commandType, status)
		rejectedLabels[LogAttrErrorCode] = string(core.CodeOf(err))
		incrementCounter(ctx, collector, CommandHandlerRejectedMetric, rejectedLabels)
	}
}

// RecordRetryMetrics records the retry metadata of a finished command.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		incrementCounter(ctx, collector, CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType))
		recordDuration(ctx, collector, CommandHandlerRetryDelayMetric, result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType})
	}

	if result.RetriesExhausted {
		incrementCounter(ctx, collector, CommandHandlerMaxRetriesReachedMetric,
			map[string]string{LogAttrCommandType: commandType})
	}
}

// RecordQueryMetrics records duration and calls of a query operation.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)

	switch status {
	case StatusCanceled:
		incrementCounter(ctx, collector, QueryHandlerCanceledMetric, labels)
	case StatusTimeout:
		incrementCounter(ctx, collector, QueryHandlerTimeoutMetric, labels)
	}
}

func recordDuration(ctx context.Context, collector MetricsCollector, name string, d time.Duration, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, name, d, labels)
		return
	}

	collector.RecordDuration(name, d, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, name string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, name, labels)
		return
	}

	collector.IncrementCounter(name, labels)
}

// StartCommandSpan returns ctx and a nil span if tracing is disabled.
func StartCommandSpan(ctx context.Context, tracingCollector TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan returns ctx and a nil span if tracing is disabled.
func StartQuerySpan(ctx context.Context, tracingCollector TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan completes a span with the operation outcome.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
		if code := core.CodeOf(err); code != "" {
			attrs[LogAttrErrorCode] = string(code)
		}
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogStart logs the beginning of command or query processing.
func LogStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Debug(msg, args...)
	}
}

// LogSuccess logs successful command or query completion.
func LogSuccess(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogRejection logs a business rule violation. It is an expected outcome, so it is a warning.
func LogRejection(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogError logs a failed command or query.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if an error is due to optimistic concurrency control failure.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}
