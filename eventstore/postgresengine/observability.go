package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

const (
	operationQuery  = "query"
	operationAppend = "append"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventType    = "event_type"
	spanAttrEventCount   = "event_count"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"

	statusSuccess = "success"
	statusError   = "error"

	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricGuardRejections      = "eventstore_commit_guard_rejections_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	errorTypeBuildQuery    = "build_query_failed"
	errorTypeDatabaseQuery = "database_query_failed"
	errorTypeDatabaseExec  = "database_exec_failed"
	errorTypeRowScan       = "row_scan_failed"
	errorTypeRowsAffected  = "rows_affected_failed"
	errorTypeCommit        = "commit_failed"
	errorTypeConflict      = "concurrency_conflict"
	errorTypeGuard         = "commit_guard_rejected"

	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "eventstore operation: "
	logMsgOperationFailed        = "eventstore operation failed: "
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgRollbackFailed         = "failed to roll back append transaction"
	logMsgCommitAfterGuardFailed = "commit failed after commit guard succeeded, side effects need reconciliation"
	logMsgQueryCompleted         = "query completed"
	logMsgEventsAppended         = "events appended"
	logMsgConcurrencyConflict    = "concurrency conflict detected"
	logMsgGuardRejected          = "commit guard rejected append"

	logAttrError            = "error"
	logAttrErrorType        = "error_type"
	logAttrQuery            = "query"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"
)

// observation bundles span, metrics and logs of a single Query or Append call.
type observation struct {
	es        *EventStore
	ctx       context.Context
	span      eventstore.SpanContext
	operation string
	start     time.Time
}

func (es *EventStore) startObservation(ctx context.Context, operation string, attrs map[string]string) *observation {
	obs := &observation{es: es, ctx: ctx, operation: operation, start: time.Now()}

	if es.tracingCollector != nil {
		spanAttrs := map[string]string{spanAttrOperation: operation}
		for k, v := range attrs {
			spanAttrs[k] = v
		}

		spanName := spanNameQuery
		if operation == operationAppend {
			spanName = spanNameAppend
		}

		obs.ctx, obs.span = es.tracingCollector.StartSpan(ctx, spanName, spanAttrs)
	}

	return obs
}

func (o *observation) durationMetric() string {
	if o.operation == operationAppend {
		return metricAppendDuration
	}

	return metricQueryDuration
}

func (o *observation) finishSpan(status string, attrs map[string]string) {
	if o.es.tracingCollector == nil || o.span == nil {
		return
	}

	attrs[spanAttrDurationMS] = fmt.Sprintf("%.3f", toMilliseconds(time.Since(o.start)))
	o.es.tracingCollector.FinishSpan(o.span, status, attrs)
}

func (o *observation) succeedQuery(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(o.start)

	o.es.recordDuration(o.ctx, o.durationMetric(), duration, o.operation, statusSuccess)
	o.es.recordValue(o.ctx, metricEventsQueried, float64(eventCount), o.operation, statusSuccess)
	o.finishSpan(statusSuccess, map[string]string{
		spanAttrEventCount:  fmt.Sprintf("%d", eventCount),
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	})
	o.es.logInfo(o.ctx, logMsgOperation+logMsgQueryCompleted,
		logAttrEventCount, eventCount,
		logAttrDurationMS, toMilliseconds(duration))
}

func (o *observation) succeedAppend(eventCount int, rowsAffected int64) {
	duration := time.Since(o.start)

	o.es.recordDuration(o.ctx, o.durationMetric(), duration, o.operation, statusSuccess)
	o.es.recordValue(o.ctx, metricEventsAppended, float64(eventCount), o.operation, statusSuccess)
	o.finishSpan(statusSuccess, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})
	o.es.logInfo(o.ctx, logMsgOperation+logMsgEventsAppended,
		logAttrEventCount, eventCount,
		logAttrDurationMS, toMilliseconds(duration))
}

func (o *observation) conflict(expectedEvents int, rowsAffected int64, expectedSequence eventstore.MaxSequenceNumberUint) {
	o.es.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: o.operation})
	o.es.recordDuration(o.ctx, o.durationMetric(), time.Since(o.start), o.operation, statusError)
	o.finishSpan(statusError, map[string]string{spanAttrErrorType: errorTypeConflict})
	o.es.logInfo(o.ctx, logMsgOperation+logMsgConcurrencyConflict,
		logAttrExpectedEvents, expectedEvents,
		logAttrRowsAffected, rowsAffected,
		logAttrExpectedSequence, expectedSequence)
}

func (o *observation) guardRejected(err error) {
	o.es.incrementCounter(o.ctx, metricGuardRejections, map[string]string{spanAttrOperation: o.operation})
	o.es.recordDuration(o.ctx, o.durationMetric(), time.Since(o.start), o.operation, statusError)
	o.finishSpan(statusError, map[string]string{spanAttrErrorType: errorTypeGuard})
	o.es.logInfo(o.ctx, logMsgOperation+logMsgGuardRejected, logAttrError, err.Error())
}

func (o *observation) fail(errorType string, err error, args ...any) {
	o.es.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: o.operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	})
	o.es.recordDuration(o.ctx, o.durationMetric(), time.Since(o.start), o.operation, statusError)
	o.finishSpan(statusError, map[string]string{spanAttrErrorType: errorType})
	o.es.logError(o.ctx, logMsgOperationFailed+o.operation, err, append([]any{logAttrErrorType, errorType}, args...)...)
}

func (es *EventStore) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es *EventStore) recordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es *EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

// logSQL logs SQL statements at debug level.
func (es *EventStore) logSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logInfo(ctx context.Context, msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, msg string, args ...any) {
	if es.logger != nil {
		es.logger.Warn(msg, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (es *EventStore) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if es.logger != nil {
		es.logger.Error(msg, allArgs...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
