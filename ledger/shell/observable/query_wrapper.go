package observable

import (
	"context"
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// QueryWrapper adds metrics, tracing and logging to a query handler.
type QueryWrapper[Q shell.Query, R shell.QueryResult] struct {
	coreHandler      shell.QueryHandler[Q, R]
	queryType        string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryWrapper wraps coreHandler. The query type is taken from the zero value of Q.
func NewQueryWrapper[Q shell.Query, R shell.QueryResult](
	coreHandler shell.QueryHandler[Q, R],
	opts ...QueryOption[Q, R],
) (*QueryWrapper[Q, R], error) {

	var zeroQuery Q

	wrapper := &QueryWrapper[Q, R]{
		coreHandler: coreHandler,
		queryType:   zeroQuery.QueryType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler and reports the outcome.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, w.tracingCollector, w.queryType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryStarted, shell.LogAttrQueryType, w.queryType)

	result, err := w.coreHandler.Handle(ctx, query)
	duration := time.Since(queryStart)
	status := shell.ClassifyQueryError(err)

	shell.RecordQueryMetrics(ctx, w.metricsCollector, w.queryType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	args := []any{
		shell.LogAttrQueryType, w.queryType,
		shell.LogAttrStatus, status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	}

	if err != nil {
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryFailed, append(args, shell.LogAttrError, err.Error())...)
		return result, err
	}

	shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryCompleted, args...)

	return result, nil
}

// QueryOption defines a functional option for configuring QueryWrapper.
type QueryOption[Q shell.Query, R shell.QueryResult] func(*QueryWrapper[Q, R]) error

// WithQueryMetrics sets the metrics collector for the QueryWrapper.
func WithQueryMetrics[Q shell.Query, R shell.QueryResult](collector shell.MetricsCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithQueryTracing sets the tracing collector for the QueryWrapper.
func WithQueryTracing[Q shell.Query, R shell.QueryResult](collector shell.TracingCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithQueryContextualLogging sets the contextual logger for the QueryWrapper.
func WithQueryContextualLogging[Q shell.Query, R shell.QueryResult](logger shell.ContextualLogger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithQueryLogging sets the basic logger for the QueryWrapper.
func WithQueryLogging[Q shell.Query, R shell.QueryResult](logger shell.Logger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.logger = logger
		return nil
	}
}
