package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/ledger/shell"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/observable"
	"github.com/bookbnb/rental-ledger-go/testutil/testdoubles"
)

type testQuery struct{}

func (testQuery) QueryType() string { return "TestQuery" }

type testResult struct{ seq uint }

func (r testResult) GetSequenceNumber() uint { return r.seq }

type queryHandlerStub struct {
	result testResult
	err    error
}

func (h queryHandlerStub) Handle(_ context.Context, _ testQuery) (testResult, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Success(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()
	wrapper := givenQueryWrapper(t, queryHandlerStub{result: testResult{seq: 7}}, metrics, tracing, logger)

	// act
	result, err := wrapper.Handle(t.Context(), testQuery{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.GetSequenceNumber())

	calls := metrics.CounterRecords(shell.QueryHandlerCallsMetric)
	require.Len(t, calls, 1)
	assert.Equal(t, "TestQuery", calls[0].Labels[shell.LogAttrQueryType])
	assert.Equal(t, shell.StatusSuccess, calls[0].Labels[shell.LogAttrStatus])
	assert.Len(t, metrics.DurationRecords(shell.QueryHandlerDurationMetric), 1)

	spans := tracing.FinishedSpans(shell.SpanNameQueryHandle)
	require.Len(t, spans, 1)
	assert.Equal(t, shell.StatusSuccess, spans[0].Status)

	assert.True(t, logger.HasMessage("info", shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
	}{
		{name: "error", err: errors.New("db down"), expectedStatus: shell.StatusError},
		{name: "canceled", err: context.Canceled, expectedStatus: shell.StatusCanceled},
		{name: "timeout", err: context.DeadlineExceeded, expectedStatus: shell.StatusTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metrics := testdoubles.NewMetricsCollectorSpy()
			tracing := testdoubles.NewTracingCollectorSpy()
			logger := testdoubles.NewContextualLoggerSpy()
			wrapper := givenQueryWrapper(t, queryHandlerStub{err: tc.err}, metrics, tracing, logger)

			// act
			_, err := wrapper.Handle(t.Context(), testQuery{})

			// assert
			assert.ErrorIs(t, err, tc.err)

			calls := metrics.CounterRecords(shell.QueryHandlerCallsMetric)
			require.Len(t, calls, 1)
			assert.Equal(t, tc.expectedStatus, calls[0].Labels[shell.LogAttrStatus])

			spans := tracing.FinishedSpans(shell.SpanNameQueryHandle)
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedStatus, spans[0].Status)

			assert.True(t, logger.HasMessage("error", shell.LogMsgQueryFailed))
		})
	}
}

func givenQueryWrapper(
	t *testing.T,
	handler shell.QueryHandler[testQuery, testResult],
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
	logger shell.ContextualLogger,
) *observable.QueryWrapper[testQuery, testResult] {

	t.Helper()

	wrapper, err := observable.NewQueryWrapper[testQuery, testResult](
		handler,
		observable.WithQueryMetrics[testQuery, testResult](metrics),
		observable.WithQueryTracing[testQuery, testResult](tracing),
		observable.WithQueryContextualLogging[testQuery, testResult](logger),
	)
	require.NoError(t, err)

	return wrapper
}
