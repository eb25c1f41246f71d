package observable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/observable"
	"github.com/bookbnb/rental-ledger-go/testutil/testdoubles"
)

type testCommand struct{}

func (testCommand) CommandType() string { return "TestCommand" }

type commandHandlerStub struct {
	result shell.HandlerResult
	err    error
}

func (h commandHandlerStub) Handle(_ context.Context, _ testCommand) (shell.HandlerResult, error) {
	return h.result, h.err
}

func Test_CommandWrapper_Success_RecordsMetricsSpanAndLog(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()
	event := core.BuildBookRented("4", "alice", "bob", 1, core.Money{}, core.Money{}, time.Now())
	wrapper := givenCommandWrapper(t, commandHandlerStub{result: shell.HandlerResult{Event: event, RetryAttempts: 1}}, metrics, tracing, logger)

	// act
	result, err := wrapper.Handle(t.Context(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, event, result.Event)

	durations := metrics.DurationRecords(shell.CommandHandlerDurationMetric)
	require.Len(t, durations, 1)
	assert.Equal(t, "TestCommand", durations[0].Labels[shell.LogAttrCommandType])
	assert.Equal(t, shell.StatusSuccess, durations[0].Labels[shell.LogAttrStatus])
	assert.Len(t, metrics.CounterRecords(shell.CommandHandlerCallsMetric), 1)
	assert.Empty(t, metrics.CounterRecords(shell.CommandHandlerRetriesMetric))

	spans := tracing.FinishedSpans(shell.SpanNameCommandHandle)
	require.Len(t, spans, 1)
	assert.Equal(t, shell.StatusSuccess, spans[0].Status)

	completed := logger.Records("info")
	require.Len(t, completed, 1)
	assert.Equal(t, shell.LogMsgCommandCompleted, completed[0].Message)
	assert.True(t, completed[0].HasArg(shell.LogAttrListingID, "4"))
	assert.True(t, completed[0].HasArg(shell.LogAttrEventType, core.BookRentedEventType))
	assert.True(t, logger.HasMessage("debug", shell.LogMsgCommandStarted))
}

func Test_CommandWrapper_ClassifiesErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
		expectedMetric string
		expectedLevel  string
	}{
		{
			name:           "business rule violation",
			err:            core.ErrAlreadyRented,
			expectedStatus: shell.StatusRejected,
			expectedMetric: shell.CommandHandlerRejectedMetric,
			expectedLevel:  "warn",
		},
		{
			name:           "payout failed",
			err:            errors.Join(eventstore.ErrCommitGuardRejected, core.TransferFailed(errors.New("frozen"))),
			expectedStatus: shell.StatusTransferFailed,
			expectedMetric: shell.CommandHandlerTransferFailedMetric,
			expectedLevel:  "error",
		},
		{
			name:           "conflicts exhausted",
			err:            eventstore.ErrConcurrencyConflict,
			expectedStatus: shell.StatusConcurrencyConflict,
			expectedMetric: shell.CommandHandlerConcurrencyConflictMetric,
			expectedLevel:  "error",
		},
		{
			name:           "canceled",
			err:            context.Canceled,
			expectedStatus: shell.StatusCanceled,
			expectedMetric: shell.CommandHandlerCanceledMetric,
			expectedLevel:  "error",
		},
		{
			name:           "timeout",
			err:            context.DeadlineExceeded,
			expectedStatus: shell.StatusTimeout,
			expectedMetric: shell.CommandHandlerTimeoutMetric,
			expectedLevel:  "error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metrics := testdoubles.NewMetricsCollectorSpy()
			tracing := testdoubles.NewTracingCollectorSpy()
			logger := testdoubles.NewContextualLoggerSpy()
			wrapper := givenCommandWrapper(t, commandHandlerStub{err: tc.err}, metrics, tracing, logger)

			// act
			_, err := wrapper.Handle(t.Context(), testCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)

			counters := metrics.CounterRecords(tc.expectedMetric)
			require.Len(t, counters, 1)
			assert.Equal(t, tc.expectedStatus, counters[0].Labels[shell.LogAttrStatus])

			spans := tracing.FinishedSpans(shell.SpanNameCommandHandle)
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedStatus, spans[0].Status)
			assert.Equal(t, tc.err.Error(), spans[0].Attributes[shell.LogAttrError])

			assert.Len(t, logger.Records(tc.expectedLevel), 1)
		})
	}
}

func Test_CommandWrapper_RejectedCarriesErrorCode(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()
	wrapper := givenCommandWrapper(t, commandHandlerStub{err: core.ErrWrongPayment}, metrics, nil, logger)

	// act
	_, _ = wrapper.Handle(t.Context(), testCommand{})

	// assert
	rejected := metrics.CounterRecords(shell.CommandHandlerRejectedMetric)
	require.Len(t, rejected, 1)
	assert.Equal(t, string(core.CodeWrongPayment), rejected[0].Labels[shell.LogAttrErrorCode])

	warnings := logger.Records("warn")
	require.Len(t, warnings, 1)
	assert.True(t, warnings[0].HasArg(shell.LogAttrErrorCode, string(core.CodeWrongPayment)))
}

func Test_CommandWrapper_RecordsRetryMetadata(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	result := shell.HandlerResult{
		RetryAttempts:    6,
		TotalRetryDelay:  300 * time.Millisecond,
		LastErrorType:    shell.StatusConcurrencyConflict,
		RetriesExhausted: true,
	}
	wrapper := givenCommandWrapper(t, commandHandlerStub{result: result, err: eventstore.ErrConcurrencyConflict}, metrics, nil, nil)

	// act
	_, _ = wrapper.Handle(t.Context(), testCommand{})

	// assert
	retries := metrics.CounterRecords(shell.CommandHandlerRetriesMetric)
	require.Len(t, retries, 1)
	assert.Equal(t, "5", retries[0].Labels["attempt_number"])

	delays := metrics.DurationRecords(shell.CommandHandlerRetryDelayMetric)
	require.Len(t, delays, 1)
	assert.Equal(t, 300*time.Millisecond, delays[0].Duration)

	assert.Len(t, metrics.CounterRecords(shell.CommandHandlerMaxRetriesReachedMetric), 1)
}

func Test_CommandWrapper_FallsBackToPlainLogger(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	wrapper, err := observable.NewCommandWrapper[testCommand](
		commandHandlerStub{},
		observable.WithCommandLogging[testCommand](logger),
	)
	require.NoError(t, err)

	// act
	_, handleErr := wrapper.Handle(t.Context(), testCommand{})

	// assert
	assert.NoError(t, handleErr)
	assert.True(t, logger.HasMessage("info", shell.LogMsgCommandCompleted))
}

func givenCommandWrapper(
	t *testing.T,
	handler shell.CommandHandler[testCommand],
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
	logger shell.ContextualLogger,
) *observable.CommandWrapper[testCommand] {

	t.Helper()

	opts := []observable.CommandOption[testCommand]{observable.WithCommandMetrics[testCommand](metrics)}
	if tracing != nil {
		opts = append(opts, observable.WithCommandTracing[testCommand](tracing))
	}
	if logger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[testCommand](logger))
	}

	wrapper, err := observable.NewCommandWrapper[testCommand](handler, opts...)
	require.NoError(t, err)

	return wrapper
}
