package observable

import (
	"context"
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// CommandWrapper adds metrics, tracing and logging to a command handler.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper wraps coreHandler. The command type is taken from the zero value of C.
func NewCommandWrapper[C shell.Command](
	coreHandler shell.CommandHandler[C],
	opts ...CommandOption[C],
) (*CommandWrapper[C], error) {

	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler and reports the outcome.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(commandStart)
	status := shell.ClassifyCommandError(err)

	shell.RecordRetryMetrics(ctx, w.metricsCollector, w.commandType, result)
	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration, err)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)
	w.log(ctx, status, duration, result, err)

	return result, err
}

func (w *CommandWrapper[C]) log(ctx context.Context, status string, duration time.Duration, result shell.HandlerResult, err error) {
	args := []any{
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrBusinessOutcome, status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
		shell.LogAttrRetryAttempts, result.RetryAttempts,
	}

	switch status {
	case shell.StatusSuccess:
		if result.Event != nil {
			args = append(args,
				shell.LogAttrEventType, result.Event.IsEventType(),
				shell.LogAttrListingID, result.Event.ListingKey(),
			)
		}
		shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted, args...)

	case shell.StatusRejected:
		args = append(args, shell.LogAttrErrorCode, string(core.CodeOf(err)), shell.LogAttrError, err.Error())
		shell.LogRejection(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected, args...)

	default:
		args = append(args, shell.LogAttrError, err.Error())
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed, args...)
	}
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}
