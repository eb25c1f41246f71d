// Package oteladapters implements the event store's observability interfaces on top of OpenTelemetry,
// so the ledger's command and query handlers and the engines can report to any OTLP backend.
package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// SlogBridgeLogger is a ContextualLogger writing through the OpenTelemetry slog bridge.
// Records carry the trace and span id of the context they are logged with.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger uses the global LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithProvider uses the given LoggerProvider instead of the global one.
func NewSlogBridgeLoggerWithProvider(name string, provider log.LoggerProvider) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name, otelslog.WithLoggerProvider(provider))}
}

// Slog exposes the underlying *slog.Logger, e.g. to install it as the process default.
func (l *SlogBridgeLogger) Slog() *slog.Logger {
	return l.logger
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

var _ eventstore.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger is a ContextualLogger emitting records through the OpenTelemetry log API directly.
type OTelLogger struct {
	logger log.Logger
}

func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args...)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args...)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args...)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args...)
}

// emit converts slog-style key/value args into string attributes. A dangling key is dropped.
func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args ...any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetBody(log.StringValue(msg))

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		record.AddAttributes(log.String(key, slog.AnyValue(args[i+1]).String()))
	}

	l.logger.Emit(ctx, record)
}

var _ eventstore.ContextualLogger = (*OTelLogger)(nil)
