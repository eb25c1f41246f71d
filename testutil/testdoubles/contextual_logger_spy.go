package testdoubles

import (
	"context"
	"slices"
	"sync"
)

// SpyLogRecord is a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// HasArg reports whether the record carries key with value.
func (r SpyLogRecord) HasArg(key string, value any) bool {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if r.Args[i] == key && r.Args[i+1] == value {
			return true
		}
	}

	return false
}

// ContextualLoggerSpy implements eventstore.ContextualLogger and eventstore.Logger.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []SpyLogRecord
}

func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: slices.Clone(args), Context: ctx})
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), "debug", msg, args)
}

func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), "info", msg, args)
}

func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), "warn", msg, args)
}

func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), "error", msg, args)
}

// Records returns all records of the given level.
func (s *ContextualLoggerSpy) Records(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyLogRecord
	for _, r := range s.records {
		if r.Level == level {
			records = append(records, r)
		}
	}

	return records
}

// HasMessage reports whether any record of the given level has msg.
func (s *ContextualLoggerSpy) HasMessage(level, msg string) bool {
	return slices.ContainsFunc(s.Records(level), func(r SpyLogRecord) bool { return r.Message == msg })
}
