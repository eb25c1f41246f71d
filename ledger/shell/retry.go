package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how a retried run went.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with a non-retryable error,
// or maxAttempts is reached.
//
// Default schedule: 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms, each plus up to 30% jitter.
//
// Only eventstore.ErrConcurrencyConflict is retried. Every attempt re-reads the history,
// so a rental that lost the race is decided again and fails with the business error.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {

	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{LastErrorType: getErrorType(err)}, err
		}
	}

	metrics := RetryMetrics{}
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			select {
			case <-time.After(backoffDelay):
				metrics.TotalDelay += backoffDelay
			case <-ctx.Done():
				metrics.LastErrorType = getErrorType(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++

		lastErr = fn(ctx)
		metrics.LastErrorType = getErrorType(lastErr)

		if lastErr == nil || !isRetryableError(lastErr) {
			return metrics, lastErr
		}
	}

	metrics.RetriesExhausted = true

	return metrics, lastErr
}

func isRetryableError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}

func getErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	}

	return "other"
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter as a fraction of the backoff delay, 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}
