package shell

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// HandlerResult is what a command handler reports besides its error:
// the event it appended and the retry metadata of the run.
type HandlerResult struct {
	// Event is the appended event, nil when the command failed.
	Event core.DomainEvent

	// Metadata of the appended event. Its MessageID is also the payout batch reference.
	Metadata EventMetadata

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay excludes execution time, it only counts backoff waits.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other".
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a concurrency conflict.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for an appended event.
func NewSuccessResult(event core.DomainEvent, metadata EventMetadata, retryMetrics RetryMetrics) HandlerResult {
	result := NewErrorResult(retryMetrics)
	result.Event = event
	result.Metadata = metadata

	return result
}

// NewErrorResult creates a HandlerResult for a failed command, keeping the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
