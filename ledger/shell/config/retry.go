package config

import (
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// RetryOptions converts the retry settings for the command handlers.
func (c RetryConfig) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(c.MaxAttempts),
		shell.WithBaseDelay(c.BaseDelay),
		shell.WithJitterFactor(c.JitterFactor),
	}
}
