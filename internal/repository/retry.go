package repository

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the retry loop around idempotent writes. The persistent
// store may be shared by more than one process, so a write can hit transient
// lock contention; such failures are retried with a constant backoff before
// being surfaced. Non-retryable conflicts (unique constraints) fail at once.
type RetryPolicy struct {
	Attempts uint64
	Backoff  time.Duration
}

// DefaultRetryPolicy retries up to 3 attempts, 100ms apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 100 * time.Millisecond}
}

func (p RetryPolicy) run(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	// retry.NewConstant panics on a non-positive interval
	interval := p.Backoff
	if interval <= 0 {
		interval = time.Millisecond
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewConstant(interval))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// isTransient reports whether the error is lock contention worth retrying
func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "deadlock detected")
}
