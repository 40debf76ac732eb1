package oracle

import (
	"context"
	"time"
)

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxRetries int           // Maximum number of attempts
	BaseDelay  time.Duration // Delay before the first retry
}

// DefaultRetryConfig returns the default retry policy: 5 attempts,
// 5s base delay doubling each retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 5,
		BaseDelay:  5 * time.Second,
	}
}

// Delay returns the backoff delay for the given 0-indexed attempt:
// BaseDelay × 2^attempt.
func (c RetryConfig) Delay(attempt int) time.Duration {
	return c.BaseDelay << uint(attempt)
}

// sleepFunc blocks for d or until ctx is done. It suspends only the
// calling goroutine; other in-flight oracle calls are unaffected.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
