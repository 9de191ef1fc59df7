package httputil

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrRateLimited marks an HTTP 429. The retry loop waits out the delay
// instead of treating it as a regular failure.
var ErrRateLimited = errors.New("rate limited")

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts    int
	BaseDelay      time.Duration // doubled after each failed attempt
	RateLimitDelay time.Duration // fixed wait after a 429
}

// Do executes fn with bounded retry. Transient failures back off
// exponentially; ErrRateLimited waits RateLimitDelay without consuming the
// backoff curve. Returns the last error once attempts are exhausted, or
// the context error if cancelled while waiting.
func (r RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == r.MaxAttempts {
			break
		}

		wait := delay
		if errors.Is(lastErr, ErrRateLimited) {
			wait = r.RateLimitDelay
			log.Printf("[retry] %s rate limited, waiting %s (%d/%d)",
				operationName, wait, attempt, r.MaxAttempts)
		} else {
			log.Printf("[retry] %s failed (attempt %d/%d): %v, retrying in %s",
				operationName, attempt, r.MaxAttempts, lastErr, wait)
			delay *= 2
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
