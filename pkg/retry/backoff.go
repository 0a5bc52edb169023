package retry

import (
	"context"
	"time"
)

// BackoffStrategy decides how long to pause before the next attempt
type BackoffStrategy interface {
	// NextDelay returns the pause after the given failed attempt
	NextDelay(attempt int) time.Duration
}

// ConstantBackoff pauses the same duration after every failure.
// The zero value retries immediately.
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 || cb.Delay < 0 {
		return 0
	}
	return cb.Delay
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
