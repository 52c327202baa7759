// internal/retry/retry.go
// Package retry provides a reusable retry policy for transient provider
// failures. A Policy is a value; callers hold one per stage and invoke Do
// around each network call.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how many times an operation is attempted and how long to
// wait between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below one are treated as one.
	MaxAttempts int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the growing delay. Zero means no cap.
	MaxDelay time.Duration
	// Multiplier scales the delay after each failed attempt. Values at or
	// below one keep the delay fixed.
	Multiplier float64
}

// Fixed returns a policy that retries with a constant delay between attempts.
func Fixed(attempts int, delay time.Duration) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: delay}
}

// Exponential returns a policy that doubles the delay between attempts, capped
// at max.
func Exponential(attempts int, base, max time.Duration) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: base, MaxDelay: max, Multiplier: 2}
}

// Do invokes fn until it succeeds, the attempts are exhausted, or the context
// is canceled. The returned error wraps the last failure so callers can
// inspect it with errors.Is and errors.As.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("canceled after %d attempts: %w", attempt-1, lastErr)
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("canceled after %d attempts: %w", attempt, lastErr)
			}
		}
		if p.Multiplier > 1 {
			next := time.Duration(float64(delay) * p.Multiplier)
			if p.MaxDelay > 0 && next > p.MaxDelay {
				next = p.MaxDelay
			}
			delay = next
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
