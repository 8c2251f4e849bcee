package util

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is reported when every attempt allowed by a RetryPolicy failed
// with a retryable error.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// RetryPolicy runs an operation up to MaxAttempts times, waiting a fixed Backoff
// between attempts. Only errors accepted by Retryable are retried; any other error
// is returned as-is after the attempt that produced it.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(error) bool
	// OnRetry is called before each wait, with the 1-based attempt that just failed.
	OnRetry func(attempt int, err error)
}

// ExhaustedError wraps the last retryable error once the attempt budget is spent.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrAttemptsExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrAttemptsExhausted, e.Last}
}

// Do executes op under the policy. The attempt number passed to op starts at 1.
func (p RetryPolicy) Do(ctx context.Context, op func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := WrapContextError(ctx, "retry"); err != nil {
			return err
		}

		err := op(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if err := ContextSleep(ctx, p.Backoff); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: lastErr}
}
