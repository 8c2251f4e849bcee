// Package util holds the context-aware waiting used for pacing between
// conversations and for retry backoff.
package util

import (
	"context"
	"fmt"
	"time"
)

// ContextSleep waits for d or until ctx is done, whichever comes first.
// A non-positive d returns at once unless ctx is already done.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return WrapContextError(ctx, "sleep")
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// WrapContextError returns nil while ctx is live, and otherwise ctx.Err()
// prefixed with the interrupted operation.
func WrapContextError(ctx context.Context, operation string) error {
	if ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("%s cancelled: %w", operation, ctx.Err())
}
