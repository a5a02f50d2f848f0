// Package upstream bounds calls to external providers.
package upstream

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultTimeout applies when a caller passes a non-positive timeout.
const DefaultTimeout = 15 * time.Second

// Do runs fn under a per-attempt deadline. An attempt that fails because its
// own deadline expired is retried once; any other error, or a cancelled
// parent context, is returned as is.
func Do(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		err = attemptOnce(ctx, timeout, fn)
		if err == nil || !IsTimeout(err) || ctx.Err() != nil {
			return err
		}
		slog.Warn("upstream call timed out", "component", "upstream", "call", name, "attempt", attempt, "timeout", timeout)
	}
	return err
}

func attemptOnce(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(cctx)
}

// IsTimeout reports whether err came from a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
