// Package throttle spaces out discovery runs per user.
//
// Each user has a single slot holding the time of their last successful run.
// The store is advisory: an in-memory store resets on restart and a shared
// store only narrows, not closes, the race between instances.
package throttle

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultWindow is the minimum spacing between runs for one user.
const DefaultWindow = 5 * time.Minute

// Store keeps one timestamp per user.
type Store interface {
	// Last returns the recorded time for user, or ok=false when none is held.
	Last(ctx context.Context, user string) (t time.Time, ok bool, err error)
	// Record stores t for user. ttl is how long the entry must survive.
	Record(ctx context.Context, user string, t time.Time, ttl time.Duration) error
}

// TooSoonError rejects a run inside the window.
type TooSoonError struct {
	Wait time.Duration
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("please wait %d seconds before running discovery again", e.WaitSeconds())
}

// WaitSeconds rounds Wait up to whole seconds, never below 1.
func (e *TooSoonError) WaitSeconds() int {
	s := int(math.Ceil(e.Wait.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

// Throttle enforces the window over a Store.
type Throttle struct {
	store  Store
	window time.Duration
	now    func() time.Time
}

// New returns a Throttle. A non-positive window uses DefaultWindow.
func New(store Store, window time.Duration) *Throttle {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Throttle{store: store, window: window, now: time.Now}
}

// WithClock replaces the time source.
func (t *Throttle) WithClock(now func() time.Time) *Throttle {
	t.now = now
	return t
}

// Check returns a *TooSoonError when user ran inside the window.
func (t *Throttle) Check(ctx context.Context, user string) error {
	last, ok, err := t.store.Last(ctx, user)
	if err != nil {
		return fmt.Errorf("throttle lookup: %w", err)
	}
	if !ok {
		return nil
	}
	if elapsed := t.now().Sub(last); elapsed < t.window {
		return &TooSoonError{Wait: t.window - elapsed}
	}
	return nil
}

// MarkSuccess records a successful run for user at the current time.
func (t *Throttle) MarkSuccess(ctx context.Context, user string) error {
	if err := t.store.Record(ctx, user, t.now(), t.window); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}
