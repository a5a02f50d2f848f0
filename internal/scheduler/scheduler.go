// Package scheduler refreshes every saved profile on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher runs discovery for all users.
type Refresher interface {
	RefreshAll(ctx context.Context) (users, inserted int, err error)
}

type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration

	mu      sync.Mutex
	running bool
}

// New parses spec (standard five-field cron, or descriptors such as
// "@every 6h") and binds it to r. timeout bounds a single pass.
func New(spec string, r Refresher, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: r,
		timeout:   timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("parse DISCOVERY_CRON %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("discovery scheduler started", "component", "scheduler")
}

// Stop waits for a running pass to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// runOnce skips the tick when the previous pass is still going.
func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("previous refresh still running, skipping tick", "component", "scheduler")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	users, inserted, err := s.refresher.RefreshAll(ctx)
	if err != nil {
		slog.Error("scheduled refresh failed", "component", "scheduler", "err", err)
		return
	}
	slog.Info("scheduled refresh complete", "component", "scheduler",
		"users", users, "inserted", inserted, "duration_ms", time.Since(start).Milliseconds())
}
