package core

// scheduler.go runs background maintenance for the Service.
//
// The session sweeper closes sessions nobody has touched for IdleTimeout.
// The LRU bound caps memory under load; the sweeper frees sessions of users
// who simply walked away.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig configures the idle session sweeper.
type SweepConfig struct {
	IdleTimeout time.Duration // sessions idle longer are closed (default: 2h)
	Interval    time.Duration // how often to sweep (default: 5m)
}

// Sweeper defaults.
const (
	DefaultSessionIdleTimeout = 2 * time.Hour
	DefaultSweepInterval      = 5 * time.Minute
)

// StartSessionSweeper sweeps idle sessions every Interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, cfg SweepConfig) {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultSessionIdleTimeout
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"idle_timeout", cfg.IdleTimeout.String(),
		"interval", cfg.Interval.String(),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			if n := s.SweepIdle(now, cfg.IdleTimeout); n > 0 {
				slog.Info("idle sessions closed", "count", n, "remaining", s.SessionCount())
			}
		}
	}
}

// SweepIdle closes every session last used before now minus idle and
// returns how many were closed.
func (s *Service) SweepIdle(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)
	closed := 0
	for _, id := range s.sessions.Keys() {
		sess, ok := s.sessions.Peek(id)
		if !ok || !sess.LastUsed().Before(cutoff) {
			continue
		}
		if s.sessions.Remove(id) {
			closed++
		}
	}
	return closed
}
