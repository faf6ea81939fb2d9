package core

// scheduler.go refreshes the table from the backend on a fixed interval.
//
// The scheduler is long-running and context-aware for graceful shutdown.
// It is a periodic refresh, off unless an interval is configured. A failed
// refresh is logged and not retried; the loop simply runs again at the next
// regular tick.

import (
	"context"
	"log/slog"
	"time"
)

// RefreshScheduler calls Refresh every Interval.
type RefreshScheduler struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewRefreshScheduler returns a scheduler; a non-positive interval makes
// Run return immediately.
func NewRefreshScheduler(s *Service, interval time.Duration, logger *slog.Logger) *RefreshScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshScheduler{service: s, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. It does not refresh immediately; the
// first refresh happens one interval after start.
func (r *RefreshScheduler) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}

	r.logger.Info("refresh scheduler started", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresh scheduler stopped")
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *RefreshScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	status, err := r.service.Refresh(ctx)
	switch {
	case err == nil:
		r.logger.Debug("scheduled refresh completed",
			"rows", status.Rows,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	case IsSuperseded(err):
		r.logger.Debug("scheduled refresh superseded")
	case ctx.Err() != nil:
		// shutting down
	default:
		r.logger.Warn("scheduled refresh failed", "error", err, "code", MapError(err).Code)
	}
}
