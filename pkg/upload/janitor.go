package upload

import (
	"context"
	"log/slog"
	"time"
)

// Janitor periodically removes expired temp files from a Store.
type Janitor struct {
	store    Store
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewJanitor creates a Janitor that sweeps every interval and removes files
// older than maxAge.
func NewJanitor(store Store, interval, maxAge time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger.With("component", "upload-janitor"),
	}
}

// Run sweeps until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass.
func (j *Janitor) Sweep(ctx context.Context) {
	start := time.Now()
	if err := j.store.Cleanup(ctx, j.maxAge); err != nil {
		j.logger.Warn("cleanup failed", "error", err)
		return
	}
	j.logger.Debug("cleanup done", "duration", time.Since(start))
}
