package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher reloads a cached snapshot
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RefreshManager periodically reloads the directory snapshot from its source
type RefreshManager struct {
	target   Refresher
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRefreshManager creates a new refresh manager. Each refresh is bounded by timeout.
func NewRefreshManager(target Refresher, logger *slog.Logger, interval, timeout time.Duration) *RefreshManager {
	return &RefreshManager{
		target:   target,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic refresh task and blocks until stopped
func (rm *RefreshManager) Start(ctx context.Context) {
	ticker := time.NewTicker(rm.interval)
	defer ticker.Stop()

	// Warm the cache immediately on startup
	rm.runRefresh(ctx)

	for {
		select {
		case <-ticker.C:
			rm.runRefresh(ctx)
		case <-rm.stopCh:
			rm.logger.Info("refresh manager stopped")
			return
		case <-ctx.Done():
			rm.logger.Info("refresh manager context cancelled")
			return
		}
	}
}

func (rm *RefreshManager) runRefresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, rm.timeout)
	defer cancel()

	count, err := rm.target.Refresh(refreshCtx)
	if err != nil {
		// The directory service logs the failure and keeps serving its last snapshot
		return
	}

	rm.logger.Debug("scheduled directory refresh completed", slog.Int("records", count))
}

// Stop signals the refresh manager to stop. It is safe to call more than once.
func (rm *RefreshManager) Stop() {
	rm.stopOnce.Do(func() { close(rm.stopCh) })
}
