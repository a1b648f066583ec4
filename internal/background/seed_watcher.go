package background

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SeedWatcher refreshes the directory whenever its seed file changes on disk.
// Bursts of events, such as an editor's write-then-rename, collapse into one refresh.
type SeedWatcher struct {
	path     string
	target   Refresher
	logger   *slog.Logger
	debounce time.Duration
	timeout  time.Duration
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSeedWatcher watches the directory containing path. Watching the
// directory rather than the file survives editors that replace the file.
func NewSeedWatcher(path string, target Refresher, logger *slog.Logger, debounce, timeout time.Duration) (*SeedWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seed file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &SeedWatcher{
		path:     abs,
		target:   target,
		logger:   logger,
		debounce: debounce,
		timeout:  timeout,
		watcher:  watcher,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start handles file events and blocks until stopped. It closes the underlying watcher on return.
func (sw *SeedWatcher) Start(ctx context.Context) {
	defer sw.watcher.Close()

	timer := time.NewTimer(sw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(event) {
				continue
			}
			timer.Reset(sw.debounce)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("seed file watcher error", slog.Any("error", err))

		case <-timer.C:
			sw.reload(ctx)

		case <-sw.stopCh:
			sw.logger.Info("seed watcher stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *SeedWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != sw.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (sw *SeedWatcher) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, sw.timeout)
	defer cancel()

	count, err := sw.target.Refresh(reloadCtx)
	if err != nil {
		return
	}
	sw.logger.Info("directory reloaded after seed file change", slog.String("path", sw.path), slog.Int("records", count))
}

// Stop signals the watcher to stop. It is safe to call more than once.
func (sw *SeedWatcher) Stop() {
	sw.stopOnce.Do(func() { close(sw.stopCh) })
}
