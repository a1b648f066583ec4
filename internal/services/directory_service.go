package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/dashboard/internal/directory"
	"github.com/BradenHooton/dashboard/internal/models"
	"golang.org/x/sync/singleflight"
)

// RecordSource defines where directory records are loaded from
type RecordSource interface {
	Fetch(ctx context.Context) ([]*models.UserRecord, error)
	Name() string
}

// DirectoryStatus describes the cached directory snapshot
type DirectoryStatus struct {
	Source      string
	Loaded      bool
	RecordCount int
	LoadedAt    time.Time
	LastError   string
}

// DirectoryService caches records from a RecordSource and answers directory queries against the cache
type DirectoryService struct {
	source RecordSource
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	fetchTimeout time.Duration
	retryBackoff time.Duration

	group singleflight.Group

	mu         sync.RWMutex
	records    []*models.UserRecord
	loaded     bool
	loadedAt   time.Time
	refreshing bool
	failedAt   time.Time
	lastError  error
}

const (
	// DefaultFetchTimeout bounds one shared fetch from the source
	DefaultFetchTimeout = 30 * time.Second
	// DefaultRetryBackoff is how long a stale snapshot is served after a failed reload before the request path retries
	DefaultRetryBackoff = 30 * time.Second
)

// NewDirectoryService creates a DirectoryService. A ttl of zero keeps the first snapshot until Refresh is called.
func NewDirectoryService(source RecordSource, logger *slog.Logger, ttl time.Duration) *DirectoryService {
	return &DirectoryService{
		source:       source,
		logger:       logger,
		ttl:          ttl,
		now:          time.Now,
		fetchTimeout: DefaultFetchTimeout,
		retryBackoff: DefaultRetryBackoff,
	}
}

// SetFetchTimeout changes the bound on a shared fetch. Values below 1 are ignored.
func (s *DirectoryService) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		s.fetchTimeout = d
	}
}

// SetRetryBackoff changes how long a failed reload keeps the request path off the source
func (s *DirectoryService) SetRetryBackoff(d time.Duration) {
	if d >= 0 {
		s.retryBackoff = d
	}
}

// Refresh reloads the snapshot from the source. Concurrent callers share one fetch.
// The fetch is detached from the caller that started it, so one caller giving
// up does not fail the others; it is bounded by the fetch timeout instead.
func (s *DirectoryService) Refresh(ctx context.Context) (int, error) {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.load(fetchCtx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return 0, fmt.Errorf("failed to refresh directory: %w", ctx.Err())
	}

	if res.Err != nil {
		s.logger.Error("failed to refresh directory", slog.String("source", s.source.Name()), slog.Any("error", res.Err))
		return 0, fmt.Errorf("failed to refresh directory: %w", res.Err)
	}

	count := res.Val.(int)
	s.logger.Info("directory refreshed", slog.String("source", s.source.Name()), slog.Int("records", count))
	return count, nil
}

func (s *DirectoryService) load(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.refreshing = true
	s.mu.Unlock()

	records, err := s.source.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false

	if err != nil {
		s.lastError = err
		s.failedAt = s.now()
		return 0, err
	}

	s.records = records
	s.loaded = true
	s.loadedAt = s.now()
	s.failedAt = time.Time{}
	s.lastError = nil
	return len(records), nil
}

// Records returns the current snapshot, loading it first if it is missing or stale.
// A stale snapshot is served without touching the source while a reload is in
// flight or within the retry backoff after a failed one.
func (s *DirectoryService) Records(ctx context.Context) ([]*models.UserRecord, error) {
	s.mu.RLock()
	records, loaded, loadedAt := s.records, s.loaded, s.loadedAt
	refreshing, failedAt := s.refreshing, s.failedAt
	s.mu.RUnlock()

	now := s.now()
	stale := s.ttl > 0 && now.Sub(loadedAt) > s.ttl
	if loaded && !stale {
		return records, nil
	}
	if loaded && (refreshing || (!failedAt.IsZero() && now.Sub(failedAt) < s.retryBackoff)) {
		return records, nil
	}

	if _, err := s.Refresh(ctx); err != nil {
		if loaded {
			s.logger.Warn("serving stale directory snapshot", slog.Time("loaded_at", loadedAt))
			return records, nil
		}
		return nil, models.ErrSourceUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, nil
}

// Query runs the directory pipeline over the current snapshot
func (s *DirectoryService) Query(ctx context.Context, state directory.QueryState) (directory.ResultPage, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return directory.ResultPage{}, err
	}

	page := directory.Query(records, state)

	s.logger.Debug("directory query",
		slog.Int("search_len", len(state.Search)),
		slog.String("sort", string(state.SortField)),
		slog.String("order", string(state.SortDirection)),
		slog.Int("page", page.PageIndex),
		slog.Int("page_size", page.PageSize),
		slog.Int("matched", page.TotalMatched),
	)

	return page, nil
}

// Count returns the number of records in the snapshot, loading it if needed
func (s *DirectoryService) Count(ctx context.Context) (int, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Status reports the snapshot state without touching the source
func (s *DirectoryService) Status() DirectoryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := DirectoryStatus{
		Source:      s.source.Name(),
		Loaded:      s.loaded,
		RecordCount: len(s.records),
		LoadedAt:    s.loadedAt,
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	return status
}
