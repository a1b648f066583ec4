package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL serves the same user shape the dashboard was built against
const DefaultSourceURL = "https://jsonplaceholder.typicode.com/users"

// maxBodyBytes bounds how much of an upstream response is read
const maxBodyBytes = 4 << 20

// ErrResponseTooLarge is returned when an upstream body exceeds maxBodyBytes
var ErrResponseTooLarge = errors.New("upstream response too large")

// RecordSource loads the full set of directory records
type RecordSource interface {
	Fetch(ctx context.Context) ([]*models.UserRecord, error)
	Name() string
}

// HTTPRecordSource fetches a JSON array of users from a remote endpoint
type HTTPRecordSource struct {
	url    string
	client *http.Client
}

// NewHTTPRecordSource creates a source for url. A nil client gets one with the given timeout.
func NewHTTPRecordSource(url string, client *http.Client, timeout time.Duration) *HTTPRecordSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPRecordSource{url: url, client: client}
}

func (s *HTTPRecordSource) Name() string {
	return s.url
}

func (s *HTTPRecordSource) Fetch(ctx context.Context) ([]*models.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch users: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}

	var records []*models.UserRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return compact(records), nil
}

// FileRecordSource reads records from a YAML or JSON seed file
type FileRecordSource struct {
	path string
}

func NewFileRecordSource(path string) *FileRecordSource {
	return &FileRecordSource{path: path}
}

func (s *FileRecordSource) Name() string {
	return s.path
}

func (s *FileRecordSource) Fetch(ctx context.Context) ([]*models.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []*models.UserRecord
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	default:
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", s.path, err)
	}

	return compact(records), nil
}

// ChainRecordSource returns the result of the first source that succeeds
type ChainRecordSource struct {
	sources []RecordSource
}

func NewChainRecordSource(sources ...RecordSource) *ChainRecordSource {
	return &ChainRecordSource{sources: sources}
}

func (s *ChainRecordSource) Name() string {
	name := "chain"
	for _, src := range s.sources {
		name += ":" + src.Name()
	}
	return name
}

func (s *ChainRecordSource) Fetch(ctx context.Context) ([]*models.UserRecord, error) {
	if len(s.sources) == 0 {
		return nil, models.ErrSourceUnavailable
	}

	var errs []error
	for _, src := range s.sources {
		records, err := src.Fetch(ctx)
		if err == nil {
			return records, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Join(errs...)
}

// compact drops null entries from a decoded array
func compact(records []*models.UserRecord) []*models.UserRecord {
	out := make([]*models.UserRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
