package services

import (
	"context"
	"sync"

	"github.com/BradenHooton/dashboard/internal/models"
)

// MockRecordSource implements RecordSource for testing
type MockRecordSource struct {
	FetchFunc func(ctx context.Context) ([]*models.UserRecord, error)

	mu    sync.Mutex
	calls int
}

func (m *MockRecordSource) Name() string {
	return "mock"
}

func (m *MockRecordSource) Fetch(ctx context.Context) ([]*models.UserRecord, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return []*models.UserRecord{}, nil
}

// Calls returns how many times Fetch ran
func (m *MockRecordSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// NewTestRecord creates a directory record for testing
func NewTestRecord(id int, name, email, company string) *models.UserRecord {
	return &models.UserRecord{
		ID:      id,
		Name:    name,
		Email:   email,
		Phone:   "555-0100",
		Company: models.Company{Name: company},
	}
}
