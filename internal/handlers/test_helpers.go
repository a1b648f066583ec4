package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/dashboard/internal/directory"
	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/BradenHooton/dashboard/internal/services"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParam adds a chi route parameter to the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockDirectoryService implements DirectoryService for testing
type MockDirectoryService struct {
	QueryFunc   func(ctx context.Context, state directory.QueryState) (directory.ResultPage, error)
	RefreshFunc func(ctx context.Context) (int, error)
}

func (m *MockDirectoryService) Query(ctx context.Context, state directory.QueryState) (directory.ResultPage, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, state)
	}
	return directory.ResultPage{Records: []*models.UserRecord{}}, nil
}

func (m *MockDirectoryService) Refresh(ctx context.Context) (int, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return 0, nil
}

// MockReportService implements ReportService for testing
type MockReportService struct {
	GenerateFunc func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error)
}

func (m *MockReportService) Generate(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, dateRange, start, end)
	}
	return &models.Report{Range: dateRange}, nil
}

// MockStatsService implements StatsService for testing
type MockStatsService struct {
	CardsFunc func() []models.StatCard
}

func (m *MockStatsService) Cards() []models.StatCard {
	if m.CardsFunc != nil {
		return m.CardsFunc()
	}
	return []models.StatCard{}
}

// MockChatService implements ChatService for testing
type MockChatService struct {
	ListContactsFunc func(ctx context.Context, search string) ([]models.Contact, error)
	ConversationFunc func(ctx context.Context, contactID int) ([]*models.Message, error)
	SendFunc         func(ctx context.Context, contactID int, text string) (*models.Message, error)
	SubscribeFunc    func(ctx context.Context, contactID int) (<-chan *models.Message, func(), error)
}

func (m *MockChatService) ListContacts(ctx context.Context, search string) ([]models.Contact, error) {
	if m.ListContactsFunc != nil {
		return m.ListContactsFunc(ctx, search)
	}
	return []models.Contact{}, nil
}

func (m *MockChatService) Conversation(ctx context.Context, contactID int) ([]*models.Message, error) {
	if m.ConversationFunc != nil {
		return m.ConversationFunc(ctx, contactID)
	}
	return []*models.Message{}, nil
}

func (m *MockChatService) Send(ctx context.Context, contactID int, text string) (*models.Message, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, contactID, text)
	}
	return nil, models.ErrNotFound
}

func (m *MockChatService) Subscribe(ctx context.Context, contactID int) (<-chan *models.Message, func(), error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, contactID)
	}
	return nil, nil, models.ErrNotFound
}

// MockStatusReporter implements StatusReporter for testing
type MockStatusReporter struct {
	Value services.DirectoryStatus
}

func (m *MockStatusReporter) Status() services.DirectoryStatus {
	return m.Value
}
