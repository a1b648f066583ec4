package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/dashboard/internal/handlers"
	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/BradenHooton/dashboard/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportRouter(reports handlers.ReportService, stats handlers.StatsService) chi.Router {
	r := chi.NewRouter()
	handlers.NewReportHandler(reports, stats, services.WriteReportPDF).RegisterRoutes(r)
	return r
}

func TestGetStats_ReturnsCards(t *testing.T) {
	stats := &handlers.MockStatsService{
		CardsFunc: func() []models.StatCard {
			return []models.StatCard{{Label: "Total Users", Value: 100}, {Label: "Active Users", Value: 50}}
		},
	}

	w := serve(newReportRouter(&handlers.MockReportService{}, stats), httptest.NewRequest("GET", "/dashboard/stats", nil))

	var resp handlers.StatsResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "Total Users", resp.Cards[0].Label)
	assert.Equal(t, 100, resp.Cards[0].Value)
}

func TestGetReport_DefaultsTo30Days(t *testing.T) {
	var gotRange models.DateRange
	reports := &handlers.MockReportService{
		GenerateFunc: func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
			gotRange = dateRange
			return &models.Report{
				Range:   dateRange,
				Start:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
				End:     time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
				Series:  []models.DailyMetric{{Date: "2026-09-14", Users: 120, Orders: 30}},
				Metrics: models.ReportMetrics{TotalUsers: 120, TotalOrders: 30, AvgConversion: 25},
			}, nil
		},
	}

	w := serve(newReportRouter(reports, &handlers.MockStatsService{}), httptest.NewRequest("GET", "/reports", nil))

	var resp handlers.ReportResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, models.DateRange30Days, gotRange)
	assert.Equal(t, "30d", resp.Range)
	assert.Equal(t, "2026-09-14", resp.Start)
	assert.Equal(t, "2026-10-14", resp.End)
	require.Len(t, resp.Series, 1)
	assert.Equal(t, 25.0, resp.Metrics.AvgConversion)
}

func TestGetReport_CustomRangePassesDates(t *testing.T) {
	var gotStart, gotEnd string
	reports := &handlers.MockReportService{
		GenerateFunc: func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
			gotStart, gotEnd = start, end
			return &models.Report{Range: dateRange}, nil
		},
	}

	req := httptest.NewRequest("GET", "/reports?range=custom&start=2026-01-01&end=2026-01-10", nil)
	w := serve(newReportRouter(reports, &handlers.MockStatsService{}), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-01-01", gotStart)
	assert.Equal(t, "2026-01-10", gotEnd)
}

func TestGetReport_InvalidQuery_Returns400(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown range", "range=1y"},
		{"malformed start", "range=custom&start=01/02/2026&end=2026-01-10"},
		{"malformed end", "range=custom&start=2026-01-01&end=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &handlers.MockReportService{
				GenerateFunc: func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
					t.Fatal("service should not be called")
					return nil, nil
				},
			}

			w := serve(newReportRouter(reports, &handlers.MockStatsService{}), httptest.NewRequest("GET", "/reports?"+tt.query, nil))

			handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "invalid_parameter")
		})
	}
}

func TestGetReport_ServiceRangeError_Returns400(t *testing.T) {
	reports := &handlers.MockReportService{
		GenerateFunc: func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
			return nil, fmt.Errorf("%w: custom range needs start and end", models.ErrInvalidRange)
		},
	}

	w := serve(newReportRouter(reports, &handlers.MockStatsService{}), httptest.NewRequest("GET", "/reports?range=custom", nil))

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.Contains(t, w.Body.String(), "needs start and end")
}

func TestExportReport_ReturnsPDF(t *testing.T) {
	reports := &handlers.MockReportService{
		GenerateFunc: func(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
			return &models.Report{
				Range:      dateRange,
				Start:      time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
				Series:     []models.DailyMetric{{Date: "2026-10-07", Users: 150, Revenue: 7500, Orders: 30, PageViews: 900, ConversionRate: 20}},
				Categories: services.DefaultCategories(),
			}, nil
		},
	}

	w := serve(newReportRouter(reports, &handlers.MockStatsService{}), httptest.NewRequest("GET", "/reports/export?range=7d", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report-20261007-20261014.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestExportReport_InvalidRange_Returns400(t *testing.T) {
	w := serve(newReportRouter(&handlers.MockReportService{}, &handlers.MockStatsService{}), httptest.NewRequest("GET", "/reports/export?range=year", nil))

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "invalid_parameter")
}

func TestExportReport_RenderFailure_Returns500(t *testing.T) {
	r := chi.NewRouter()
	failing := func(w io.Writer, report *models.Report) error { return errors.New("disk full") }
	handlers.NewReportHandler(&handlers.MockReportService{}, &handlers.MockStatsService{}, failing).RegisterRoutes(r)

	w := serve(r, httptest.NewRequest("GET", "/reports/export", nil))

	handlers.AssertErrorResponse(t, w, http.StatusInternalServerError, "internal_error")
}

func TestExportReport_DisabledWithoutRenderer(t *testing.T) {
	r := chi.NewRouter()
	handlers.NewReportHandler(&handlers.MockReportService{}, &handlers.MockStatsService{}, nil).RegisterRoutes(r)

	w := serve(r, httptest.NewRequest("GET", "/reports/export", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
