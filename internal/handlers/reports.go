package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BradenHooton/dashboard/internal/models"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ReportService defines the interface for analytics report generation
type ReportService interface {
	Generate(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error)
}

// ReportRenderer writes a report as a downloadable document
type ReportRenderer func(w io.Writer, report *models.Report) error

// StatsService defines the interface for the overview cards
type StatsService interface {
	Cards() []models.StatCard
}

// ReportHandler handles dashboard overview and report requests
type ReportHandler struct {
	reports ReportService
	stats   StatsService
	render  ReportRenderer
}

// NewReportHandler creates a new ReportHandler. render may be nil, which disables the export route.
func NewReportHandler(reports ReportService, stats StatsService, render ReportRenderer) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		stats:   stats,
		render:  render,
	}
}

// ReportRequest holds the query parameters of a report
type ReportRequest struct {
	Range string `query:"range" validate:"oneof=7d 30d 90d custom"`
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// ReportResponse represents a generated report in the HTTP response
type ReportResponse struct {
	Range      string                 `json:"range"`
	Start      string                 `json:"start"`
	End        string                 `json:"end"`
	Series     []models.DailyMetric   `json:"series"`
	Metrics    models.ReportMetrics   `json:"metrics"`
	Categories []models.CategoryShare `json:"categories"`
}

// StatsResponse lists the overview cards
type StatsResponse struct {
	Cards []models.StatCard `json:"cards"`
}

// RegisterRoutes registers report routes with the chi router
func (h *ReportHandler) RegisterRoutes(router chi.Router) {
	router.Get("/dashboard/stats", h.GetStats) // GET /dashboard/stats
	router.Get("/reports", h.GetReport)        // GET /reports
	if h.render != nil {
		router.Get("/reports/export", h.ExportReport) // GET /reports/export
	}
}

// GetStats returns the overview cards
//
// @Summary Dashboard stat cards
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /dashboard/stats [get]
func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, &StatsResponse{Cards: h.stats.Cards()})
}

// GetReport generates an analytics report
//
// @Summary Analytics report
// @Param range query string false "7d, 30d, 90d or custom (default 30d)"
// @Param start query string false "Custom range start, YYYY-MM-DD"
// @Param end query string false "Custom range end, YYYY-MM-DD"
// @Produce json
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &ReportResponse{
		Range:      string(report.Range),
		Start:      report.Start.Format("2006-01-02"),
		End:        report.End.Format("2006-01-02"),
		Series:     report.Series,
		Metrics:    report.Metrics,
		Categories: report.Categories,
	})
}

// ExportReport generates a report and returns it as a PDF attachment
//
// @Summary Export analytics report as PDF
// @Param range query string false "7d, 30d, 90d or custom (default 30d)"
// @Param start query string false "Custom range start, YYYY-MM-DD"
// @Param end query string false "Custom range end, YYYY-MM-DD"
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /reports/export [get]
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}

	// Render fully before writing so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := h.render(&buf, report); err != nil {
		pkghttp.WriteInternalError(w, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("report-%s-%s.pdf", report.Start.Format("20060102"), report.End.Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// generate validates the report query and runs the service, writing the error response on failure
func (h *ReportHandler) generate(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	q := r.URL.Query()

	req := ReportRequest{
		Range: strings.ToLower(strings.TrimSpace(q.Get("range"))),
		Start: strings.TrimSpace(q.Get("start")),
		End:   strings.TrimSpace(q.Get("end")),
	}
	if req.Range == "" {
		req.Range = string(models.DateRange30Days)
	}

	if err := ValidateRequest(req); err != nil {
		writeValidationError(w, err)
		return nil, false
	}

	report, err := h.reports.Generate(r.Context(), models.DateRange(req.Range), req.Start, req.End)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return report, true
}
