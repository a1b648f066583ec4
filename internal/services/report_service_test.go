package services

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService(seed uint64) *ReportService {
	svc := NewReportService(ReportConfig{Seed: seed, MaxDays: 120}, slog.Default())
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestReportService_PresetRanges(t *testing.T) {
	tests := []struct {
		dateRange  models.DateRange
		wantPoints int
		wantStart  string
	}{
		{models.DateRange7Days, 8, "2026-10-07"},
		{models.DateRange30Days, 31, "2026-09-14"},
		{models.DateRange90Days, 91, "2026-07-16"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dateRange), func(t *testing.T) {
			svc := newTestReportService(42)

			report, err := svc.Generate(context.Background(), tt.dateRange, "", "")

			require.NoError(t, err)
			assert.Len(t, report.Series, tt.wantPoints)
			assert.Equal(t, tt.wantStart, report.Series[0].Date)
			assert.Equal(t, "2026-10-14", report.Series[len(report.Series)-1].Date)
			assert.Len(t, report.Categories, 5)
		})
	}
}

func TestReportService_CustomRange(t *testing.T) {
	svc := newTestReportService(42)

	report, err := svc.Generate(context.Background(), models.DateRangeCustom, "2026-01-01", "2026-01-10")

	require.NoError(t, err)
	assert.Len(t, report.Series, 10)
	assert.Equal(t, "2026-01-01", report.Series[0].Date)
	assert.Equal(t, Summarize(report.Series), report.Metrics)
}

func TestReportService_CustomRangeReversedIsEmpty(t *testing.T) {
	svc := newTestReportService(42)

	report, err := svc.Generate(context.Background(), models.DateRangeCustom, "2026-02-10", "2026-02-01")

	require.NoError(t, err)
	assert.Empty(t, report.Series)
	assert.Equal(t, models.ReportMetrics{}, report.Metrics)
}

func TestReportService_InvalidRanges(t *testing.T) {
	svc := newTestReportService(42)

	tests := []struct {
		name       string
		dateRange  models.DateRange
		start, end string
	}{
		{"custom missing end", models.DateRangeCustom, "2026-01-01", ""},
		{"custom bad date", models.DateRangeCustom, "01/02/2026", "2026-01-10"},
		{"unknown preset", models.DateRange("1y"), "", ""},
		{"too long", models.DateRangeCustom, "2025-01-01", "2026-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.dateRange, tt.start, tt.end)
			assert.ErrorIs(t, err, models.ErrInvalidRange)
		})
	}
}

func TestReportService_SeedIsReproducible(t *testing.T) {
	a, err := newTestReportService(7).Generate(context.Background(), models.DateRange30Days, "", "")
	require.NoError(t, err)
	b, err := newTestReportService(7).Generate(context.Background(), models.DateRange30Days, "", "")
	require.NoError(t, err)

	assert.Equal(t, a.Series, b.Series)
}

func TestGenerateSeries_ValueBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 59)

	series := GenerateSeries(rng, start, end)
	require.Len(t, series, 60)

	for _, p := range series {
		day, err := time.Parse(reportDateLayout, p.Date)
		require.NoError(t, err)

		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			assert.GreaterOrEqual(t, p.Users, 70, p.Date)
			assert.Less(t, p.Users, 210, p.Date)
		} else {
			assert.GreaterOrEqual(t, p.Users, 100, p.Date)
			assert.Less(t, p.Users, 300, p.Date)
		}

		assert.GreaterOrEqual(t, p.Revenue, p.Users*20)
		assert.Less(t, p.Revenue, p.Users*100)
		assert.GreaterOrEqual(t, p.Orders, p.Users/10)
		assert.LessOrEqual(t, p.Orders, p.Users*4/10)
		assert.GreaterOrEqual(t, p.PageViews, p.Users*3)
		assert.GreaterOrEqual(t, p.ConversionRate, 0.0)
		assert.LessOrEqual(t, p.ConversionRate, 40.0)
	}
}

func TestSummarize(t *testing.T) {
	series := []models.DailyMetric{
		{Users: 100, Revenue: 5000, Orders: 20},
		{Users: 200, Revenue: 7000, Orders: 13},
	}

	m := Summarize(series)

	assert.Equal(t, 300, m.TotalUsers)
	assert.Equal(t, 12000, m.TotalRevenue)
	assert.Equal(t, 33, m.TotalOrders)
	assert.Equal(t, 11.0, m.AvgConversion)
}

func TestSummarize_RoundsToTwoPlaces(t *testing.T) {
	m := Summarize([]models.DailyMetric{{Users: 300, Orders: 100}})

	assert.Equal(t, 33.33, m.AvgConversion)
}
