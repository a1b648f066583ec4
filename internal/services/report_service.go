package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
)

const reportDateLayout = "2006-01-02"

// DefaultCategories is the fixed sales-by-category breakdown
func DefaultCategories() []models.CategoryShare {
	return []models.CategoryShare{
		{Name: "Electronics", Value: 35, Color: "#3B82F6"},
		{Name: "Clothing", Value: 25, Color: "#10B981"},
		{Name: "Books", Value: 20, Color: "#F59E0B"},
		{Name: "Home & Garden", Value: 12, Color: "#EF4444"},
		{Name: "Sports", Value: 8, Color: "#8B5CF6"},
	}
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	Seed    uint64 // 0 picks a time-based seed
	MaxDays int
}

// ReportService generates synthetic analytics reports
type ReportService struct {
	config ReportConfig
	logger *slog.Logger
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewReportService creates a new ReportService
func NewReportService(config ReportConfig, logger *slog.Logger) *ReportService {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if config.MaxDays <= 0 {
		config.MaxDays = 366
	}

	return &ReportService{
		config: config,
		logger: logger,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Generate builds a report for a preset range ending today, or for the
// custom window [start, end] given as YYYY-MM-DD.
func (s *ReportService) Generate(ctx context.Context, dateRange models.DateRange, start, end string) (*models.Report, error) {
	from, to, err := s.window(dateRange, start, end)
	if err != nil {
		return nil, err
	}

	if days := int(to.Sub(from).Hours()/24) + 1; days > s.config.MaxDays {
		return nil, fmt.Errorf("%w: %d days exceeds maximum of %d", models.ErrInvalidRange, days, s.config.MaxDays)
	}

	s.mu.Lock()
	series := GenerateSeries(s.rng, from, to)
	s.mu.Unlock()

	s.logger.Debug("report generated",
		slog.String("range", string(dateRange)),
		slog.String("start", from.Format(reportDateLayout)),
		slog.String("end", to.Format(reportDateLayout)),
		slog.Int("points", len(series)),
	)

	return &models.Report{
		Range:      dateRange,
		Start:      from,
		End:        to,
		Series:     series,
		Metrics:    Summarize(series),
		Categories: DefaultCategories(),
	}, nil
}

func (s *ReportService) window(dateRange models.DateRange, start, end string) (time.Time, time.Time, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch dateRange {
	case models.DateRange7Days:
		return today.AddDate(0, 0, -7), today, nil
	case models.DateRange30Days:
		return today.AddDate(0, 0, -30), today, nil
	case models.DateRange90Days:
		return today.AddDate(0, 0, -90), today, nil
	case models.DateRangeCustom:
		if start == "" || end == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: custom range needs start and end", models.ErrInvalidRange)
		}
		from, err := time.Parse(reportDateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", models.ErrInvalidRange, err)
		}
		to, err := time.Parse(reportDateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", models.ErrInvalidRange, err)
		}
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown range %q", models.ErrInvalidRange, dateRange)
	}
}

// GenerateSeries produces one data point per day from start to end inclusive.
// Weekends get 70% of weekday traffic. A start after end yields no points.
func GenerateSeries(rng *rand.Rand, start, end time.Time) []models.DailyMetric {
	series := make([]models.DailyMetric, 0)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		baseUsers := 100 + rng.Float64()*200
		weekendMultiplier := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendMultiplier = 0.7
		}
		users := int(math.Floor(baseUsers * weekendMultiplier))

		revenue := float64(users) * (20 + rng.Float64()*80)
		orders := int(math.Floor(float64(users) * (0.1 + rng.Float64()*0.3)))
		pageViews := float64(users) * (3 + rng.Float64()*7)

		series = append(series, models.DailyMetric{
			Date:           day.Format(reportDateLayout),
			Users:          users,
			Revenue:        int(math.Floor(revenue)),
			Orders:         orders,
			PageViews:      int(math.Floor(pageViews)),
			ConversionRate: math.Floor(float64(orders)/float64(users)*100*100) / 100,
		})
	}

	return series
}

// Summarize totals a series. AvgConversion is orders over users, as a percentage rounded to two places.
func Summarize(series []models.DailyMetric) models.ReportMetrics {
	var m models.ReportMetrics
	for _, p := range series {
		m.TotalUsers += p.Users
		m.TotalRevenue += p.Revenue
		m.TotalOrders += p.Orders
	}

	if m.TotalOrders > 0 && m.TotalUsers > 0 {
		avg := float64(m.TotalOrders) / float64(m.TotalUsers) * 100
		m.AvgConversion = math.Round(avg*100) / 100
	}
	return m
}
