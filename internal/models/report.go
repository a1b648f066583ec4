package models

import "time"

// DateRange selects the window a report covers
type DateRange string

const (
	DateRange7Days  DateRange = "7d"
	DateRange30Days DateRange = "30d"
	DateRange90Days DateRange = "90d"
	DateRangeCustom DateRange = "custom"
)

// DailyMetric is one generated data point of the analytics series
type DailyMetric struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Users          int     `json:"users"`
	Revenue        int     `json:"revenue"`
	Orders         int     `json:"orders"`
	PageViews      int     `json:"page_views"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ReportMetrics aggregates a series
type ReportMetrics struct {
	TotalUsers    int     `json:"total_users"`
	TotalRevenue  int     `json:"total_revenue"`
	TotalOrders   int     `json:"total_orders"`
	AvgConversion float64 `json:"avg_conversion"`
}

// CategoryShare is a slice of the sales-by-category breakdown
type CategoryShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Report is a generated analytics report for a date window
type Report struct {
	Range      DateRange       `json:"range"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Series     []DailyMetric   `json:"series"`
	Metrics    ReportMetrics   `json:"metrics"`
	Categories []CategoryShare `json:"categories"`
}
