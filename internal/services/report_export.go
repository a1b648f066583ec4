package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/phpdave11/gofpdf"
)

// WriteReportPDF renders a report as an A4 PDF: summary metrics, category
// shares and one table row per day.
func WriteReportPDF(w io.Writer, report *models.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Analytics Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Analytics Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Range: %s (%s to %s)",
		report.Range, report.Start.Format(reportDateLayout), report.End.Format(reportDateLayout)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Total users       : %d", report.Metrics.TotalUsers),
		fmt.Sprintf("Total revenue     : $%d", report.Metrics.TotalRevenue),
		fmt.Sprintf("Total orders      : %d", report.Metrics.TotalOrders),
		fmt.Sprintf("Avg conversion    : %.2f%%", report.Metrics.AvgConversion),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Sales by category")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, c := range report.Categories {
		r, g, b := hexColor(c.Color)
		pdf.SetFillColor(r, g, b)
		pdf.CellFormat(5, 5, "", "", 0, "", true, 0, "")
		pdf.CellFormat(60, 5, " "+c.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 5, fmt.Sprintf("%d%%", c.Value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{30, 25, 30, 25, 30, 30}
	headers := []string{"Date", "Users", "Revenue", "Orders", "Page views", "Conversion"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range report.Series {
		cells := []string{
			p.Date,
			strconv.Itoa(p.Users),
			"$" + strconv.Itoa(p.Revenue),
			strconv.Itoa(p.Orders),
			strconv.Itoa(p.PageViews),
			fmt.Sprintf("%.2f%%", p.ConversionRate),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report pdf: %w", err)
	}
	return nil
}

// hexColor parses #RRGGBB, falling back to grey
func hexColor(s string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(s, "#")) != 6 {
		return 156, 163, 175
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
