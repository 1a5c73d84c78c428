package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/fleet-reports/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(doc model.SummaryDocument) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	summary := doc.Summary
	filters := summary.Filters

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Fleet performance report"), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(safeValue(doc.Organization.Name)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s (%s)", formatDate(filters.From), formatDate(filters.To), filters.Interval), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.section(pdf, "Snapshot")
	snapshot := summary.Snapshot
	widths := []float64{70, 45, 70, 45}
	pairs := [][]string{
		{"Revenue billed", formatAmount(snapshot.RevenueBilled, 2), "Fleet size", fmt.Sprintf("%d", snapshot.FleetSize)},
		{"Revenue collected", formatAmount(snapshot.RevenueCollected, 2), "Period days", fmt.Sprintf("%d", snapshot.PeriodDays)},
		{"Open receivable", formatAmount(snapshot.OpenAR, 2), "Rented days", fmt.Sprintf("%d", snapshot.RentedDays)},
		{"Rentals", fmt.Sprintf("%d", snapshot.TotalRents), "Utilization", formatAmount(snapshot.Utilization*100, 1) + "%"},
		{"Maintenance cost", formatAmount(snapshot.TotalMaintenanceCost, 2), "ADR", formatAmount(snapshot.ADR, 2)},
		{"Net profit", formatAmount(snapshot.NetProfit, 2), "RevPAR", formatAmount(snapshot.RevPAR, 2)},
	}
	for _, row := range pairs {
		drawTableRow(pdf, g.fontName, row, widths, false)
	}
	pdf.Ln(4)

	g.section(pdf, "Top vehicles")
	topWidths := []float64{15, 140, 50, 40}
	drawTableRow(pdf, g.fontName, []string{"#", "Vehicle", "Revenue", "Rentals"}, topWidths, true)
	for i, row := range summary.TopVehicles {
		drawTableRow(pdf, g.fontName, []string{
			fmt.Sprintf("%d", i+1),
			tr(row.Label),
			formatAmount(row.Revenue, 2),
			fmt.Sprintf("%d", row.Rents),
		}, topWidths, false)
	}
	pdf.Ln(4)

	if len(summary.Targets) > 0 {
		g.section(pdf, "Targets")
		targetWidths := []float64{45, 45, 30, 35, 35, 40, 37}
		drawTableRow(pdf, g.fontName, []string{"Start", "End", "Status", "Rentals", "Rentals, %", "Revenue", "Revenue, %"}, targetWidths, true)
		for _, row := range summary.Targets {
			status := string(row.Status)
			if row.OverlapsOtherTarget {
				status += " *"
			}
			drawTableRow(pdf, g.fontName, []string{
				formatDate(row.StartDate),
				formatDate(row.EndDate),
				status,
				fmt.Sprintf("%d / %d", row.ActualRents, row.TargetRents),
				formatAmount(row.RentsProgress, 1),
				formatAmount(row.ActualRevenue, 0) + " / " + formatAmount(row.RevenueGoal, 0),
				formatAmount(row.RevenueProgress, 1),
			}, targetWidths, false)
		}
		if hasOverlap(summary.Targets) {
			pdf.SetFont(g.fontName, "", 9)
			pdf.MultiCell(0, 5, "* target period overlaps another target of the same vehicle; revenue is credited to both.", "", "L", false)
		}
		pdf.Ln(4)
	}

	g.section(pdf, "Document expiry")
	riskWidths := []float64{70, 35, 35, 35, 35, 35}
	drawTableRow(pdf, g.fontName, []string{"Document", "Expired", "Critical", "Warning", "Info", "Total"}, riskWidths, true)
	drawTableRow(pdf, g.fontName, riskRow("Insurance", summary.Insurance), riskWidths, false)
	drawTableRow(pdf, g.fontName, riskRow("Technical inspection", summary.TechnicalInspection), riskWidths, false)
	pdf.Ln(4)

	if len(summary.Overdue) > 0 {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("Overdue rentals: %d", len(summary.Overdue)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont(g.fontName, "", 9)
	pdf.CellFormat(0, 6, "Generated "+formatDateTime(doc.GeneratedAt), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func riskRow(label string, risk model.RiskSummary) []string {
	return []string{
		label,
		fmt.Sprintf("%d", risk.Expired),
		fmt.Sprintf("%d", risk.Critical),
		fmt.Sprintf("%d", risk.Warning),
		fmt.Sprintf("%d", risk.Info),
		fmt.Sprintf("%d", risk.Total),
	}
}

func hasOverlap(rows []model.TargetRow) bool {
	for _, row := range rows {
		if row.OverlapsOtherTarget {
			return true
		}
	}
	return false
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}
