package excel

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/fleet-reports/internal/model"
)

const (
	summarySheet  = "Summary"
	trendSheet    = "Trend"
	topSheet      = "Top vehicles"
	targetsSheet  = "Targets"
	riskSheet     = "Risk"
	overdueSheet  = "Overdue"
	tableStartRow = 1
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.SummaryDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, sheet := range []string{trendSheet, topSheet, targetsSheet, riskSheet, overdueSheet} {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	g.writeSummary(file, doc)
	g.writeTrend(file, doc.Summary)
	g.writeTopVehicles(file, doc.Summary.TopVehicles)
	g.writeTargets(file, doc.Summary.Targets)
	g.writeRisk(file, doc.Summary)
	g.writeOverdue(file, doc.Summary.Overdue)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, doc model.SummaryDocument) {
	set := setter(file, summarySheet)
	filters := doc.Summary.Filters
	snapshot := doc.Summary.Snapshot

	vehicle := "All vehicles"
	if filters.VehicleID != nil {
		vehicle = filters.VehicleID.String()
	}

	rows := [][2]interface{}{
		{"Organization", doc.Organization.Name},
		{"Period start", formatDate(filters.From)},
		{"Period end", formatDate(filters.To)},
		{"Interval", string(filters.Interval)},
		{"Vehicle", vehicle},
		{"Generated at", formatDateTime(doc.GeneratedAt)},
		{"", ""},
		{"Revenue billed", round2(snapshot.RevenueBilled)},
		{"Revenue collected", round2(snapshot.RevenueCollected)},
		{"Open receivable", round2(snapshot.OpenAR)},
		{"Rentals", snapshot.TotalRents},
		{"Fleet size", snapshot.FleetSize},
		{"Period days", snapshot.PeriodDays},
		{"Rented days", snapshot.RentedDays},
		{"Utilization, %", round2(snapshot.Utilization * 100)},
		{"ADR", round2(snapshot.ADR)},
		{"RevPAR", round2(snapshot.RevPAR)},
		{"Maintenance cost", round2(snapshot.TotalMaintenanceCost)},
		{"Net profit", round2(snapshot.NetProfit)},
	}
	for i, row := range rows {
		set(cellName(1, tableStartRow+i), row[0])
		set(cellName(2, tableStartRow+i), row[1])
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 40)
}

// writeTrend puts the current and previous series side by side, aligned by position.
func (g *Generator) writeTrend(file *excelize.File, summary model.Summary) {
	set := setter(file, trendSheet)
	writeHeaders(set, "Bucket", "Revenue", "Rentals", "Previous bucket", "Previous revenue", "Previous rentals")

	rows := len(summary.Trends)
	if len(summary.PrevTrends) > rows {
		rows = len(summary.PrevTrends)
	}
	for i := 0; i < rows; i++ {
		row := tableStartRow + 1 + i
		if i < len(summary.Trends) {
			point := summary.Trends[i]
			set(cellName(1, row), point.Date)
			set(cellName(2, row), round2(point.Revenue))
			set(cellName(3, row), point.Rents)
		}
		if i < len(summary.PrevTrends) {
			point := summary.PrevTrends[i]
			set(cellName(4, row), point.Date)
			set(cellName(5, row), round2(point.Revenue))
			set(cellName(6, row), point.Rents)
		}
	}

	_ = file.SetColWidth(trendSheet, "A", "F", 18)
}

func (g *Generator) writeTopVehicles(file *excelize.File, rows []model.LeaderboardRow) {
	set := setter(file, topSheet)
	writeHeaders(set, "#", "Vehicle", "Revenue", "Rentals")
	for i, item := range rows {
		row := tableStartRow + 1 + i
		set(cellName(1, row), i+1)
		set(cellName(2, row), item.Label)
		set(cellName(3, row), round2(item.Revenue))
		set(cellName(4, row), item.Rents)
	}
	_ = file.SetColWidth(topSheet, "B", "B", 36)
	_ = file.SetColWidth(topSheet, "C", "D", 14)
}

func (g *Generator) writeTargets(file *excelize.File, rows []model.TargetRow) {
	set := setter(file, targetsSheet)
	writeHeaders(set, "Vehicle", "Start", "End", "Status", "Target rentals", "Actual rentals",
		"Rentals, %", "Revenue goal", "Actual revenue", "Revenue, %", "Overlaps other target")
	for i, item := range rows {
		row := tableStartRow + 1 + i
		set(cellName(1, row), item.CarID.String())
		set(cellName(2, row), formatDate(item.StartDate))
		set(cellName(3, row), formatDate(item.EndDate))
		set(cellName(4, row), string(item.Status))
		set(cellName(5, row), item.TargetRents)
		set(cellName(6, row), item.ActualRents)
		set(cellName(7, row), round2(item.RentsProgress))
		set(cellName(8, row), round2(item.RevenueGoal))
		set(cellName(9, row), item.ActualRevenue)
		set(cellName(10, row), round2(item.RevenueProgress))
		set(cellName(11, row), yesNo(item.OverlapsOtherTarget))
	}
	_ = file.SetColWidth(targetsSheet, "A", "A", 38)
	_ = file.SetColWidth(targetsSheet, "B", "K", 14)
}

func (g *Generator) writeRisk(file *excelize.File, summary model.Summary) {
	set := setter(file, riskSheet)
	writeHeaders(set, "Document", "Vehicle", "Expiry date", "Days to expiry", "Bucket")

	row := tableStartRow + 1
	write := func(document string, risk model.RiskSummary) {
		for _, item := range risk.Items {
			set(cellName(1, row), document)
			set(cellName(2, row), item.Label)
			set(cellName(3, row), formatDate(item.ExpiryDate))
			set(cellName(4, row), item.DaysToExpiry)
			set(cellName(5, row), string(item.Bucket))
			row++
		}
	}
	write("Insurance", summary.Insurance)
	write("Technical inspection", summary.TechnicalInspection)

	_ = file.SetColWidth(riskSheet, "A", "B", 28)
	_ = file.SetColWidth(riskSheet, "C", "E", 16)
}

func (g *Generator) writeOverdue(file *excelize.File, rows []model.OverdueRow) {
	set := setter(file, overdueSheet)
	writeHeaders(set, "Rental", "Vehicle", "Customer", "Start", "Expected end", "Days overdue", "Price", "Paid")
	for i, item := range rows {
		row := tableStartRow + 1 + i
		set(cellName(1, row), item.RentalID.String())
		set(cellName(2, row), item.CarID.String())
		set(cellName(3, row), item.CustomerID.String())
		set(cellName(4, row), formatDate(item.StartDate))
		set(cellName(5, row), formatDate(item.ExpectedEndDate))
		set(cellName(6, row), item.DaysOverdue)
		set(cellName(7, row), round2(item.TotalPrice))
		set(cellName(8, row), round2(item.TotalPaid))
	}
	_ = file.SetColWidth(overdueSheet, "A", "C", 38)
	_ = file.SetColWidth(overdueSheet, "D", "H", 14)
}

func setter(file *excelize.File, sheet string) func(cell string, value interface{}) {
	return func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}
}

func writeHeaders(set func(string, interface{}), headers ...string) {
	for i, header := range headers {
		set(cellName(i+1, tableStartRow), header)
	}
}

func cellName(col, row int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("A%d", row)
	}
	return cell
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
