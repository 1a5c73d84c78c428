package metrics

import (
	"sort"
	"time"

	"github.com/nurpe/fleet-reports/internal/model"
)

// Overdue lists rentals still open past their expected end.
func Overdue(cal Calendar, rentals []model.Rental, now time.Time) []model.OverdueRow {
	rows := make([]model.OverdueRow, 0)
	for _, rental := range rentals {
		if rental.IsDeleted || rental.ExpectedEndDate == nil {
			continue
		}
		if rental.Status == model.RentalStatusCompleted || rental.Status == model.RentalStatusCanceled {
			continue
		}
		expected := *rental.ExpectedEndDate
		if !expected.Before(now) {
			continue
		}
		rows = append(rows, model.OverdueRow{
			RentalID:        rental.ID,
			CarID:           rental.CarID,
			CustomerID:      rental.CustomerID,
			StartDate:       rental.StartDate,
			ExpectedEndDate: expected,
			DaysOverdue:     cal.DaysBetween(expected, now),
			TotalPrice:      rental.TotalPrice,
			TotalPaid:       rental.Paid(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ExpectedEndDate.Before(rows[j].ExpectedEndDate)
	})
	return rows
}
