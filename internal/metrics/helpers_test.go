package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-reports/internal/model"
)

var utc = NewCalendar(time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func rental(carID uuid.UUID, start time.Time, end *time.Time, price, paid float64) model.Rental {
	return model.Rental{
		ID:              uuid.New(),
		CarID:           carID,
		CustomerID:      uuid.New(),
		StartDate:       start,
		ExpectedEndDate: end,
		TotalPrice:      price,
		TotalPaid:       ptr(paid),
		Status:          model.RentalStatusCompleted,
	}
}

func window(from, to time.Time, interval model.Interval) model.TimeWindow {
	return model.TimeWindow{From: from, To: to, Interval: interval}
}
