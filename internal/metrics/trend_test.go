package metrics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/fleet-reports/internal/model"
)

func TestScaffold(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		keys := utc.Scaffold(window(at(2025, 1, 30, 15, 0), at(2025, 2, 2, 9, 0), model.IntervalDay))
		assert.Equal(t, []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}, keys)
	})

	t.Run("weekly keys are mondays", func(t *testing.T) {
		// 2025-01-01 is a Wednesday.
		keys := utc.Scaffold(window(date(2025, 1, 1), date(2025, 1, 20), model.IntervalWeek))
		assert.Equal(t, []string{"2024-12-30", "2025-01-06", "2025-01-13", "2025-01-20"}, keys)
	})

	t.Run("monthly", func(t *testing.T) {
		keys := utc.Scaffold(window(date(2024, 11, 15), date(2025, 2, 1), model.IntervalMonth))
		assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, keys)
	})

	t.Run("month end start does not skip february", func(t *testing.T) {
		keys := utc.Scaffold(window(date(2025, 1, 31), date(2025, 3, 31), model.IntervalMonth))
		assert.Equal(t, []string{"2025-01", "2025-02", "2025-03"}, keys)
	})
}

func TestBucketKeySunday(t *testing.T) {
	// Sunday belongs to the ISO week that started on the previous Monday.
	assert.Equal(t, "2025-01-06", utc.BucketKey(date(2025, 1, 12), model.IntervalWeek))
}

func TestTrend(t *testing.T) {
	car := uuid.New()
	w := window(date(2025, 3, 1), date(2025, 3, 5), model.IntervalDay)

	early := rental(car, date(2025, 2, 20), ptr(date(2025, 3, 3)), 500, 200)
	unpaid := rental(car, date(2025, 3, 3), ptr(date(2025, 3, 4)), 120, 0)
	unpaid.TotalPaid = nil
	sameDay := rental(car, at(2025, 3, 3, 18, 0), ptr(date(2025, 3, 4)), 80, 80)
	canceled := rental(car, date(2025, 3, 4), nil, 999, 999)
	canceled.Status = model.RentalStatusCanceled

	points := Trend(utc, []model.Rental{early, unpaid, sameDay, canceled}, w)
	require.Len(t, points, 5)

	assert.Equal(t, model.BucketPoint{Date: "2025-03-01", Revenue: 200, Rents: 1}, points[0])
	assert.Equal(t, model.BucketPoint{Date: "2025-03-02"}, points[1])
	assert.Equal(t, model.BucketPoint{Date: "2025-03-03", Revenue: 200, Rents: 2}, points[2])
	assert.Equal(t, model.BucketPoint{Date: "2025-03-04"}, points[3])
	assert.Equal(t, model.BucketPoint{Date: "2025-03-05"}, points[4])

	var total float64
	for _, point := range points {
		total += point.Revenue
	}
	assert.Equal(t, early.PaidOrPrice()+unpaid.PaidOrPrice()+sameDay.PaidOrPrice(), total)
}

func TestTrendEmptyWindowIsZeroFilled(t *testing.T) {
	w := window(date(2025, 1, 1), date(2025, 12, 31), model.IntervalMonth)
	points := Trend(utc, nil, w)
	require.Len(t, points, 12)
	for _, point := range points {
		assert.Zero(t, point.Revenue)
		assert.Zero(t, point.Rents)
	}
	assert.Equal(t, "2025-12", points[11].Date)
}
