package metrics

import "github.com/nurpe/fleet-reports/internal/model"

type RevenueMetrics struct {
	Billed     float64
	Collected  float64
	OpenAR     float64
	TotalRents int64
}

// Revenue sums full contract economics of every counted rental. Contracts
// that started before the window are not apportioned.
func Revenue(rentals []model.Rental) RevenueMetrics {
	var result RevenueMetrics
	for _, rental := range rentals {
		if !rental.Counts() {
			continue
		}
		if rental.IsOpenContract {
			result.Billed += rental.Paid()
		} else {
			result.Billed += rental.TotalPrice
		}
		result.Collected += rental.Paid()
		result.TotalRents++
	}
	result.OpenAR = result.Billed - result.Collected
	if result.OpenAR < 0 {
		result.OpenAR = 0
	}
	return result
}

// InWindow keeps counted rentals whose occupancy touches the window, using
// the window end as the end of rentals with no known end.
func InWindow(cal Calendar, rentals []model.Rental, window model.TimeWindow) []model.Rental {
	result := make([]model.Rental, 0, len(rentals))
	for _, rental := range rentals {
		if !rental.Counts() {
			continue
		}
		end := rental.EffectiveEnd(window.To)
		if cal.OverlapDays(rental.StartDate, end, window.From, window.To) == 0 {
			continue
		}
		result = append(result, rental)
	}
	return result
}
