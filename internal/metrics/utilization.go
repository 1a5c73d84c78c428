package metrics

import "github.com/nurpe/fleet-reports/internal/model"

type UtilizationMetrics struct {
	PeriodDays       int64
	RentedDays       int64
	AvailableCarDays int64
	Utilization      float64
	ADR              float64
	RevPAR           float64
}

// Utilization relates rented car-days to the fleet capacity of the window.
// Rented days are clamped to capacity so overlapping bookings of one car
// never push utilization above 1.
func Utilization(cal Calendar, rentals []model.Rental, fleetSize int64, window model.TimeWindow, revenueBilled float64) UtilizationMetrics {
	if fleetSize < 0 {
		fleetSize = 0
	}
	result := UtilizationMetrics{
		PeriodDays: cal.InclusiveDays(window.From, window.To),
	}
	result.AvailableCarDays = fleetSize * result.PeriodDays

	for _, rental := range rentals {
		if !rental.Counts() {
			continue
		}
		end := rental.EffectiveEnd(window.To)
		result.RentedDays += cal.OverlapDays(rental.StartDate, end, window.From, window.To)
	}
	if result.RentedDays > result.AvailableCarDays {
		result.RentedDays = result.AvailableCarDays
	}

	result.Utilization = safeDiv(float64(result.RentedDays), float64(result.AvailableCarDays))
	result.ADR = safeDiv(revenueBilled, float64(result.RentedDays))
	result.RevPAR = safeDiv(revenueBilled, float64(result.AvailableCarDays))
	return result
}

// FleetSize counts vehicles that contribute capacity.
func FleetSize(vehicles []model.Vehicle) int64 {
	var size int64
	for _, vehicle := range vehicles {
		if vehicle.InFleet() {
			size++
		}
	}
	return size
}
