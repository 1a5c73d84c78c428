package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-reports/internal/model"
)

// Allocation is the share of one rental's payment credited to one target.
type Allocation struct {
	RentalID     uuid.UUID
	DurationDays int64
	OverlapDays  int64
	Revenue      float64
}

// Allocate splits rental.TotalPaid across [target.StartDate, target.EndDate]
// pro rata by day overlap. Rentals with no known end run until now.
func Allocate(cal Calendar, target model.TargetPeriod, rental model.Rental, now time.Time) Allocation {
	end := rental.EffectiveEnd(now)
	duration := cal.InclusiveDays(rental.StartDate, end)
	if duration < 1 {
		duration = 1
	}
	overlap := cal.InclusiveDays(maxTime(rental.StartDate, target.StartDate), minTime(end, target.EndDate))
	return Allocation{
		RentalID:     rental.ID,
		DurationDays: duration,
		OverlapDays:  overlap,
		Revenue:      rental.Paid() * float64(overlap) / float64(duration),
	}
}

// MatchesTarget reports whether a rental of the target's car touches the
// target period. Current rentals always pass the end-side check.
func MatchesTarget(cal Calendar, target model.TargetPeriod, rental model.Rental, now time.Time) bool {
	if !rental.Counts() || rental.CarID != target.CarID {
		return false
	}
	if cal.DateOnly(rental.StartDate).After(cal.DateOnly(target.EndDate)) {
		return false
	}
	if rental.IsCurrent() {
		return true
	}
	end := rental.EffectiveEnd(now)
	return !cal.DateOnly(end).Before(cal.DateOnly(target.StartDate))
}

// Targets attributes rental revenue to every target period. Overlapping
// periods of the same car each receive the full overlap share, so such rows
// are flagged.
func Targets(cal Calendar, targets []model.TargetPeriod, rentals []model.Rental, now time.Time) []model.TargetRow {
	byCar := make(map[uuid.UUID][]model.Rental)
	for _, rental := range rentals {
		byCar[rental.CarID] = append(byCar[rental.CarID], rental)
	}
	overlapping := overlappingTargets(cal, targets)

	rows := make([]model.TargetRow, 0, len(targets))
	for _, target := range targets {
		var revenue float64
		var rents int64
		for _, rental := range byCar[target.CarID] {
			if !MatchesTarget(cal, target, rental, now) {
				continue
			}
			revenue += Allocate(cal, target, rental, now).Revenue
			rents++
		}

		actualRevenue := math.Round(revenue)
		rows = append(rows, model.TargetRow{
			TargetID:            target.ID,
			CarID:               target.CarID,
			StartDate:           target.StartDate,
			EndDate:             target.EndDate,
			TargetRents:         target.TargetRents,
			RevenueGoal:         target.RevenueGoal,
			ActualRents:         rents,
			ActualRevenue:       actualRevenue,
			RentsProgress:       percent(float64(rents), float64(target.TargetRents)),
			RevenueProgress:     percent(actualRevenue, target.RevenueGoal),
			Status:              targetStatus(cal, target, now),
			OverlapsOtherTarget: overlapping[target.ID],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.Before(rows[j].StartDate)
		}
		return rows[i].CarID.String() < rows[j].CarID.String()
	})
	return rows
}

func targetStatus(cal Calendar, target model.TargetPeriod, now time.Time) model.TargetStatus {
	today := cal.DateOnly(now)
	switch {
	case today.Before(cal.DateOnly(target.StartDate)):
		return model.TargetStatusUpcoming
	case today.After(cal.DateOnly(target.EndDate)):
		return model.TargetStatusCompleted
	default:
		return model.TargetStatusActive
	}
}

func overlappingTargets(cal Calendar, targets []model.TargetPeriod) map[uuid.UUID]bool {
	result := make(map[uuid.UUID]bool)
	for i := range targets {
		for j := i + 1; j < len(targets); j++ {
			a, b := targets[i], targets[j]
			if a.CarID != b.CarID {
				continue
			}
			if cal.OverlapDays(a.StartDate, a.EndDate, b.StartDate, b.EndDate) > 0 {
				result[a.ID] = true
				result[b.ID] = true
			}
		}
	}
	return result
}

func percent(actual, goal float64) float64 {
	return safeDiv(actual*100, goal)
}
