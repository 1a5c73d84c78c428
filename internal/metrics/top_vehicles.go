package metrics

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-reports/internal/model"
)

// TopVehicles ranks cars by collected revenue over the given rentals, which
// are expected to be the window rentals from InWindow. Deleted and canceled
// rows are skipped here as well. Cars are first ordered by first appearance
// so that ties stay stable.
func TopVehicles(rentals []model.Rental, vehicles []model.Vehicle, limit int) []model.LeaderboardRow {
	labels := make(map[uuid.UUID]string, len(vehicles))
	for _, vehicle := range vehicles {
		labels[vehicle.ID] = vehicle.Label()
	}

	rows := make([]model.LeaderboardRow, 0)
	index := make(map[uuid.UUID]int)
	for _, rental := range rentals {
		if !rental.Counts() {
			continue
		}
		pos, ok := index[rental.CarID]
		if !ok {
			label, found := labels[rental.CarID]
			if !found {
				label = rental.CarID.String()
			}
			rows = append(rows, model.LeaderboardRow{CarID: rental.CarID, Label: label})
			pos = len(rows) - 1
			index[rental.CarID] = pos
		}
		rows[pos].Revenue += rental.Paid()
		rows[pos].Rents++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
