package metrics

import "github.com/nurpe/fleet-reports/internal/model"

func Maintenance(logs []model.MaintenanceLog) model.MaintenanceSummary {
	var summary model.MaintenanceSummary
	for _, log := range logs {
		summary.TotalCost += log.Cost
		summary.Count++
	}
	summary.AverageCost = safeDiv(summary.TotalCost, float64(summary.Count))
	return summary
}
