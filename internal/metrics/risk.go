package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/nurpe/fleet-reports/internal/model"
)

const (
	criticalDays = 3
	warningDays  = 7
)

// ExpirySelector picks the document expiry a risk summary is built for.
type ExpirySelector func(model.Vehicle) *time.Time

func InsuranceExpiry(v model.Vehicle) *time.Time {
	return v.InsuranceExpiryDate
}

func TechnicalVisitExpiry(v model.Vehicle) *time.Time {
	return v.TechnicalVisitExpiryDate
}

// DaysToExpiry rounds the remaining time up to whole days.
func DaysToExpiry(expiry, now time.Time) int64 {
	return int64(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
}

// Classify returns the bucket for an expiry, or false when it lies beyond
// the horizon.
func Classify(expiry, now time.Time, horizonDays int) (model.RiskBucket, int64, bool) {
	days := DaysToExpiry(expiry, now)
	switch {
	case expiry.Before(now):
		return model.RiskBucketExpired, days, true
	case days <= criticalDays:
		return model.RiskBucketCritical, days, true
	case days <= warningDays:
		return model.RiskBucketWarning, days, true
	case days <= int64(horizonDays):
		return model.RiskBucketInfo, days, true
	default:
		return "", days, false
	}
}

// RiskLimit is the latest expiry a risk summary still reports. Days here are
// 24h blocks, the same unit DaysToExpiry counts in.
func RiskLimit(now time.Time, horizonDays int) time.Time {
	return now.Add(time.Duration(horizonDays) * day)
}

// Risk buckets active vehicles whose selected expiry is not after
// RiskLimit. Items are ordered by expiry, soonest first.
func Risk(vehicles []model.Vehicle, selectExpiry ExpirySelector, now time.Time, horizonDays int) model.RiskSummary {
	summary := model.RiskSummary{Items: []model.RiskItem{}}
	limit := RiskLimit(now, horizonDays)

	for _, vehicle := range vehicles {
		if vehicle.Status != model.VehicleStatusActive {
			continue
		}
		expiry := selectExpiry(vehicle)
		if expiry == nil || expiry.After(limit) {
			continue
		}
		bucket, days, ok := Classify(*expiry, now, horizonDays)
		if !ok {
			continue
		}
		switch bucket {
		case model.RiskBucketExpired:
			summary.Expired++
		case model.RiskBucketCritical:
			summary.Critical++
		case model.RiskBucketWarning:
			summary.Warning++
		case model.RiskBucketInfo:
			summary.Info++
		}
		summary.Total++
		summary.Items = append(summary.Items, model.RiskItem{
			CarID:        vehicle.ID,
			Label:        vehicle.Label(),
			ExpiryDate:   *expiry,
			DaysToExpiry: days,
			Bucket:       bucket,
		})
	}

	sort.SliceStable(summary.Items, func(i, j int) bool {
		return summary.Items[i].ExpiryDate.Before(summary.Items[j].ExpiryDate)
	})
	return summary
}
