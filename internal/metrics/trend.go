package metrics

import (
	"time"

	"github.com/nurpe/fleet-reports/internal/model"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// BucketStart returns the first day of the bucket containing t.
func (c Calendar) BucketStart(t time.Time, interval model.Interval) time.Time {
	d := c.DateOnly(t)
	switch interval {
	case model.IntervalWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case model.IntervalMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	default:
		return d
	}
}

// BucketKey formats the bucket containing t: the day, the ISO week's Monday,
// or the month.
func (c Calendar) BucketKey(t time.Time, interval model.Interval) string {
	start := c.BucketStart(t, interval)
	if interval == model.IntervalMonth {
		return start.Format(monthKeyLayout)
	}
	return start.Format(dayKeyLayout)
}

// Scaffold lists every bucket key spanning the window, in order.
func (c Calendar) Scaffold(window model.TimeWindow) []string {
	last := c.DateOnly(window.To)
	keys := make([]string, 0)
	for cursor := c.BucketStart(window.From, window.Interval); !cursor.After(last); cursor = nextBucket(cursor, window.Interval) {
		keys = append(keys, c.BucketKey(cursor, window.Interval))
	}
	return keys
}

func nextBucket(t time.Time, interval model.Interval) time.Time {
	switch interval {
	case model.IntervalWeek:
		return t.AddDate(0, 0, 7)
	case model.IntervalMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Trend builds a gap-free series for the window. A rental lands in the single
// bucket holding max(start, window.From); it is not spread across buckets.
func Trend(cal Calendar, rentals []model.Rental, window model.TimeWindow) []model.BucketPoint {
	keys := cal.Scaffold(window)
	points := make([]model.BucketPoint, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		points[i] = model.BucketPoint{Date: key}
		index[key] = i
	}

	for _, rental := range rentals {
		if !rental.Counts() {
			continue
		}
		anchor := maxTime(cal.DateOnly(rental.StartDate), cal.DateOnly(window.From))
		pos, ok := index[cal.BucketKey(anchor, window.Interval)]
		if !ok {
			continue
		}
		points[pos].Revenue += rental.PaidOrPrice()
		points[pos].Rents++
	}
	return points
}
