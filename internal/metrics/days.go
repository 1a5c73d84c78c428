// Package metrics holds the pure computations behind the report summary.
// Every day-based metric goes through a Calendar so that date truncation
// happens in one place and in one location.
package metrics

import "time"

const day = 24 * time.Hour

type Calendar struct {
	loc *time.Location
}

// NewCalendar binds day arithmetic to loc. A nil location means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOnly returns local midnight of the calendar day t falls on.
func (c Calendar) DateOnly(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// InclusiveDays counts calendar days from start to end, both ends included.
// It returns 0 when end falls on an earlier day than start.
func (c Calendar) InclusiveDays(start, end time.Time) int64 {
	diff := c.civilDay(end) - c.civilDay(start)
	if diff < 0 {
		return 0
	}
	return diff + 1
}

// OverlapDays returns the inclusive day count of the intersection of
// [aStart, aEnd] and [bStart, bEnd], or 0 if they do not intersect.
func (c Calendar) OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := c.DateOnly(aStart)
	if s := c.DateOnly(bStart); s.After(start) {
		start = s
	}
	end := c.DateOnly(aEnd)
	if e := c.DateOnly(bEnd); e.Before(end) {
		end = e
	}
	if end.Before(start) {
		return 0
	}
	return c.InclusiveDays(start, end)
}

// DaysBetween is the signed number of calendar days from start to end.
func (c Calendar) DaysBetween(start, end time.Time) int64 {
	return c.civilDay(end) - c.civilDay(start)
}

// civilDay maps t to a day ordinal independent of DST offsets.
func (c Calendar) civilDay(t time.Time) int64 {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / int64(day/time.Second)
}

func (c Calendar) StartOfDay(t time.Time) time.Time {
	return c.DateOnly(t)
}

// EndOfDay returns the last millisecond of the calendar day t falls on.
func (c Calendar) EndOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, c.Location()).Add(-time.Millisecond)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
