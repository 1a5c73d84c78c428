// Package period resolves report presets and explicit ranges into windows.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/fleet-reports/internal/model"
)

var (
	ErrNoRange      = errors.New("neither preset nor range supplied")
	ErrInvalidRange = errors.New("invalid range")
)

const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetLast7d    = "last7d"
	PresetLast30d   = "last30d"
	PresetLast90d   = "last90d"
	PresetThisYear  = "thisYear"
	PresetPrevYear  = "prevYear"

	DefaultMaxRangeDays = 365
)

const (
	dailyUpToDays  = 31
	weeklyUpToDays = 180
)

// Request carries either a preset or an explicit From/To pair.
type Request struct {
	Preset   string
	From     *time.Time
	To       *time.Time
	Interval model.Interval
}

func (r Request) hasPreset() bool {
	return strings.TrimSpace(r.Preset) != ""
}

func (r Request) hasRange() bool {
	return r.From != nil || r.To != nil
}

type Resolver struct {
	loc          *time.Location
	maxRangeDays int
}

func NewResolver(loc *time.Location, maxRangeDays int) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Resolver{loc: loc, maxRangeDays: maxRangeDays}
}

// Resolve turns the request into a concrete window relative to now.
func (r *Resolver) Resolve(req Request, now time.Time) (model.TimeWindow, error) {
	if req.Interval != "" && !req.Interval.Valid() {
		return model.TimeWindow{}, fmt.Errorf("%w: unknown interval %q", ErrInvalidRange, req.Interval)
	}

	var (
		window model.TimeWindow
		err    error
	)
	switch {
	case req.hasPreset() && req.hasRange():
		return model.TimeWindow{}, fmt.Errorf("%w: preset and range are mutually exclusive", ErrNoRange)
	case req.hasPreset():
		window = r.ResolvePreset(req.Preset, now)
	case req.hasRange():
		window, err = r.resolveCustom(req)
		if err != nil {
			return model.TimeWindow{}, err
		}
	default:
		return model.TimeWindow{}, ErrNoRange
	}

	if req.Interval != "" {
		window.Interval = req.Interval
	}
	return window, nil
}

// ResolvePreset maps a preset name to its window. Unknown names fall back
// to the last 30 days.
func (r *Resolver) ResolvePreset(preset string, now time.Time) model.TimeWindow {
	now = now.In(r.loc)
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	endOfToday := startOfToday.AddDate(0, 0, 1).Add(-time.Millisecond)

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case strings.ToLower(PresetToday):
		return model.TimeWindow{From: startOfToday, To: endOfToday, Interval: model.IntervalDay}
	case strings.ToLower(PresetYesterday):
		return model.TimeWindow{
			From:     startOfToday.AddDate(0, 0, -1),
			To:       startOfToday.Add(-time.Millisecond),
			Interval: model.IntervalDay,
		}
	case strings.ToLower(PresetLast7d):
		return lastDays(now, 7)
	case strings.ToLower(PresetLast90d):
		return lastDays(now, 90)
	case strings.ToLower(PresetThisYear):
		return model.TimeWindow{
			From:     time.Date(y, time.January, 1, 0, 0, 0, 0, r.loc),
			To:       now,
			Interval: model.IntervalMonth,
		}
	case strings.ToLower(PresetPrevYear):
		return model.TimeWindow{
			From:     time.Date(y-1, time.January, 1, 0, 0, 0, 0, r.loc),
			To:       time.Date(y, time.January, 1, 0, 0, 0, 0, r.loc).Add(-time.Millisecond),
			Interval: model.IntervalMonth,
		}
	default:
		return lastDays(now, 30)
	}
}

func lastDays(now time.Time, days int) model.TimeWindow {
	return model.TimeWindow{From: now.AddDate(0, 0, -days), To: now, Interval: model.IntervalDay}
}

func (r *Resolver) resolveCustom(req Request) (model.TimeWindow, error) {
	if req.From == nil || req.To == nil {
		return model.TimeWindow{}, fmt.Errorf("%w: both from and to are required", ErrNoRange)
	}
	from, to := req.From.In(r.loc), req.To.In(r.loc)
	if !to.After(from) {
		return model.TimeWindow{}, fmt.Errorf("%w: to must be after from", ErrInvalidRange)
	}
	if to.Sub(from) > time.Duration(r.maxRangeDays)*24*time.Hour {
		return model.TimeWindow{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, r.maxRangeDays)
	}
	return model.TimeWindow{From: from, To: to, Interval: intervalForSpan(to.Sub(from))}, nil
}

func intervalForSpan(span time.Duration) model.Interval {
	days := span.Hours() / 24
	switch {
	case days <= dailyUpToDays:
		return model.IntervalDay
	case days <= weeklyUpToDays:
		return model.IntervalWeek
	default:
		return model.IntervalMonth
	}
}

// Previous mirrors the window backwards: [from - span, from - 1ms].
func Previous(window model.TimeWindow) model.TimeWindow {
	span := window.Span()
	return model.TimeWindow{
		From:     window.From.Add(-span),
		To:       window.From.Add(-time.Millisecond),
		Interval: window.Interval,
	}
}
