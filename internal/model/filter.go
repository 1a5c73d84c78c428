package model

import (
	"time"

	"github.com/google/uuid"
)

type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

func (i Interval) Valid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth:
		return true
	default:
		return false
	}
}

// TimeWindow is a resolved reporting window. To is inclusive for day counts.
type TimeWindow struct {
	From     time.Time
	To       time.Time
	Interval Interval
}

func (w TimeWindow) Span() time.Duration {
	return w.To.Sub(w.From)
}

// Scope narrows every row-source query to one organization and optionally one car.
type Scope struct {
	OrgID     uuid.UUID
	VehicleID *uuid.UUID
}
