package model

import (
	"time"

	"github.com/google/uuid"
)

type TargetPeriod struct {
	ID          uuid.UUID
	CarID       uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	TargetRents int64
	RevenueGoal float64
}

type TargetStatus string

const (
	TargetStatusUpcoming  TargetStatus = "upcoming"
	TargetStatusActive    TargetStatus = "active"
	TargetStatusCompleted TargetStatus = "completed"
)
