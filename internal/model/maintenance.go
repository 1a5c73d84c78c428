package model

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceLog struct {
	ID          uuid.UUID
	CarID       uuid.UUID
	Cost        float64
	Description *string
	CreatedAt   time.Time
}
