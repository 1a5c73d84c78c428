package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusSold        VehicleStatus = "sold"
	VehicleStatusDeleted     VehicleStatus = "deleted"
)

type Vehicle struct {
	ID                       uuid.UUID
	Brand                    string
	Model                    string
	PlateNumber              string
	Status                   VehicleStatus
	PricePerDay              float64
	InsuranceExpiryDate      *time.Time
	TechnicalVisitExpiryDate *time.Time
}

// InFleet reports whether the vehicle counts towards fleet capacity.
func (v Vehicle) InFleet() bool {
	return v.Status == VehicleStatusActive || v.Status == VehicleStatusMaintenance
}

func (v Vehicle) Label() string {
	name := strings.TrimSpace(strings.TrimSpace(v.Brand) + " " + strings.TrimSpace(v.Model))
	plate := strings.TrimSpace(v.PlateNumber)
	switch {
	case name != "" && plate != "":
		return fmt.Sprintf("%s (%s)", name, plate)
	case name != "":
		return name
	case plate != "":
		return plate
	default:
		return v.ID.String()
	}
}
