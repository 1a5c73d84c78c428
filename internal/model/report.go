package model

import (
	"time"

	"github.com/google/uuid"
)

type RiskBucket string

const (
	RiskBucketExpired  RiskBucket = "expired"
	RiskBucketCritical RiskBucket = "critical"
	RiskBucketWarning  RiskBucket = "warning"
	RiskBucketInfo     RiskBucket = "info"
)

type SummaryFilters struct {
	OrgScope  uuid.UUID  `json:"orgScope"`
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Interval  Interval   `json:"interval"`
	VehicleID *uuid.UUID `json:"vehicleId"`
}

type Snapshot struct {
	RevenueBilled        float64 `json:"revenueBilled"`
	RevenueCollected     float64 `json:"revenueCollected"`
	OpenAR               float64 `json:"openAR"`
	TotalRents           int64   `json:"totalRents"`
	FleetSize            int64   `json:"fleetSize"`
	PeriodDays           int64   `json:"periodDays"`
	RentedDays           int64   `json:"rentedDays"`
	ADR                  float64 `json:"adr"`
	RevPAR               float64 `json:"revPar"`
	Utilization          float64 `json:"utilization"`
	TotalMaintenanceCost float64 `json:"totalMaintenanceCost"`
	NetProfit            float64 `json:"netProfit"`
}

type BucketPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Rents   int64   `json:"rents"`
}

type LeaderboardRow struct {
	CarID   uuid.UUID `json:"carId"`
	Label   string    `json:"label"`
	Revenue float64   `json:"revenue"`
	Rents   int64     `json:"rents"`
}

type OverdueRow struct {
	RentalID        uuid.UUID `json:"rentalId"`
	CarID           uuid.UUID `json:"carId"`
	CustomerID      uuid.UUID `json:"customerId"`
	StartDate       time.Time `json:"startDate"`
	ExpectedEndDate time.Time `json:"expectedEndDate"`
	DaysOverdue     int64     `json:"daysOverdue"`
	TotalPrice      float64   `json:"totalPrice"`
	TotalPaid       float64   `json:"totalPaid"`
}

type RiskItem struct {
	CarID        uuid.UUID  `json:"carId"`
	Label        string     `json:"label"`
	ExpiryDate   time.Time  `json:"expiryDate"`
	DaysToExpiry int64      `json:"daysToExpiry"`
	Bucket       RiskBucket `json:"bucket"`
}

type RiskSummary struct {
	Expired  int64      `json:"expired"`
	Critical int64      `json:"critical"`
	Warning  int64      `json:"warning"`
	Info     int64      `json:"info"`
	Total    int64      `json:"total"`
	Items    []RiskItem `json:"items"`
}

type MaintenanceSummary struct {
	TotalCost   float64 `json:"totalCost"`
	Count       int64   `json:"count"`
	AverageCost float64 `json:"averageCost"`
}

type TargetRow struct {
	TargetID            uuid.UUID    `json:"targetId"`
	CarID               uuid.UUID    `json:"carId"`
	StartDate           time.Time    `json:"startDate"`
	EndDate             time.Time    `json:"endDate"`
	TargetRents         int64        `json:"targetRents"`
	RevenueGoal         float64      `json:"revenueGoal"`
	ActualRents         int64        `json:"actualRents"`
	ActualRevenue       float64      `json:"actualRevenue"`
	RentsProgress       float64      `json:"rentsProgress"`
	RevenueProgress     float64      `json:"revenueProgress"`
	Status              TargetStatus `json:"status"`
	OverlapsOtherTarget bool         `json:"overlapsOtherTarget"`
}

// Summary is the assembled analytics snapshot for one window.
type Summary struct {
	Filters             SummaryFilters     `json:"filters"`
	Snapshot            Snapshot           `json:"snapshot"`
	Trends              []BucketPoint      `json:"trends"`
	PrevTrends          []BucketPoint      `json:"prevTrends"`
	TopVehicles         []LeaderboardRow   `json:"topVehicles"`
	Overdue             []OverdueRow       `json:"overdue"`
	Insurance           RiskSummary        `json:"insurance"`
	TechnicalInspection RiskSummary        `json:"technicalInspection"`
	Maintenance         MaintenanceSummary `json:"maintenance"`
	Targets             []TargetRow        `json:"targets"`
}

// SummaryDocument is what the export generators render.
type SummaryDocument struct {
	Organization Organization
	Summary      Summary
	GeneratedAt  time.Time
}
