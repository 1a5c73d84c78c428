package model

import (
	"time"

	"github.com/google/uuid"
)

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCanceled  RentalStatus = "canceled"
	RentalStatusReserved  RentalStatus = "reserved"
)

type Rental struct {
	ID              uuid.UUID
	CarID           uuid.UUID
	CustomerID      uuid.UUID
	StartDate       time.Time
	ExpectedEndDate *time.Time
	ReturnedAt      *time.Time
	TotalPrice      float64
	TotalPaid       *float64
	Status          RentalStatus
	IsOpenContract  bool
	IsDeleted       bool
}

// Paid returns the collected amount, treating a missing value as nothing paid.
func (r Rental) Paid() float64 {
	if r.TotalPaid == nil {
		return 0
	}
	return *r.TotalPaid
}

// PaidOrPrice returns TotalPaid when it is set and TotalPrice otherwise.
func (r Rental) PaidOrPrice() float64 {
	if r.TotalPaid == nil {
		return r.TotalPrice
	}
	return *r.TotalPaid
}

// EffectiveEnd resolves returnedAt ?? expectedEndDate ?? fallback.
func (r Rental) EffectiveEnd(fallback time.Time) time.Time {
	if r.ReturnedAt != nil {
		return *r.ReturnedAt
	}
	if r.ExpectedEndDate != nil {
		return *r.ExpectedEndDate
	}
	return fallback
}

// IsCurrent reports whether the rental is still running or booked and has no return yet.
func (r Rental) IsCurrent() bool {
	if r.ReturnedAt != nil {
		return false
	}
	return r.IsOpenContract || r.Status == RentalStatusActive || r.Status == RentalStatusReserved
}

// Counts reports whether the rental takes part in any metric at all.
func (r Rental) Counts() bool {
	return !r.IsDeleted && r.Status != RentalStatusCanceled
}
