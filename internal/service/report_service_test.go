package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-reports/internal/config"
	"github.com/nurpe/fleet-reports/internal/model"
	"github.com/nurpe/fleet-reports/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeRows struct {
	mu          sync.Mutex
	rentals     []model.Rental
	vehicles    []model.Vehicle
	targets     []model.TargetPeriod
	maintenance []model.MaintenanceLog
	failOn      string
	calls       []string
}

func (f *fakeRows) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New("connection reset")
	}
	return nil
}

func (f *fakeRows) ListRentals(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.Rental, error) {
	if err := f.record("rentals"); err != nil {
		return nil, err
	}
	return rentalsBetween(f.rentals, nil, from, to), nil
}

// rentalsBetween applies the row filter of the rentals queries.
func rentalsBetween(rentals []model.Rental, carIDs []uuid.UUID, from, to time.Time) []model.Rental {
	result := make([]model.Rental, 0, len(rentals))
	for _, rental := range rentals {
		if rental.IsDeleted || rental.StartDate.After(to) {
			continue
		}
		if rental.ReturnedAt != nil && rental.ReturnedAt.Before(from) {
			continue
		}
		if carIDs != nil && !slices.Contains(carIDs, rental.CarID) {
			continue
		}
		result = append(result, rental)
	}
	return result
}

func (f *fakeRows) ListRentalsForCars(ctx context.Context, orgID uuid.UUID, carIDs []uuid.UUID, from, to time.Time) ([]model.Rental, error) {
	if err := f.record("target_rentals"); err != nil {
		return nil, err
	}
	return rentalsBetween(f.rentals, carIDs, from, to), nil
}

func (f *fakeRows) ListVehicles(ctx context.Context, scope model.Scope) ([]model.Vehicle, error) {
	if err := f.record("vehicles"); err != nil {
		return nil, err
	}
	return f.vehicles, nil
}

func (f *fakeRows) GetVehicle(ctx context.Context, orgID, id uuid.UUID) (*model.Vehicle, error) {
	if err := f.record("vehicle"); err != nil {
		return nil, err
	}
	for _, vehicle := range f.vehicles {
		if vehicle.ID == id {
			v := vehicle
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRows) ListExpiringVehicles(ctx context.Context, scope model.Scope, kind repository.ExpiryKind, until time.Time) ([]model.Vehicle, error) {
	if err := f.record("expiring"); err != nil {
		return nil, err
	}
	result := make([]model.Vehicle, 0)
	for _, vehicle := range f.vehicles {
		expiry := vehicle.InsuranceExpiryDate
		if kind == repository.ExpiryTechnicalVisit {
			expiry = vehicle.TechnicalVisitExpiryDate
		}
		if vehicle.Status == model.VehicleStatusActive && expiry != nil && !expiry.After(until) {
			result = append(result, vehicle)
		}
	}
	return result, nil
}

func (f *fakeRows) ListTargets(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.TargetPeriod, error) {
	if err := f.record("targets"); err != nil {
		return nil, err
	}
	result := make([]model.TargetPeriod, 0)
	for _, target := range f.targets {
		if !target.StartDate.After(to) && !target.EndDate.Before(from) {
			result = append(result, target)
		}
	}
	return result, nil
}

func (f *fakeRows) ListMaintenanceLogs(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.MaintenanceLog, error) {
	if err := f.record("maintenance"); err != nil {
		return nil, err
	}
	result := make([]model.MaintenanceLog, 0)
	for _, log := range f.maintenance {
		if !log.CreatedAt.Before(from) && !log.CreatedAt.After(to) {
			result = append(result, log)
		}
	}
	return result, nil
}

type fakeScopes struct {
	org *model.Organization
	err error
}

func (f fakeScopes) ResolveOrganization(ctx context.Context, principal model.Principal) (*model.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

type fakeGenerator struct {
	got *model.SummaryDocument
}

func (g *fakeGenerator) Generate(doc model.SummaryDocument) ([]byte, error) {
	g.got = &doc
	return []byte("document"), nil
}

type fixture struct {
	now   time.Time
	org   model.Organization
	carA  uuid.UUID
	carB  uuid.UUID
	rows  *fakeRows
	excel *fakeGenerator
	pdf   *fakeGenerator
}

func newFixture() *fixture {
	f := &fixture{
		now:   time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC),
		org:   model.Organization{ID: uuid.New(), Name: "Steppe Rent / Almaty"},
		carA:  uuid.New(),
		carB:  uuid.New(),
		excel: &fakeGenerator{},
		pdf:   &fakeGenerator{},
	}
	paid := func(v float64) *float64 { return &v }
	end := func(d int) *time.Time {
		t := time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	insurance := f.now.Add(48 * time.Hour)

	f.rows = &fakeRows{
		vehicles: []model.Vehicle{
			{ID: f.carA, Brand: "Toyota", Model: "Camry", PlateNumber: "777AAA02", Status: model.VehicleStatusActive, InsuranceExpiryDate: &insurance},
			{ID: f.carB, Brand: "Kia", Model: "Rio", Status: model.VehicleStatusActive},
		},
		rentals: []model.Rental{
			{
				ID: uuid.New(), CarID: f.carA, CustomerID: uuid.New(),
				StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), ExpectedEndDate: end(10), ReturnedAt: end(10),
				TotalPrice: 1000, TotalPaid: paid(1000), Status: model.RentalStatusCompleted,
			},
			{
				ID: uuid.New(), CarID: f.carB, CustomerID: uuid.New(),
				StartDate: time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC), ExpectedEndDate: end(9),
				TotalPrice: 200, TotalPaid: paid(100), Status: model.RentalStatusActive,
			},
		},
		targets: []model.TargetPeriod{
			{ID: uuid.New(), CarID: f.carA, StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), TargetRents: 2, RevenueGoal: 2000},
		},
		maintenance: []model.MaintenanceLog{
			{ID: uuid.New(), CarID: f.carA, Cost: 200, CreatedAt: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)},
		},
	}
	return f
}

func (f *fixture) service(scopes ScopeResolver) *ReportService {
	if scopes == nil {
		scopes = fakeScopes{org: &f.org}
	}
	return NewReportService(f.rows, scopes, f.excel, f.pdf, config.ReportsConfig{Location: time.UTC, MaxRangeDays: 365}, fixedClock{now: f.now})
}

func (f *fixture) input() SummaryInput {
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 10, 23, 59, 59, 0, time.UTC)
	return SummaryInput{
		Principal: model.Principal{UserID: uuid.New(), Role: model.UserRoleOwner},
		From:      &from,
		To:        &to,
	}
}

func TestSummaryAssemblesSnapshot(t *testing.T) {
	f := newFixture()

	summary, err := f.service(nil).Summary(context.Background(), f.input())
	require.NoError(t, err)

	snapshot := summary.Snapshot
	assert.Equal(t, 1200.0, snapshot.RevenueBilled)
	assert.Equal(t, 1100.0, snapshot.RevenueCollected)
	assert.Equal(t, 100.0, snapshot.OpenAR)
	assert.Equal(t, int64(2), snapshot.TotalRents)
	assert.Equal(t, int64(2), snapshot.FleetSize)
	assert.Equal(t, int64(10), snapshot.PeriodDays)
	assert.Equal(t, int64(12), snapshot.RentedDays)
	assert.InDelta(t, 0.6, snapshot.Utilization, 1e-9)
	assert.Equal(t, 100.0, snapshot.ADR)
	assert.Equal(t, 60.0, snapshot.RevPAR)
	assert.Equal(t, 200.0, snapshot.TotalMaintenanceCost)
	assert.Equal(t, 900.0, snapshot.NetProfit)

	assert.Equal(t, f.org.ID, summary.Filters.OrgScope)
	assert.Equal(t, model.IntervalDay, summary.Filters.Interval)

	require.Len(t, summary.Trends, 10)
	assert.Equal(t, 1000.0, summary.Trends[0].Revenue)
	assert.Equal(t, 100.0, summary.Trends[7].Revenue)
	require.Len(t, summary.PrevTrends, 10)
	for _, point := range summary.PrevTrends {
		assert.Zero(t, point.Rents)
	}

	require.Len(t, summary.TopVehicles, 2)
	assert.Equal(t, f.carA, summary.TopVehicles[0].CarID)

	require.Len(t, summary.Overdue, 1)
	assert.Equal(t, int64(2), summary.Overdue[0].DaysOverdue)

	assert.Equal(t, int64(1), summary.Insurance.Critical)
	assert.Zero(t, summary.TechnicalInspection.Total)

	require.Len(t, summary.Targets, 1)
	assert.Equal(t, 1000.0, summary.Targets[0].ActualRevenue)
	assert.Equal(t, 50.0, summary.Targets[0].RevenueProgress)
	assert.Equal(t, model.TargetStatusActive, summary.Targets[0].Status)
}

func TestSummaryErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("agent", func(t *testing.T) {
		input := f.input()
		input.Principal.Role = model.UserRoleAgent
		_, err := f.service(nil).Summary(ctx, input)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("no range", func(t *testing.T) {
		input := f.input()
		input.From, input.To = nil, nil
		_, err := f.service(nil).Summary(ctx, input)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("reversed range", func(t *testing.T) {
		input := f.input()
		input.From, input.To = input.To, input.From
		_, err := f.service(nil).Summary(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("no organization", func(t *testing.T) {
		_, err := f.service(fakeScopes{err: gorm.ErrRecordNotFound}).Summary(ctx, f.input())
		assert.ErrorIs(t, err, ErrScopeResolution)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		input := f.input()
		id := uuid.New()
		input.VehicleID = &id
		_, err := f.service(nil).Summary(ctx, input)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSummaryFailsWhenAnyFetchFails(t *testing.T) {
	for _, name := range []string{"rentals", "vehicles", "targets", "target_rentals", "expiring", "maintenance"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.rows.failOn = name
			summary, err := f.service(nil).Summary(context.Background(), f.input())
			require.Error(t, err)
			assert.Nil(t, summary)
			assert.Contains(t, err.Error(), "connection reset")
		})
	}
}

func TestSummaryPreset(t *testing.T) {
	f := newFixture()
	input := f.input()
	input.From, input.To = nil, nil
	input.Preset = "today"

	summary, err := f.service(nil).Summary(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.IntervalDay, summary.Filters.Interval)
	assert.Len(t, summary.Trends, 1)
	assert.Equal(t, "2025-04-11", summary.Trends[0].Date)
}

func TestExport(t *testing.T) {
	f := newFixture()
	svc := f.service(nil)

	result, err := svc.ExportExcel(context.Background(), f.input())
	require.NoError(t, err)
	assert.Equal(t, "fleet-report-Steppe-Rent---Almaty-20250401-20250410.xlsx", result.FileName)
	assert.Equal(t, []byte("document"), result.Content)
	require.NotNil(t, f.excel.got)
	assert.Equal(t, f.org.Name, f.excel.got.Organization.Name)
	assert.Equal(t, f.now, f.excel.got.GeneratedAt)

	result, err = svc.ExportPDF(context.Background(), f.input())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FileName, ".pdf"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "Acme_Cars-2", sanitizeFileName("  Acme_Cars-2  "))
	assert.Equal(t, "", sanitizeFileName("***"))
}

func TestTargetCountsRentalOnItsLastDay(t *testing.T) {
	f := newFixture()
	lastDay := time.Date(2025, 4, 30, 14, 0, 0, 0, time.UTC)
	returned := time.Date(2025, 4, 30, 18, 0, 0, 0, time.UTC)
	paid := 300.0
	f.rows.rentals = append(f.rows.rentals, model.Rental{
		ID: uuid.New(), CarID: f.carA, CustomerID: uuid.New(),
		StartDate: lastDay, ExpectedEndDate: &returned, ReturnedAt: &returned,
		TotalPrice: 300, TotalPaid: &paid, Status: model.RentalStatusCompleted,
	})

	summary, err := f.service(nil).Summary(context.Background(), f.input())
	require.NoError(t, err)
	require.Len(t, summary.Targets, 1)
	assert.Equal(t, int64(2), summary.Targets[0].ActualRents)
	assert.Equal(t, 1300.0, summary.Targets[0].ActualRevenue)
}

func TestWindowKeepsRentalReturnedOnFirstDay(t *testing.T) {
	f := newFixture()
	returned := time.Date(2025, 4, 4, 9, 0, 0, 0, time.UTC)
	paid := 400.0
	f.rows.rentals = []model.Rental{{
		ID: uuid.New(), CarID: f.carA, CustomerID: uuid.New(),
		StartDate: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), ExpectedEndDate: &returned, ReturnedAt: &returned,
		TotalPrice: 400, TotalPaid: &paid, Status: model.RentalStatusCompleted,
	}}
	input := f.input()
	input.From, input.To = nil, nil
	input.Preset = "last7d"

	summary, err := f.service(nil).Summary(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 12, summary.Filters.From.Hour())
	assert.Equal(t, int64(8), summary.Snapshot.PeriodDays)
	assert.Equal(t, int64(1), summary.Snapshot.RentedDays)
	assert.Equal(t, int64(1), summary.Snapshot.TotalRents)
	require.NotEmpty(t, summary.Trends)
	assert.Equal(t, "2025-04-04", summary.Trends[0].Date)
	assert.Equal(t, int64(1), summary.Trends[0].Rents)
}

func TestRiskFetchMatchesHorizonAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	f := newFixture()
	f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, berlin)
	expiry := f.now.Add(30*24*time.Hour - 30*time.Minute)
	f.rows.vehicles[1].TechnicalVisitExpiryDate = &expiry

	svc := NewReportService(f.rows, fakeScopes{org: &f.org}, f.excel, f.pdf,
		config.ReportsConfig{Location: berlin, MaxRangeDays: 365}, fixedClock{now: f.now})
	input := f.input()
	input.From, input.To = nil, nil
	input.Preset = "today"

	summary, err := svc.Summary(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TechnicalInspection.Info)
	assert.Equal(t, int64(1), summary.TechnicalInspection.Total)
}
