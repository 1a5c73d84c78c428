package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-reports/internal/model"
)

type ExpiryKind string

const (
	ExpiryInsurance      ExpiryKind = "insurance"
	ExpiryTechnicalVisit ExpiryKind = "technical_visit"
)

func (k ExpiryKind) column() (string, error) {
	switch k {
	case ExpiryInsurance:
		return "c.insurance_expiry_date", nil
	case ExpiryTechnicalVisit:
		return "c.technical_visit_expiry_date", nil
	default:
		return "", fmt.Errorf("unknown expiry kind %q", k)
	}
}

const rentalColumns = `
			r.id,
			r.car_id,
			r.customer_id,
			r.start_date,
			r.expected_end_date,
			r.returned_at,
			r.total_price,
			r.total_paid,
			r.status,
			r.is_open_contract,
			r.is_deleted`

const vehicleColumns = `
			c.id,
			c.brand,
			c.model,
			c.plate_number,
			c.status,
			c.price_per_day,
			c.insurance_expiry_date::date AS insurance_expiry_date,
			c.technical_visit_expiry_date::date AS technical_visit_expiry_date`

// ReportRepository reads report rows. Target periods and document expiries are
// calendar dates; they are selected as DATE and returned as midnight in loc.
type ReportRepository struct {
	db  *gorm.DB
	loc *time.Location
}

func NewReportRepository(db *gorm.DB, loc *time.Location) *ReportRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportRepository{db: db, loc: loc}
}

// civilDate keeps the calendar day of a scanned DATE value, which the driver
// decodes as UTC midnight, and places it in the report location.
func (r *ReportRepository) civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}

// dateArg binds the calendar day of t in the report location.
func (r *ReportRepository) dateArg(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02")
}

func (r *ReportRepository) normalizeVehicle(vehicle *model.Vehicle) {
	if vehicle.InsuranceExpiryDate != nil {
		v := r.civilDate(*vehicle.InsuranceExpiryDate)
		vehicle.InsuranceExpiryDate = &v
	}
	if vehicle.TechnicalVisitExpiryDate != nil {
		v := r.civilDate(*vehicle.TechnicalVisitExpiryDate)
		vehicle.TechnicalVisitExpiryDate = &v
	}
}

// ListRentals returns non-deleted rentals of the scope that started before
// to and were not returned before from. Unreturned rentals are always kept so
// that overdue contracts stay visible.
func (r *ReportRepository) ListRentals(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.Rental, error) {
	baseQuery := `
		SELECT` + rentalColumns + `
		FROM rentals r
		WHERE r.org_id = ?
			AND r.is_deleted = FALSE
			AND r.start_date <= ?
			AND (r.returned_at IS NULL OR r.returned_at >= ?)
	`
	args := []interface{}{scope.OrgID, to, from}
	baseQuery, args = appendVehicleFilter(baseQuery, args, "r.car_id", scope.VehicleID)
	baseQuery += " ORDER BY r.start_date ASC, r.id ASC"

	var rows []model.Rental
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRentalsForCars is ListRentals narrowed to a set of cars.
func (r *ReportRepository) ListRentalsForCars(ctx context.Context, orgID uuid.UUID, carIDs []uuid.UUID, from, to time.Time) ([]model.Rental, error) {
	if len(carIDs) == 0 {
		return []model.Rental{}, nil
	}

	var rows []model.Rental
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+rentalColumns+`
		FROM rentals r
		WHERE r.org_id = ?
			AND r.car_id IN ?
			AND r.is_deleted = FALSE
			AND r.start_date <= ?
			AND (r.returned_at IS NULL OR r.returned_at >= ?)
		ORDER BY r.start_date ASC, r.id ASC
	`, orgID, carIDs, to, from).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ListVehicles(ctx context.Context, scope model.Scope) ([]model.Vehicle, error) {
	baseQuery := `
		SELECT` + vehicleColumns + `
		FROM cars c
		WHERE c.org_id = ?
			AND c.status <> 'deleted'
	`
	args := []interface{}{scope.OrgID}
	baseQuery, args = appendVehicleFilter(baseQuery, args, "c.id", scope.VehicleID)
	baseQuery += " ORDER BY c.plate_number ASC, c.id ASC"

	var rows []model.Vehicle
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		r.normalizeVehicle(&rows[i])
	}
	return rows, nil
}

func (r *ReportRepository) GetVehicle(ctx context.Context, orgID, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+vehicleColumns+`
		FROM cars c
		WHERE c.org_id = ? AND c.id = ?
		LIMIT 1
	`, orgID, id).Scan(&vehicle).Error; err != nil {
		return nil, err
	}
	if vehicle.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	r.normalizeVehicle(&vehicle)
	return &vehicle, nil
}

// ListExpiringVehicles returns active cars whose document of the given kind
// expires on or before until.
func (r *ReportRepository) ListExpiringVehicles(ctx context.Context, scope model.Scope, kind ExpiryKind, until time.Time) ([]model.Vehicle, error) {
	column, err := kind.column()
	if err != nil {
		return nil, err
	}

	baseQuery := `
		SELECT` + vehicleColumns + `
		FROM cars c
		WHERE c.org_id = ?
			AND c.status = 'active'
			AND ` + column + ` IS NOT NULL
			AND ` + column + `::date <= ?::date
	`
	args := []interface{}{scope.OrgID, r.dateArg(until)}
	baseQuery, args = appendVehicleFilter(baseQuery, args, "c.id", scope.VehicleID)
	baseQuery += " ORDER BY " + column + " ASC"

	var rows []model.Vehicle
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		r.normalizeVehicle(&rows[i])
	}
	return rows, nil
}

func (r *ReportRepository) ListTargets(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.TargetPeriod, error) {
	baseQuery := `
		SELECT
			t.id,
			t.car_id,
			t.start_date::date AS start_date,
			t.end_date::date AS end_date,
			t.target_rents,
			t.revenue_goal
		FROM car_targets t
		WHERE t.org_id = ?
			AND t.start_date::date <= ?::date
			AND t.end_date::date >= ?::date
	`
	args := []interface{}{scope.OrgID, r.dateArg(to), r.dateArg(from)}
	baseQuery, args = appendVehicleFilter(baseQuery, args, "t.car_id", scope.VehicleID)
	baseQuery += " ORDER BY t.start_date ASC, t.car_id ASC"

	var rows []model.TargetPeriod
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].StartDate = r.civilDate(rows[i].StartDate)
		rows[i].EndDate = r.civilDate(rows[i].EndDate)
	}
	return rows, nil
}

func (r *ReportRepository) ListMaintenanceLogs(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.MaintenanceLog, error) {
	baseQuery := `
		SELECT
			m.id,
			m.car_id,
			m.cost,
			m.description,
			m.created_at
		FROM maintenance_logs m
		WHERE m.org_id = ?
			AND m.created_at >= ?
			AND m.created_at <= ?
	`
	args := []interface{}{scope.OrgID, from, to}
	baseQuery, args = appendVehicleFilter(baseQuery, args, "m.car_id", scope.VehicleID)
	baseQuery += " ORDER BY m.created_at ASC"

	var rows []model.MaintenanceLog
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func appendVehicleFilter(baseQuery string, args []interface{}, column string, vehicleID *uuid.UUID) (string, []interface{}) {
	if vehicleID == nil {
		return baseQuery, args
	}
	baseQuery += fmt.Sprintf(" AND %s = ?", column)
	return baseQuery, append(args, *vehicleID)
}
