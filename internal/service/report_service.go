package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-reports/internal/config"
	"github.com/nurpe/fleet-reports/internal/metrics"
	"github.com/nurpe/fleet-reports/internal/model"
	"github.com/nurpe/fleet-reports/internal/period"
	"github.com/nurpe/fleet-reports/internal/repository"
)

// RowSource is the read side of the rental store.
type RowSource interface {
	ListRentals(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.Rental, error)
	ListRentalsForCars(ctx context.Context, orgID uuid.UUID, carIDs []uuid.UUID, from, to time.Time) ([]model.Rental, error)
	ListVehicles(ctx context.Context, scope model.Scope) ([]model.Vehicle, error)
	GetVehicle(ctx context.Context, orgID, id uuid.UUID) (*model.Vehicle, error)
	ListExpiringVehicles(ctx context.Context, scope model.Scope, kind repository.ExpiryKind, until time.Time) ([]model.Vehicle, error)
	ListTargets(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.TargetPeriod, error)
	ListMaintenanceLogs(ctx context.Context, scope model.Scope, from, to time.Time) ([]model.MaintenanceLog, error)
}

type ScopeResolver interface {
	ResolveOrganization(ctx context.Context, principal model.Principal) (*model.Organization, error)
}

type DocumentGenerator interface {
	Generate(doc model.SummaryDocument) ([]byte, error)
}

type ReportService struct {
	rows             RowSource
	scopes           ScopeResolver
	excel            DocumentGenerator
	pdf              DocumentGenerator
	clock            Clock
	calendar         metrics.Calendar
	resolver         *period.Resolver
	fetchTimeout     time.Duration
	topVehiclesLimit int
	riskHorizonDays  int
}

type SummaryInput struct {
	Principal model.Principal
	Preset    string
	From      *time.Time
	To        *time.Time
	Interval  model.Interval
	VehicleID *uuid.UUID
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewReportService(
	rows RowSource,
	scopes ScopeResolver,
	excel DocumentGenerator,
	pdf DocumentGenerator,
	cfg config.ReportsConfig,
	clock Clock,
) *ReportService {
	if clock == nil {
		clock = SystemClock{}
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	topLimit := cfg.TopVehiclesLimit
	if topLimit <= 0 {
		topLimit = 5
	}
	horizon := cfg.RiskHorizonDays
	if horizon <= 0 {
		horizon = 30
	}
	return &ReportService{
		rows:             rows,
		scopes:           scopes,
		excel:            excel,
		pdf:              pdf,
		clock:            clock,
		calendar:         metrics.NewCalendar(cfg.Location),
		resolver:         period.NewResolver(cfg.Location, cfg.MaxRangeDays),
		fetchTimeout:     fetchTimeout,
		topVehiclesLimit: topLimit,
		riskHorizonDays:  horizon,
	}
}

func (s *ReportService) Location() *time.Location {
	return s.calendar.Location()
}

func (s *ReportService) Summary(ctx context.Context, input SummaryInput) (*model.Summary, error) {
	doc, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	return &doc.Summary, nil
}

func (s *ReportService) ExportExcel(ctx context.Context, input SummaryInput) (*ExportResult, error) {
	return s.export(ctx, input, s.excel, "xlsx")
}

func (s *ReportService) ExportPDF(ctx context.Context, input SummaryInput) (*ExportResult, error) {
	return s.export(ctx, input, s.pdf, "pdf")
}

func (s *ReportService) export(ctx context.Context, input SummaryInput, generator DocumentGenerator, ext string) (*ExportResult, error) {
	if generator == nil {
		return nil, fmt.Errorf("%s generator is not configured", ext)
	}
	doc, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	content, err := generator.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(*doc, ext),
		Content:  content,
	}, nil
}

func (s *ReportService) build(ctx context.Context, input SummaryInput) (*model.SummaryDocument, error) {
	if !input.Principal.CanViewReports() {
		return nil, ErrPermissionDenied
	}

	now := s.clock.Now().In(s.calendar.Location())
	window, err := s.resolver.Resolve(period.Request{
		Preset:   input.Preset,
		From:     input.From,
		To:       input.To,
		Interval: input.Interval,
	}, now)
	if err != nil {
		switch {
		case errors.Is(err, period.ErrNoRange):
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		case errors.Is(err, period.ErrInvalidRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		default:
			return nil, err
		}
	}

	org, err := s.scopes.ResolveOrganization(ctx, input.Principal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeResolution
		}
		return nil, err
	}
	scope := model.Scope{OrgID: org.ID, VehicleID: input.VehicleID}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	if scope.VehicleID != nil {
		if _, err := s.rows.GetVehicle(ctx, scope.OrgID, *scope.VehicleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: vehicle", ErrNotFound)
			}
			return nil, err
		}
	}

	set, err := s.fetch(ctx, scope, window, now)
	if err != nil {
		return nil, err
	}

	return &model.SummaryDocument{
		Organization: *org,
		Summary:      s.compute(set, scope, window, now),
		GeneratedAt:  now,
	}, nil
}

type rowSet struct {
	rentals       []model.Rental
	prevRentals   []model.Rental
	vehicles      []model.Vehicle
	targets       []model.TargetPeriod
	targetRentals []model.Rental
	insurance     []model.Vehicle
	inspection    []model.Vehicle
	maintenance   []model.MaintenanceLog
}

// fetch loads every row set concurrently. The first failure cancels the rest
// and fails the whole report. Query bounds cover whole calendar days because
// every metric compares days, not instants.
func (s *ReportService) fetch(ctx context.Context, scope model.Scope, window model.TimeWindow, now time.Time) (*rowSet, error) {
	set := &rowSet{}
	cal := s.calendar
	from, to := cal.DateOnly(window.From), cal.EndOfDay(window.To)
	prev := period.Previous(window)
	prevFrom, prevTo := cal.DateOnly(prev.From), cal.EndOfDay(prev.To)
	riskUntil := metrics.RiskLimit(now, s.riskHorizonDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.rows.ListRentals(gctx, scope, from, to)
		if err != nil {
			return fmt.Errorf("list rentals: %w", err)
		}
		set.rentals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.ListRentals(gctx, scope, prevFrom, prevTo)
		if err != nil {
			return fmt.Errorf("list previous rentals: %w", err)
		}
		set.prevRentals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.ListVehicles(gctx, scope)
		if err != nil {
			return fmt.Errorf("list vehicles: %w", err)
		}
		set.vehicles = rows
		return nil
	})
	g.Go(func() error {
		targets, err := s.rows.ListTargets(gctx, scope, from, to)
		if err != nil {
			return fmt.Errorf("list targets: %w", err)
		}
		set.targets = targets
		if len(targets) == 0 {
			return nil
		}
		carIDs, spanFrom, spanTo := targetSpan(cal, targets)
		rows, err := s.rows.ListRentalsForCars(gctx, scope.OrgID, carIDs, spanFrom, spanTo)
		if err != nil {
			return fmt.Errorf("list target rentals: %w", err)
		}
		set.targetRentals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.ListExpiringVehicles(gctx, scope, repository.ExpiryInsurance, riskUntil)
		if err != nil {
			return fmt.Errorf("list insurance expiry: %w", err)
		}
		set.insurance = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.ListExpiringVehicles(gctx, scope, repository.ExpiryTechnicalVisit, riskUntil)
		if err != nil {
			return fmt.Errorf("list technical visit expiry: %w", err)
		}
		set.inspection = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.ListMaintenanceLogs(gctx, scope, from, to)
		if err != nil {
			return fmt.Errorf("list maintenance logs: %w", err)
		}
		set.maintenance = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *ReportService) compute(set *rowSet, scope model.Scope, window model.TimeWindow, now time.Time) model.Summary {
	cal := s.calendar

	current := metrics.InWindow(cal, set.rentals, window)
	revenue := metrics.Revenue(current)
	fleetSize := metrics.FleetSize(set.vehicles)
	utilization := metrics.Utilization(cal, current, fleetSize, window, revenue.Billed)
	maintenance := metrics.Maintenance(set.maintenance)

	prev := period.Previous(window)
	previous := metrics.InWindow(cal, set.prevRentals, prev)

	return model.Summary{
		Filters: model.SummaryFilters{
			OrgScope:  scope.OrgID,
			From:      window.From,
			To:        window.To,
			Interval:  window.Interval,
			VehicleID: scope.VehicleID,
		},
		Snapshot: model.Snapshot{
			RevenueBilled:        revenue.Billed,
			RevenueCollected:     revenue.Collected,
			OpenAR:               revenue.OpenAR,
			TotalRents:           revenue.TotalRents,
			FleetSize:            fleetSize,
			PeriodDays:           utilization.PeriodDays,
			RentedDays:           utilization.RentedDays,
			ADR:                  utilization.ADR,
			RevPAR:               utilization.RevPAR,
			Utilization:          utilization.Utilization,
			TotalMaintenanceCost: maintenance.TotalCost,
			NetProfit:            revenue.Collected - maintenance.TotalCost,
		},
		Trends:              metrics.Trend(cal, current, window),
		PrevTrends:          metrics.Trend(cal, previous, prev),
		TopVehicles:         metrics.TopVehicles(current, set.vehicles, s.topVehiclesLimit),
		Overdue:             metrics.Overdue(cal, set.rentals, now),
		Insurance:           metrics.Risk(set.insurance, metrics.InsuranceExpiry, now, s.riskHorizonDays),
		TechnicalInspection: metrics.Risk(set.inspection, metrics.TechnicalVisitExpiry, now, s.riskHorizonDays),
		Maintenance:         maintenance,
		Targets:             metrics.Targets(cal, set.targets, set.targetRentals, now),
	}
}

// targetSpan returns the distinct cars of the targets and the whole days covering all of them.
func targetSpan(cal metrics.Calendar, targets []model.TargetPeriod) ([]uuid.UUID, time.Time, time.Time) {
	seen := make(map[uuid.UUID]struct{}, len(targets))
	carIDs := make([]uuid.UUID, 0, len(targets))
	from, to := targets[0].StartDate, targets[0].EndDate
	for _, target := range targets {
		if _, ok := seen[target.CarID]; !ok {
			seen[target.CarID] = struct{}{}
			carIDs = append(carIDs, target.CarID)
		}
		if target.StartDate.Before(from) {
			from = target.StartDate
		}
		if target.EndDate.After(to) {
			to = target.EndDate
		}
	}
	return carIDs, cal.DateOnly(from), cal.EndOfDay(to)
}

func buildFileName(doc model.SummaryDocument, ext string) string {
	org := sanitizeFileName(doc.Organization.Name)
	if org == "" {
		org = doc.Organization.ID.String()
	}
	filters := doc.Summary.Filters
	span := fmt.Sprintf("%s-%s", filters.From.Format("20060102"), filters.To.Format("20060102"))
	return fmt.Sprintf("fleet-report-%s-%s.%s", org, span, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
