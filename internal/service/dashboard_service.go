package service

import (
	"fmt"

	"github.com/munckapp/munck-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles everything the dashboard screen needs in one
// response. Services, expenses and vehicles are fetched in parallel; if any
// of the three fetches fails the whole load fails, so the screen never
// aggregates a partial dataset.
type DashboardService struct {
	serviceRepo domain.ServiceRecordRepository
	expenseRepo domain.ExpenseRepository
	vehicleRepo domain.VehicleRepository
	aggregation *AggregationService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	serviceRepo domain.ServiceRecordRepository,
	expenseRepo domain.ExpenseRepository,
	vehicleRepo domain.VehicleRepository,
	aggregation *AggregationService,
) *DashboardService {
	return &DashboardService{
		serviceRepo: serviceRepo,
		expenseRepo: expenseRepo,
		vehicleRepo: vehicleRepo,
		aggregation: aggregation,
	}
}

// dataset is one consistent snapshot of the three source tables.
type dataset struct {
	services []*domain.ServiceRecord
	expenses []*domain.Expense
	vehicles []*domain.Vehicle
}

func (s *DashboardService) fetchAll() (*dataset, error) {
	var ds dataset
	var g errgroup.Group

	g.Go(func() error {
		services, err := s.serviceRepo.GetAll(nil)
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}
		ds.services = services
		return nil
	})
	g.Go(func() error {
		expenses, err := s.expenseRepo.GetAll(nil)
		if err != nil {
			return fmt.Errorf("loading expenses: %w", err)
		}
		ds.expenses = expenses
		return nil
	})
	g.Go(func() error {
		vehicles, err := s.vehicleRepo.GetAll()
		if err != nil {
			return fmt.Errorf("loading vehicles: %w", err)
		}
		ds.vehicles = vehicles
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDashboardLoadFailed, err)
	}
	return &ds, nil
}

// GetDashboard computes the full dashboard for a period and optional plate
// filter. Recomputation is full on every call, so retrying after a failed
// load yields a complete result with no leftover partial state.
func (s *DashboardService) GetDashboard(period domain.Period, plate string) (*domain.DashboardData, error) {
	ds, err := s.fetchAll()
	if err != nil {
		return nil, err
	}

	today := domain.Today()

	vehicleOptions := make([]string, 0, len(ds.vehicles))
	for _, v := range ds.vehicles {
		vehicleOptions = append(vehicleOptions, v.Plate)
	}

	return &domain.DashboardData{
		Summary:         s.aggregation.Summarize(ds.services, ds.expenses, period),
		ByVehicle:       s.aggregation.VehicleBreakdown(ds.vehicles, ds.services, ds.expenses, period),
		Forecast:        s.aggregation.Forecast(ds.services, today),
		ForecastByPlate: s.aggregation.ForecastByVehicle(ds.services, today),
		PendingServices: s.aggregation.PendingServices(ds.services, period, plate, today),
		MonthOptions:    s.aggregation.MonthOptions(ds.services, ds.expenses),
		VehicleOptions:  vehicleOptions,
	}, nil
}

// GetVehicleDetail computes the single-vehicle summary page figures.
func (s *DashboardService) GetVehicleDetail(plate string, period domain.Period) (*domain.VehicleDetail, error) {
	plate = domain.NormalizePlate(plate)
	if _, err := s.vehicleRepo.GetByPlate(plate); err != nil {
		return nil, err
	}

	ds, err := s.fetchAll()
	if err != nil {
		return nil, err
	}

	detail := s.aggregation.VehicleDetail(plate, ds.services, ds.expenses, period)
	return &detail, nil
}
