package service

import (
	"errors"
	"testing"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func setupDashboardService() (*DashboardService, *testutil.MockServiceRecordRepository, *testutil.MockExpenseRepository, *testutil.MockVehicleRepository) {
	serviceRepo := testutil.NewMockServiceRecordRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	vehicleRepo := testutil.NewMockVehicleRepository()
	svc := NewDashboardService(serviceRepo, expenseRepo, vehicleRepo, NewAggregationService())
	return svc, serviceRepo, expenseRepo, vehicleRepo
}

func TestGetDashboard(t *testing.T) {
	svc, serviceRepo, expenseRepo, vehicleRepo := setupDashboardService()

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "XYZ9K88", Model: "Munck 15t", Status: domain.VehicleActive})

	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber:    "OS-1",
		Plate:       "ABC1D23",
		GrossAmount: decimal.NewFromInt(500),
		Status:      domain.StatusPaid,
		IssueDate:   domain.ParseDateOrNil("2024-01-05"),
	})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber:    "OS-2",
		Plate:       "ABC1D23",
		GrossAmount: decimal.NewFromInt(300),
		Status:      domain.StatusPending,
		IssueDate:   domain.ParseDateOrNil("2024-01-10"),
		DueDate:     domain.ParseDateOrNil("2099-01-01"),
	})
	expenseRepo.AddExpense(&domain.Expense{
		Vendor:      "Posto Central",
		Plate:       "XYZ9K88",
		TotalAmount: decimal.NewFromInt(120),
		IssueDate:   domain.ParseDateOrNil("2024-01-12"),
	})

	got, err := svc.GetDashboard(domain.AllPeriod(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Summary.TotalReceived.String() != "500" {
		t.Errorf("TotalReceived = %s, want 500", got.Summary.TotalReceived)
	}
	if got.Summary.TotalReceivable.String() != "300" {
		t.Errorf("TotalReceivable = %s, want 300", got.Summary.TotalReceivable)
	}
	if got.Summary.TotalExpenses.String() != "120" {
		t.Errorf("TotalExpenses = %s, want 120", got.Summary.TotalExpenses)
	}
	if len(got.ByVehicle) != 2 {
		t.Errorf("ByVehicle rows = %d, want 2", len(got.ByVehicle))
	}
	if len(got.PendingServices) != 1 || got.PendingServices[0].OSNumber != "OS-2" {
		t.Errorf("PendingServices = %+v", got.PendingServices)
	}
	if len(got.VehicleOptions) != 2 {
		t.Errorf("VehicleOptions = %v", got.VehicleOptions)
	}
	if len(got.MonthOptions) != 1 || got.MonthOptions[0] != "2024-01" {
		t.Errorf("MonthOptions = %v", got.MonthOptions)
	}
}

func TestGetDashboardFailsWhenAnyFetchFails(t *testing.T) {
	dbDown := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(*testutil.MockServiceRecordRepository, *testutil.MockExpenseRepository, *testutil.MockVehicleRepository)
	}{
		{
			name: "service fetch fails",
			setup: func(s *testutil.MockServiceRecordRepository, e *testutil.MockExpenseRepository, v *testutil.MockVehicleRepository) {
				s.GetAllFn = func(*domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error) { return nil, dbDown }
			},
		},
		{
			name: "expense fetch fails",
			setup: func(s *testutil.MockServiceRecordRepository, e *testutil.MockExpenseRepository, v *testutil.MockVehicleRepository) {
				e.GetAllFn = func(*domain.ExpenseFilters) ([]*domain.Expense, error) { return nil, dbDown }
			},
		},
		{
			name: "vehicle fetch fails",
			setup: func(s *testutil.MockServiceRecordRepository, e *testutil.MockExpenseRepository, v *testutil.MockVehicleRepository) {
				v.GetAllFn = func() ([]*domain.Vehicle, error) { return nil, dbDown }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, serviceRepo, expenseRepo, vehicleRepo := setupDashboardService()
			serviceRepo.AddRecord(&domain.ServiceRecord{
				OSNumber:    "OS-1",
				Plate:       "ABC1D23",
				GrossAmount: decimal.NewFromInt(500),
				Status:      domain.StatusPaid,
				IssueDate:   domain.ParseDateOrNil("2024-01-05"),
			})
			tt.setup(serviceRepo, expenseRepo, vehicleRepo)

			got, err := svc.GetDashboard(domain.AllPeriod(), "")
			if err == nil {
				t.Fatal("expected load failure, got nil error")
			}
			if !errors.Is(err, domain.ErrDashboardLoadFailed) {
				t.Errorf("error = %v, want ErrDashboardLoadFailed", err)
			}
			if got != nil {
				t.Errorf("expected no partial aggregation, got %+v", got)
			}
		})
	}
}

func TestGetVehicleDetail(t *testing.T) {
	svc, serviceRepo, expenseRepo, vehicleRepo := setupDashboardService()

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber:    "OS-1",
		Plate:       "ABC1D23",
		GrossAmount: decimal.NewFromInt(500),
		Status:      domain.StatusPaid,
		IssueDate:   domain.ParseDateOrNil("2024-01-05"),
	})
	expenseRepo.AddExpense(&domain.Expense{
		Vendor:      "Oficina do Zé",
		Plate:       "ABC1D23",
		TotalAmount: decimal.NewFromInt(75),
		IssueDate:   domain.ParseDateOrNil("2024-01-06"),
	})

	got, err := svc.GetVehicleDetail("abc1d23", domain.AllPeriod())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Plate != "ABC1D23" {
		t.Errorf("plate not normalized: %s", got.Plate)
	}
	if got.TotalReceived.String() != "500" || got.Expenses.String() != "75" {
		t.Errorf("detail = %+v", got)
	}
}

func TestGetVehicleDetailUnknownPlate(t *testing.T) {
	svc, _, _, _ := setupDashboardService()

	_, err := svc.GetVehicleDetail("NOP0E00", domain.AllPeriod())
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("error = %v, want ErrVehicleNotFound", err)
	}
}
