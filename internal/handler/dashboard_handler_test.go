package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/munckapp/munck-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newDashboardHandler(t *testing.T) (*DashboardHandler, *testutil.MockServiceRecordRepository, *testutil.MockExpenseRepository, *testutil.MockVehicleRepository) {
	t.Helper()
	serviceRepo := testutil.NewMockServiceRecordRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	vehicleRepo := testutil.NewMockVehicleRepository()
	svc := service.NewDashboardService(serviceRepo, expenseRepo, vehicleRepo, service.NewAggregationService())
	return NewDashboardHandler(svc), serviceRepo, expenseRepo, vehicleRepo
}

func TestGetDashboard_Summary(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, expenseRepo, vehicleRepo := newDashboardHandler(t)

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-1", Client: "A", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("1000.00"),
		IssueDate:   domain.ParseDateOrNil("2025-01-10"),
		Status:      domain.StatusPaid,
	})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-2", Client: "B", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("500.00"),
		IssueDate:   domain.ParseDateOrNil("2025-01-20"),
		Status:      domain.StatusPending,
	})
	expenseRepo.AddExpense(&domain.Expense{
		Vendor: "Posto", Plate: "ABC1D23",
		TotalAmount: decimal.RequireFromString("200.00"),
		IssueDate:   domain.ParseDateOrNil("2025-01-12"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?period=2025-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Summary.TotalReceived != "1000.00" {
		t.Errorf("Expected totalReceived '1000.00', got %s", response.Summary.TotalReceived)
	}
	if response.Summary.TotalReceivable != "500.00" {
		t.Errorf("Expected totalReceivable '500.00', got %s", response.Summary.TotalReceivable)
	}
	if response.Summary.TotalExpenses != "200.00" {
		t.Errorf("Expected totalExpenses '200.00', got %s", response.Summary.TotalExpenses)
	}
	if len(response.VehicleOptions) != 1 || response.VehicleOptions[0] != "ABC1D23" {
		t.Errorf("Expected vehicle options [ABC1D23], got %v", response.VehicleOptions)
	}
	if len(response.MonthOptions) == 0 {
		t.Error("Expected at least one month option")
	}
}

func TestGetDashboard_BadPeriod(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newDashboardHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?period=2025/01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetDashboard_FetchFailure(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _, _ := newDashboardHandler(t)

	serviceRepo.GetAllFn = func(filters *domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error) {
		return nil, domain.ErrInternalError
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

func TestGetVehicleDetail_Success(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, expenseRepo, vehicleRepo := newDashboardHandler(t)

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-1", Client: "A", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("800.00"),
		IssueDate:   domain.ParseDateOrNil("2025-01-10"),
		Status:      domain.StatusPaid,
	})
	expenseRepo.AddExpense(&domain.Expense{
		Vendor: "Posto", Plate: "ABC1D23",
		TotalAmount: decimal.RequireFromString("150.00"),
		IssueDate:   domain.ParseDateOrNil("2025-01-12"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/vehicles/abc1d23", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("plate")
	c.SetParamValues("abc1d23")

	if err := handler.GetVehicleDetail(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response VehicleDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Plate != "ABC1D23" {
		t.Errorf("Expected plate 'ABC1D23', got %s", response.Plate)
	}
	if response.TotalBilled != "800.00" {
		t.Errorf("Expected totalBilled '800.00', got %s", response.TotalBilled)
	}
	if response.Expenses != "150.00" {
		t.Errorf("Expected expenses '150.00', got %s", response.Expenses)
	}
}

func TestGetVehicleDetail_UnknownPlate(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newDashboardHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/vehicles/ZZZ9Z99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("plate")
	c.SetParamValues("ZZZ9Z99")

	if err := handler.GetVehicleDetail(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
