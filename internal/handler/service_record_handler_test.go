package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/munckapp/munck-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newServiceRecordHandler(t *testing.T) (*ServiceRecordHandler, *testutil.MockServiceRecordRepository, *testutil.MockVehicleRepository) {
	t.Helper()
	serviceRepo := testutil.NewMockServiceRecordRepository()
	vehicleRepo := testutil.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	svc := service.NewServiceRecordService(serviceRepo, vehicleRepo)
	return NewServiceRecordHandler(svc), serviceRepo, vehicleRepo
}

func TestCreateServiceRecord_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	reqBody := `{
		"osNumber": "OS-1001",
		"client": "Construtora Alfa",
		"operator": "João Silva",
		"plate": "abc1d23",
		"grossAmount": "2500.00",
		"issueDate": "2025-01-10",
		"dueDate": "2025-02-10",
		"status": "Pendente"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/services", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|creator", "creator@munck.app", "Creator", "")

	if err := handler.CreateServiceRecord(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ServiceRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Plate != "ABC1D23" {
		t.Errorf("Expected normalized plate 'ABC1D23', got %s", response.Plate)
	}
	if response.GrossAmount != "2500.00" {
		t.Errorf("Expected gross amount '2500.00', got %s", response.GrossAmount)
	}
	if response.CreatedBy == nil || *response.CreatedBy != "Creator" {
		t.Errorf("Expected createdBy 'Creator', got %v", response.CreatedBy)
	}
}

func TestCreateServiceRecord_UnknownVehicle(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	reqBody := `{"osNumber": "OS-1", "client": "X", "plate": "ZZZ9Z99", "grossAmount": "100.00", "status": "Pendente"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/services", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|creator", "creator@munck.app", "Creator", "")

	if err := handler.CreateServiceRecord(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problem.Errors) == 0 || problem.Errors[0].Field != "plate" {
		t.Errorf("Expected a plate field error, got %+v", problem.Errors)
	}
}

func TestCreateServiceRecord_BadAmount(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	reqBody := `{"osNumber": "OS-1", "client": "X", "plate": "ABC1D23", "grossAmount": "abc", "status": "Pendente"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/services", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|creator", "creator@munck.app", "Creator", "")

	if err := handler.CreateServiceRecord(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetServiceRecords_StatusFilter(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _ := newServiceRecordHandler(t)

	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-1", Client: "A", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("100.00"),
		Status:      domain.StatusPaid,
	})
	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-2", Client: "B", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("200.00"),
		Status:      domain.StatusPending,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services?status=Pago", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetServiceRecords(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []ServiceRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(response))
	}
	if response[0].OSNumber != "OS-1" {
		t.Errorf("Expected OS-1, got %s", response[0].OSNumber)
	}
}

func TestGetServiceRecords_BadStatus(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services?status=Quitado", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetServiceRecords(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetServiceRecord_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := handler.GetServiceRecord(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestSplitServiceRecord_Success(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _ := newServiceRecordHandler(t)

	serviceRepo.AddRecord(&domain.ServiceRecord{
		ID:          1,
		OSNumber:    "OS-500",
		Client:      "Construtora Alfa",
		Plate:       "ABC1D23",
		GrossAmount: decimal.RequireFromString("1000.00"),
		IssueDate:   domain.ParseDateOrNil("2025-03-01"),
		DueDate:     domain.ParseDateOrNil("2025-03-10"),
		Status:      domain.StatusPending,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/services/1/split", strings.NewReader(`{"count": 3}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.SplitServiceRecord(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response []ServiceRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 3 {
		t.Fatalf("Expected 3 installments, got %d", len(response))
	}
	if response[0].OSNumber != "OS-500 (1/3)" {
		t.Errorf("Expected 'OS-500 (1/3)', got %s", response[0].OSNumber)
	}
	if response[2].GrossAmount != "333.34" {
		t.Errorf("Expected last installment '333.34', got %s", response[2].GrossAmount)
	}
}

func TestSplitServiceRecord_CountTooSmall(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/services/1/split", strings.NewReader(`{"count": 1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.SplitServiceRecord(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSplitServiceRecord_AlreadySplit(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _ := newServiceRecordHandler(t)

	serviceRepo.AddRecord(&domain.ServiceRecord{
		ID:          7,
		OSNumber:    "OS-500 (2/3)",
		Client:      "Construtora Alfa",
		Plate:       "ABC1D23",
		GrossAmount: decimal.RequireFromString("333.33"),
		Status:      domain.StatusPending,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/services/7/split", strings.NewReader(`{"count": 2}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.SplitServiceRecord(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLookupPlate_ByOSNumber(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _ := newServiceRecordHandler(t)

	serviceRepo.AddRecord(&domain.ServiceRecord{
		OSNumber: "OS-77", Client: "A", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("50.00"),
		Status:      domain.StatusPending,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/plate-lookup?osNumber=OS-77", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.LookupPlate(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response PlateLookupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Plate != "ABC1D23" {
		t.Errorf("Expected plate 'ABC1D23', got %s", response.Plate)
	}
}

func TestLookupPlate_MissingParams(t *testing.T) {
	e := echo.New()
	handler, _, _ := newServiceRecordHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/plate-lookup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.LookupPlate(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteServiceRecord_Success(t *testing.T) {
	e := echo.New()
	handler, serviceRepo, _ := newServiceRecordHandler(t)

	serviceRepo.AddRecord(&domain.ServiceRecord{
		ID: 3, OSNumber: "OS-3", Client: "C", Plate: "ABC1D23",
		GrossAmount: decimal.RequireFromString("10.00"),
		Status:      domain.StatusPending,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/services/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := handler.DeleteServiceRecord(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
