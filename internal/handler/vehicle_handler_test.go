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
)

func newVehicleHandler(t *testing.T) (*VehicleHandler, *testutil.MockVehicleRepository) {
	t.Helper()
	vehicleRepo := testutil.NewMockVehicleRepository()
	svc := service.NewVehicleService(vehicleRepo)
	return NewVehicleHandler(svc), vehicleRepo
}

func TestCreateVehicle_DefaultsToActive(t *testing.T) {
	e := echo.New()
	handler, _ := newVehicleHandler(t)

	reqBody := `{"plate": "abc1d23", "model": "Munck 12t", "year": 2019}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateVehicle(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response VehicleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Plate != "ABC1D23" {
		t.Errorf("Expected normalized plate 'ABC1D23', got %s", response.Plate)
	}
	if response.Status != "Ativo" {
		t.Errorf("Expected default status 'Ativo', got %s", response.Status)
	}
}

func TestCreateVehicle_DuplicatePlate(t *testing.T) {
	e := echo.New()
	handler, vehicleRepo := newVehicleHandler(t)

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})

	reqBody := `{"plate": "ABC1D23", "model": "Munck 15t"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateVehicle(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeConflict {
		t.Errorf("Expected error type %s, got %s", ErrorTypeConflict, problem.Type)
	}
}

func TestCreateVehicle_BadStatus(t *testing.T) {
	e := echo.New()
	handler, _ := newVehicleHandler(t)

	reqBody := `{"plate": "DEF4G56", "model": "Munck 15t", "status": "Quebrado"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateVehicle(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetVehicles_ReturnsAll(t *testing.T) {
	e := echo.New()
	handler, vehicleRepo := newVehicleHandler(t)

	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "DEF4G56", Model: "Munck 15t", Status: domain.VehicleMaintenance})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetVehicles(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []VehicleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 vehicles, got %d", len(response))
	}
}

func TestUpdateVehicle_ToMaintenance(t *testing.T) {
	e := echo.New()
	handler, vehicleRepo := newVehicleHandler(t)

	vehicleRepo.AddVehicle(&domain.Vehicle{ID: 1, Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})

	reqBody := `{"plate": "ABC1D23", "model": "Munck 12t", "status": "Manutenção"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/vehicles/1", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.UpdateVehicle(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response VehicleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != "Manutenção" {
		t.Errorf("Expected status 'Manutenção', got %s", response.Status)
	}
}

func TestDeleteVehicle_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newVehicleHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := handler.DeleteVehicle(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
