package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// FinancialSummaryResponse represents the headline totals
type FinancialSummaryResponse struct {
	TotalReceived   string `json:"totalReceived"`
	TotalReceivable string `json:"totalReceivable"`
	TotalExpenses   string `json:"totalExpenses"`
	NetValue        string `json:"netValue"`
}

// VehicleSummaryResponse represents one row of the per-vehicle breakdown
type VehicleSummaryResponse struct {
	Plate      string `json:"plate"`
	Receivable string `json:"receivable"`
	Expenses   string `json:"expenses"`
}

// ForecastResponse represents the receivables forecast windows
type ForecastResponse struct {
	Next7Days  string `json:"next7Days"`
	Next15Days string `json:"next15Days"`
	Next30Days string `json:"next30Days"`
}

// VehicleForecastResponse represents one vehicle's forecast
type VehicleForecastResponse struct {
	Plate    string           `json:"plate"`
	Forecast ForecastResponse `json:"forecast"`
}

// DashboardResponse represents the full dashboard payload
type DashboardResponse struct {
	Summary         FinancialSummaryResponse  `json:"summary"`
	ByVehicle       []VehicleSummaryResponse  `json:"byVehicle"`
	Forecast        ForecastResponse          `json:"forecast"`
	ForecastByPlate []VehicleForecastResponse `json:"forecastByPlate"`
	PendingServices []ServiceRecordResponse   `json:"pendingServices"`
	MonthOptions    []string                  `json:"monthOptions"`
	VehicleOptions  []string                  `json:"vehicleOptions"`
}

// VehicleDetailResponse represents the per-vehicle page summary
type VehicleDetailResponse struct {
	Plate         string `json:"plate"`
	TotalBilled   string `json:"totalBilled"`
	TotalReceived string `json:"totalReceived"`
	Receivable    string `json:"receivable"`
	Expenses      string `json:"expenses"`
}

func toForecastResponse(f domain.Forecast) ForecastResponse {
	return ForecastResponse{
		Next7Days:  f.Next7Days.StringFixed(2),
		Next15Days: f.Next15Days.StringFixed(2),
		Next30Days: f.Next30Days.StringFixed(2),
	}
}

// toDashboardResponse converts dashboard data to an API response
func toDashboardResponse(data *domain.DashboardData) DashboardResponse {
	byVehicle := make([]VehicleSummaryResponse, len(data.ByVehicle))
	for i, row := range data.ByVehicle {
		byVehicle[i] = VehicleSummaryResponse{
			Plate:      row.Plate,
			Receivable: row.Receivable.StringFixed(2),
			Expenses:   row.Expenses.StringFixed(2),
		}
	}

	forecastByPlate := make([]VehicleForecastResponse, len(data.ForecastByPlate))
	for i, row := range data.ForecastByPlate {
		forecastByPlate[i] = VehicleForecastResponse{
			Plate:    row.Plate,
			Forecast: toForecastResponse(row.Forecast),
		}
	}

	return DashboardResponse{
		Summary: FinancialSummaryResponse{
			TotalReceived:   data.Summary.TotalReceived.StringFixed(2),
			TotalReceivable: data.Summary.TotalReceivable.StringFixed(2),
			TotalExpenses:   data.Summary.TotalExpenses.StringFixed(2),
			NetValue:        data.Summary.NetValue.StringFixed(2),
		},
		ByVehicle:       byVehicle,
		Forecast:        toForecastResponse(data.Forecast),
		ForecastByPlate: forecastByPlate,
		PendingServices: toServiceRecordResponses(data.PendingServices),
		MonthOptions:    data.MonthOptions,
		VehicleOptions:  data.VehicleOptions,
	}
}

// GetDashboard handles GET /dashboard
// Accepts optional period ("all" or YYYY-MM) and plate query filters.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	period, err := domain.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be 'all' or YYYY-MM"},
		})
	}

	data, err := h.dashboardService.GetDashboard(period, c.QueryParam("plate"))
	if err != nil {
		if errors.Is(err, domain.ErrDashboardLoadFailed) {
			log.Error().Err(err).Msg("Dashboard load failed")
			return NewInternalError(c, "Dashboard data could not be loaded")
		}
		log.Error().Err(err).Msg("Failed to build dashboard")
		return NewInternalError(c, "Failed to build dashboard")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(data))
}

// GetVehicleDetail handles GET /dashboard/vehicles/:plate
func (h *DashboardHandler) GetVehicleDetail(c echo.Context) error {
	plate := c.Param("plate")
	if plate == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "Plate is required"},
		})
	}

	period, err := domain.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be 'all' or YYYY-MM"},
		})
	}

	detail, err := h.dashboardService.GetVehicleDetail(plate, period)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVehicleNotFound):
			return NewNotFoundError(c, "Vehicle not found")
		case errors.Is(err, domain.ErrDashboardLoadFailed):
			log.Error().Err(err).Str("plate", plate).Msg("Vehicle detail load failed")
			return NewInternalError(c, "Vehicle data could not be loaded")
		default:
			log.Error().Err(err).Str("plate", plate).Msg("Failed to build vehicle detail")
			return NewInternalError(c, "Failed to build vehicle detail")
		}
	}

	return c.JSON(http.StatusOK, VehicleDetailResponse{
		Plate:         detail.Plate,
		TotalBilled:   detail.TotalBilled.StringFixed(2),
		TotalReceived: detail.TotalReceived.StringFixed(2),
		Receivable:    detail.Receivable.StringFixed(2),
		Expenses:      detail.Expenses.StringFixed(2),
	})
}
