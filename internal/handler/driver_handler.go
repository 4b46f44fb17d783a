package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DriverHandler handles driver HTTP requests
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverRequest represents the create/update driver request
type DriverRequest struct {
	Name              string `json:"name"`
	CommissionPercent string `json:"commissionPercent"`
	Discounts         string `json:"discounts"`
}

// DriverResponse represents a driver in API responses
type DriverResponse struct {
	ID                int32  `json:"id"`
	Name              string `json:"name"`
	CommissionPercent string `json:"commissionPercent"`
	Discounts         string `json:"discounts"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// toDriverResponse converts a domain driver to an API response
func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:                driver.ID,
		Name:              driver.Name,
		CommissionPercent: driver.CommissionPercent.StringFixed(2),
		Discounts:         driver.Discounts.StringFixed(2),
		CreatedAt:         driver.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         driver.UpdatedAt.Format(time.RFC3339),
	}
}

// driverFromRequest builds a domain driver from request fields
func driverFromRequest(req *DriverRequest) (*domain.Driver, []ValidationError) {
	var fieldErrors []ValidationError

	commission := decimal.Zero
	if req.CommissionPercent != "" {
		parsed, err := decimal.NewFromString(req.CommissionPercent)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "commissionPercent", Message: "Commission percent must be a decimal number"})
		} else {
			commission = parsed
		}
	}

	discounts := decimal.Zero
	if req.Discounts != "" {
		parsed, err := decimal.NewFromString(req.Discounts)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "discounts", Message: "Discounts must be a decimal number"})
		} else {
			discounts = parsed
		}
	}

	return &domain.Driver{
		Name:              req.Name,
		CommissionPercent: commission,
		Discounts:         discounts,
	}, fieldErrors
}

// CreateDriver handles POST /drivers
func (h *DriverHandler) CreateDriver(c echo.Context) error {
	var req DriverRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	driver, fieldErrors := driverFromRequest(&req)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	created, err := h.driverService.Create(driver)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to create driver")
		return NewInternalError(c, "Failed to create driver")
	}

	log.Info().Int32("driver_id", created.ID).Str("name", created.Name).Msg("Driver created")

	return c.JSON(http.StatusCreated, toDriverResponse(created))
}

// GetDrivers handles GET /drivers
func (h *DriverHandler) GetDrivers(c echo.Context) error {
	drivers, err := h.driverService.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list drivers")
		return NewInternalError(c, "Failed to list drivers")
	}

	responses := make([]DriverResponse, len(drivers))
	for i, driver := range drivers {
		responses[i] = toDriverResponse(driver)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetDriver handles GET /drivers/:id
func (h *DriverHandler) GetDriver(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid driver ID", nil)
	}

	driver, err := h.driverService.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrDriverNotFound) {
			return NewNotFoundError(c, "Driver not found")
		}
		log.Error().Err(err).Int32("driver_id", id).Msg("Failed to get driver")
		return NewInternalError(c, "Failed to get driver")
	}

	return c.JSON(http.StatusOK, toDriverResponse(driver))
}

// UpdateDriver handles PUT /drivers/:id
func (h *DriverHandler) UpdateDriver(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid driver ID", nil)
	}

	var req DriverRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	driver, fieldErrors := driverFromRequest(&req)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}
	driver.ID = id

	updated, err := h.driverService.Update(driver)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDriverNotFound):
			return NewNotFoundError(c, "Driver not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, err.Error(), nil)
		default:
			log.Error().Err(err).Int32("driver_id", id).Msg("Failed to update driver")
			return NewInternalError(c, "Failed to update driver")
		}
	}

	return c.JSON(http.StatusOK, toDriverResponse(updated))
}

// DeleteDriver handles DELETE /drivers/:id
func (h *DriverHandler) DeleteDriver(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid driver ID", nil)
	}

	if err := h.driverService.Delete(id); err != nil {
		if errors.Is(err, domain.ErrDriverNotFound) {
			return NewNotFoundError(c, "Driver not found")
		}
		log.Error().Err(err).Int32("driver_id", id).Msg("Failed to delete driver")
		return NewInternalError(c, "Failed to delete driver")
	}

	return c.NoContent(http.StatusNoContent)
}
