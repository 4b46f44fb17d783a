package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// VehicleHandler handles vehicle HTTP requests
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRequest represents the create/update vehicle request
type VehicleRequest struct {
	Plate  string `json:"plate"`
	Model  string `json:"model"`
	Year   *int32 `json:"year"`
	Status string `json:"status"`
}

// VehicleResponse represents a vehicle in API responses
type VehicleResponse struct {
	ID        int32  `json:"id"`
	Plate     string `json:"plate"`
	Model     string `json:"model"`
	Year      *int32 `json:"year"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// toVehicleResponse converts a domain vehicle to an API response
func toVehicleResponse(vehicle *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:        vehicle.ID,
		Plate:     vehicle.Plate,
		Model:     vehicle.Model,
		Year:      vehicle.Year,
		Status:    string(vehicle.Status),
		CreatedAt: vehicle.CreatedAt.Format(time.RFC3339),
		UpdatedAt: vehicle.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateVehicle handles POST /vehicles
func (h *VehicleHandler) CreateVehicle(c echo.Context) error {
	var req VehicleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	vehicle := &domain.Vehicle{
		Plate:  req.Plate,
		Model:  req.Model,
		Year:   req.Year,
		Status: domain.VehicleStatus(req.Status),
	}

	created, err := h.vehicleService.Create(vehicle)
	if err != nil {
		return h.mapWriteError(c, err)
	}

	log.Info().Int32("vehicle_id", created.ID).Str("plate", created.Plate).Msg("Vehicle created")

	return c.JSON(http.StatusCreated, toVehicleResponse(created))
}

// GetVehicles handles GET /vehicles
func (h *VehicleHandler) GetVehicles(c echo.Context) error {
	vehicles, err := h.vehicleService.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list vehicles")
		return NewInternalError(c, "Failed to list vehicles")
	}

	responses := make([]VehicleResponse, len(vehicles))
	for i, vehicle := range vehicles {
		responses[i] = toVehicleResponse(vehicle)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetVehicle handles GET /vehicles/:id
func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid vehicle ID", nil)
	}

	vehicle, err := h.vehicleService.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return NewNotFoundError(c, "Vehicle not found")
		}
		log.Error().Err(err).Int32("vehicle_id", id).Msg("Failed to get vehicle")
		return NewInternalError(c, "Failed to get vehicle")
	}

	return c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// UpdateVehicle handles PUT /vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid vehicle ID", nil)
	}

	var req VehicleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	vehicle := &domain.Vehicle{
		ID:     id,
		Plate:  req.Plate,
		Model:  req.Model,
		Year:   req.Year,
		Status: domain.VehicleStatus(req.Status),
	}

	updated, err := h.vehicleService.Update(vehicle)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return NewNotFoundError(c, "Vehicle not found")
		}
		return h.mapWriteError(c, err)
	}

	return c.JSON(http.StatusOK, toVehicleResponse(updated))
}

// DeleteVehicle handles DELETE /vehicles/:id
// Removing a vehicle cascades to its service records and expenses.
func (h *VehicleHandler) DeleteVehicle(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid vehicle ID", nil)
	}

	if err := h.vehicleService.Delete(id); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return NewNotFoundError(c, "Vehicle not found")
		}
		log.Error().Err(err).Int32("vehicle_id", id).Msg("Failed to delete vehicle")
		return NewInternalError(c, "Failed to delete vehicle")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapWriteError maps domain validation errors to field-level responses
func (h *VehicleHandler) mapWriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPlateTaken):
		return NewConflictError(c, "A vehicle with this plate is already registered")
	case errors.Is(err, domain.ErrPlateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "Plate is required"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: Ativo, Inativo, Manutenção"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Msg("Failed to save vehicle")
		return NewInternalError(c, "Failed to save vehicle")
	}
}
