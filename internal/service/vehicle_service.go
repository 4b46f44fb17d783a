package service

import (
	"fmt"
	"strings"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// VehicleService handles business logic for fleet vehicles
type VehicleService struct {
	vehicleRepo    domain.VehicleRepository
	eventPublisher websocket.EventPublisher
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo domain.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *VehicleService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *VehicleService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

func (s *VehicleService) validate(vehicle *domain.Vehicle) error {
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	if vehicle.Plate == "" {
		return domain.ErrPlateRequired
	}
	if len(vehicle.Plate) > domain.MaxPlateLength {
		return fmt.Errorf("%w: plate exceeds %d characters", domain.ErrInvalidInput, domain.MaxPlateLength)
	}
	vehicle.Model = strings.TrimSpace(vehicle.Model)
	if vehicle.Model == "" {
		return fmt.Errorf("%w: model is required", domain.ErrInvalidInput)
	}
	if vehicle.Status == "" {
		vehicle.Status = domain.VehicleActive
	}
	if !domain.ValidVehicleStatus(vehicle.Status) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, vehicle.Status)
	}
	return nil
}

// Create registers a new vehicle
func (s *VehicleService) Create(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if err := s.validate(vehicle); err != nil {
		return nil, err
	}

	created, err := s.vehicleRepo.Create(vehicle)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("plate", created.Plate).
		Str("model", created.Model).
		Msg("vehicle created")

	s.publishEvent(websocket.VehicleCreated(created))
	return created, nil
}

// GetByID retrieves one vehicle
func (s *VehicleService) GetByID(id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(id)
}

// GetByPlate retrieves one vehicle by its plate
func (s *VehicleService) GetByPlate(plate string) (*domain.Vehicle, error) {
	plate = domain.NormalizePlate(plate)
	if plate == "" {
		return nil, domain.ErrPlateRequired
	}
	return s.vehicleRepo.GetByPlate(plate)
}

// List retrieves all vehicles
func (s *VehicleService) List() ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetAll()
}

// Update updates a vehicle
func (s *VehicleService) Update(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if _, err := s.vehicleRepo.GetByID(vehicle.ID); err != nil {
		return nil, err
	}
	if err := s.validate(vehicle); err != nil {
		return nil, err
	}

	updated, err := s.vehicleRepo.Update(vehicle)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.VehicleUpdated(updated))
	return updated, nil
}

// Delete removes a vehicle along with its service records and expenses
func (s *VehicleService) Delete(id int32) error {
	vehicle, err := s.vehicleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.vehicleRepo.Delete(id); err != nil {
		return err
	}

	log.Info().
		Str("plate", vehicle.Plate).
		Msg("vehicle deleted")

	s.publishEvent(websocket.VehicleDeleted(map[string]any{
		"id":    id,
		"plate": vehicle.Plate,
	}))
	return nil
}
