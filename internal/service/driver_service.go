package service

import (
	"fmt"
	"strings"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// DriverService handles business logic for drivers
type DriverService struct {
	driverRepo     domain.DriverRepository
	eventPublisher websocket.EventPublisher
}

// NewDriverService creates a new DriverService
func NewDriverService(driverRepo domain.DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *DriverService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DriverService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

var maxCommissionPercent = decimal.NewFromInt(100)

func (s *DriverService) validate(driver *domain.Driver) error {
	driver.Name = strings.TrimSpace(driver.Name)
	if driver.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(driver.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", domain.ErrInvalidInput, domain.MaxNameLength)
	}
	if driver.CommissionPercent.IsNegative() || driver.CommissionPercent.GreaterThan(maxCommissionPercent) {
		return fmt.Errorf("%w: commission percent must be between 0 and 100", domain.ErrInvalidInput)
	}
	if driver.Discounts.IsNegative() {
		return fmt.Errorf("%w: discounts cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Create registers a new driver
func (s *DriverService) Create(driver *domain.Driver) (*domain.Driver, error) {
	if err := s.validate(driver); err != nil {
		return nil, err
	}

	created, err := s.driverRepo.Create(driver)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.DriverCreated(created))
	return created, nil
}

// GetByID retrieves one driver
func (s *DriverService) GetByID(id int32) (*domain.Driver, error) {
	return s.driverRepo.GetByID(id)
}

// List retrieves all drivers
func (s *DriverService) List() ([]*domain.Driver, error) {
	return s.driverRepo.GetAll()
}

// Update updates a driver
func (s *DriverService) Update(driver *domain.Driver) (*domain.Driver, error) {
	if _, err := s.driverRepo.GetByID(driver.ID); err != nil {
		return nil, err
	}
	if err := s.validate(driver); err != nil {
		return nil, err
	}

	updated, err := s.driverRepo.Update(driver)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.DriverUpdated(updated))
	return updated, nil
}

// Delete removes a driver
func (s *DriverService) Delete(id int32) error {
	if _, err := s.driverRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.driverRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.DriverDeleted(map[string]int32{"id": id}))
	return nil
}
