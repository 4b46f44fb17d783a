package service

import (
	"fmt"
	"strings"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ExpenseService handles business logic for vehicle expenses
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	vehicleRepo    domain.VehicleRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, vehicleRepo domain.VehicleRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		vehicleRepo: vehicleRepo,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

func (s *ExpenseService) validate(expense *domain.Expense) error {
	expense.Vendor = strings.TrimSpace(expense.Vendor)
	if expense.Vendor == "" {
		return fmt.Errorf("%w: vendor is required", domain.ErrInvalidInput)
	}
	expense.Plate = domain.NormalizePlate(expense.Plate)
	if expense.Plate == "" {
		return domain.ErrPlateRequired
	}
	if expense.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total amount cannot be negative", domain.ErrInvalidInput)
	}
	if _, err := s.vehicleRepo.GetByPlate(expense.Plate); err != nil {
		return err
	}
	return nil
}

// Create creates a new expense, stamped with the creator's display name
func (s *ExpenseService) Create(expense *domain.Expense, createdBy string) (*domain.Expense, error) {
	if err := s.validate(expense); err != nil {
		return nil, err
	}
	if createdBy != "" {
		expense.CreatedBy = &createdBy
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("expense_id", created.ID).
		Str("vendor", created.Vendor).
		Str("plate", created.Plate).
		Msg("expense created")

	s.publishEvent(websocket.ExpenseCreated(created))
	return created, nil
}

// GetByID retrieves one expense
func (s *ExpenseService) GetByID(id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// List retrieves expenses with optional filters
func (s *ExpenseService) List(filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if filters != nil && filters.Plate != nil {
		normalized := domain.NormalizePlate(*filters.Plate)
		filters.Plate = &normalized
	}
	return s.expenseRepo.GetAll(filters)
}

// Update updates an expense
func (s *ExpenseService) Update(expense *domain.Expense) (*domain.Expense, error) {
	existing, err := s.expenseRepo.GetByID(expense.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(expense); err != nil {
		return nil, err
	}
	// The receipt key is managed by the receipt endpoints, not by updates
	expense.ReceiptKey = existing.ReceiptKey

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseUpdated(updated))
	return updated, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(id int32) error {
	if _, err := s.expenseRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.ExpenseDeleted(map[string]int32{"id": id}))
	return nil
}
