package service

import (
	"fmt"
	"strings"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ServiceRecordService handles business logic for service records
type ServiceRecordService struct {
	serviceRepo    domain.ServiceRecordRepository
	vehicleRepo    domain.VehicleRepository
	eventPublisher websocket.EventPublisher
}

// NewServiceRecordService creates a new ServiceRecordService
func NewServiceRecordService(serviceRepo domain.ServiceRecordRepository, vehicleRepo domain.VehicleRepository) *ServiceRecordService {
	return &ServiceRecordService{
		serviceRepo: serviceRepo,
		vehicleRepo: vehicleRepo,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *ServiceRecordService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ServiceRecordService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

func (s *ServiceRecordService) validate(record *domain.ServiceRecord) error {
	record.OSNumber = strings.TrimSpace(record.OSNumber)
	if record.OSNumber == "" {
		return fmt.Errorf("%w: OS number is required", domain.ErrInvalidInput)
	}
	record.Plate = domain.NormalizePlate(record.Plate)
	if record.Plate == "" {
		return domain.ErrPlateRequired
	}
	if !domain.ValidStoredStatus(record.Status) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, record.Status)
	}
	if record.GrossAmount.IsNegative() {
		return fmt.Errorf("%w: gross amount cannot be negative", domain.ErrInvalidInput)
	}
	if _, err := s.vehicleRepo.GetByPlate(record.Plate); err != nil {
		return err
	}
	return nil
}

// Create creates a new service record, stamped with the creator's display name
func (s *ServiceRecordService) Create(record *domain.ServiceRecord, createdBy string) (*domain.ServiceRecord, error) {
	if err := s.validate(record); err != nil {
		return nil, err
	}
	if createdBy != "" {
		record.CreatedBy = &createdBy
	}

	created, err := s.serviceRepo.Create(record)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("service_id", created.ID).
		Str("os_number", created.OSNumber).
		Str("plate", created.Plate).
		Msg("service record created")

	s.publishEvent(websocket.ServiceRecordCreated(created))
	return created, nil
}

// GetByID retrieves one service record
func (s *ServiceRecordService) GetByID(id int32) (*domain.ServiceRecord, error) {
	return s.serviceRepo.GetByID(id)
}

// List retrieves service records with optional filters
func (s *ServiceRecordService) List(filters *domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error) {
	if filters != nil && filters.Plate != nil {
		normalized := domain.NormalizePlate(*filters.Plate)
		filters.Plate = &normalized
	}
	return s.serviceRepo.GetAll(filters)
}

// Update updates a service record
func (s *ServiceRecordService) Update(record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if _, err := s.serviceRepo.GetByID(record.ID); err != nil {
		return nil, err
	}
	if err := s.validate(record); err != nil {
		return nil, err
	}

	updated, err := s.serviceRepo.Update(record)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ServiceRecordUpdated(updated))
	return updated, nil
}

// Delete removes a service record
func (s *ServiceRecordService) Delete(id int32) error {
	if _, err := s.serviceRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.serviceRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.ServiceRecordDeleted(map[string]int32{"id": id}))
	return nil
}

// SplitIntoInstallments replaces a service record with count monthly
// installments. The gross amount is divided at two decimal places and the
// last installment absorbs the rounding remainder, so the sum is always
// exactly the original amount. Due dates advance one month per installment
// starting from the original due date, and every installment goes back to
// Pendente. The swap is atomic: either all installments exist and the
// original is gone, or nothing changed.
func (s *ServiceRecordService) SplitIntoInstallments(id int32, count int) ([]*domain.ServiceRecord, error) {
	if count < 2 {
		return nil, fmt.Errorf("%w: installment count must be at least 2", domain.ErrInvalidInput)
	}

	original, err := s.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if original.IsInstallment() {
		return nil, domain.ErrAlreadySplit
	}
	if original.Status == domain.StatusPaid || original.Status == domain.StatusCanceled {
		return nil, fmt.Errorf("%w: only open records can be split", domain.ErrInvalidInput)
	}

	base := original.GrossAmount.Div(decimal.NewFromInt(int64(count))).Round(2)
	remainder := original.GrossAmount.Sub(base.Mul(decimal.NewFromInt(int64(count))))

	installments := make([]*domain.ServiceRecord, 0, count)
	for i := 1; i <= count; i++ {
		amount := base
		if i == count {
			amount = amount.Add(remainder)
		}

		var dueDate *domain.Date
		if original.DueDate != nil {
			d := original.DueDate.AddMonths(i - 1)
			dueDate = &d
		}

		installments = append(installments, &domain.ServiceRecord{
			OSNumber:      fmt.Sprintf("%s (%d/%d)", original.OSNumber, i, count),
			Client:        original.Client,
			Operator:      original.Operator,
			Plate:         original.Plate,
			InvoiceNumber: original.InvoiceNumber,
			BoletoNumber:  original.BoletoNumber,
			GrossAmount:   amount,
			IssueDate:     original.IssueDate,
			DueDate:       dueDate,
			Status:        domain.StatusPending,
			Notes:         original.Notes,
			CreatedBy:     original.CreatedBy,
		})
	}

	created, err := s.serviceRepo.ReplaceWithInstallments(id, installments)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("service_id", id).
		Int("installments", count).
		Str("os_number", original.OSNumber).
		Msg("service record split into installments")

	s.publishEvent(websocket.ServiceRecordSplit(map[string]any{
		"splitOf":      id,
		"installments": count,
	}))
	return created, nil
}

// FindPlateByOSNumber resolves the vehicle plate for an OS number
func (s *ServiceRecordService) FindPlateByOSNumber(osNumber string) (string, error) {
	osNumber = strings.TrimSpace(osNumber)
	if osNumber == "" {
		return "", fmt.Errorf("%w: OS number is required", domain.ErrInvalidInput)
	}
	return s.serviceRepo.FindPlateByOSNumber(osNumber)
}

// FindPlateByInvoiceNumber resolves the vehicle plate for an invoice number
func (s *ServiceRecordService) FindPlateByInvoiceNumber(invoiceNumber string) (string, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return "", fmt.Errorf("%w: invoice number is required", domain.ErrInvalidInput)
	}
	return s.serviceRepo.FindPlateByInvoiceNumber(invoiceNumber)
}
