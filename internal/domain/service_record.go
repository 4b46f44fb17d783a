package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceStatus is the billing status of a service record. The stored
// statuses match what the field team has always written on paper, so the
// Portuguese values are the wire format.
type ServiceStatus string

const (
	StatusPending  ServiceStatus = "Pendente"
	StatusPaid     ServiceStatus = "Pago"
	StatusOverdue  ServiceStatus = "Vencido"
	StatusCanceled ServiceStatus = "Cancelado"

	// StatusUpcoming ("a Vencer") is derived only: a pending record whose
	// due date is still in the future. It is never persisted.
	StatusUpcoming ServiceStatus = "a Vencer"
)

// StoredStatuses are the values accepted on write.
var StoredStatuses = []ServiceStatus{StatusPending, StatusPaid, StatusOverdue, StatusCanceled}

// ValidStoredStatus reports whether s may be persisted.
func ValidStoredStatus(s ServiceStatus) bool {
	for _, v := range StoredStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ServiceRecord is one billable crane-truck job.
type ServiceRecord struct {
	ID            int32           `json:"id"`
	OSNumber      string          `json:"osNumber"`
	Client        string          `json:"client"`
	Operator      string          `json:"operator"`
	Plate         string          `json:"plate"`
	InvoiceNumber *string         `json:"invoiceNumber,omitempty"`
	BoletoNumber  *string         `json:"boletoNumber,omitempty"`
	GrossAmount   decimal.Decimal `json:"grossAmount"`
	IssueDate     *Date           `json:"issueDate"`
	DueDate       *Date           `json:"dueDate,omitempty"`
	PaymentDate   *Date           `json:"paymentDate,omitempty"`
	Status        ServiceStatus   `json:"status"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedBy     *string         `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// EffectiveStatus derives the status shown on the dashboard. Canceled and
// paid records keep their stored status. Anything else is upcoming when the
// due date is strictly after today, and overdue otherwise. A missing due
// date counts as overdue.
func (s *ServiceRecord) EffectiveStatus(today Date) ServiceStatus {
	switch s.Status {
	case StatusCanceled:
		return StatusCanceled
	case StatusPaid:
		return StatusPaid
	}
	if s.DueDate != nil && s.DueDate.After(today) {
		return StatusUpcoming
	}
	return StatusOverdue
}

// DaysOverdue returns how many whole days past due the record is as of
// today. Zero when the record is not effectively overdue or has no due
// date to count from.
func (s *ServiceRecord) DaysOverdue(today Date) int {
	if s.EffectiveStatus(today) != StatusOverdue || s.DueDate == nil {
		return 0
	}
	days := s.DueDate.DaysUntil(today)
	if days < 0 {
		return 0
	}
	return days
}

var installmentSuffix = regexp.MustCompile(`\(\d+/\d+\)`)

// IsInstallment reports whether the record was produced by an installment
// split, recognized by the "(i/N)" suffix on the OS number. Split records
// cannot be split again.
func (s *ServiceRecord) IsInstallment() bool {
	return installmentSuffix.MatchString(s.OSNumber)
}

// ServiceRecordFilters narrows list queries.
type ServiceRecordFilters struct {
	Plate  *string
	Period *Period
	Search *string
	Status *ServiceStatus
}

type ServiceRecordRepository interface {
	Create(record *ServiceRecord) (*ServiceRecord, error)
	GetByID(id int32) (*ServiceRecord, error)
	GetAll(filters *ServiceRecordFilters) ([]*ServiceRecord, error)
	Update(record *ServiceRecord) (*ServiceRecord, error)
	Delete(id int32) error
	// ReplaceWithInstallments deletes the original record and inserts its
	// installments in a single transaction.
	ReplaceWithInstallments(originalID int32, installments []*ServiceRecord) ([]*ServiceRecord, error)
	FindPlateByOSNumber(osNumber string) (string, error)
	FindPlateByInvoiceNumber(invoiceNumber string) (string, error)
}
