package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cost charged against the fleet, usually tied to one vehicle.
type Expense struct {
	ID          int32           `json:"id"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	Plate       string          `json:"plate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IssueDate   *Date           `json:"issueDate"`
	DueDate     *Date           `json:"dueDate,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	ReceiptKey  *string         `json:"receiptKey,omitempty"`
	CreatedBy   *string         `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ExpenseFilters struct {
	Plate  *string
	Period *Period
	Search *string
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id int32) (*Expense, error)
	GetAll(filters *ExpenseFilters) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	Delete(id int32) error
	SetReceiptKey(id int32, key *string) error
}
