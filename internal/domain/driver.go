package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver is a crane operator paid a commission on the revenue of the
// services they operated.
type Driver struct {
	ID                int32           `json:"id"`
	Name              string          `json:"name"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	Discounts         decimal.Decimal `json:"discounts"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type DriverRepository interface {
	Create(driver *Driver) (*Driver, error)
	GetByID(id int32) (*Driver, error)
	GetAll() ([]*Driver, error)
	Update(driver *Driver) (*Driver, error)
	Delete(id int32) error
}
