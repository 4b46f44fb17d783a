package domain

import "github.com/shopspring/decimal"

// MonthlyReport is the month-close statement. Gross revenue counts every
// non-canceled service issued in the month regardless of payment status.
type MonthlyReport struct {
	Period        string           `json:"period"`
	GrossRevenue  decimal.Decimal  `json:"grossRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	Commission    decimal.Decimal  `json:"commission"`
	Balance       decimal.Decimal  `json:"balance"`
	Services      []*ServiceRecord `json:"services"`
	Expenses      []*Expense       `json:"expenses"`
}

// DriverSettlement is one driver's pay line for a month: commission on
// the revenue of the services they operated, minus registered discounts.
type DriverSettlement struct {
	DriverID          int32           `json:"driverId"`
	Name              string          `json:"name"`
	MonthRevenue      decimal.Decimal `json:"monthRevenue"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	Commission        decimal.Decimal `json:"commission"`
	Discounts         decimal.Decimal `json:"discounts"`
	FinalAmount       decimal.Decimal `json:"finalAmount"`
}
