package domain

import "github.com/shopspring/decimal"

// FinancialSummary holds the headline dashboard totals for a period.
// Received and receivable come from STORED statuses: receivable counts
// Pendente and Vencido as written, not the derived status, so a pending
// record past its due date is still receivable even before anyone marks
// it Vencido.
type FinancialSummary struct {
	TotalReceived   decimal.Decimal `json:"totalReceived"`
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetValue        decimal.Decimal `json:"netValue"`
}

// VehicleSummary is one row of the per-vehicle breakdown. Only vehicles
// with a nonzero receivable or nonzero expenses appear.
type VehicleSummary struct {
	Plate      string          `json:"plate"`
	Receivable decimal.Decimal `json:"receivable"`
	Expenses   decimal.Decimal `json:"expenses"`
}

// ForecastWindowDays are the inclusive upper bounds of the three
// receivables forecast windows, counted in days from today.
var ForecastWindowDays = [3]int{7, 15, 30}

// Forecast partitions expected receivables by due date into three
// inclusive windows from today: 0-7, 8-15 and 16-30 days out.
type Forecast struct {
	Next7Days  decimal.Decimal `json:"next7Days"`
	Next15Days decimal.Decimal `json:"next15Days"`
	Next30Days decimal.Decimal `json:"next30Days"`
}

// VehicleForecast is the forecast restricted to one vehicle's services.
type VehicleForecast struct {
	Plate    string   `json:"plate"`
	Forecast Forecast `json:"forecast"`
}

// DashboardData is everything the dashboard screen renders, computed in
// one pass over the full dataset.
type DashboardData struct {
	Summary          FinancialSummary  `json:"summary"`
	ByVehicle        []VehicleSummary  `json:"byVehicle"`
	Forecast         Forecast          `json:"forecast"`
	ForecastByPlate  []VehicleForecast `json:"forecastByPlate"`
	PendingServices  []*ServiceRecord  `json:"pendingServices"`
	MonthOptions     []string          `json:"monthOptions"`
	VehicleOptions   []string          `json:"vehicleOptions"`
}

// VehicleDetail is the per-vehicle page summary: everything billed and
// spent for a single plate under the current period filter.
type VehicleDetail struct {
	Plate         string          `json:"plate"`
	TotalBilled   decimal.Decimal `json:"totalBilled"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Receivable    decimal.Decimal `json:"receivable"`
	Expenses      decimal.Decimal `json:"expenses"`
}
