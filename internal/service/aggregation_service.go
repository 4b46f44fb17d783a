package service

import (
	"sort"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregationService computes the dashboard figures. Every method is a
// pure pass over already-fetched slices: no repository access, no input
// mutation, safe to call concurrently.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// Summarize computes the headline totals for a period. Receivable sums
// stored Pendente and Vencido statuses as written; the dashboard's derived
// "a Vencer" never changes what is receivable.
func (s *AggregationService) Summarize(
	services []*domain.ServiceRecord,
	expenses []*domain.Expense,
	period domain.Period,
) domain.FinancialSummary {
	summary := domain.FinancialSummary{
		TotalReceived:   decimal.Zero,
		TotalReceivable: decimal.Zero,
		TotalExpenses:   decimal.Zero,
	}

	for _, svc := range services {
		if !period.Contains(svc.IssueDate) {
			continue
		}
		switch svc.Status {
		case domain.StatusPaid:
			summary.TotalReceived = summary.TotalReceived.Add(svc.GrossAmount)
		case domain.StatusPending, domain.StatusOverdue:
			summary.TotalReceivable = summary.TotalReceivable.Add(svc.GrossAmount)
		}
	}

	for _, exp := range expenses {
		if !period.Contains(exp.IssueDate) {
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(exp.TotalAmount)
	}

	summary.NetValue = summary.TotalReceived.Sub(summary.TotalExpenses)
	return summary
}

// VehicleBreakdown computes receivable and expense totals per plate over
// the registered vehicle list. Vehicles with nothing receivable and no
// expenses in the period are left out.
func (s *AggregationService) VehicleBreakdown(
	vehicles []*domain.Vehicle,
	services []*domain.ServiceRecord,
	expenses []*domain.Expense,
	period domain.Period,
) []domain.VehicleSummary {
	receivable := make(map[string]decimal.Decimal)
	spent := make(map[string]decimal.Decimal)

	for _, svc := range services {
		if !period.Contains(svc.IssueDate) {
			continue
		}
		if svc.Status == domain.StatusPending || svc.Status == domain.StatusOverdue {
			receivable[svc.Plate] = receivable[svc.Plate].Add(svc.GrossAmount)
		}
	}
	for _, exp := range expenses {
		if !period.Contains(exp.IssueDate) {
			continue
		}
		spent[exp.Plate] = spent[exp.Plate].Add(exp.TotalAmount)
	}

	rows := make([]domain.VehicleSummary, 0, len(vehicles))
	for _, v := range vehicles {
		row := domain.VehicleSummary{
			Plate:      v.Plate,
			Receivable: receivable[v.Plate],
			Expenses:   spent[v.Plate],
		}
		if row.Receivable.IsPositive() || row.Expenses.IsPositive() {
			rows = append(rows, row)
		}
	}
	return rows
}

// Forecast partitions expected receivables into the three due-date windows
// counted from today. The population is every record whose DERIVED status
// is Pendente or a Vencer; a record already past due (derived Vencido) is
// not expected money and stays out, even out of the 0-7 window.
func (s *AggregationService) Forecast(
	services []*domain.ServiceRecord,
	today domain.Date,
) domain.Forecast {
	forecast := domain.Forecast{
		Next7Days:  decimal.Zero,
		Next15Days: decimal.Zero,
		Next30Days: decimal.Zero,
	}
	for _, svc := range services {
		bucket, ok := s.forecastBucket(svc, today)
		if !ok {
			continue
		}
		switch bucket {
		case 0:
			forecast.Next7Days = forecast.Next7Days.Add(svc.GrossAmount)
		case 1:
			forecast.Next15Days = forecast.Next15Days.Add(svc.GrossAmount)
		case 2:
			forecast.Next30Days = forecast.Next30Days.Add(svc.GrossAmount)
		}
	}
	return forecast
}

// ForecastByVehicle computes the same three windows per plate, for every
// plate with at least one record landing in a window. Rows are sorted by
// plate for stable output.
func (s *AggregationService) ForecastByVehicle(
	services []*domain.ServiceRecord,
	today domain.Date,
) []domain.VehicleForecast {
	byPlate := make(map[string]*domain.Forecast)

	for _, svc := range services {
		bucket, ok := s.forecastBucket(svc, today)
		if !ok {
			continue
		}
		f, exists := byPlate[svc.Plate]
		if !exists {
			f = &domain.Forecast{
				Next7Days:  decimal.Zero,
				Next15Days: decimal.Zero,
				Next30Days: decimal.Zero,
			}
			byPlate[svc.Plate] = f
		}
		switch bucket {
		case 0:
			f.Next7Days = f.Next7Days.Add(svc.GrossAmount)
		case 1:
			f.Next15Days = f.Next15Days.Add(svc.GrossAmount)
		case 2:
			f.Next30Days = f.Next30Days.Add(svc.GrossAmount)
		}
	}

	rows := make([]domain.VehicleForecast, 0, len(byPlate))
	for plate, f := range byPlate {
		rows = append(rows, domain.VehicleForecast{Plate: plate, Forecast: *f})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Plate < rows[j].Plate })
	return rows
}

// forecastBucket places a record into window 0, 1 or 2 by whole days from
// today to its due date: 0-7, 8-15 and 16-30, all bounds inclusive.
func (s *AggregationService) forecastBucket(svc *domain.ServiceRecord, today domain.Date) (int, bool) {
	effective := svc.EffectiveStatus(today)
	if effective != domain.StatusPending && effective != domain.StatusUpcoming {
		return 0, false
	}
	if svc.DueDate == nil {
		return 0, false
	}
	days := today.DaysUntil(*svc.DueDate)
	switch {
	case days < 0:
		return 0, false
	case days <= 7:
		return 0, true
	case days <= 15:
		return 1, true
	case days <= 30:
		return 2, true
	}
	return 0, false
}

// PendingServices lists the records still awaiting payment (derived
// Pendente, Vencido or a Vencer), optionally narrowed by period and plate,
// sorted by due date ascending with undated records last.
func (s *AggregationService) PendingServices(
	services []*domain.ServiceRecord,
	period domain.Period,
	plate string,
	today domain.Date,
) []*domain.ServiceRecord {
	pending := make([]*domain.ServiceRecord, 0)
	for _, svc := range services {
		if !period.Contains(svc.IssueDate) {
			continue
		}
		if plate != "" && svc.Plate != plate {
			continue
		}
		switch svc.EffectiveStatus(today) {
		case domain.StatusPending, domain.StatusOverdue, domain.StatusUpcoming:
			pending = append(pending, svc)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := pending[i].DueDate, pending[j].DueDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})
	return pending
}

// MonthOptions returns the distinct YYYY-MM months that appear on issue
// dates, newest first, for the dashboard period selector.
func (s *AggregationService) MonthOptions(
	services []*domain.ServiceRecord,
	expenses []*domain.Expense,
) []string {
	seen := make(map[string]bool)
	for _, svc := range services {
		if svc.IssueDate != nil {
			seen[svc.IssueDate.YearMonth()] = true
		}
	}
	for _, exp := range expenses {
		if exp.IssueDate != nil {
			seen[exp.IssueDate.YearMonth()] = true
		}
	}

	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// VehicleDetail totals every figure for a single plate under a period:
// billed (non-canceled), received, receivable and expenses.
func (s *AggregationService) VehicleDetail(
	plate string,
	services []*domain.ServiceRecord,
	expenses []*domain.Expense,
	period domain.Period,
) domain.VehicleDetail {
	detail := domain.VehicleDetail{
		Plate:         plate,
		TotalBilled:   decimal.Zero,
		TotalReceived: decimal.Zero,
		Receivable:    decimal.Zero,
		Expenses:      decimal.Zero,
	}

	for _, svc := range services {
		if svc.Plate != plate || !period.Contains(svc.IssueDate) {
			continue
		}
		if svc.Status != domain.StatusCanceled {
			detail.TotalBilled = detail.TotalBilled.Add(svc.GrossAmount)
		}
		switch svc.Status {
		case domain.StatusPaid:
			detail.TotalReceived = detail.TotalReceived.Add(svc.GrossAmount)
		case domain.StatusPending, domain.StatusOverdue:
			detail.Receivable = detail.Receivable.Add(svc.GrossAmount)
		}
	}
	for _, exp := range expenses {
		if exp.Plate != plate || !period.Contains(exp.IssueDate) {
			continue
		}
		detail.Expenses = detail.Expenses.Add(exp.TotalAmount)
	}
	return detail
}
