package service

import (
	"fmt"
	"sort"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportService builds the month-close statements
type ReportService struct {
	serviceRepo    domain.ServiceRecordRepository
	expenseRepo    domain.ExpenseRepository
	driverRepo     domain.DriverRepository
	commissionRate decimal.Decimal
}

// NewReportService creates a new ReportService
func NewReportService(
	serviceRepo domain.ServiceRecordRepository,
	expenseRepo domain.ExpenseRepository,
	driverRepo domain.DriverRepository,
	commissionRate decimal.Decimal,
) *ReportService {
	return &ReportService{
		serviceRepo:    serviceRepo,
		expenseRepo:    expenseRepo,
		driverRepo:     driverRepo,
		commissionRate: commissionRate,
	}
}

// byIssueDate orders records with nil issue dates last, ties kept stable.
func issueDateBefore(a, b *domain.Date) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

// MonthlyReport builds the statement for one explicit month. Gross revenue
// counts every non-canceled service issued in the month regardless of
// payment status, and commission applies the configured rate to it.
func (s *ReportService) MonthlyReport(period domain.Period) (*domain.MonthlyReport, error) {
	if period.IsAll() {
		return nil, fmt.Errorf("%w: monthly report requires an explicit month", domain.ErrInvalidInput)
	}

	var (
		services []*domain.ServiceRecord
		expenses []*domain.Expense
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		services, err = s.serviceRepo.GetAll(&domain.ServiceRecordFilters{Period: &period})
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.GetAll(&domain.ExpenseFilters{Period: &period})
		if err != nil {
			return fmt.Errorf("loading expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gross := decimal.Zero
	for _, svc := range services {
		if svc.Status == domain.StatusCanceled {
			continue
		}
		gross = gross.Add(svc.GrossAmount)
	}

	totalExpenses := decimal.Zero
	for _, exp := range expenses {
		totalExpenses = totalExpenses.Add(exp.TotalAmount)
	}

	commission := gross.Mul(s.commissionRate).Round(2)

	sort.SliceStable(services, func(i, j int) bool {
		return issueDateBefore(services[i].IssueDate, services[j].IssueDate)
	})
	sort.SliceStable(expenses, func(i, j int) bool {
		return issueDateBefore(expenses[i].IssueDate, expenses[j].IssueDate)
	})

	return &domain.MonthlyReport{
		Period:        period.String(),
		GrossRevenue:  gross,
		TotalExpenses: totalExpenses,
		Commission:    commission,
		Balance:       gross.Sub(totalExpenses).Sub(commission),
		Services:      services,
		Expenses:      expenses,
	}, nil
}

var oneHundred = decimal.NewFromInt(100)

// DriverSettlements computes each driver's pay line for one month:
// commission on the revenue of the non-canceled services they operated,
// minus registered discounts.
func (s *ReportService) DriverSettlements(period domain.Period) ([]*domain.DriverSettlement, error) {
	if period.IsAll() {
		return nil, fmt.Errorf("%w: settlements require an explicit month", domain.ErrInvalidInput)
	}

	drivers, err := s.driverRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading drivers: %w", err)
	}
	services, err := s.serviceRepo.GetAll(&domain.ServiceRecordFilters{Period: &period})
	if err != nil {
		return nil, fmt.Errorf("loading services: %w", err)
	}

	revenueByOperator := make(map[string]decimal.Decimal)
	for _, svc := range services {
		if svc.Status == domain.StatusCanceled {
			continue
		}
		revenueByOperator[svc.Operator] = revenueByOperator[svc.Operator].Add(svc.GrossAmount)
	}

	settlements := make([]*domain.DriverSettlement, 0, len(drivers))
	for _, driver := range drivers {
		revenue := revenueByOperator[driver.Name]
		commission := revenue.Mul(driver.CommissionPercent).Div(oneHundred).Round(2)
		settlements = append(settlements, &domain.DriverSettlement{
			DriverID:          driver.ID,
			Name:              driver.Name,
			MonthRevenue:      revenue,
			CommissionPercent: driver.CommissionPercent,
			Commission:        commission,
			Discounts:         driver.Discounts,
			FinalAmount:       commission.Sub(driver.Discounts),
		})
	}
	return settlements, nil
}
