package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the monthly report as an XLSX workbook
type ExportService struct {
	reports      *ReportService
	documentRepo storage.DocumentRepository
}

// NewExportService creates a new ExportService. The document repository is
// optional; without it workbooks are returned to the caller but never archived.
func NewExportService(reports *ReportService, documentRepo storage.DocumentRepository) *ExportService {
	return &ExportService{
		reports:      reports,
		documentRepo: documentRepo,
	}
}

const (
	summarySheet  = "Resumo"
	servicesSheet = "Serviços"
	expensesSheet = "Despesas"
)

// MonthlyReportXLSX builds the month-close workbook: a summary sheet plus
// one sheet each for the month's services and expenses.
func (s *ExportService) MonthlyReportXLSX(period domain.Period) ([]byte, error) {
	report, err := s.reports.MonthlyReport(period)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(servicesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(expensesSheet); err != nil {
		return nil, err
	}

	if err := s.writeSummary(f, report); err != nil {
		return nil, err
	}
	if err := s.writeServices(f, report.Services); err != nil {
		return nil, err
	}
	if err := s.writeExpenses(f, report.Expenses); err != nil {
		return nil, err
	}

	index, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	log.Info().
		Str("period", report.Period).
		Int("services", len(report.Services)).
		Int("expenses", len(report.Expenses)).
		Msg("monthly report exported")

	return buf.Bytes(), nil
}

// ArchiveMonthlyReport generates the workbook and stores a copy in object
// storage, returning the XLSX bytes and the stored object key.
func (s *ExportService) ArchiveMonthlyReport(ctx context.Context, period domain.Period) ([]byte, string, error) {
	data, err := s.MonthlyReportXLSX(period)
	if err != nil {
		return nil, "", err
	}
	if s.documentRepo == nil {
		return data, "", nil
	}

	key := storage.GenerateExportPath(period.String())
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if _, err := s.documentRepo.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return nil, "", fmt.Errorf("archiving report: %w", err)
	}

	log.Info().
		Str("object_key", key).
		Msg("monthly report archived")

	return data, key, nil
}

// ArchivedReportURL returns a presigned link to a previously archived workbook
func (s *ExportService) ArchivedReportURL(ctx context.Context, objectKey string) (string, error) {
	if s.documentRepo == nil {
		return "", fmt.Errorf("%w: report archive is not configured", domain.ErrInvalidInput)
	}
	return s.documentRepo.GeneratePresignedURL(ctx, objectKey, 15*time.Minute)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *ExportService) writeSummary(f *excelize.File, report *domain.MonthlyReport) error {
	rows := [][]any{
		{"Relatório mensal", report.Period},
		{},
		{"Faturamento bruto", report.GrossRevenue.StringFixed(2)},
		{"Despesas", report.TotalExpenses.StringFixed(2)},
		{"Comissão", report.Commission.StringFixed(2)},
		{"Saldo", report.Balance.StringFixed(2)},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}

func (s *ExportService) writeServices(f *excelize.File, services []*domain.ServiceRecord) error {
	header := []any{"OS", "Cliente", "Operador", "Placa", "NF", "Valor", "Emissão", "Vencimento", "Status"}
	if err := setRow(f, servicesSheet, 1, header); err != nil {
		return err
	}
	for i, svc := range services {
		row := []any{
			svc.OSNumber,
			svc.Client,
			svc.Operator,
			svc.Plate,
			strOrEmpty(svc.InvoiceNumber),
			svc.GrossAmount.StringFixed(2),
			dateOrEmpty(svc.IssueDate),
			dateOrEmpty(svc.DueDate),
			string(svc.Status),
		}
		if err := setRow(f, servicesSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(servicesSheet, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(servicesSheet, "B", "C", 28); err != nil {
		return err
	}
	return f.SetColWidth(servicesSheet, "F", "H", 14)
}

func (s *ExportService) writeExpenses(f *excelize.File, expenses []*domain.Expense) error {
	header := []any{"Fornecedor", "Descrição", "Placa", "Valor", "Emissão", "Vencimento"}
	if err := setRow(f, expensesSheet, 1, header); err != nil {
		return err
	}
	for i, exp := range expenses {
		row := []any{
			exp.Vendor,
			exp.Description,
			exp.Plate,
			exp.TotalAmount.StringFixed(2),
			dateOrEmpty(exp.IssueDate),
			dateOrEmpty(exp.DueDate),
		}
		if err := setRow(f, expensesSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(expensesSheet, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(expensesSheet, "D", "F", 14)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
