package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles monthly report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// MonthlyReportResponse represents the month-close statement
type MonthlyReportResponse struct {
	Period        string                  `json:"period"`
	GrossRevenue  string                  `json:"grossRevenue"`
	TotalExpenses string                  `json:"totalExpenses"`
	Commission    string                  `json:"commission"`
	Balance       string                  `json:"balance"`
	Services      []ServiceRecordResponse `json:"services"`
	Expenses      []ExpenseResponse       `json:"expenses"`
}

// DriverSettlementResponse represents one driver's pay line
type DriverSettlementResponse struct {
	DriverID          int32  `json:"driverId"`
	Name              string `json:"name"`
	MonthRevenue      string `json:"monthRevenue"`
	CommissionPercent string `json:"commissionPercent"`
	Commission        string `json:"commission"`
	Discounts         string `json:"discounts"`
	FinalAmount       string `json:"finalAmount"`
}

// ArchiveReportResponse represents an archived report reference
type ArchiveReportResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// parseMonthPeriod parses the period query param, rejecting "all".
// Month-close figures only make sense for a single calendar month.
func parseMonthPeriod(c echo.Context) (domain.Period, error) {
	period, err := domain.ParsePeriod(c.QueryParam("period"))
	if err != nil || period.IsAll() {
		return domain.Period{}, errors.New("invalid period")
	}
	return period, nil
}

// GetMonthlyReport handles GET /reports/monthly
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	period, err := parseMonthPeriod(c)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be a specific month in YYYY-MM format"},
		})
	}

	report, err := h.reportService.MonthlyReport(period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("period", period.String()).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	expenses := make([]ExpenseResponse, len(report.Expenses))
	for i, expense := range report.Expenses {
		expenses[i] = toExpenseResponse(expense)
	}

	return c.JSON(http.StatusOK, MonthlyReportResponse{
		Period:        report.Period,
		GrossRevenue:  report.GrossRevenue.StringFixed(2),
		TotalExpenses: report.TotalExpenses.StringFixed(2),
		Commission:    report.Commission.StringFixed(2),
		Balance:       report.Balance.StringFixed(2),
		Services:      toServiceRecordResponses(report.Services),
		Expenses:      expenses,
	})
}

// GetDriverSettlements handles GET /reports/settlements
func (h *ReportHandler) GetDriverSettlements(c echo.Context) error {
	period, err := parseMonthPeriod(c)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be a specific month in YYYY-MM format"},
		})
	}

	settlements, err := h.reportService.DriverSettlements(period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("period", period.String()).Msg("Failed to build driver settlements")
		return NewInternalError(c, "Failed to build driver settlements")
	}

	responses := make([]DriverSettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = DriverSettlementResponse{
			DriverID:          s.DriverID,
			Name:              s.Name,
			MonthRevenue:      s.MonthRevenue.StringFixed(2),
			CommissionPercent: s.CommissionPercent.StringFixed(2),
			Commission:        s.Commission.StringFixed(2),
			Discounts:         s.Discounts.StringFixed(2),
			FinalAmount:       s.FinalAmount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, responses)
}

// ExportMonthlyReport handles GET /reports/monthly/export
// Streams the month-close spreadsheet as an XLSX download.
func (h *ReportHandler) ExportMonthlyReport(c echo.Context) error {
	period, err := parseMonthPeriod(c)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be a specific month in YYYY-MM format"},
		})
	}

	data, err := h.exportService.MonthlyReportXLSX(period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("period", period.String()).Msg("Failed to export monthly report")
		return NewInternalError(c, "Failed to export monthly report")
	}

	filename := fmt.Sprintf("relatorio_%s.xlsx", period.String())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ArchiveMonthlyReport handles POST /reports/monthly/archive
// Builds the spreadsheet and stores a copy in object storage, returning
// a presigned link to the archived file.
func (h *ReportHandler) ArchiveMonthlyReport(c echo.Context) error {
	period, err := parseMonthPeriod(c)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be a specific month in YYYY-MM format"},
		})
	}

	_, key, err := h.exportService.ArchiveMonthlyReport(c.Request().Context(), period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("period", period.String()).Msg("Failed to archive monthly report")
		return NewInternalError(c, "Failed to archive monthly report")
	}
	if key == "" {
		return NewServiceUnavailableError(c, "Report archiving is disabled (storage not configured)")
	}

	url, err := h.exportService.ArchivedReportURL(c.Request().Context(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to presign archived report")
		return NewInternalError(c, "Failed to generate archive link")
	}

	log.Info().Str("period", period.String()).Str("key", key).Msg("Monthly report archived")

	return c.JSON(http.StatusCreated, ArchiveReportResponse{Key: key, URL: url})
}
