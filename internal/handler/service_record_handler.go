package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/middleware"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ServiceRecordHandler handles service record HTTP requests
type ServiceRecordHandler struct {
	serviceRecordService *service.ServiceRecordService
}

// NewServiceRecordHandler creates a new ServiceRecordHandler
func NewServiceRecordHandler(serviceRecordService *service.ServiceRecordService) *ServiceRecordHandler {
	return &ServiceRecordHandler{serviceRecordService: serviceRecordService}
}

// CreateServiceRecordRequest represents the create service record request
type CreateServiceRecordRequest struct {
	OSNumber      string  `json:"osNumber"`
	Client        string  `json:"client"`
	Operator      string  `json:"operator"`
	Plate         string  `json:"plate"`
	InvoiceNumber *string `json:"invoiceNumber"`
	BoletoNumber  *string `json:"boletoNumber"`
	GrossAmount   string  `json:"grossAmount"`
	IssueDate     *string `json:"issueDate"`
	DueDate       *string `json:"dueDate"`
	PaymentDate   *string `json:"paymentDate"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes"`
}

// UpdateServiceRecordRequest represents the update service record request
type UpdateServiceRecordRequest struct {
	OSNumber      string  `json:"osNumber"`
	Client        string  `json:"client"`
	Operator      string  `json:"operator"`
	Plate         string  `json:"plate"`
	InvoiceNumber *string `json:"invoiceNumber"`
	BoletoNumber  *string `json:"boletoNumber"`
	GrossAmount   string  `json:"grossAmount"`
	IssueDate     *string `json:"issueDate"`
	DueDate       *string `json:"dueDate"`
	PaymentDate   *string `json:"paymentDate"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes"`
}

// SplitServiceRecordRequest represents the installment split request
type SplitServiceRecordRequest struct {
	Count int `json:"count"`
}

// PlateLookupResponse represents the plate lookup response
type PlateLookupResponse struct {
	Plate string `json:"plate"`
}

// ServiceRecordResponse represents a service record in API responses
type ServiceRecordResponse struct {
	ID              int32   `json:"id"`
	OSNumber        string  `json:"osNumber"`
	Client          string  `json:"client"`
	Operator        string  `json:"operator"`
	Plate           string  `json:"plate"`
	InvoiceNumber   *string `json:"invoiceNumber"`
	BoletoNumber    *string `json:"boletoNumber"`
	GrossAmount     string  `json:"grossAmount"`
	IssueDate       *string `json:"issueDate"`
	DueDate         *string `json:"dueDate"`
	PaymentDate     *string `json:"paymentDate"`
	Status          string  `json:"status"`
	EffectiveStatus string  `json:"effectiveStatus"`
	DaysOverdue     int     `json:"daysOverdue"`
	Notes           *string `json:"notes"`
	CreatedBy       *string `json:"createdBy"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// toServiceRecordResponse converts a domain service record to an API response
func toServiceRecordResponse(record *domain.ServiceRecord) ServiceRecordResponse {
	today := domain.Today()
	return ServiceRecordResponse{
		ID:              record.ID,
		OSNumber:        record.OSNumber,
		Client:          record.Client,
		Operator:        record.Operator,
		Plate:           record.Plate,
		InvoiceNumber:   record.InvoiceNumber,
		BoletoNumber:    record.BoletoNumber,
		GrossAmount:     record.GrossAmount.StringFixed(2),
		IssueDate:       dateToStringPtr(record.IssueDate),
		DueDate:         dateToStringPtr(record.DueDate),
		PaymentDate:     dateToStringPtr(record.PaymentDate),
		Status:          string(record.Status),
		EffectiveStatus: string(record.EffectiveStatus(today)),
		DaysOverdue:     record.DaysOverdue(today),
		Notes:           record.Notes,
		CreatedBy:       record.CreatedBy,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       record.UpdatedAt.Format(time.RFC3339),
	}
}

func toServiceRecordResponses(records []*domain.ServiceRecord) []ServiceRecordResponse {
	responses := make([]ServiceRecordResponse, len(records))
	for i, record := range records {
		responses[i] = toServiceRecordResponse(record)
	}
	return responses
}

// dateToStringPtr formats an optional civil date as YYYY-MM-DD
func dateToStringPtr(d *domain.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// recordFromRequest builds a domain record from request fields, collecting
// field errors instead of failing on the first one
func recordFromRequest(osNumber, client, operator, plate, grossAmount, status string, invoiceNumber, boletoNumber, issueDate, dueDate, paymentDate, notes *string) (*domain.ServiceRecord, []ValidationError) {
	var fieldErrors []ValidationError

	amount := decimal.Zero
	if grossAmount != "" {
		parsed, err := decimal.NewFromString(grossAmount)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "grossAmount", Message: "Gross amount must be a decimal number"})
		} else {
			amount = parsed
		}
	}

	record := &domain.ServiceRecord{
		OSNumber:      osNumber,
		Client:        client,
		Operator:      operator,
		Plate:         plate,
		InvoiceNumber: invoiceNumber,
		BoletoNumber:  boletoNumber,
		GrossAmount:   amount,
		Status:        domain.ServiceStatus(status),
		Notes:         notes,
	}

	for _, field := range []struct {
		name  string
		value *string
		out   **domain.Date
	}{
		{"issueDate", issueDate, &record.IssueDate},
		{"dueDate", dueDate, &record.DueDate},
		{"paymentDate", paymentDate, &record.PaymentDate},
	} {
		if field.value == nil || *field.value == "" {
			continue
		}
		parsed, err := domain.ParseDate(*field.value)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: field.name, Message: "Date must be in YYYY-MM-DD format"})
			continue
		}
		*field.out = &parsed
	}

	return record, fieldErrors
}

// CreateServiceRecord handles POST /services
func (h *ServiceRecordHandler) CreateServiceRecord(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateServiceRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	record, fieldErrors := recordFromRequest(req.OSNumber, req.Client, req.Operator, req.Plate, req.GrossAmount, req.Status, req.InvoiceNumber, req.BoletoNumber, req.IssueDate, req.DueDate, req.PaymentDate, req.Notes)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	created, err := h.serviceRecordService.Create(record, middleware.GetDisplayName(c))
	if err != nil {
		return h.mapWriteError(c, err)
	}

	log.Info().Int32("service_id", created.ID).Str("os_number", created.OSNumber).Msg("Service record created")

	return c.JSON(http.StatusCreated, toServiceRecordResponse(created))
}

// GetServiceRecords handles GET /services
func (h *ServiceRecordHandler) GetServiceRecords(c echo.Context) error {
	filters := &domain.ServiceRecordFilters{}

	if plate := c.QueryParam("plate"); plate != "" {
		filters.Plate = &plate
	}
	if periodParam := c.QueryParam("period"); periodParam != "" {
		period, err := domain.ParsePeriod(periodParam)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "period", Message: "Period must be 'all' or YYYY-MM"},
			})
		}
		filters.Period = &period
	}
	if search := c.QueryParam("search"); search != "" {
		filters.Search = &search
	}
	if statusParam := c.QueryParam("status"); statusParam != "" {
		status := domain.ServiceStatus(statusParam)
		if !domain.ValidStoredStatus(status) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "status", Message: "Status must be one of: Pendente, Pago, Vencido, Cancelado"},
			})
		}
		filters.Status = &status
	}

	records, err := h.serviceRecordService.List(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list service records")
		return NewInternalError(c, "Failed to list service records")
	}

	return c.JSON(http.StatusOK, toServiceRecordResponses(records))
}

// GetServiceRecord handles GET /services/:id
func (h *ServiceRecordHandler) GetServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid service record ID", nil)
	}

	record, err := h.serviceRecordService.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return NewNotFoundError(c, "Service record not found")
		}
		log.Error().Err(err).Int32("service_id", id).Msg("Failed to get service record")
		return NewInternalError(c, "Failed to get service record")
	}

	return c.JSON(http.StatusOK, toServiceRecordResponse(record))
}

// UpdateServiceRecord handles PUT /services/:id
func (h *ServiceRecordHandler) UpdateServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid service record ID", nil)
	}

	var req UpdateServiceRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	record, fieldErrors := recordFromRequest(req.OSNumber, req.Client, req.Operator, req.Plate, req.GrossAmount, req.Status, req.InvoiceNumber, req.BoletoNumber, req.IssueDate, req.DueDate, req.PaymentDate, req.Notes)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}
	record.ID = id

	updated, err := h.serviceRecordService.Update(record)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return NewNotFoundError(c, "Service record not found")
		}
		return h.mapWriteError(c, err)
	}

	return c.JSON(http.StatusOK, toServiceRecordResponse(updated))
}

// DeleteServiceRecord handles DELETE /services/:id
func (h *ServiceRecordHandler) DeleteServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid service record ID", nil)
	}

	if err := h.serviceRecordService.Delete(id); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return NewNotFoundError(c, "Service record not found")
		}
		log.Error().Err(err).Int32("service_id", id).Msg("Failed to delete service record")
		return NewInternalError(c, "Failed to delete service record")
	}

	return c.NoContent(http.StatusNoContent)
}

// SplitServiceRecord handles POST /services/:id/split
func (h *ServiceRecordHandler) SplitServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid service record ID", nil)
	}

	var req SplitServiceRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Count < 2 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "count", Message: "Installment count must be at least 2"},
		})
	}

	installments, err := h.serviceRecordService.SplitIntoInstallments(id, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrServiceNotFound):
			return NewNotFoundError(c, "Service record not found")
		case errors.Is(err, domain.ErrAlreadySplit):
			return NewConflictError(c, "Service record is already an installment")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Only pending or overdue records can be split", nil)
		default:
			log.Error().Err(err).Int32("service_id", id).Msg("Failed to split service record")
			return NewInternalError(c, "Failed to split service record")
		}
	}

	log.Info().Int32("service_id", id).Int("count", req.Count).Msg("Service record split into installments")

	return c.JSON(http.StatusCreated, toServiceRecordResponses(installments))
}

// LookupPlate handles GET /services/plate-lookup
// Resolves a plate from an OS number or an invoice number, used by the
// expense form to prefill the vehicle.
func (h *ServiceRecordHandler) LookupPlate(c echo.Context) error {
	osNumber := c.QueryParam("osNumber")
	invoiceNumber := c.QueryParam("invoiceNumber")

	var plate string
	var err error
	switch {
	case osNumber != "":
		plate, err = h.serviceRecordService.FindPlateByOSNumber(osNumber)
	case invoiceNumber != "":
		plate, err = h.serviceRecordService.FindPlateByInvoiceNumber(invoiceNumber)
	default:
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "osNumber", Message: "Either osNumber or invoiceNumber is required"},
		})
	}

	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return NewNotFoundError(c, "No service record matches that number")
		}
		log.Error().Err(err).Msg("Plate lookup failed")
		return NewInternalError(c, "Plate lookup failed")
	}

	return c.JSON(http.StatusOK, PlateLookupResponse{Plate: plate})
}

// mapWriteError maps domain validation errors to field-level responses
func (h *ServiceRecordHandler) mapWriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPlateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "Plate is required"},
		})
	case errors.Is(err, domain.ErrVehicleNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "No vehicle registered with this plate"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: Pendente, Pago, Vencido, Cancelado"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Msg("Failed to save service record")
		return NewInternalError(c, "Failed to save service record")
	}
}

// parseIDParam parses the :id path param with overflow protection
func parseIDParam(c echo.Context) (int32, error) {
	v, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid id")
	}
	return int32(v), nil
}
