package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/middleware"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the create/update expense request
type ExpenseRequest struct {
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Plate       string  `json:"plate"`
	TotalAmount string  `json:"totalAmount"`
	IssueDate   *string `json:"issueDate"`
	DueDate     *string `json:"dueDate"`
	Notes       *string `json:"notes"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32   `json:"id"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Plate       string  `json:"plate"`
	TotalAmount string  `json:"totalAmount"`
	IssueDate   *string `json:"issueDate"`
	DueDate     *string `json:"dueDate"`
	Notes       *string `json:"notes"`
	HasReceipt  bool    `json:"hasReceipt"`
	CreatedBy   *string `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// toExpenseResponse converts a domain expense to an API response
func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		Vendor:      expense.Vendor,
		Description: expense.Description,
		Plate:       expense.Plate,
		TotalAmount: expense.TotalAmount.StringFixed(2),
		IssueDate:   dateToStringPtr(expense.IssueDate),
		DueDate:     dateToStringPtr(expense.DueDate),
		Notes:       expense.Notes,
		HasReceipt:  expense.ReceiptKey != nil,
		CreatedBy:   expense.CreatedBy,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
}

// expenseFromRequest builds a domain expense from request fields
func expenseFromRequest(req *ExpenseRequest) (*domain.Expense, []ValidationError) {
	var fieldErrors []ValidationError

	amount := decimal.Zero
	if req.TotalAmount != "" {
		parsed, err := decimal.NewFromString(req.TotalAmount)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "totalAmount", Message: "Total amount must be a decimal number"})
		} else {
			amount = parsed
		}
	}

	expense := &domain.Expense{
		Vendor:      req.Vendor,
		Description: req.Description,
		Plate:       req.Plate,
		TotalAmount: amount,
		Notes:       req.Notes,
	}

	if req.IssueDate != nil && *req.IssueDate != "" {
		parsed, err := domain.ParseDate(*req.IssueDate)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "issueDate", Message: "Date must be in YYYY-MM-DD format"})
		} else {
			expense.IssueDate = &parsed
		}
	}
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := domain.ParseDate(*req.DueDate)
		if err != nil {
			fieldErrors = append(fieldErrors, ValidationError{Field: "dueDate", Message: "Date must be in YYYY-MM-DD format"})
		} else {
			expense.DueDate = &parsed
		}
	}

	return expense, fieldErrors
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expense, fieldErrors := expenseFromRequest(&req)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	created, err := h.expenseService.Create(expense, middleware.GetDisplayName(c))
	if err != nil {
		return h.mapWriteError(c, err)
	}

	log.Info().Int32("expense_id", created.ID).Str("vendor", created.Vendor).Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(created))
}

// GetExpenses handles GET /expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filters := &domain.ExpenseFilters{}

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

	expenses, err := h.expenseService.List(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		responses[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetExpense handles GET /expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expense, fieldErrors := expenseFromRequest(&req)
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}
	expense.ID = id

	updated, err := h.expenseService.Update(expense)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		return h.mapWriteError(c, err)
	}

	return c.JSON(http.StatusOK, toExpenseResponse(updated))
}

// DeleteExpense handles DELETE /expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.Delete(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapWriteError maps domain validation errors to field-level responses
func (h *ExpenseHandler) mapWriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPlateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "Plate is required"},
		})
	case errors.Is(err, domain.ErrVehicleNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "plate", Message: "No vehicle registered with this plate"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Msg("Failed to save expense")
		return NewInternalError(c, "Failed to save expense")
	}
}
