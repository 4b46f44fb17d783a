package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles expense receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptResponse represents the receipt rendition links
type ReceiptResponse struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// UploadReceipt handles POST /expenses/:id/receipt
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	// If storage isn't configured, don't attempt to process/upload.
	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	_, err = h.receiptService.Attach(c.Request().Context(), id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrImageTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Int32("expense_id", id).Msg("Failed to upload receipt")
			return NewInternalError(c, "Failed to upload receipt")
		}
	}

	urls, err := h.receiptService.URLs(c.Request().Context(), id)
	if err != nil {
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to presign receipt links")
		return NewInternalError(c, "Failed to generate receipt links")
	}

	log.Info().Int32("expense_id", id).Msg("Receipt uploaded")

	return c.JSON(http.StatusCreated, ReceiptResponse{
		ThumbnailURL: urls.ThumbnailURL,
		DisplayURL:   urls.DisplayURL,
		OriginalURL:  urls.OriginalURL,
	})
}

// GetReceipt handles GET /expenses/:id/receipt
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	urls, err := h.receiptService.URLs(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Expense has no receipt")
		default:
			log.Error().Err(err).Int32("expense_id", id).Msg("Failed to presign receipt links")
			return NewInternalError(c, "Failed to generate receipt links")
		}
	}

	return c.JSON(http.StatusOK, ReceiptResponse{
		ThumbnailURL: urls.ThumbnailURL,
		DisplayURL:   urls.DisplayURL,
		OriginalURL:  urls.OriginalURL,
	})
}

// DeleteReceipt handles DELETE /expenses/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	if err := h.receiptService.Detach(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	log.Info().Int32("expense_id", id).Msg("Receipt deleted")

	return c.NoContent(http.StatusNoContent)
}
