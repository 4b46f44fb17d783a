package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize  = 5 * 1024 * 1024 // 5MB
	MinImageWidth   = 50
	MinImageHeight  = 50
	ThumbnailWidth  = 200
	DisplayWidth    = 800
	JPEGQuality     = 85
	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge     = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat       = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall       = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData    = errors.New("invalid image data")
	ErrStorageNotConfigured = errors.New("receipt storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var receiptVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ThumbnailWidth},
	{"display", DisplayWidth},
	{"original", 0}, // 0 means keep original size
}

// ReceiptURLs carries presigned links for the receipt renditions
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService processes expense receipt images and stores their
// renditions in object storage. The expense row keeps only the base
// object key; presigned URLs are generated on demand.
type ReceiptService struct {
	expenseRepo domain.ExpenseRepository
	storage     storage.DocumentRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(expenseRepo domain.ExpenseRepository, storage storage.DocumentRepository) *ReceiptService {
	return &ReceiptService{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	// Decode to verify the payload is a real image and check dimensions
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// Attach validates and processes a receipt image for an expense, uploads the
// thumb/display/original renditions and records the base key on the expense.
// A previously attached receipt is removed first.
func (s *ReceiptService) Attach(ctx context.Context, expenseID int32, data []byte, filename string) (*domain.Expense, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	baseKey := fmt.Sprintf("expenses/%d/%s", expenseID, uuid.New().String())

	uploaded := make([]string, 0, len(receiptVariants))
	for _, variant := range receiptVariants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		key := variantKey(baseKey, variant.name)
		if _, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			// Clean up any renditions already uploaded
			for _, k := range uploaded {
				_ = s.storage.Delete(ctx, k)
			}
			return nil, fmt.Errorf("failed to upload %s rendition: %w", variant.name, err)
		}
		uploaded = append(uploaded, key)
	}

	previous := expense.ReceiptKey
	if err := s.expenseRepo.SetReceiptKey(expenseID, &baseKey); err != nil {
		for _, k := range uploaded {
			_ = s.storage.Delete(ctx, k)
		}
		return nil, err
	}
	if previous != nil {
		s.deleteRenditions(ctx, *previous)
	}

	log.Info().
		Int32("expense_id", expenseID).
		Str("receipt_key", baseKey).
		Msg("receipt attached")

	expense.ReceiptKey = &baseKey
	return expense, nil
}

// URLs returns presigned links for the receipt renditions of an expense
func (s *ReceiptService) URLs(ctx context.Context, expenseID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptKey == nil {
		return nil, fmt.Errorf("%w: expense has no receipt", domain.ErrNotFound)
	}

	urls := &ReceiptURLs{}
	targets := map[string]*string{
		"thumb":    &urls.ThumbnailURL,
		"display":  &urls.DisplayURL,
		"original": &urls.OriginalURL,
	}
	for name, dest := range targets {
		url, err := s.storage.GeneratePresignedURL(ctx, variantKey(*expense.ReceiptKey, name), receiptURLExpiry)
		if err != nil {
			return nil, err
		}
		*dest = url
	}
	return urls, nil
}

// Detach removes the receipt renditions and clears the key on the expense
func (s *ReceiptService) Detach(ctx context.Context, expenseID int32) error {
	if !s.IsEnabled() {
		return ErrStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptKey == nil {
		return nil
	}

	s.deleteRenditions(ctx, *expense.ReceiptKey)
	return s.expenseRepo.SetReceiptKey(expenseID, nil)
}

// deleteRenditions removes all renditions for a base key, best effort
func (s *ReceiptService) deleteRenditions(ctx context.Context, baseKey string) {
	for _, variant := range receiptVariants {
		if err := s.storage.Delete(ctx, variantKey(baseKey, variant.name)); err != nil {
			log.Warn().Err(err).Str("receipt_key", baseKey).Msg("failed to delete receipt rendition")
		}
	}
}

func variantKey(baseKey, variant string) string {
	return fmt.Sprintf("%s_%s.jpg", baseKey, variant)
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
