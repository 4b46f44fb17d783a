package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// DocumentRepository defines the interface for object storage operations.
// It holds expense receipt images and archived report workbooks.
type DocumentRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for an entity document
func GenerateObjectPath(entityType string, entityID int32, variant string, ext string) string {
	id := uuid.New().String()
	filename := fmt.Sprintf("%s_%s%s", id, variant, ext)
	return path.Join(entityType, fmt.Sprintf("%d", entityID), filename)
}

// GenerateExportPath creates the object path for an archived report workbook
func GenerateExportPath(period string) string {
	return path.Join("exports", fmt.Sprintf("relatorio_%s_%s.xlsx", period, uuid.New().String()))
}
