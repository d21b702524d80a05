package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
// Ingested source documents are archived here after indexing; the
// searchable chunks themselves live in the document store.
type FileStorage interface {
	// PutObject uploads an object under the given key.
	PutObject(ctx context.Context, objectKey string, body io.Reader, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading the original document.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
