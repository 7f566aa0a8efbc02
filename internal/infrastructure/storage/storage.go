// Package storage keeps uploaded screenshots on the local filesystem or in S3.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"coparent-api/internal/config"
	"coparent-api/internal/domain/upload"
)

const (
	BackendLocal = config.StorageBackendLocal
	BackendS3    = config.StorageBackendS3
)

// Backend is an upload store that can report its health.
type Backend interface {
	upload.Storage
	Health(ctx context.Context) error
}

var (
	_ Backend = (*LocalStorage)(nil)
	_ Backend = (*S3Storage)(nil)
)

// New builds the backend selected by UPLOAD_STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	switch cfg.UploadStorageBackend {
	case BackendLocal:
		return NewLocalStorage(cfg.UploadLocalPath, cfg.UploadPublicBaseURL, log)
	case BackendS3:
		return NewS3Storage(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.UploadStorageBackend)
	}
}
