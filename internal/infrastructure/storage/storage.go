// Package storage provides object storage backends for uploaded assets.
package storage

import (
	"context"
	"fmt"

	"github.com/dispensa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStorage stores uploaded binary assets such as tenant logos.
// Upload returns the public URL of the stored object.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the storage backend selected by configuration.
func New(cfg *config.StorageConfig, log *zap.Logger) (ObjectStorage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3ObjectStorage(cfg, log)
	case "stub", "":
		return NewStubObjectStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
