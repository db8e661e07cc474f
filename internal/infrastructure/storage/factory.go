package storage

import (
	"context"
	"fmt"

	"video-svc/internal/domain/repositories"
	"video-svc/internal/pkg/config"
)

func NewDataStorage(ctx context.Context, cfg config.StorageConfig) (repositories.DataStorage, error) {
	switch cfg.Type {
	case config.StorageLocal:
		return NewLocalStorage(cfg.UploadsDir), nil
	case config.StorageS3:
		return NewS3Storage(ctx, cfg.Bucket, cfg.Region)
	case config.StorageMinio:
		return NewMinioStorage(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	}
	return nil, fmt.Errorf("unknown data storage %q", cfg.Type)
}
