package storage

import (
	"context"
	"fmt"

	"farmtap-backend/internal/config"
)

// New selects the storage backend named by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (StorageInterface, error) {
	switch cfg.Type {
	case "mock":
		s, err := NewMockStorageService(cfg.BaseURL, cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Storage(ctx, S3Options{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
