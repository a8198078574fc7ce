package main

import (
	"context"
	"fmt"

	"github.com/utafrali/catalog/internal/config"
	"github.com/utafrali/catalog/internal/storage"
	"github.com/utafrali/catalog/internal/storage/cloudinary"
	"github.com/utafrali/catalog/internal/storage/memory"
	"github.com/utafrali/catalog/internal/storage/s3store"
)

// newUploader builds the storage backend selected by MEDIA_STORAGE.
func newUploader(ctx context.Context, cfg *config.MigrateConfig) (storage.Uploader, error) {
	switch cfg.Storage {
	case config.StorageCloudinary:
		ccfg := cloudinary.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		}
		if cfg.CloudinaryURL != "" {
			parsed, err := cloudinary.ParseURL(cfg.CloudinaryURL)
			if err != nil {
				return nil, err
			}
			ccfg = parsed
		}
		return cloudinary.New(ccfg, nil), nil

	case config.StorageS3:
		store, err := s3store.New(ctx, s3store.Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return store, nil

	case config.StorageMemory:
		return memory.New(cfg.MemoryBaseURL), nil
	}
	return nil, fmt.Errorf("unknown media storage %q", cfg.Storage)
}
