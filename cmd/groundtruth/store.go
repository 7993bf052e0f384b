package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/blobstore"
	"github.com/hupe1980/groundtruth/blobstore/minio"
	"github.com/hupe1980/groundtruth/blobstore/s3"
	"github.com/hupe1980/groundtruth/internal/config"
)

// openStore builds the dataset store selected by cfg.Storage.
func openStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	sc := cfg.Storage

	switch sc.Backend {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Dataset.Path), nil

	case "s3":
		opts := []s3.Option{s3.WithPrefix(sc.Prefix)}
		if sc.Region != "" {
			opts = append(opts, s3.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(sc.Endpoint))
		}
		store, err := s3.New(ctx, sc.Bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil

	case "minio":
		opts := []minio.Option{
			minio.WithPrefix(sc.Prefix),
			minio.WithSecure(sc.Secure),
		}
		if sc.Region != "" {
			opts = append(opts, minio.WithRegion(sc.Region))
		}
		if sc.AccessKey != "" {
			opts = append(opts, minio.WithCredentials(sc.AccessKey, sc.SecretKey))
		}
		store, err := minio.New(sc.Endpoint, sc.Bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("minio store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", groundtruth.ErrInvalidConfig, sc.Backend)
	}
}
