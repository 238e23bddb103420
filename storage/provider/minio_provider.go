// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// minioProvider implements BlobProvider against a MinIO deployment.
type minioProvider struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

// NewMinioProvider creates a MinIO provider from configuration. Region is passed to the
// client so presigning never needs a bucket-location round trip.
func NewMinioProvider(cfg platformconfig.StorageConfig) (BlobProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("MINIO_MEDIA_BUCKET is required")
	}

	host, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &minioProvider{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: cfg.PublicURL,
	}, nil
}

func (p *minioProvider) PresignPut(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	u, err := p.client.PresignedPutObject(ctx, p.bucket, key, expiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}
	return u.String(), nil
}

func (p *minioProvider) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (p *minioProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (p *minioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	return nil
}

func (p *minioProvider) ObjectURL(key string) string {
	return objectURL(p.publicURL, p.bucket, key, true)
}

func (p *minioProvider) Bucket() string {
	return p.bucket
}
