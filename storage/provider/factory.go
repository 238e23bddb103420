// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// New builds the configured provider. A disabled gateway returns (nil, nil); callers
// treat a nil provider as unavailable storage.
func New(cfg platformconfig.StorageConfig) (BlobProvider, error) {
	if !cfg.Enabled {
		log.Warn("Object storage disabled, media uploads will answer 503")
		return nil, nil
	}

	switch cfg.Provider {
	case platformconfig.StorageProviderS3:
		return NewS3Provider(cfg)
	case platformconfig.StorageProviderMinio:
		return NewMinioProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// Bootstrap ensures the bucket exists when configured to. Failure is logged and the
// provider is kept; individual operations will surface their own errors.
func Bootstrap(ctx context.Context, p BlobProvider, cfg platformconfig.StorageConfig) {
	if p == nil || !cfg.EnsureBucket {
		return
	}
	if err := p.EnsureBucket(ctx); err != nil {
		log.Error("Storage bucket check failed: %v", err)
		return
	}
	log.Info("Storage bucket %s ready (%s)", p.Bucket(), cfg.Provider)
}
