// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"io"
	"strings"
	"time"
)

// BlobProvider defines the object storage gateway. Implementations are
// provider-agnostic: S3, Cloudflare R2 and MinIO all sit behind it.
type BlobProvider interface {
	// PresignPut returns a URL the client can PUT the object bytes to directly.
	PresignPut(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// PutObject stores bytes server-side.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete physically deletes the object.
	Delete(ctx context.Context, key string) error

	// EnsureBucket creates the bucket when it does not exist yet.
	EnsureBucket(ctx context.Context) error

	// ObjectURL is the public URL clients read the object from.
	ObjectURL(key string) string

	// Bucket is the bucket all keys live in.
	Bucket() string
}

// objectURL joins a public base with the object key. Path-style endpoints include the
// bucket segment, virtual-hosted or CDN bases do not.
func objectURL(publicURL, bucket, key string, pathStyle bool) string {
	base := strings.TrimSuffix(publicURL, "/")
	key = strings.TrimPrefix(key, "/")
	if pathStyle {
		return base + "/" + bucket + "/" + key
	}
	return base + "/" + key
}

// splitEndpoint strips an http(s) scheme, reporting whether it was https.
func splitEndpoint(endpoint string, defaultSecure bool) (host string, secure bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), defaultSecure
	}
}
