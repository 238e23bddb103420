package provider

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

func testStorageConfig(provider string) platformconfig.StorageConfig {
	return platformconfig.StorageConfig{
		Enabled:      true,
		Provider:     provider,
		Endpoint:     "http://localhost:9000",
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Bucket:       "friendflix-media",
		PublicURL:    "http://cdn.local:9000",
		UsePathStyle: true,
	}
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://h/b/media/u/m/f.mp4", objectURL("http://h/", "b", "media/u/m/f.mp4", true))
	assert.Equal(t, "https://cdn/media/f.jpg", objectURL("https://cdn", "b", "/media/f.jpg", false))
}

func TestSplitEndpoint(t *testing.T) {
	host, secure := splitEndpoint("https://r2.example.com/", false)
	assert.Equal(t, "r2.example.com", host)
	assert.True(t, secure)

	host, secure = splitEndpoint("minio:9000", true)
	assert.Equal(t, "minio:9000", host)
	assert.True(t, secure)
}

func TestNewDisabled(t *testing.T) {
	p, err := New(platformconfig.StorageConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := testStorageConfig("ftp")
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestMinioPresignPut(t *testing.T) {
	p, err := New(testStorageConfig(platformconfig.StorageProviderMinio))
	require.NoError(t, err)

	raw, err := p.PresignPut(context.Background(), "uploads/m1/chunk-0", 24*time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/friendflix-media/uploads/m1/chunk-0", u.Path)
	assert.Equal(t, "86400", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "http://cdn.local:9000/friendflix-media/media/u/m/a.mp4", p.ObjectURL("media/u/m/a.mp4"))
}

func TestS3PresignPut(t *testing.T) {
	p, err := New(testStorageConfig(platformconfig.StorageProviderS3))
	require.NoError(t, err)

	raw, err := p.PresignPut(context.Background(), "uploads/m1/chunk-3", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/friendflix-media/uploads/m1/chunk-3", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "friendflix-media", p.Bucket())
}

func TestS3RequiresCredentials(t *testing.T) {
	cfg := testStorageConfig(platformconfig.StorageProviderS3)
	cfg.AccessKey = ""
	_, err := NewS3Provider(cfg)
	assert.Error(t, err)
}

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider("b", "http://local")

	require.NoError(t, p.PutObject(ctx, "stories/u/1_a.jpg", bytes.NewReader([]byte("img")), 3, "image/jpeg"))
	data, ct, ok := p.Object("stories/u/1_a.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("img"), data)
	assert.Equal(t, "image/jpeg", ct)

	require.NoError(t, p.Delete(ctx, "stories/u/1_a.jpg"))
	assert.Empty(t, p.Keys())
}
