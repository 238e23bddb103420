// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"
)

// MemoryProvider keeps objects in memory. It backs service tests and local runs
// without an object store.
type MemoryProvider struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	bucket    string
	publicURL string

	// FailPresign and FailDelete inject errors.
	FailPresign error
	FailDelete  error
}

func NewMemoryProvider(bucket, publicURL string) *MemoryProvider {
	return &MemoryProvider{
		objects:   make(map[string][]byte),
		types:     make(map[string]string),
		bucket:    bucket,
		publicURL: publicURL,
	}
}

func (m *MemoryProvider) PresignPut(_ context.Context, key string, expiresIn time.Duration) (string, error) {
	if m.FailPresign != nil {
		return "", m.FailPresign
	}
	q := url.Values{}
	q.Set("X-Amz-Expires", fmt.Sprintf("%d", int(expiresIn.Seconds())))
	return objectURL(m.publicURL, m.bucket, key, true) + "?" + q.Encode(), nil
}

func (m *MemoryProvider) PutObject(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = data
	m.types[key] = contentType
	m.mu.Unlock()
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.mu.Lock()
	delete(m.objects, key)
	delete(m.types, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryProvider) EnsureBucket(context.Context) error { return nil }

func (m *MemoryProvider) ObjectURL(key string) string {
	return objectURL(m.publicURL, m.bucket, key, true)
}

func (m *MemoryProvider) Bucket() string { return m.bucket }

// Object returns a stored object and its content type.
func (m *MemoryProvider) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, m.types[key], ok
}

// Keys lists stored keys in order.
func (m *MemoryProvider) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
