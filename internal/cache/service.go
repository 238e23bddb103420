package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// GenericCacheService stores JSON values under prefixed keys. A nil or disabled
// service answers ErrCacheDisabled so callers can fall through to the database.
type GenericCacheService struct {
	cache  Cache
	prefix string
	ttl    time.Duration
}

// NewGenericCacheService wraps a backend with key prefixing and JSON encoding.
func NewGenericCacheService(backend Cache, prefix string, ttl time.Duration) *GenericCacheService {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &GenericCacheService{cache: backend, prefix: prefix, ttl: ttl}
}

// NewFromConfig builds the configured backend. A disabled cache yields a service whose
// IsEnabled reports false.
func NewFromConfig(cfg platformconfig.CacheConfig) (*GenericCacheService, error) {
	if !cfg.Enabled {
		return NewGenericCacheService(nil, cfg.Prefix, cfg.TTL), nil
	}

	var backend Cache
	switch cfg.Backend {
	case platformconfig.CacheBackendMemory:
		backend = NewMemoryCache(cfg.MaxMemory, cfg.CleanupInterval)
	case platformconfig.CacheBackendRedis:
		rc, err := NewRedisCache(cfg.Redis)
		if err != nil {
			return nil, err
		}
		backend = rc
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, cfg.Backend)
	}
	return NewGenericCacheService(backend, cfg.Prefix, cfg.TTL), nil
}

// IsEnabled returns whether caching is enabled
func (gcs *GenericCacheService) IsEnabled() bool {
	return gcs != nil && gcs.cache != nil
}

// GetCached retrieves and unmarshals cached data into the target interface
func (gcs *GenericCacheService) GetCached(ctx context.Context, key string, target interface{}) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	fullKey := gcs.prefix + key
	data, err := gcs.cache.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Error("Cache get error for key %s: %v", fullKey, err)
		}
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		log.Error("Cache data unmarshal error for key %s: %v", fullKey, err)
		return fmt.Errorf("%w: %v", ErrDeserializationFailed, err)
	}
	return nil
}

// CacheData marshals and stores data in cache with TTL
func (gcs *GenericCacheService) CacheData(ctx context.Context, key string, data interface{}, ttl ...time.Duration) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	cacheTTL := gcs.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		cacheTTL = ttl[0]
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error("Cache data marshal error for key %s: %v", key, err)
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	fullKey := gcs.prefix + key
	if err := gcs.cache.Set(ctx, fullKey, jsonData, cacheTTL); err != nil {
		log.Error("Cache set error for key %s: %v", fullKey, err)
		return err
	}
	return nil
}

// InvalidatePattern removes all cache keys matching the given pattern
func (gcs *GenericCacheService) InvalidatePattern(ctx context.Context, pattern string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	fullPattern := gcs.prefix + pattern
	if err := gcs.cache.DeletePattern(ctx, fullPattern); err != nil {
		log.Error("Cache pattern invalidation error for pattern %s: %v", fullPattern, err)
		return err
	}
	return nil
}

// GenerateHashKey creates a deterministic hash-based cache key from parameters
func (gcs *GenericCacheService) GenerateHashKey(prefix string, params map[string]interface{}) string {
	h := sha256.New()
	h.Write([]byte(prefix + ":"))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var valueStr string
		switch val := params[k].(type) {
		case string:
			valueStr = val
		case nil:
			valueStr = "nil"
		default:
			if jsonVal, err := json.Marshal(val); err == nil {
				valueStr = string(jsonVal)
			} else {
				valueStr = fmt.Sprintf("%v", val)
			}
		}
		h.Write([]byte(fmt.Sprintf("%s=%s;", k, valueStr)))
	}

	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h.Sum(nil))[:16])
}

// Stats returns backend statistics, zero when disabled.
func (gcs *GenericCacheService) Stats() CacheStats {
	if !gcs.IsEnabled() {
		return CacheStats{}
	}
	return gcs.cache.Stats()
}

// Close closes the cache service
func (gcs *GenericCacheService) Close() error {
	if !gcs.IsEnabled() {
		return nil
	}
	return gcs.cache.Close()
}
