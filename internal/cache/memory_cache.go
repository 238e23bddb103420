package cache

import (
	"context"
	"path"
	"sync"
	"sync/atomic"
	"time"
)

type cacheItem struct {
	value      []byte
	expiration time.Time
}

// MemoryCache implements Cache in process memory. Entries past maxMemory are evicted
// oldest-expiry first.
type MemoryCache struct {
	mu            sync.Mutex
	items         map[string]*cacheItem
	maxMemory     int64
	currentMemory int64
	hits          int64
	misses        int64
	evictions     int64
	stop          chan struct{}
	closeOnce     sync.Once
}

// NewMemoryCache creates a memory cache and starts its cleanup loop.
func NewMemoryCache(maxMemory int64, cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:     make(map[string]*cacheItem),
		maxMemory: maxMemory,
		stop:      make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expiration) {
		if ok {
			c.remove(key, item)
		}
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[key]; ok {
		c.remove(key, old)
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	c.items[key] = &cacheItem{value: valueCopy, expiration: time.Now().Add(ttl)}
	c.currentMemory += int64(len(key) + len(valueCopy))

	c.evictIfNeeded()
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[key]; ok {
		c.remove(key, item)
	}
	return nil
}

// DeletePattern removes all keys matching the given pattern
func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if matched, _ := path.Match(pattern, key); matched {
			c.remove(key, item)
		}
	}
	return nil
}

// Close stops the cleanup loop.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() { close(c.stop) })
	return nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	keys := int64(len(c.items))
	c.mu.Unlock()
	return CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Keys:      keys,
		Evictions: atomic.LoadInt64(&c.evictions),
	}
}

// remove must be called with mu held.
func (c *MemoryCache) remove(key string, item *cacheItem) {
	delete(c.items, key)
	c.currentMemory -= int64(len(key) + len(item.value))
}

// evictIfNeeded must be called with mu held.
func (c *MemoryCache) evictIfNeeded() {
	for c.maxMemory > 0 && c.currentMemory > c.maxMemory && len(c.items) > 0 {
		var oldestKey string
		var oldest *cacheItem
		for key, item := range c.items {
			if oldest == nil || item.expiration.Before(oldest.expiration) {
				oldestKey, oldest = key, item
			}
		}
		c.remove(oldestKey, oldest)
		atomic.AddInt64(&c.evictions, 1)
	}
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, item := range c.items {
				if now.After(item.expiration) {
					c.remove(key, item)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
