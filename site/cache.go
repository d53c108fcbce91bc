// ABOUTME: In-memory render cache that wraps an index rendering function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package site

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RenderFunc is the signature of an index rendering function the cache
// wraps. The fingerprint identifies the directory state being rendered.
type RenderFunc func(ctx context.Context, fingerprint string) ([]byte, error)

// cacheEntry holds a single cached render result with its creation timestamp.
type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache wraps an index rendering function with an in-memory cache.
// Cache keys are derived from the sha256 hash of the directory fingerprint,
// so any file change produces a new key. Entries expire after the TTL.
type RenderCache struct {
	renderFn RenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewRenderCache creates a RenderCache wrapping the given rendering
// function. Cached entries expire after the specified TTL duration.
func NewRenderCache(renderFn RenderFunc, ttl time.Duration) *RenderCache {
	return &RenderCache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render returns the rendered index for the given directory fingerprint,
// serving cached results when available and not expired. Errors are never
// cached.
func (c *RenderCache) Render(ctx context.Context, fingerprint string) ([]byte, error) {
	key := cacheKey(fingerprint)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			data := entry.data
			c.mu.RUnlock()
			return data, nil
		}
	}
	c.mu.RUnlock()

	data, err := c.renderFn(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{data: data, createdAt: time.Now()}
	c.mu.Unlock()

	return data, nil
}

// Clear drops all cached entries.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Size returns the number of cached entries, expired or not.
func (c *RenderCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey derives a cache key from the sha256 of the fingerprint.
func cacheKey(fingerprint string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(fingerprint)))
}
