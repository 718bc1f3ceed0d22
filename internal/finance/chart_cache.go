package finance

import (
	"sync"
	"time"
)

// ChartCache keeps rendered images for a fixed TTL.
type ChartCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]chartCacheEntry
	now     func() time.Time
}

// NewChartCache returns an empty cache. A non-positive ttl uses DefaultChartCacheTTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	if ttl <= 0 {
		ttl = DefaultChartCacheTTL
	}
	return &ChartCache{ttl: ttl, entries: map[string]chartCacheEntry{}, now: time.Now}
}

// Get returns a copy of the cached image for key if it has not expired.
func (c *ChartCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Before(entry.createdAt.Add(c.ttl)) {
			img := make([]byte, len(entry.image))
			copy(img, entry.image)
			return img, true
		}
		delete(c.entries, key)
	}
	return nil, false
}

// Set stores img under key.
func (c *ChartCache) Set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = chartCacheEntry{createdAt: c.now(), image: img}
	c.mu.Unlock()
}
