package looks

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// FingerprintCache caches generation responses keyed by request fingerprint.
// Entries expire after the TTL; when the cache is full the least recently
// used entry is evicted. Concurrent misses for the same fingerprint may both
// compute; the later Put wins, which is harmless since generation is
// deterministic for a fixed catalog.
type FingerprintCache struct {
	lru     *expirable.LRU[string, *LooksResponse]
	metrics *MetricsRecorder
}

// NewFingerprintCache creates a cache with the given capacity and TTL.
func NewFingerprintCache(capacity int, ttl time.Duration, metrics *MetricsRecorder) *FingerprintCache {
	return &FingerprintCache{
		lru:     expirable.NewLRU[string, *LooksResponse](capacity, nil, ttl),
		metrics: metrics,
	}
}

// Get returns the cached response for a fingerprint, if present and fresh.
func (c *FingerprintCache) Get(fingerprint string) (*LooksResponse, bool) {
	resp, ok := c.lru.Get(fingerprint)
	if ok {
		c.metrics.RecordCacheHit()
	} else {
		c.metrics.RecordCacheMiss()
	}
	return resp, ok
}

// Put stores a response, replacing any existing entry and resetting its TTL.
func (c *FingerprintCache) Put(fingerprint string, resp *LooksResponse) {
	if evicted := c.lru.Add(fingerprint, resp); evicted {
		c.metrics.RecordCacheEvictions(1)
	}
}

// Flush drops every cached entry.
func (c *FingerprintCache) Flush() {
	n := c.lru.Len()
	c.lru.Purge()
	c.metrics.RecordCacheEvictions(n)
}

// Len returns the number of live entries.
func (c *FingerprintCache) Len() int {
	return c.lru.Len()
}
