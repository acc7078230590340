package external

import (
	"sync/atomic"
	"time"

	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// cacheCounters tracks lookups for a cache adapter
type cacheCounters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *cacheCounters) recordHit() {
	c.hits.Add(1)
}

func (c *cacheCounters) recordMiss() {
	c.misses.Add(1)
}

func (c *cacheCounters) stats() ports.CacheStats {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        hits,
		Misses:      misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}

func validateCacheKey(key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	return nil
}

func validateCacheEntry(key string, value []byte, ttl time.Duration) error {
	if err := validateCacheKey(key); err != nil {
		return err
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}
	return nil
}
