package external

import (
	"context"
	"fmt"
	"time"

	"briefsky.app/internal/ports"
)

// CacheParamStore keeps settings records in a CacheProvider. Records expire
// ttl after their last write.
type CacheParamStore struct {
	cache ports.CacheProvider
	ttl   time.Duration
}

// NewCacheParamStore creates a ParamStore backed by cache
func NewCacheParamStore(cache ports.CacheProvider, ttl time.Duration) *CacheParamStore {
	return &CacheParamStore{cache: cache, ttl: ttl}
}

// Get returns the record at key. A missing record is a NotFound error.
func (s *CacheParamStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("reading settings record: %w", err)
	}
	return string(value), nil
}

func (s *CacheParamStore) Put(ctx context.Context, key, value string) error {
	if err := s.cache.Set(ctx, key, []byte(value), s.ttl); err != nil {
		return fmt.Errorf("writing settings record: %w", err)
	}
	return nil
}
