package external

import (
	"fmt"

	"briefsky.app/internal/config"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

type CacheProviderFactory struct{}

func NewCacheProviderFactory() *CacheProviderFactory {
	return &CacheProviderFactory{}
}

// CreateCacheProvider picks the cache for a storage backend. The database
// backend keeps settings in SQL, so its snapshots live in memory.
func (f *CacheProviderFactory) CreateCacheProvider(cfg *config.Config) (ports.CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("config cannot be nil", nil)
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory, config.StorageBackendDatabase:
		return NewMemoryCacheProvider(), nil
	case config.StorageBackendRedis:
		cache, err := NewRedisCacheProviderAdapter(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return cache, nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported storage backend: %s", cfg.Storage.Backend.String()), nil)
	}
}
