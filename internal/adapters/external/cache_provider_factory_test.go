package external

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/config"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

func TestCacheProviderFactory_CreateCacheProvider(t *testing.T) {
	factory := NewCacheProviderFactory()
	_, redisConfig := setupMockRedis(t)

	tests := []struct {
		name      string
		config    *config.Config
		expected  interface{}
		errorType errors.ErrorType
	}{
		{name: "NilConfig", errorType: errors.ConfigurationError},
		{
			name:     "Memory",
			config:   &config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendMemory}},
			expected: &MemoryCacheProvider{},
		},
		{
			name:     "DatabaseUsesMemory",
			config:   &config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendDatabase}},
			expected: &MemoryCacheProvider{},
		},
		{
			name:     "Redis",
			config:   &config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendRedis}, Redis: *redisConfig},
			expected: &RedisCacheProviderAdapter{},
		},
		{
			name:      "Unknown",
			config:    &config.Config{},
			errorType: errors.ConfigurationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.CreateCacheProvider(tt.config)

			if tt.expected == nil {
				assert.Nil(t, provider)
				assert.Equal(t, tt.errorType, errors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.expected, provider)
		})
	}
}

func TestMemoryCacheProvider_Operations(t *testing.T) {
	provider := NewMemoryCacheProvider()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		value := []byte("test-value")
		require.NoError(t, provider.Set(ctx, "test-key", value, time.Minute))

		value[0] = 'X'
		retrieved, err := provider.Get(ctx, "test-key")
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(retrieved))
	})

	t.Run("Miss", func(t *testing.T) {
		retrieved, err := provider.Get(ctx, "non-existent-key")

		assert.Nil(t, retrieved)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("DeleteAndExists", func(t *testing.T) {
		require.NoError(t, provider.Set(ctx, "delete-key", []byte("v"), time.Minute))

		exists, err := provider.Exists(ctx, "delete-key")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, provider.Delete(ctx, "delete-key"))
		exists, err = provider.Exists(ctx, "delete-key")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, provider.Set(ctx, "clear-key", []byte("v"), time.Minute))
		require.NoError(t, provider.Clear(ctx))

		_, err := provider.Get(ctx, "clear-key")
		assert.Error(t, err)
	})
}

func TestMemoryCacheProvider_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	provider := NewMemoryCacheProvider()
	provider.clock = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "ttl-key", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := provider.Get(ctx, "ttl-key")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = provider.Get(ctx, "ttl-key")
	assert.True(t, errors.IsNotFoundError(err))

	provider.mutex.RLock()
	_, kept := provider.data["ttl-key"]
	provider.mutex.RUnlock()
	assert.False(t, kept)
}

func TestMemoryCacheProvider_ValidationErrors(t *testing.T) {
	provider := NewMemoryCacheProvider()
	ctx := context.Background()

	tests := []struct {
		name      string
		operation func() error
	}{
		{"GetEmptyKey", func() error { _, err := provider.Get(ctx, ""); return err }},
		{"SetEmptyKey", func() error { return provider.Set(ctx, "", []byte("value"), time.Minute) }},
		{"SetNilValue", func() error { return provider.Set(ctx, "key", nil, time.Minute) }},
		{"SetZeroTTL", func() error { return provider.Set(ctx, "key", []byte("value"), 0) }},
		{"DeleteEmptyKey", func() error { return provider.Delete(ctx, "") }},
		{"ExistsEmptyKey", func() error { _, err := provider.Exists(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsValidationError(tt.operation()))
		})
	}
}

func TestMemoryCacheProvider_Metrics(t *testing.T) {
	provider := NewMemoryCacheProvider()
	ctx := context.Background()

	stats := provider.GetStats()
	assert.Equal(t, int64(0), stats.TotalOps)
	assert.Equal(t, float64(0), stats.HitRatio)

	require.NoError(t, provider.Set(ctx, "metrics-key", []byte("v"), time.Minute))
	_, err := provider.Get(ctx, "metrics-key")
	require.NoError(t, err)
	_, err = provider.Get(ctx, "non-existent")
	require.Error(t, err)
	_, err = provider.Get(ctx, "metrics-key")
	require.NoError(t, err)

	stats = provider.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(3), stats.TotalOps)
	assert.Equal(t, float64(2)/float64(3), stats.HitRatio)

	var _ ports.CacheProvider = provider
	var _ ports.CacheMetrics = provider
}

func TestCacheParamStore(t *testing.T) {
	ctx := context.Background()
	_, redisCache := newTestRedisCache(t)

	caches := map[string]ports.CacheProvider{
		"Memory": NewMemoryCacheProvider(),
		"Redis":  redisCache,
	}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			store := NewCacheParamStore(cache, time.Hour)

			_, err := store.Get(ctx, "settings:nobody")
			assert.True(t, errors.IsNotFoundError(err))

			require.NoError(t, store.Put(ctx, "settings:abc", `{"units":"metric"}`))
			value, err := store.Get(ctx, "settings:abc")
			require.NoError(t, err)
			assert.Equal(t, `{"units":"metric"}`, value)
		})
	}
}
