package external

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/config"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// setupMockRedis creates a mock Redis server for testing
func setupMockRedis(t *testing.T) (*miniredis.Miniredis, *config.RedisConfig) {
	t.Helper()

	mockRedis := miniredis.RunT(t)

	return mockRedis, &config.RedisConfig{
		Addr:         mockRedis.Addr(),
		KeyPrefix:    "briefsky:",
		DialTimeout:  5,
		ReadTimeout:  3,
		WriteTimeout: 3,
	}
}

func newTestRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisCacheProviderAdapter) {
	t.Helper()

	mockRedis, cfg := setupMockRedis(t)
	adapter, err := NewRedisCacheProviderAdapter(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return mockRedis, adapter
}

func TestRedisCacheProviderAdapter_NewRedisCacheProviderAdapter(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		adapter, err := NewRedisCacheProviderAdapter(nil)

		assert.Nil(t, adapter)
		assert.True(t, errors.IsConfigurationError(err))
	})

	t.Run("Unreachable", func(t *testing.T) {
		mockRedis, cfg := setupMockRedis(t)
		mockRedis.Close()

		adapter, err := NewRedisCacheProviderAdapter(cfg)

		assert.Nil(t, adapter)
		assert.True(t, errors.IsExternalAPIError(err))
	})
}

func TestRedisCacheProviderAdapter_Operations(t *testing.T) {
	mockRedis, adapter := newTestRedisCache(t)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "settings:abc", []byte(`{"provider":"openmeteo"}`), time.Hour))

		value, err := adapter.Get(ctx, "settings:abc")
		require.NoError(t, err)
		assert.Equal(t, `{"provider":"openmeteo"}`, string(value))

		stored, err := mockRedis.Get("briefsky:settings:abc")
		require.NoError(t, err)
		assert.Equal(t, `{"provider":"openmeteo"}`, stored)
		assert.Equal(t, time.Hour, mockRedis.TTL("briefsky:settings:abc"))
	})

	t.Run("Miss", func(t *testing.T) {
		value, err := adapter.Get(ctx, "settings:missing")

		assert.Nil(t, value)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "kiosk:snapshot", []byte("{}"), time.Minute))
		mockRedis.FastForward(2 * time.Minute)

		exists, err := adapter.Exists(ctx, "kiosk:snapshot")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "delete-me", []byte("x"), time.Minute))
		require.NoError(t, adapter.Delete(ctx, "delete-me"))

		exists, err := adapter.Exists(ctx, "delete-me")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ClearKeepsForeignKeys", func(t *testing.T) {
		require.NoError(t, mockRedis.Set("other-app:key", "keep"))
		require.NoError(t, adapter.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, adapter.Set(ctx, "b", []byte("2"), time.Minute))

		require.NoError(t, adapter.Clear(ctx))

		assert.False(t, mockRedis.Exists("briefsky:a"))
		assert.False(t, mockRedis.Exists("briefsky:b"))
		assert.True(t, mockRedis.Exists("other-app:key"))
	})
}

func TestRedisCacheProviderAdapter_ValidationErrors(t *testing.T) {
	_, adapter := newTestRedisCache(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		operation func() error
	}{
		{"GetEmptyKey", func() error { _, err := adapter.Get(ctx, ""); return err }},
		{"SetNilValue", func() error { return adapter.Set(ctx, "key", nil, time.Minute) }},
		{"SetZeroTTL", func() error { return adapter.Set(ctx, "key", []byte("v"), 0) }},
		{"DeleteEmptyKey", func() error { return adapter.Delete(ctx, "") }},
		{"ExistsEmptyKey", func() error { _, err := adapter.Exists(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsValidationError(tt.operation()))
		})
	}
}

func TestRedisCacheProviderAdapter_Metrics(t *testing.T) {
	_, adapter := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	_, err = adapter.Get(ctx, "missing")
	require.Error(t, err)

	stats := adapter.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRatio)

	var _ ports.CacheProvider = adapter
	var _ ports.CacheMetrics = adapter
}

func TestRedisCacheProviderAdapter_Ping(t *testing.T) {
	mockRedis, adapter := newTestRedisCache(t)

	require.NoError(t, adapter.Ping(context.Background()))

	mockRedis.SetError("server down")
	assert.True(t, errors.IsExternalAPIError(adapter.Ping(context.Background())))
}
