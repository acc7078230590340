package infrastructure

import (
	"context"
	"time"

	"briefsky.app/internal/ports"
)

// Health status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

const cacheProbeKey = "health:probe"

// CacheHealthChecker round-trips a probe key through the cache
type CacheHealthChecker struct {
	name  string
	cache ports.CacheProvider
}

// NewCacheHealthChecker creates a health checker for cache. name labels the backend.
func NewCacheHealthChecker(name string, cache ports.CacheProvider) *CacheHealthChecker {
	return &CacheHealthChecker{name: name, cache: cache}
}

func (c *CacheHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Details:   map[string]interface{}{"backend": c.name},
	}

	if c.cache == nil {
		status.Status = StatusUnhealthy
		status.Error = "cache is not configured"
		return status
	}

	if err := c.cache.Set(ctx, cacheProbeKey, []byte("ok"), time.Minute); err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}
	if _, err := c.cache.Get(ctx, cacheProbeKey); err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	if metrics, ok := c.cache.(ports.CacheMetrics); ok {
		stats := metrics.GetStats()
		status.Details["hits"] = stats.Hits
		status.Details["misses"] = stats.Misses
		status.Details["hit_ratio"] = stats.HitRatio
	}
	status.Status = StatusHealthy
	return status
}

// ProviderRegistryHealthChecker reports the provider catalog. It never calls
// an upstream: providers are only fetched on request.
type ProviderRegistryHealthChecker struct {
	registry ports.ProviderRegistry
}

// NewProviderRegistryHealthChecker creates a new provider registry health checker
func NewProviderRegistryHealthChecker(registry ports.ProviderRegistry) *ProviderRegistryHealthChecker {
	return &ProviderRegistryHealthChecker{registry: registry}
}

func (p *ProviderRegistryHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "providers",
		Details:   make(map[string]interface{}),
	}

	if p.registry == nil || len(p.registry.Factories()) == 0 {
		status.Status = StatusUnhealthy
		status.Error = "no weather providers registered"
		return status
	}

	ids := make([]string, 0)
	for _, factory := range p.registry.Factories() {
		ids = append(ids, string(factory.Describe().ID))
	}
	status.Status = StatusHealthy
	status.Details["available"] = ids
	status.Details["default"] = string(p.registry.Default().Describe().ID)
	return status
}

// GeocoderHealthChecker reports which geocoder is wired
type GeocoderHealthChecker struct {
	geocoder ports.Geocoder
}

// NewGeocoderHealthChecker creates a new geocoder health checker
func NewGeocoderHealthChecker(geocoder ports.Geocoder) *GeocoderHealthChecker {
	return &GeocoderHealthChecker{geocoder: geocoder}
}

func (g *GeocoderHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Component: "geocoder"}
	if g.geocoder == nil {
		status.Status = StatusUnhealthy
		status.Error = "geocoder is not configured"
		return status
	}

	status.Status = StatusHealthy
	status.Details = map[string]interface{}{"source": g.geocoder.Description()}
	return status
}
