package infrastructure

import (
	"context"

	"briefsky.app/internal/config"
	"briefsky.app/internal/ports"
)

// ConfigHealthChecker reports the effective process configuration. Secrets
// are never included.
type ConfigHealthChecker struct {
	config *config.Config
}

// NewConfigHealthChecker creates a new config health checker
func NewConfigHealthChecker(cfg *config.Config) *ConfigHealthChecker {
	return &ConfigHealthChecker{config: cfg}
}

func (c *ConfigHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Component: "config"}
	if c.config == nil {
		status.Status = StatusUnhealthy
		status.Error = "configuration not loaded"
		return status
	}

	status.Status = StatusHealthy
	status.Details = map[string]interface{}{
		"default_region":   c.config.Locale.DefaultRegion,
		"storage_backend":  c.config.Storage.Backend.String(),
		"geocoder":         c.config.Geocoder.Kind,
		"kiosk_enabled":    c.config.Kiosk.Enabled(),
		"provider_logging": c.config.Providers.EnableLogging,
	}
	return status
}
