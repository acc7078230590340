package external

import (
	"context"
	"time"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

// ProviderLoggingDecorator decorates providers with structured logging
type ProviderLoggingDecorator struct {
	provider   ports.Provider
	descriptor ports.ProviderDescriptor
	logger     ports.Logger
}

// NewProviderLoggingDecorator creates a new logging decorator for providers
func NewProviderLoggingDecorator(provider ports.Provider, descriptor ports.ProviderDescriptor, logger ports.Logger) ports.Provider {
	return &ProviderLoggingDecorator{
		provider:   provider,
		descriptor: descriptor,
		logger:     logger,
	}
}

// Fetch wraps the provider call with structured logging
func (d *ProviderLoggingDecorator) Fetch(ctx context.Context) (*forecast.Weather, error) {
	d.logger.Info("Provider request started",
		ports.F("provider", d.descriptor.ID),
		ports.F("event", "request"))

	startTime := time.Now()
	weather, err := d.provider.Fetch(ctx)
	duration := time.Since(startTime)

	if err != nil {
		d.logger.Error("Provider request failed",
			ports.F("provider", d.descriptor.ID),
			ports.F("event", "error"),
			ports.F("duration_ms", duration.Milliseconds()),
			ports.F("error", err.Error()))
		return nil, err
	}

	d.logger.Info("Provider request completed",
		ports.F("provider", d.descriptor.ID),
		ports.F("event", "response"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("days", len(weather.Daily)),
		ports.F("conditions", weather.Current.Conditions))

	return weather, nil
}

// ProviderMetricsDecorator records fetch outcomes and latency
type ProviderMetricsDecorator struct {
	provider   ports.Provider
	descriptor ports.ProviderDescriptor
	metrics    ports.MetricsCollector
}

// NewProviderMetricsDecorator creates a new metrics decorator for providers
func NewProviderMetricsDecorator(provider ports.Provider, descriptor ports.ProviderDescriptor, metrics ports.MetricsCollector) ports.Provider {
	return &ProviderMetricsDecorator{
		provider:   provider,
		descriptor: descriptor,
		metrics:    metrics,
	}
}

// Fetch wraps the provider call with metrics
func (d *ProviderMetricsDecorator) Fetch(ctx context.Context) (*forecast.Weather, error) {
	startTime := time.Now()
	weather, err := d.provider.Fetch(ctx)

	outcome := ports.FetchOutcomeSuccess
	if err != nil {
		outcome = ports.FetchOutcomeFailure
	}
	d.metrics.RecordFetch(string(d.descriptor.ID), outcome, time.Since(startTime))

	return weather, err
}
