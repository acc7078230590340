package ports

import (
	"context"

	"briefsky.app/internal/core/forecast"
)

// ProviderID is the stable key of a weather provider
type ProviderID string

// ProviderField declares one configuration key consumed by a provider
type ProviderField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProviderDescriptor is the static description of a provider
type ProviderDescriptor struct {
	ID               ProviderID `json:"id"`
	Description      string     `json:"description"`
	Attribution      string     `json:"attribution,omitempty"`
	RequiresLocation bool       `json:"requires_location"`
}

// Provider performs one fetch against its upstream API
type Provider interface {
	Fetch(ctx context.Context) (*forecast.Weather, error)
}

// ProviderFactory describes a provider and builds instances of it
type ProviderFactory interface {
	Describe() ProviderDescriptor
	Fields() []ProviderField
	// TryConstruct returns nil when params or location are insufficient.
	TryConstruct(params map[string]string, location *forecast.Location) Provider
}

// ProviderRegistry is the ordered catalog of available providers
type ProviderRegistry interface {
	Factories() []ProviderFactory
	// Lookup resolves id, falling back to Default for unknown ids.
	Lookup(id string) ProviderFactory
	Default() ProviderFactory
}
