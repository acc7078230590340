package external

import (
	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

// providerConstructor builds an adapter from settings. It returns nil when
// params or location are insufficient.
type providerConstructor func(params map[string]string, location *forecast.Location, options ProviderOptions) ports.Provider

var providerConstructors = map[ports.ProviderID]providerConstructor{
	exampleDescriptor.ID:        newExampleProvider,
	openMeteoDescriptor.ID:      newOpenMeteoProvider,
	pirateWeatherDescriptor.ID:  newPirateWeatherProvider,
	tomorrowIoDescriptor.ID:     newTomorrowIoProvider,
	visualCrossingDescriptor.ID: newVisualCrossingProvider,
	weatherFlowDescriptor.ID:    newWeatherFlowProvider,
}

type providerEntry struct {
	descriptor ports.ProviderDescriptor
	fields     []ports.ProviderField
}

// providerTable lists providers in display order. The first entry is the default.
var providerTable = []providerEntry{
	{descriptor: exampleDescriptor},
	{descriptor: openMeteoDescriptor},
	{descriptor: pirateWeatherDescriptor, fields: pirateWeatherFields},
	{descriptor: tomorrowIoDescriptor, fields: tomorrowIoProviderFields},
	{descriptor: visualCrossingDescriptor, fields: visualCrossingFields},
	{descriptor: weatherFlowDescriptor, fields: weatherFlowFields},
}

// RegistryOptions configures every provider the registry constructs
type RegistryOptions struct {
	Client HTTPClient
	Clock  Clock
	Logger ports.Logger
	// BaseURLs overrides upstream endpoints per provider
	BaseURLs map[ports.ProviderID]string
	// Decorate wraps each constructed provider
	Decorate func(provider ports.Provider, descriptor ports.ProviderDescriptor) ports.Provider
}

// ProviderRegistry is the ordered catalog of provider factories
type ProviderRegistry struct {
	factories []ports.ProviderFactory
}

// NewProviderRegistry creates the registry of all known providers
func NewProviderRegistry(options RegistryOptions) *ProviderRegistry {
	factories := make([]ports.ProviderFactory, 0, len(providerTable))
	for _, entry := range providerTable {
		factories = append(factories, &providerFactory{
			descriptor: entry.descriptor,
			fields:     entry.fields,
			construct:  providerConstructors[entry.descriptor.ID],
			options:    options,
		})
	}
	return &ProviderRegistry{factories: factories}
}

// Factories lists the providers in display order
func (r *ProviderRegistry) Factories() []ports.ProviderFactory {
	factories := make([]ports.ProviderFactory, len(r.factories))
	copy(factories, r.factories)
	return factories
}

// Default returns the example provider
func (r *ProviderRegistry) Default() ports.ProviderFactory {
	return r.factories[0]
}

// Lookup finds a provider by id. Unknown ids resolve to the default.
func (r *ProviderRegistry) Lookup(id string) ports.ProviderFactory {
	for _, factory := range r.factories {
		if string(factory.Describe().ID) == id {
			return factory
		}
	}
	return r.Default()
}

type providerFactory struct {
	descriptor ports.ProviderDescriptor
	fields     []ports.ProviderField
	construct  providerConstructor
	options    RegistryOptions
}

func (f *providerFactory) Describe() ports.ProviderDescriptor {
	return f.descriptor
}

func (f *providerFactory) Fields() []ports.ProviderField {
	fields := make([]ports.ProviderField, len(f.fields))
	copy(fields, f.fields)
	return fields
}

func (f *providerFactory) TryConstruct(params map[string]string, location *forecast.Location) ports.Provider {
	provider := f.construct(params, location, ProviderOptions{
		BaseURL: f.options.BaseURLs[f.descriptor.ID],
		Client:  f.options.Client,
		Clock:   f.options.Clock,
		Logger:  f.options.Logger,
	})
	if provider == nil {
		return nil
	}
	if f.options.Decorate != nil {
		provider = f.options.Decorate(provider, f.descriptor)
	}
	return provider
}
