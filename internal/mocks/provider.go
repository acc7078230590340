package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

// Provider is a testify mock of ports.Provider
type Provider struct {
	mock.Mock
}

// NewProvider creates a Provider mock that asserts its expectations on cleanup
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *Provider {
	m := &Provider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Provider) Fetch(ctx context.Context) (*forecast.Weather, error) {
	args := m.Called(ctx)
	weather, _ := args.Get(0).(*forecast.Weather)
	return weather, args.Error(1)
}

// ProviderFactory is a testify mock of ports.ProviderFactory
type ProviderFactory struct {
	mock.Mock
}

// NewProviderFactory creates a ProviderFactory mock that asserts its expectations on cleanup
func NewProviderFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProviderFactory {
	m := &ProviderFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProviderFactory) Describe() ports.ProviderDescriptor {
	args := m.Called()
	return args.Get(0).(ports.ProviderDescriptor)
}

func (m *ProviderFactory) Fields() []ports.ProviderField {
	args := m.Called()
	fields, _ := args.Get(0).([]ports.ProviderField)
	return fields
}

func (m *ProviderFactory) TryConstruct(params map[string]string, location *forecast.Location) ports.Provider {
	args := m.Called(params, location)
	provider, _ := args.Get(0).(ports.Provider)
	return provider
}

// ProviderRegistry is a testify mock of ports.ProviderRegistry
type ProviderRegistry struct {
	mock.Mock
}

// NewProviderRegistry creates a ProviderRegistry mock that asserts its expectations on cleanup
func NewProviderRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProviderRegistry {
	m := &ProviderRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProviderRegistry) Factories() []ports.ProviderFactory {
	args := m.Called()
	factories, _ := args.Get(0).([]ports.ProviderFactory)
	return factories
}

func (m *ProviderRegistry) Lookup(id string) ports.ProviderFactory {
	args := m.Called(id)
	factory, _ := args.Get(0).(ports.ProviderFactory)
	return factory
}

func (m *ProviderRegistry) Default() ports.ProviderFactory {
	args := m.Called()
	factory, _ := args.Get(0).(ports.ProviderFactory)
	return factory
}
