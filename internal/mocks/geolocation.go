package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

// Geolocator is a testify mock of ports.Geolocator
type Geolocator struct {
	mock.Mock
}

// NewGeolocator creates a Geolocator mock that asserts its expectations on cleanup
func NewGeolocator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Geolocator {
	m := &Geolocator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Geolocator) Locate(ctx context.Context) (*forecast.Location, error) {
	args := m.Called(ctx)
	location, _ := args.Get(0).(*forecast.Location)
	return location, args.Error(1)
}

// Geocoder is a testify mock of ports.Geocoder
type Geocoder struct {
	mock.Mock
}

// NewGeocoder creates a Geocoder mock that asserts its expectations on cleanup
func NewGeocoder(t interface {
	mock.TestingT
	Cleanup(func())
}) *Geocoder {
	m := &Geocoder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Geocoder) ForwardGeocode(ctx context.Context, query string) ([]ports.LocationCandidate, error) {
	args := m.Called(ctx, query)
	candidates, _ := args.Get(0).([]ports.LocationCandidate)
	return candidates, args.Error(1)
}

func (m *Geocoder) ReverseGeocode(ctx context.Context, location *forecast.Location) (string, error) {
	args := m.Called(ctx, location)
	return args.String(0), args.Error(1)
}

func (m *Geocoder) Description() string {
	return m.Called().String(0)
}

func (m *Geocoder) Attribution() string {
	return m.Called().String(0)
}
