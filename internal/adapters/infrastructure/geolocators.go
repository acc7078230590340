package infrastructure

import (
	"context"
	"net/http"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/pkg/errors"
)

// GeolocationHeader carries the browser-reported position as "lat,lon"
const GeolocationHeader = "X-Geolocation"

// StaticGeolocator reports a fixed device position, typically from config
type StaticGeolocator struct {
	location *forecast.Location
}

// NewStaticGeolocator creates a geolocator for location. A nil or invalid
// location makes every Locate fail.
func NewStaticGeolocator(location *forecast.Location) *StaticGeolocator {
	return &StaticGeolocator{location: location}
}

func (g *StaticGeolocator) Locate(ctx context.Context) (*forecast.Location, error) {
	if !g.location.Valid() {
		return nil, errors.NewNotFoundError("no device position configured")
	}
	return forecast.NewLocation(g.location.Latitude, g.location.Longitude), nil
}

// ClientGeolocator reports the position the browser sent with the request
type ClientGeolocator struct {
	header string
}

// ClientGeolocatorFromRequest reads the geolocation header. It returns nil
// when the request carries none.
func ClientGeolocatorFromRequest(r *http.Request) *ClientGeolocator {
	value := r.Header.Get(GeolocationHeader)
	if value == "" {
		return nil
	}
	return &ClientGeolocator{header: value}
}

func (g *ClientGeolocator) Locate(ctx context.Context) (*forecast.Location, error) {
	if g == nil {
		return nil, errors.NewNotFoundError("no client position reported")
	}
	location := forecast.ParseLocation(g.header)
	if !location.Valid() {
		return nil, errors.NewValidationError(GeolocationHeader + " must be lat,lon")
	}
	return location, nil
}
