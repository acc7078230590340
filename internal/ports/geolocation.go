package ports

import (
	"context"

	"briefsky.app/internal/core/forecast"
)

// Geolocator acquires the device position
type Geolocator interface {
	Locate(ctx context.Context) (*forecast.Location, error)
}

// LocationCandidate is one forward geocoding match
type LocationCandidate struct {
	Name     string             `json:"name"`
	Location *forecast.Location `json:"location"`
}

// Geocoder resolves place names to coordinates and back
type Geocoder interface {
	ForwardGeocode(ctx context.Context, query string) ([]LocationCandidate, error)
	ReverseGeocode(ctx context.Context, location *forecast.Location) (string, error)
	Description() string
	Attribution() string
}
