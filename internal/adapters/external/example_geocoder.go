package external

import (
	"context"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

var exampleCandidates = []ports.LocationCandidate{
	{Name: "New York, New York", Location: forecast.NewLocation("40.7127281", "-74.0060152")},
	{Name: "Los Angeles, California", Location: forecast.NewLocation("34.0536909", "-118.242766")},
	{Name: "Chicago, Illinois", Location: forecast.NewLocation("41.8755616", "-87.6244212")},
	{Name: "Houston, Texas", Location: forecast.NewLocation("29.7589382", "-95.3676974")},
	{Name: "Phoenix, Arizona", Location: forecast.NewLocation("33.4484367", "-112.074141")},
}

// ExampleGeocoder answers every lookup with canned US cities
type ExampleGeocoder struct{}

// NewExampleGeocoder creates a new example geocoder
func NewExampleGeocoder() *ExampleGeocoder {
	return &ExampleGeocoder{}
}

func (g *ExampleGeocoder) Description() string { return "Example" }

func (g *ExampleGeocoder) Attribution() string { return "" }

// ForwardGeocode ignores the query
func (g *ExampleGeocoder) ForwardGeocode(_ context.Context, _ string) ([]ports.LocationCandidate, error) {
	candidates := make([]ports.LocationCandidate, len(exampleCandidates))
	for i, c := range exampleCandidates {
		candidates[i] = ports.LocationCandidate{Name: c.Name, Location: forecast.NewLocation(c.Location.Latitude, c.Location.Longitude)}
	}
	return candidates, nil
}

func (g *ExampleGeocoder) ReverseGeocode(_ context.Context, _ *forecast.Location) (string, error) {
	return "Houston, Texas", nil
}
