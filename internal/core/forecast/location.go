package forecast

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// GeolocationTimeout bounds device location acquisition
const GeolocationTimeout = 10 * time.Second

// Location is a coordinate pair kept as the exact decimal strings it was given in.
type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// NewLocation creates a location from decimal strings
func NewLocation(latitude, longitude string) *Location {
	return &Location{Latitude: latitude, Longitude: longitude}
}

// FromCoordinates formats device coordinates with 7 decimal places
func FromCoordinates(latitude, longitude float64) *Location {
	return NewLocation(
		strconv.FormatFloat(latitude, 'f', 7, 64),
		strconv.FormatFloat(longitude, 'f', 7, 64),
	)
}

// ParseLocation parses "lat,lon". It never fails: missing parts become
// empty strings and callers check Valid.
func ParseLocation(s string) *Location {
	latitude, longitude, _ := strings.Cut(s, ",")
	if i := strings.IndexByte(longitude, ','); i >= 0 {
		longitude = longitude[:i]
	}
	return NewLocation(strings.TrimSpace(latitude), strings.TrimSpace(longitude))
}

// Valid reports whether both coordinates are present
func (l *Location) Valid() bool {
	return l != nil && l.Latitude != "" && l.Longitude != ""
}

// String returns "lat,lon"
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return l.Latitude + "," + l.Longitude
}

// Geolocator acquires the device position
type Geolocator interface {
	Locate(ctx context.Context) (*Location, error)
}

// LocateWithTimeout asks the geolocator for a position, giving up after timeout.
// Errors, empty answers and timeouts all resolve to nil.
func LocateWithTimeout(ctx context.Context, geolocator Geolocator, timeout time.Duration) *Location {
	if geolocator == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := make(chan *Location, 1)
	go func() {
		location, err := geolocator.Locate(ctx)
		if err != nil || !location.Valid() {
			location = nil
		}
		result <- location
	}()

	select {
	case location := <-result:
		return location
	case <-ctx.Done():
		return nil
	}
}
