package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

const (
	nominatimBaseURL          = "https://nominatim.openstreetmap.org"
	nominatimDefaultUserAgent = "briefsky/1.0"
)

// NominatimGeocoderParams holds parameters for creating the Nominatim geocoder
type NominatimGeocoderParams struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    ports.Logger
	// FailureThreshold is the number of consecutive failures that opens the breaker
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
}

// NominatimGeocoder resolves places through OpenStreetMap's Nominatim service.
// Requests are never retried; repeated failures open a circuit breaker.
type NominatimGeocoder struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  ports.Logger
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

type nominatimReverse struct {
	Name    string `json:"name"`
	Address struct {
		State string `json:"state"`
	} `json:"address"`
}

// NewNominatimGeocoder creates a new Nominatim geocoder
func NewNominatimGeocoder(params NominatimGeocoderParams) *NominatimGeocoder {
	if params.UserAgent == "" {
		params.UserAgent = nominatimDefaultUserAgent
	}
	if params.Timeout == 0 {
		params.Timeout = 10 * time.Second
	}
	if params.FailureThreshold == 0 {
		params.FailureThreshold = 3
	}
	if params.OpenTimeout == 0 {
		params.OpenTimeout = 30 * time.Second
	}
	logger := params.Logger

	client := resty.New().
		SetBaseURL(defaultBaseURL(params.BaseURL, nominatimBaseURL)).
		SetHeader("User-Agent", params.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(params.Timeout)

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("Geocoder response",
			ports.F("geocoder", "nominatim"),
			ports.F("url", resp.Request.URL),
			ports.F("status", resp.StatusCode()),
			ports.F("duration_ms", resp.Time().Milliseconds()))
		return nil
	})

	threshold := params.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     params.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Geocoder circuit breaker state changed",
				ports.F("breaker", name),
				ports.F("from", from.String()),
				ports.F("to", to.String()))
		},
	})

	return &NominatimGeocoder{client: client, breaker: breaker, logger: logger}
}

// Description names the data source
func (g *NominatimGeocoder) Description() string {
	return "OpenStreetMap"
}

// Attribution links the data license
func (g *NominatimGeocoder) Attribution() string {
	return "https://www.openstreetmap.org/copyright"
}

// ForwardGeocode searches for places matching query
func (g *NominatimGeocoder) ForwardGeocode(ctx context.Context, query string) ([]ports.LocationCandidate, error) {
	subject := fmt.Sprintf("for query '%s'", query)
	body, err := g.get(ctx, subject, "/search", map[string]string{
		"q":      query,
		"format": "jsonv2",
	})
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, errors.NewExternalAPIError(nominatimFailure(subject, "unexpected response data: "+err.Error()), err)
	}

	candidates := make([]ports.LocationCandidate, 0, len(places))
	for _, place := range places {
		candidates = append(candidates, ports.LocationCandidate{
			Name:     place.DisplayName,
			Location: forecast.NewLocation(place.Lat, place.Lon),
		})
	}
	return candidates, nil
}

// ReverseGeocode names the place at location as "name, state"
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, location *forecast.Location) (string, error) {
	if !location.Valid() {
		return "", errors.NewValidationError("location must be lat,lon")
	}

	subject := "for location " + location.String()
	body, err := g.get(ctx, subject, "/reverse", map[string]string{
		"lat":            location.Latitude,
		"lon":            location.Longitude,
		"addressdetails": "1",
		"zoom":           "10",
		"format":         "jsonv2",
	})
	if err != nil {
		return "", err
	}

	var place nominatimReverse
	if err := json.Unmarshal(body, &place); err != nil {
		return "", errors.NewExternalAPIError(nominatimFailure(subject, "unexpected response data: "+err.Error()), err)
	}
	if place.Address.State == "" {
		return place.Name, nil
	}
	return place.Name + ", " + place.Address.State, nil
}

// get runs one request through the breaker. Transport errors and 5xx
// responses count against the breaker; error payloads do not.
func (g *NominatimGeocoder) get(ctx context.Context, subject, path string, query map[string]string) ([]byte, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		resp, err := g.client.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(path)
		if err != nil {
			return nil, errors.NewExternalAPIError(nominatimFailure(subject, err.Error()), err)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, errors.NewExternalAPIError(nominatimFailure(subject, nominatimDetail(resp)), nil)
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errors.NewExternalAPIError(nominatimFailure(subject, err.Error()), err)
		}
		return nil, err
	}

	resp := result.(*resty.Response)
	if !resp.IsSuccess() || nominatimErrorText(resp.Body()) != "" {
		return nil, errors.NewExternalAPIError(nominatimFailure(subject, nominatimDetail(resp)), nil)
	}
	return resp.Body(), nil
}

func nominatimFailure(subject, detail string) string {
	return fmt.Sprintf("fetching from Nominatim %s: %s", subject, detail)
}

func nominatimDetail(resp *resty.Response) string {
	if text := nominatimErrorText(resp.Body()); text != "" {
		return text
	}
	return fmt.Sprintf("returned status %d", resp.StatusCode())
}

// nominatimErrorText reads the error field, which is either a string or
// an object with a message.
func nominatimErrorText(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return text
	}
	var object struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &object); err == nil {
		return object.Message
	}
	return ""
}
