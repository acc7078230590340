package briefing

import (
	"net/url"
	"time"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/core/settings"
	"briefsky.app/internal/ports"
)

// ForecastRequest identifies where the parameter bag comes from
type ForecastRequest struct {
	SessionID string
	Query     url.Values
	Region    string
	// Geolocator overrides the device geolocator for this request
	Geolocator ports.Geolocator
}

// SaveRequest carries an edited parameter bag
type SaveRequest struct {
	SessionID string
	Storage   settings.Mode
	Region    string
	Params    settings.Params
}

// Briefing is the result of one refresh
type Briefing struct {
	Configuration settings.Configuration   `json:"configuration"`
	Provider      ports.ProviderDescriptor `json:"provider"`
	Location      *forecast.Location       `json:"location,omitempty"`
	Weather       *forecast.Weather        `json:"weather"`
	Fallback      bool                     `json:"fallback"`
	FetchedAt     time.Time                `json:"fetched_at"`
}

// SettingsView is the decoded configuration together with its minimal encoding
type SettingsView struct {
	Configuration settings.Configuration   `json:"configuration"`
	Provider      ports.ProviderDescriptor `json:"provider"`
	Params        settings.Params          `json:"params"`
	Storage       settings.Mode            `json:"storage"`
}

// ProviderInfo enumerates one registry entry
type ProviderInfo struct {
	ports.ProviderDescriptor
	Fields []ports.ProviderField `json:"fields"`
}
