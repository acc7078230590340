package forecast

import (
	"fmt"
	"time"
)

// ConditionsIcon is the provider-independent sky/precipitation state
type ConditionsIcon int

const (
	IconClear ConditionsIcon = iota
	IconPartlyCloudy
	IconMostlyCloudy
	IconOvercast
	IconFog
	IconLightRain
	IconRain
	IconLightSleet
	IconSleet
	IconLightSnow
	IconSnow
	IconThunderstorm
	IconUnknown
)

var iconNames = [...]string{
	IconClear:        "Clear",
	IconPartlyCloudy: "PartlyCloudy",
	IconMostlyCloudy: "MostlyCloudy",
	IconOvercast:     "Overcast",
	IconFog:          "Fog",
	IconLightRain:    "LightRain",
	IconRain:         "Rain",
	IconLightSleet:   "LightSleet",
	IconSleet:        "Sleet",
	IconLightSnow:    "LightSnow",
	IconSnow:         "Snow",
	IconThunderstorm: "Thunderstorm",
	IconUnknown:      "Unknown",
}

// String returns the icon name
func (i ConditionsIcon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconUnknown]
	}
	return iconNames[i]
}

// MarshalText implements encoding.TextMarshaler
func (i ConditionsIcon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; unrecognized names become IconUnknown
func (i *ConditionsIcon) UnmarshalText(text []byte) error {
	for icon, name := range iconNames {
		if name == string(text) {
			*i = ConditionsIcon(icon)
			return nil
		}
	}
	*i = IconUnknown
	return nil
}

// PrecipitationType classifies hourly precipitation
type PrecipitationType int

const (
	PrecipitationNone PrecipitationType = iota
	PrecipitationRain
	PrecipitationSnow
	PrecipitationSleet
)

// String returns the precipitation type name
func (p PrecipitationType) String() string {
	switch p {
	case PrecipitationNone:
		return "None"
	case PrecipitationRain:
		return "Rain"
	case PrecipitationSnow:
		return "Snow"
	case PrecipitationSleet:
		return "Sleet"
	default:
		return fmt.Sprintf("PrecipitationType(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler
func (p PrecipitationType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *PrecipitationType) UnmarshalText(text []byte) error {
	for _, candidate := range []PrecipitationType{PrecipitationNone, PrecipitationRain, PrecipitationSnow, PrecipitationSleet} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown precipitation type %q", string(text))
}

// Current holds observed conditions. Temperatures are °C, wind is km/h,
// pressure is mb and visibility is km.
type Current struct {
	Timestamp            time.Time      `json:"timestamp"`
	Conditions           string         `json:"conditions"`
	ConditionsIcon       ConditionsIcon `json:"conditions_icon"`
	Temperature          float64        `json:"temperature"`
	TemperatureLow       float64        `json:"temperature_low"`
	TemperatureHigh      float64        `json:"temperature_high"`
	FeelsLikeTemperature float64        `json:"feels_like_temperature"`
	DewPointTemperature  float64        `json:"dew_point_temperature"`
	RelativeHumidity     int            `json:"relative_humidity"`
	WindSpeed            float64        `json:"wind_speed"`
	WindDirection        float64        `json:"wind_direction"`
	Pressure             float64        `json:"pressure"`
	UVIndex              *int           `json:"uv_index,omitempty"`
	Visibility           *float64       `json:"visibility,omitempty"`
	Hourly               []Hourly       `json:"hourly"`
}

// Daily is one forecast day with its 24 hourly entries
type Daily struct {
	Timestamp                time.Time      `json:"timestamp"`
	Conditions               string         `json:"conditions"`
	ConditionsIcon           ConditionsIcon `json:"conditions_icon"`
	TemperatureLow           float64        `json:"temperature_low"`
	TemperatureHigh          float64        `json:"temperature_high"`
	SunriseTimestamp         time.Time      `json:"sunrise_timestamp"`
	SunsetTimestamp          time.Time      `json:"sunset_timestamp"`
	PrecipitationProbability *int           `json:"precipitation_probability,omitempty"`
	PrecipitationAmount      *float64       `json:"precipitation_amount,omitempty"`
	Hourly                   []Hourly       `json:"hourly"`
}

// Hourly is one forecast hour
type Hourly struct {
	Timestamp                time.Time          `json:"timestamp"`
	Conditions               string             `json:"conditions"`
	ConditionsIcon           ConditionsIcon     `json:"conditions_icon"`
	Temperature              float64            `json:"temperature"`
	WindSpeed                *float64           `json:"wind_speed,omitempty"`
	WindDirection            *float64           `json:"wind_direction,omitempty"`
	PrecipitationProbability *int               `json:"precipitation_probability,omitempty"`
	PrecipitationAmount      *float64           `json:"precipitation_amount,omitempty"`
	PrecipitationType        *PrecipitationType `json:"precipitation_type,omitempty"`
}

// Weather is the result of a single provider fetch
type Weather struct {
	Current Current `json:"current"`
	Daily   []Daily `json:"daily"`
}

// IsValid checks the invariants every adapter must uphold
func (w *Weather) IsValid() error {
	for i, day := range w.Daily {
		if len(day.Hourly) != HoursPerDay {
			return fmt.Errorf("day %d has %d hourly entries, want %d", i, len(day.Hourly), HoursPerDay)
		}
		if i > 0 && !day.Timestamp.After(w.Daily[i-1].Timestamp) {
			return fmt.Errorf("day %d is not after day %d", i, i-1)
		}
	}
	if w.Current.RelativeHumidity < 0 || w.Current.RelativeHumidity > 100 {
		return fmt.Errorf("relative humidity must be between 0 and 100")
	}
	return nil
}
