package external

import (
	"context"
	"net/url"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

var visualCrossingConditionsIcon = map[string]forecast.ConditionsIcon{
	"snow":                  forecast.IconSnow,
	"snow-showers-day":      forecast.IconSnow,
	"snow-showers-night":    forecast.IconSnow,
	"thunder-rain":          forecast.IconThunderstorm,
	"thunder-showers-day":   forecast.IconThunderstorm,
	"thunder-showers-night": forecast.IconThunderstorm,
	"rain":                  forecast.IconRain,
	"showers-day":           forecast.IconRain,
	"showers-night":         forecast.IconRain,
	"fog":                   forecast.IconFog,
	"wind":                  forecast.IconClear,
	"cloudy":                forecast.IconOvercast,
	"partly-cloudy-day":     forecast.IconPartlyCloudy,
	"partly-cloudy-night":   forecast.IconPartlyCloudy,
	"clear-day":             forecast.IconClear,
	"clear-night":           forecast.IconClear,
}

// visualCrossingMaxDays caps the daily list
const visualCrossingMaxDays = 10

func visualCrossingIcon(icon string) forecast.ConditionsIcon {
	if mapped, ok := visualCrossingConditionsIcon[icon]; ok {
		return mapped
	}
	return forecast.IconUnknown
}

// VisualCrossingProviderAdapter fetches from the Visual Crossing timeline API.
// The location is free text resolved upstream.
type VisualCrossingProviderAdapter struct {
	apiKey   string
	location string
	options  ProviderOptions
}

// VisualCrossingProviderParams holds parameters for creating Visual Crossing provider
type VisualCrossingProviderParams struct {
	ProviderOptions
	APIKey   string
	Location string
}

type visualCrossingHour struct {
	DatetimeEpoch int64   `json:"datetimeEpoch"`
	Conditions    string  `json:"conditions"`
	Icon          string  `json:"icon"`
	Temp          float64 `json:"temp"`
}

type visualCrossingDay struct {
	DatetimeEpoch int64                `json:"datetimeEpoch"`
	Conditions    string               `json:"conditions"`
	Icon          string               `json:"icon"`
	TempMin       float64              `json:"tempmin"`
	TempMax       float64              `json:"tempmax"`
	SunriseEpoch  int64                `json:"sunriseEpoch"`
	SunsetEpoch   int64                `json:"sunsetEpoch"`
	PrecipProb    *float64             `json:"precipprob"`
	Precip        *float64             `json:"precip"`
	Hours         []visualCrossingHour `json:"hours"`
}

type visualCrossingResponse struct {
	CurrentConditions struct {
		DatetimeEpoch int64    `json:"datetimeEpoch"`
		Conditions    string   `json:"conditions"`
		Icon          string   `json:"icon"`
		Temp          float64  `json:"temp"`
		FeelsLike     float64  `json:"feelslike"`
		Dew           float64  `json:"dew"`
		Humidity      float64  `json:"humidity"`
		WindSpeed     float64  `json:"windspeed"`
		WindDir       float64  `json:"winddir"`
		Pressure      float64  `json:"pressure"`
		UVIndex       *float64 `json:"uvindex"`
		Visibility    *float64 `json:"visibility"`
	} `json:"currentConditions"`
	Days []visualCrossingDay `json:"days"`
}

// NewVisualCrossingProviderAdapter creates a new Visual Crossing provider adapter
func NewVisualCrossingProviderAdapter(params VisualCrossingProviderParams) *VisualCrossingProviderAdapter {
	return &VisualCrossingProviderAdapter{
		apiKey:   params.APIKey,
		location: params.Location,
		options:  params.ProviderOptions.withDefaults("https://weather.visualcrossing.com/VisualCrossingWebServices"),
	}
}

// Fetch retrieves and normalizes the forecast
func (p *VisualCrossingProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	query := url.Values{}
	query.Set("unitGroup", "metric")
	query.Set("key", p.apiKey)
	query.Set("iconSet", "icons2")

	var data visualCrossingResponse
	err := fetchJSON(ctx, p.options.Client, p.options.Logger, upstreamRequest{
		Provider:  visualCrossingDescriptor.Description,
		Query:     p.location,
		URL:       p.options.BaseURL + "/rest/services/timeline/" + url.PathEscape(p.location) + "?" + query.Encode(),
		ErrorText: true,
	}, &data)
	if err != nil {
		return nil, err
	}

	return data.normalize(), nil
}

func visualCrossingHourly(h visualCrossingHour) forecast.Hourly {
	return forecast.Hourly{
		Timestamp:      unixTime(h.DatetimeEpoch),
		Conditions:     h.Conditions,
		ConditionsIcon: visualCrossingIcon(h.Icon),
		Temperature:    h.Temp,
	}
}

func (data *visualCrossingResponse) normalize() *forecast.Weather {
	c := data.CurrentConditions
	currentTime := unixTime(c.DatetimeEpoch)

	current := forecast.Current{
		Timestamp:            currentTime,
		Conditions:           c.Conditions,
		ConditionsIcon:       visualCrossingIcon(c.Icon),
		Temperature:          c.Temp,
		FeelsLikeTemperature: c.FeelsLike,
		DewPointTemperature:  c.Dew,
		RelativeHumidity:     forecast.Percent(c.Humidity),
		WindSpeed:            c.WindSpeed,
		WindDirection:        c.WindDir,
		Pressure:             c.Pressure,
		UVIndex:              forecast.RoundedInt(c.UVIndex),
		Visibility:           c.Visibility,
		Hourly:               []forecast.Hourly{},
	}
	if len(data.Days) > 0 {
		current.TemperatureLow = data.Days[0].TempMin
		current.TemperatureHigh = data.Days[0].TempMax
	}

	var upcoming []visualCrossingHour
	for i := 0; i < len(data.Days) && i < 2; i++ {
		upcoming = append(upcoming, data.Days[i].Hours...)
	}
	for _, h := range upcoming {
		if forecast.InWindow(unixTime(h.DatetimeEpoch), currentTime, forecast.Day) {
			current.Hourly = append(current.Hourly, visualCrossingHourly(h))
		}
	}

	daily := make([]forecast.Daily, 0, visualCrossingMaxDays)
	for _, d := range data.Days {
		if len(daily) == visualCrossingMaxDays {
			break
		}
		dayStart := unixTime(d.DatetimeEpoch)
		if !forecast.InDailyWindow(currentTime, dayStart) {
			continue
		}

		day := forecast.Daily{
			Timestamp:                dayStart,
			Conditions:               d.Conditions,
			ConditionsIcon:           visualCrossingIcon(d.Icon),
			TemperatureLow:           d.TempMin,
			TemperatureHigh:          d.TempMax,
			SunriseTimestamp:         unixTime(d.SunriseEpoch),
			SunsetTimestamp:          unixTime(d.SunsetEpoch),
			PrecipitationProbability: forecast.RoundedInt(d.PrecipProb),
			PrecipitationAmount:      d.Precip,
			Hourly:                   []forecast.Hourly{},
		}

		windowEnd := forecast.Later(currentTime, dayStart).Add(forecast.Day)
		for _, h := range d.Hours {
			if t := unixTime(h.DatetimeEpoch); !t.Before(dayStart) && t.Before(windowEnd) {
				day.Hourly = append(day.Hourly, visualCrossingHourly(h))
			}
		}
		daily = append(daily, day)
	}

	return &forecast.Weather{Current: current, Daily: forecast.FullDays(daily)}
}

var visualCrossingDescriptor = ports.ProviderDescriptor{
	ID:          "visualcrossing",
	Description: "Visual Crossing",
	Attribution: "https://www.visualcrossing.com/",
}

var visualCrossingFields = []ports.ProviderField{
	{Name: "api_key", Description: "API Key"},
	{Name: "location", Description: "Location"},
}

func newVisualCrossingProvider(params map[string]string, _ *forecast.Location, options ProviderOptions) ports.Provider {
	apiKey, location := params["api_key"], params["location"]
	if apiKey == "" || location == "" {
		return nil
	}
	return NewVisualCrossingProviderAdapter(VisualCrossingProviderParams{
		ProviderOptions: options,
		APIKey:          apiKey,
		Location:        location,
	})
}
