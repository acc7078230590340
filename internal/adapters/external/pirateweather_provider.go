package external

import (
	"context"
	"fmt"
	"net/url"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

var pirateWeatherConditionsIcon = map[string]forecast.ConditionsIcon{
	"clear-day":           forecast.IconClear,
	"clear-night":         forecast.IconClear,
	"rain":                forecast.IconRain,
	"snow":                forecast.IconSnow,
	"sleet":               forecast.IconSleet,
	"wind":                forecast.IconClear,
	"fog":                 forecast.IconFog,
	"cloudy":              forecast.IconOvercast,
	"partly-cloudy-day":   forecast.IconPartlyCloudy,
	"partly-cloudy-night": forecast.IconPartlyCloudy,
}

func pirateWeatherIcon(icon string) forecast.ConditionsIcon {
	if mapped, ok := pirateWeatherConditionsIcon[icon]; ok {
		return mapped
	}
	return forecast.IconUnknown
}

// PirateWeatherProviderAdapter fetches from the Pirate Weather forecast API
type PirateWeatherProviderAdapter struct {
	apiKey   string
	location *forecast.Location
	options  ProviderOptions
}

// PirateWeatherProviderParams holds parameters for creating Pirate Weather provider
type PirateWeatherProviderParams struct {
	ProviderOptions
	APIKey   string
	Location *forecast.Location
}

type pirateWeatherHour struct {
	Time        int64   `json:"time"`
	Summary     string  `json:"summary"`
	Icon        string  `json:"icon"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windSpeed"`
	WindBearing float64 `json:"windBearing"`
}

type pirateWeatherResponse struct {
	Currently struct {
		Time                int64    `json:"time"`
		Summary             string   `json:"summary"`
		Icon                string   `json:"icon"`
		Temperature         float64  `json:"temperature"`
		ApparentTemperature float64  `json:"apparentTemperature"`
		DewPoint            float64  `json:"dewPoint"`
		Humidity            float64  `json:"humidity"`
		WindSpeed           float64  `json:"windSpeed"`
		WindBearing         float64  `json:"windBearing"`
		Pressure            float64  `json:"pressure"`
		Visibility          *float64 `json:"visibility"`
		UVIndex             *float64 `json:"uvIndex"`
	} `json:"currently"`
	Hourly struct {
		Data []pirateWeatherHour `json:"data"`
	} `json:"hourly"`
	Daily struct {
		Data []struct {
			Time               int64    `json:"time"`
			Summary            string   `json:"summary"`
			Icon               string   `json:"icon"`
			TemperatureMin     float64  `json:"temperatureMin"`
			TemperatureMax     float64  `json:"temperatureMax"`
			SunriseTime        int64    `json:"sunriseTime"`
			SunsetTime         int64    `json:"sunsetTime"`
			PrecipProbability  *float64 `json:"precipProbability"`
			PrecipAccumulation *float64 `json:"precipAccumulation"`
		} `json:"data"`
	} `json:"daily"`
}

// NewPirateWeatherProviderAdapter creates a new Pirate Weather provider adapter
func NewPirateWeatherProviderAdapter(params PirateWeatherProviderParams) *PirateWeatherProviderAdapter {
	return &PirateWeatherProviderAdapter{
		apiKey:   params.APIKey,
		location: params.Location,
		options:  params.ProviderOptions.withDefaults("https://api.pirateweather.net"),
	}
}

// Fetch retrieves and normalizes the forecast
func (p *PirateWeatherProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	query := url.Values{}
	query.Set("exclude", "minutely")
	query.Set("units", "si")
	query.Set("extend", "hourly")

	endpoint := fmt.Sprintf("%s/forecast/%s/%s,%s?%s",
		p.options.BaseURL,
		url.PathEscape(p.apiKey),
		url.PathEscape(p.location.Latitude),
		url.PathEscape(p.location.Longitude),
		query.Encode())

	var data pirateWeatherResponse
	err := fetchJSON(ctx, p.options.Client, p.options.Logger, upstreamRequest{
		Provider:   pirateWeatherDescriptor.Description,
		Query:      p.location.String(),
		URL:        endpoint,
		ErrorField: jsonErrorField("reason"),
	}, &data)
	if err != nil {
		return nil, err
	}

	return data.normalize(), nil
}

func (data *pirateWeatherResponse) normalize() *forecast.Weather {
	c := data.Currently
	currentTime := unixTime(c.Time)

	current := forecast.Current{
		Timestamp:            currentTime,
		Conditions:           c.Summary,
		ConditionsIcon:       pirateWeatherIcon(c.Icon),
		Temperature:          c.Temperature,
		FeelsLikeTemperature: c.ApparentTemperature,
		DewPointTemperature:  c.DewPoint,
		RelativeHumidity:     forecast.FractionPercent(c.Humidity),
		WindSpeed:            forecast.MetersPerSecondToKmh(c.WindSpeed),
		WindDirection:        c.WindBearing,
		Pressure:             c.Pressure,
		Visibility:           c.Visibility,
		UVIndex:              forecast.RoundedInt(c.UVIndex),
		Hourly:               []forecast.Hourly{},
	}
	for _, h := range data.Hourly.Data {
		if forecast.InWindow(unixTime(h.Time), currentTime, forecast.Day) {
			current.Hourly = append(current.Hourly, forecast.Hourly{
				Timestamp:      unixTime(h.Time),
				Conditions:     h.Summary,
				ConditionsIcon: pirateWeatherIcon(h.Icon),
				Temperature:    h.Temperature,
			})
		}
	}
	// temperatureMin/Max only cover the remainder of the day
	if low, high, ok := forecast.HourlyExtremes(current.Hourly); ok {
		current.TemperatureLow, current.TemperatureHigh = low, high
	}

	daily := make([]forecast.Daily, 0, len(data.Daily.Data))
	for _, d := range data.Daily.Data {
		dayStart := unixTime(d.Time)
		if !forecast.InDailyWindow(currentTime, dayStart) {
			continue
		}

		day := forecast.Daily{
			Timestamp:           dayStart,
			Conditions:          d.Summary,
			ConditionsIcon:      pirateWeatherIcon(d.Icon),
			TemperatureLow:      d.TemperatureMin,
			TemperatureHigh:     d.TemperatureMax,
			SunriseTimestamp:    unixTime(d.SunriseTime),
			SunsetTimestamp:     unixTime(d.SunsetTime),
			PrecipitationAmount: d.PrecipAccumulation,
			Hourly:              []forecast.Hourly{},
		}
		if d.PrecipProbability != nil {
			day.PrecipitationProbability = forecast.Int(forecast.FractionPercent(*d.PrecipProbability))
		}

		windowStart := forecast.Later(dayStart, currentTime)
		for _, h := range data.Hourly.Data {
			if forecast.InWindow(unixTime(h.Time), windowStart, forecast.Day) {
				day.Hourly = append(day.Hourly, forecast.Hourly{
					Timestamp:      unixTime(h.Time),
					Conditions:     h.Summary,
					ConditionsIcon: pirateWeatherIcon(h.Icon),
					Temperature:    h.Temperature,
					WindSpeed:      forecast.Float(forecast.MetersPerSecondToKmh(h.WindSpeed)),
					WindDirection:  forecast.Float(h.WindBearing),
				})
			}
		}
		daily = append(daily, day)
	}

	daily = forecast.FullDays(daily)
	if len(daily) > 0 {
		daily[0].DeriveExtremes()
	}

	return &forecast.Weather{Current: current, Daily: daily}
}

var pirateWeatherDescriptor = ports.ProviderDescriptor{
	ID:               "pirateweather",
	Description:      "Pirate Weather",
	Attribution:      "https://pirateweather.net/",
	RequiresLocation: true,
}

var pirateWeatherFields = []ports.ProviderField{{Name: "api_key", Description: "API Key"}}

func newPirateWeatherProvider(params map[string]string, location *forecast.Location, options ProviderOptions) ports.Provider {
	apiKey := params["api_key"]
	if apiKey == "" || !location.Valid() {
		return nil
	}
	return NewPirateWeatherProviderAdapter(PirateWeatherProviderParams{
		ProviderOptions: options,
		APIKey:          apiKey,
		Location:        location,
	})
}
