package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

var weatherFlowConditionsIcon = map[string]forecast.ConditionsIcon{
	"clear-day":                   forecast.IconClear,
	"clear-night":                 forecast.IconClear,
	"cloudy":                      forecast.IconOvercast,
	"foggy":                       forecast.IconFog,
	"partly-cloudy-day":           forecast.IconPartlyCloudy,
	"partly-cloudy-night":         forecast.IconPartlyCloudy,
	"possibly-rainy-day":          forecast.IconLightRain,
	"possibly-rainy-night":        forecast.IconLightRain,
	"possibly-sleet-day":          forecast.IconLightSleet,
	"possibly-sleet-night":        forecast.IconLightSleet,
	"possibly-snow-day":           forecast.IconLightSnow,
	"possibly-snow-night":         forecast.IconLightSnow,
	"possibly-thunderstorm-day":   forecast.IconThunderstorm,
	"possibly-thunderstorm-night": forecast.IconThunderstorm,
	"rainy":                       forecast.IconRain,
	"sleet":                       forecast.IconSleet,
	"snow":                        forecast.IconSnow,
	"thunderstorm":                forecast.IconThunderstorm,
	"windy":                       forecast.IconClear,
}

func weatherFlowIcon(icon string) forecast.ConditionsIcon {
	if mapped, ok := weatherFlowConditionsIcon[icon]; ok {
		return mapped
	}
	return forecast.IconUnknown
}

// weatherFlowErrorField reports status.status_message when status_code is non-zero.
// Successful responses carry status_code 0 with a "SUCCESS" message.
func weatherFlowErrorField(body []byte) string {
	var envelope struct {
		Status *struct {
			Code    int    `json:"status_code"`
			Message string `json:"status_message"`
		} `json:"status"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Status == nil || envelope.Status.Code == 0 {
		return ""
	}
	if envelope.Status.Message == "" {
		return fmt.Sprintf("status code %d", envelope.Status.Code)
	}
	return envelope.Status.Message
}

// WeatherFlowProviderAdapter fetches a station forecast from WeatherFlow
type WeatherFlowProviderAdapter struct {
	apiKey    string
	stationID string
	options   ProviderOptions
}

// WeatherFlowProviderParams holds parameters for creating WeatherFlow provider
type WeatherFlowProviderParams struct {
	ProviderOptions
	APIKey    string
	StationID string
}

type weatherFlowHour struct {
	Time           int64   `json:"time"`
	Conditions     string  `json:"conditions"`
	Icon           string  `json:"icon"`
	AirTemperature float64 `json:"air_temperature"`
	WindAvg        float64 `json:"wind_avg"`
	WindDirection  float64 `json:"wind_direction"`
}

type weatherFlowResponse struct {
	CurrentConditions struct {
		Time             int64    `json:"time"`
		Conditions       string   `json:"conditions"`
		Icon             string   `json:"icon"`
		AirTemperature   float64  `json:"air_temperature"`
		FeelsLike        float64  `json:"feels_like"`
		DewPoint         float64  `json:"dew_point"`
		RelativeHumidity float64  `json:"relative_humidity"`
		WindAvg          float64  `json:"wind_avg"`
		WindDirection    float64  `json:"wind_direction"`
		SeaLevelPressure float64  `json:"sea_level_pressure"`
		UV               *float64 `json:"uv"`
	} `json:"current_conditions"`
	Forecast struct {
		Daily []struct {
			DayStartLocal     int64    `json:"day_start_local"`
			Conditions        string   `json:"conditions"`
			Icon              string   `json:"icon"`
			AirTempLow        float64  `json:"air_temp_low"`
			AirTempHigh       float64  `json:"air_temp_high"`
			Sunrise           int64    `json:"sunrise"`
			Sunset            int64    `json:"sunset"`
			PrecipProbability *float64 `json:"precip_probability"`
		} `json:"daily"`
		Hourly []weatherFlowHour `json:"hourly"`
	} `json:"forecast"`
}

// NewWeatherFlowProviderAdapter creates a new WeatherFlow provider adapter
func NewWeatherFlowProviderAdapter(params WeatherFlowProviderParams) *WeatherFlowProviderAdapter {
	return &WeatherFlowProviderAdapter{
		apiKey:    params.APIKey,
		stationID: params.StationID,
		options:   params.ProviderOptions.withDefaults("https://swd.weatherflow.com"),
	}
}

// Fetch retrieves and normalizes the forecast
func (p *WeatherFlowProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	query := url.Values{}
	query.Set("station_id", p.stationID)
	query.Set("token", p.apiKey)

	var data weatherFlowResponse
	err := fetchJSON(ctx, p.options.Client, p.options.Logger, upstreamRequest{
		Provider:   weatherFlowDescriptor.Description,
		Query:      "station " + p.stationID,
		URL:        p.options.BaseURL + "/swd/rest/better_forecast?" + query.Encode(),
		ErrorField: weatherFlowErrorField,
	}, &data)
	if err != nil {
		return nil, err
	}

	return data.normalize(), nil
}

func (data *weatherFlowResponse) normalize() *forecast.Weather {
	c := data.CurrentConditions
	currentTime := unixTime(c.Time)

	current := forecast.Current{
		Timestamp:            currentTime,
		Conditions:           c.Conditions,
		ConditionsIcon:       weatherFlowIcon(c.Icon),
		Temperature:          c.AirTemperature,
		FeelsLikeTemperature: c.FeelsLike,
		DewPointTemperature:  c.DewPoint,
		RelativeHumidity:     forecast.Percent(c.RelativeHumidity),
		WindSpeed:            forecast.MetersPerSecondToKmh(c.WindAvg),
		WindDirection:        c.WindDirection,
		Pressure:             c.SeaLevelPressure,
		UVIndex:              forecast.RoundedInt(c.UV),
		Hourly:               []forecast.Hourly{},
	}
	if len(data.Forecast.Daily) > 0 {
		current.TemperatureLow = data.Forecast.Daily[0].AirTempLow
		current.TemperatureHigh = data.Forecast.Daily[0].AirTempHigh
	}
	for _, h := range data.Forecast.Hourly {
		if forecast.InWindow(unixTime(h.Time), currentTime, forecast.Day) {
			current.Hourly = append(current.Hourly, forecast.Hourly{
				Timestamp:      unixTime(h.Time),
				Conditions:     h.Conditions,
				ConditionsIcon: weatherFlowIcon(h.Icon),
				Temperature:    h.AirTemperature,
			})
		}
	}

	// The station forecast starts today, so every day is kept.
	daily := make([]forecast.Daily, 0, len(data.Forecast.Daily))
	for _, d := range data.Forecast.Daily {
		dayStart := unixTime(d.DayStartLocal)
		day := forecast.Daily{
			Timestamp:                dayStart,
			Conditions:               d.Conditions,
			ConditionsIcon:           weatherFlowIcon(d.Icon),
			TemperatureLow:           d.AirTempLow,
			TemperatureHigh:          d.AirTempHigh,
			SunriseTimestamp:         unixTime(d.Sunrise),
			SunsetTimestamp:          unixTime(d.Sunset),
			PrecipitationProbability: forecast.RoundedInt(d.PrecipProbability),
			Hourly:                   []forecast.Hourly{},
		}

		windowEnd := forecast.Later(currentTime, dayStart).Add(forecast.Day)
		for _, h := range data.Forecast.Hourly {
			if t := unixTime(h.Time); !t.Before(dayStart) && t.Before(windowEnd) {
				day.Hourly = append(day.Hourly, forecast.Hourly{
					Timestamp:      t,
					Conditions:     h.Conditions,
					ConditionsIcon: weatherFlowIcon(h.Icon),
					Temperature:    h.AirTemperature,
					WindSpeed:      forecast.Float(forecast.MetersPerSecondToKmh(h.WindAvg)),
					WindDirection:  forecast.Float(h.WindDirection),
				})
			}
		}
		daily = append(daily, day)
	}

	return &forecast.Weather{Current: current, Daily: forecast.FullDays(daily)}
}

var weatherFlowDescriptor = ports.ProviderDescriptor{
	ID:          "weatherflow",
	Description: "WeatherFlow",
	Attribution: "https://weatherflow.com/",
}

var weatherFlowFields = []ports.ProviderField{
	{Name: "api_key", Description: "API Key"},
	{Name: "station_id", Description: "Station ID"},
}

func newWeatherFlowProvider(params map[string]string, _ *forecast.Location, options ProviderOptions) ports.Provider {
	apiKey, stationID := params["api_key"], params["station_id"]
	if apiKey == "" || stationID == "" {
		return nil
	}
	return NewWeatherFlowProviderAdapter(WeatherFlowProviderParams{
		ProviderOptions: options,
		APIKey:          apiKey,
		StationID:       stationID,
	})
}
