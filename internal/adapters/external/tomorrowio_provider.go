package external

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

var tomorrowIoConditionsText = map[int]string{
	1000: "Clear, Sunny",
	1100: "Mostly Clear",
	1101: "Partly Cloudy",
	1102: "Mostly Cloudy",
	1001: "Cloudy",
	2000: "Fog",
	2100: "Light Fog",
	4000: "Drizzle",
	4001: "Rain",
	4200: "Light Rain",
	4201: "Heavy Rain",
	5000: "Snow",
	5001: "Flurries",
	5100: "Light Snow",
	5101: "Heavy Snow",
	6000: "Freezing Drizzle",
	6001: "Freezing Rain",
	6200: "Light Freezing Rain",
	6201: "Heavy Freezing Rain",
	7000: "Ice Pellets",
	7101: "Heavy Ice Pellets",
	7102: "Light Ice Pellets",
	8000: "Thunderstorm",
}

var tomorrowIoConditionsIcon = map[int]forecast.ConditionsIcon{
	1000: forecast.IconClear,
	1100: forecast.IconClear,
	1101: forecast.IconPartlyCloudy,
	1102: forecast.IconMostlyCloudy,
	1001: forecast.IconOvercast,
	2000: forecast.IconFog,
	2100: forecast.IconFog,
	4000: forecast.IconLightRain,
	4001: forecast.IconRain,
	4200: forecast.IconLightRain,
	4201: forecast.IconRain,
	5000: forecast.IconSnow,
	5001: forecast.IconLightSnow,
	5100: forecast.IconLightSnow,
	5101: forecast.IconSnow,
	6000: forecast.IconLightSleet,
	6001: forecast.IconLightSleet,
	6200: forecast.IconLightSleet,
	6201: forecast.IconSleet,
	7000: forecast.IconSleet,
	7101: forecast.IconSleet,
	7102: forecast.IconSleet,
	8000: forecast.IconThunderstorm,
}

var tomorrowIoFields = []string{
	"weatherCode", "temperature", "temperatureMin", "temperatureMax", "temperatureApparent",
	"dewPoint", "humidity", "windSpeed", "windDirection", "pressureSeaLevel", "uvIndex",
	"visibility", "sunriseTime", "sunsetTime", "precipitationProbability",
}

// tomorrowIoDayOffset is how far Tomorrow.io days start after midnight
const tomorrowIoDayOffset = 6 * time.Hour

func tomorrowIoConditions(code *int) (string, forecast.ConditionsIcon) {
	if code == nil {
		return unknownConditions, forecast.IconUnknown
	}
	text, ok := tomorrowIoConditionsText[*code]
	if !ok {
		text = unknownConditions
	}
	icon, ok := tomorrowIoConditionsIcon[*code]
	if !ok {
		icon = forecast.IconUnknown
	}
	return text, icon
}

// TomorrowIoProviderAdapter fetches from the Tomorrow.io timelines API
type TomorrowIoProviderAdapter struct {
	apiKey   string
	location *forecast.Location
	options  ProviderOptions
}

// TomorrowIoProviderParams holds parameters for creating Tomorrow.io provider
type TomorrowIoProviderParams struct {
	ProviderOptions
	APIKey   string
	Location *forecast.Location
}

type tomorrowIoInterval struct {
	StartTime time.Time `json:"startTime"`
	Values    struct {
		WeatherCode              *int      `json:"weatherCode"`
		Temperature              float64   `json:"temperature"`
		TemperatureMin           float64   `json:"temperatureMin"`
		TemperatureMax           float64   `json:"temperatureMax"`
		TemperatureApparent      float64   `json:"temperatureApparent"`
		DewPoint                 float64   `json:"dewPoint"`
		Humidity                 float64   `json:"humidity"`
		WindSpeed                float64   `json:"windSpeed"`
		WindDirection            float64   `json:"windDirection"`
		PressureSeaLevel         float64   `json:"pressureSeaLevel"`
		UVIndex                  *float64  `json:"uvIndex"`
		Visibility               *float64  `json:"visibility"`
		SunriseTime              time.Time `json:"sunriseTime"`
		SunsetTime               time.Time `json:"sunsetTime"`
		PrecipitationProbability *float64  `json:"precipitationProbability"`
	} `json:"values"`
}

type tomorrowIoResponse struct {
	Data struct {
		Timelines []struct {
			Timestep  string               `json:"timestep"`
			Intervals []tomorrowIoInterval `json:"intervals"`
		} `json:"timelines"`
	} `json:"data"`
}

func (data *tomorrowIoResponse) timeline(timestep string) ([]tomorrowIoInterval, bool) {
	for _, timeline := range data.Data.Timelines {
		if timeline.Timestep == timestep {
			return timeline.Intervals, true
		}
	}
	return nil, false
}

// NewTomorrowIoProviderAdapter creates a new Tomorrow.io provider adapter
func NewTomorrowIoProviderAdapter(params TomorrowIoProviderParams) *TomorrowIoProviderAdapter {
	return &TomorrowIoProviderAdapter{
		apiKey:   params.APIKey,
		location: params.Location,
		options:  params.ProviderOptions.withDefaults("https://api.tomorrow.io"),
	}
}

// Fetch retrieves and normalizes the forecast
func (p *TomorrowIoProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	query := url.Values{}
	query.Set("location", p.location.String())
	query.Set("apikey", p.apiKey)
	query.Set("units", "metric")
	query.Add("timesteps", "current")
	query.Add("timesteps", "1d")
	query.Add("timesteps", "1h")
	query.Set("startTime", "nowMinus6h")
	query.Set("endTime", "nowPlus5d")
	for _, field := range tomorrowIoFields {
		query.Add("fields", field)
	}

	request := upstreamRequest{
		Provider:   tomorrowIoDescriptor.Description,
		Query:      p.location.String(),
		URL:        p.options.BaseURL + "/v4/timelines?" + query.Encode(),
		ErrorField: jsonErrorField("message"),
	}

	var data tomorrowIoResponse
	if err := fetchJSON(ctx, p.options.Client, p.options.Logger, request, &data); err != nil {
		return nil, err
	}

	return data.normalize(request)
}

func (data *tomorrowIoResponse) normalize(request upstreamRequest) (*forecast.Weather, error) {
	timelines := make(map[string][]tomorrowIoInterval, 3)
	for _, timestep := range []string{"current", "1d", "1h"} {
		intervals, ok := data.timeline(timestep)
		if !ok || (timestep == "current" && len(intervals) == 0) {
			return nil, errors.NewDecodeError(request.failure(fmt.Sprintf("unexpected response data: missing %s timeline", timestep)), nil)
		}
		timelines[timestep] = intervals
	}
	currentData, dailyData, hourlyData := timelines["current"][0], timelines["1d"], timelines["1h"]

	currentTime := currentData.StartTime
	conditions, icon := tomorrowIoConditions(currentData.Values.WeatherCode)
	current := forecast.Current{
		Timestamp:            currentTime,
		Conditions:           conditions,
		ConditionsIcon:       icon,
		Temperature:          currentData.Values.Temperature,
		FeelsLikeTemperature: currentData.Values.TemperatureApparent,
		DewPointTemperature:  currentData.Values.DewPoint,
		RelativeHumidity:     forecast.Percent(currentData.Values.Humidity),
		WindSpeed:            forecast.MetersPerSecondToKmh(currentData.Values.WindSpeed),
		WindDirection:        currentData.Values.WindDirection,
		Pressure:             currentData.Values.PressureSeaLevel,
		UVIndex:              forecast.RoundedInt(currentData.Values.UVIndex),
		Visibility:           currentData.Values.Visibility,
		Hourly:               []forecast.Hourly{},
	}
	if len(dailyData) > 0 {
		current.TemperatureLow = dailyData[0].Values.TemperatureMin
		current.TemperatureHigh = dailyData[0].Values.TemperatureMax
	}
	for _, h := range hourlyData {
		if forecast.InWindow(h.StartTime, currentTime, forecast.Day) {
			conditions, icon := tomorrowIoConditions(h.Values.WeatherCode)
			current.Hourly = append(current.Hourly, forecast.Hourly{
				Timestamp:      h.StartTime,
				Conditions:     conditions,
				ConditionsIcon: icon,
				Temperature:    h.Values.Temperature,
			})
		}
	}

	daily := make([]forecast.Daily, 0, len(dailyData))
	for _, d := range dailyData {
		dayStart := d.StartTime.Add(-tomorrowIoDayOffset)
		if !forecast.InDailyWindow(currentTime, dayStart) {
			continue
		}

		conditions, icon := tomorrowIoConditions(d.Values.WeatherCode)
		day := forecast.Daily{
			Timestamp:                d.StartTime,
			Conditions:               conditions,
			ConditionsIcon:           icon,
			SunriseTimestamp:         d.Values.SunriseTime,
			SunsetTimestamp:          d.Values.SunsetTime,
			PrecipitationProbability: forecast.RoundedInt(d.Values.PrecipitationProbability),
			Hourly:                   []forecast.Hourly{},
		}

		windowStart := forecast.Later(dayStart, currentTime)
		for _, h := range hourlyData {
			if forecast.InWindow(h.StartTime, windowStart, forecast.Day) {
				conditions, icon := tomorrowIoConditions(h.Values.WeatherCode)
				day.Hourly = append(day.Hourly, forecast.Hourly{
					Timestamp:      h.StartTime,
					Conditions:     conditions,
					ConditionsIcon: icon,
					Temperature:    h.Values.Temperature,
					WindSpeed:      forecast.Float(forecast.MetersPerSecondToKmh(h.Values.WindSpeed)),
					WindDirection:  forecast.Float(h.Values.WindDirection),
				})
			}
		}
		daily = append(daily, day)
	}

	// Days run 6am to 6am, so upstream extremes do not match the hourly span.
	daily = forecast.FullDays(daily)
	for i := range daily {
		daily[i].DeriveExtremes()
	}

	return &forecast.Weather{Current: current, Daily: daily}, nil
}

var tomorrowIoDescriptor = ports.ProviderDescriptor{
	ID:               "tomorrowio",
	Description:      "Tomorrow.io",
	Attribution:      "https://www.tomorrow.io/",
	RequiresLocation: true,
}

var tomorrowIoProviderFields = []ports.ProviderField{{Name: "api_key", Description: "API Key"}}

func newTomorrowIoProvider(params map[string]string, location *forecast.Location, options ProviderOptions) ports.Provider {
	apiKey := params["api_key"]
	if apiKey == "" || !location.Valid() {
		return nil
	}
	return NewTomorrowIoProviderAdapter(TomorrowIoProviderParams{
		ProviderOptions: options,
		APIKey:          apiKey,
		Location:        location,
	})
}
