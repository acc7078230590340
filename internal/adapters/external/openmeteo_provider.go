package external

import (
	"context"
	"math"
	"net/url"
	"time"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

var openMeteoConditionsText = map[int]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Freezing Fog",
	51: "Light Drizzle",
	53: "Moderate Drizzle",
	55: "Dense Drizzle",
	56: "Light Freezing Drizzle",
	57: "Dense Freezing Drizzle",
	61: "Slight Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	66: "Light Freezing Rain",
	67: "Heavy Freezing Rain",
	71: "Slight Snow",
	73: "Moderate Snow",
	75: "Heavy Snow",
	77: "Snow Grains",
	80: "Slight Rain Showers",
	81: "Moderate Rain Showers",
	82: "Violent Rain Showers",
	85: "Slight Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Thunderstorm with Slight Hail",
	99: "Thunderstorm with Heavy Hail",
}

var openMeteoConditionsIcon = map[int]forecast.ConditionsIcon{
	0:  forecast.IconClear,
	1:  forecast.IconClear,
	2:  forecast.IconPartlyCloudy,
	3:  forecast.IconOvercast,
	45: forecast.IconFog,
	48: forecast.IconFog,
	51: forecast.IconLightRain,
	53: forecast.IconLightRain,
	55: forecast.IconLightRain,
	56: forecast.IconLightSleet,
	57: forecast.IconLightSleet,
	61: forecast.IconLightRain,
	63: forecast.IconRain,
	65: forecast.IconRain,
	66: forecast.IconLightSleet,
	67: forecast.IconSleet,
	71: forecast.IconLightSnow,
	73: forecast.IconSnow,
	75: forecast.IconSnow,
	77: forecast.IconLightSnow,
	80: forecast.IconLightRain,
	81: forecast.IconRain,
	82: forecast.IconRain,
	85: forecast.IconLightSnow,
	86: forecast.IconSnow,
	95: forecast.IconThunderstorm,
	96: forecast.IconThunderstorm,
	99: forecast.IconThunderstorm,
}

var (
	openMeteoDailyFields = []string{
		"weathercode", "temperature_2m_max", "temperature_2m_min", "sunrise", "sunset",
		"precipitation_probability_max", "precipitation_sum",
	}
	openMeteoHourlyFields = []string{
		"temperature_2m", "relativehumidity_2m", "dewpoint_2m", "apparent_temperature", "weathercode",
		"pressure_msl", "visibility", "windspeed_10m", "winddirection_10m", "precipitation_probability",
		"precipitation", "snowfall", "rain", "showers",
	}
)

// openMeteoCurrentWindow is the span of the current block's hourly list
const openMeteoCurrentWindow = 25 * time.Hour

func openMeteoConditions(code *int) (string, forecast.ConditionsIcon) {
	if code == nil {
		return unknownConditions, forecast.IconUnknown
	}
	text, ok := openMeteoConditionsText[*code]
	if !ok {
		text = unknownConditions
	}
	icon, ok := openMeteoConditionsIcon[*code]
	if !ok {
		icon = forecast.IconUnknown
	}
	return text, icon
}

// OpenMeteoProviderAdapter fetches from the Open-Meteo forecast API
type OpenMeteoProviderAdapter struct {
	location *forecast.Location
	options  ProviderOptions
}

// OpenMeteoProviderParams holds parameters for creating Open-Meteo provider
type OpenMeteoProviderParams struct {
	ProviderOptions
	Location *forecast.Location
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Time          int64   `json:"time"`
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection float64 `json:"winddirection"`
		WeatherCode   *int    `json:"weathercode"`
	} `json:"current_weather"`
	Daily struct {
		Time                        []int64    `json:"time"`
		WeatherCode                 []*int     `json:"weathercode"`
		TemperatureMax              []float64  `json:"temperature_2m_max"`
		TemperatureMin              []float64  `json:"temperature_2m_min"`
		Sunrise                     []int64    `json:"sunrise"`
		Sunset                      []int64    `json:"sunset"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		PrecipitationSum            []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
	Hourly struct {
		Time                     []int64    `json:"time"`
		Temperature              []float64  `json:"temperature_2m"`
		RelativeHumidity         []float64  `json:"relativehumidity_2m"`
		DewPoint                 []float64  `json:"dewpoint_2m"`
		ApparentTemperature      []float64  `json:"apparent_temperature"`
		WeatherCode              []*int     `json:"weathercode"`
		PressureMSL              []float64  `json:"pressure_msl"`
		Visibility               []*float64 `json:"visibility"`
		WindSpeed                []*float64 `json:"windspeed_10m"`
		WindDirection            []*float64 `json:"winddirection_10m"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
		Precipitation            []*float64 `json:"precipitation"`
		Snowfall                 []float64  `json:"snowfall"`
		Rain                     []float64  `json:"rain"`
		Showers                  []float64  `json:"showers"`
	} `json:"hourly"`
}

// NewOpenMeteoProviderAdapter creates a new Open-Meteo provider adapter
func NewOpenMeteoProviderAdapter(params OpenMeteoProviderParams) *OpenMeteoProviderAdapter {
	return &OpenMeteoProviderAdapter{
		location: params.Location,
		options:  params.ProviderOptions.withDefaults("https://api.open-meteo.com"),
	}
}

// Fetch retrieves and normalizes the forecast
func (p *OpenMeteoProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	now := p.options.Clock().UTC()

	query := url.Values{}
	query.Set("latitude", p.location.Latitude)
	query.Set("longitude", p.location.Longitude)
	query.Set("timezone", "auto")
	query.Set("timeformat", "unixtime")
	query.Set("start_date", now.Add(-forecast.Day).Format(time.DateOnly))
	query.Set("end_date", now.Add(8*forecast.Day).Format(time.DateOnly))
	query.Set("current_weather", "true")
	for _, field := range openMeteoDailyFields {
		query.Add("daily", field)
	}
	for _, field := range openMeteoHourlyFields {
		query.Add("hourly", field)
	}

	var data openMeteoResponse
	err := fetchJSON(ctx, p.options.Client, p.options.Logger, upstreamRequest{
		Provider:   openMeteoDescriptor.Description,
		Query:      p.location.String(),
		URL:        p.options.BaseURL + "/v1/forecast?" + query.Encode(),
		ErrorField: jsonErrorField("reason"),
	}, &data)
	if err != nil {
		return nil, err
	}

	return data.normalize(), nil
}

func (data *openMeteoResponse) normalize() *forecast.Weather {
	cw := data.CurrentWeather
	currentTime := unixTime(cw.Time)

	dailyIndex := 0
	if len(data.Daily.Time) > 1 && cw.Time >= data.Daily.Time[1] {
		dailyIndex = 1
	}

	hourlyIndex := -1
	bestDelta := int64(math.MaxInt64)
	for i, t := range data.Hourly.Time {
		delta := t - cw.Time
		if delta < 0 {
			delta = -delta
		}
		if delta < bestDelta {
			hourlyIndex, bestDelta = i, delta
		}
	}

	conditions, icon := openMeteoConditions(cw.WeatherCode)
	current := forecast.Current{
		Timestamp:            currentTime,
		Conditions:           conditions,
		ConditionsIcon:       icon,
		Temperature:          cw.Temperature,
		TemperatureLow:       valueAt(data.Daily.TemperatureMin, dailyIndex),
		TemperatureHigh:      valueAt(data.Daily.TemperatureMax, dailyIndex),
		FeelsLikeTemperature: valueAt(data.Hourly.ApparentTemperature, hourlyIndex),
		DewPointTemperature:  valueAt(data.Hourly.DewPoint, hourlyIndex),
		RelativeHumidity:     forecast.Percent(valueAt(data.Hourly.RelativeHumidity, hourlyIndex)),
		WindSpeed:            cw.WindSpeed,
		WindDirection:        cw.WindDirection,
		Pressure:             valueAt(data.Hourly.PressureMSL, hourlyIndex),
		Hourly:               []forecast.Hourly{},
	}
	if visibility := valueAt(data.Hourly.Visibility, hourlyIndex); visibility != nil {
		current.Visibility = forecast.Float(*visibility / 1000)
	}

	for i, t := range data.Hourly.Time {
		if forecast.InWindow(unixTime(t), currentTime, openMeteoCurrentWindow) {
			hour := data.hour(i)
			current.Hourly = append(current.Hourly, forecast.Hourly{
				Timestamp:      hour.Timestamp,
				Conditions:     hour.Conditions,
				ConditionsIcon: hour.ConditionsIcon,
				Temperature:    hour.Temperature,
			})
		}
	}

	daily := make([]forecast.Daily, 0, len(data.Daily.Time))
	for i, t := range data.Daily.Time {
		dayStart := unixTime(t)
		if !forecast.InDailyWindow(currentTime, dayStart) {
			continue
		}

		conditions, icon := openMeteoConditions(valueAt(data.Daily.WeatherCode, i))
		day := forecast.Daily{
			Timestamp:                dayStart,
			Conditions:               conditions,
			ConditionsIcon:           icon,
			TemperatureLow:           valueAt(data.Daily.TemperatureMin, i),
			TemperatureHigh:          valueAt(data.Daily.TemperatureMax, i),
			SunriseTimestamp:         unixTime(valueAt(data.Daily.Sunrise, i)),
			SunsetTimestamp:          unixTime(valueAt(data.Daily.Sunset, i)),
			PrecipitationProbability: forecast.RoundedInt(valueAt(data.Daily.PrecipitationProbabilityMax, i)),
			PrecipitationAmount:      valueAt(data.Daily.PrecipitationSum, i),
			Hourly:                   []forecast.Hourly{},
		}
		for j, h := range data.Hourly.Time {
			if forecast.InWindow(unixTime(h), dayStart, forecast.Day) {
				day.Hourly = append(day.Hourly, data.hour(j))
			}
		}
		daily = append(daily, day)
	}

	return &forecast.Weather{Current: current, Daily: forecast.FullDays(daily)}
}

func (data *openMeteoResponse) hour(i int) forecast.Hourly {
	h := data.Hourly
	conditions, icon := openMeteoConditions(valueAt(h.WeatherCode, i))

	precipitation := valueAt(h.Precipitation, i)
	precipitationType := forecast.PrecipitationRain
	switch {
	case precipitation != nil && *precipitation == 0:
		precipitationType = forecast.PrecipitationNone
	case valueAt(h.Snowfall, i) > valueAt(h.Rain, i)+valueAt(h.Showers, i):
		precipitationType = forecast.PrecipitationSnow
	}

	return forecast.Hourly{
		Timestamp:                unixTime(valueAt(h.Time, i)),
		Conditions:               conditions,
		ConditionsIcon:           icon,
		Temperature:              valueAt(h.Temperature, i),
		WindSpeed:                valueAt(h.WindSpeed, i),
		WindDirection:            valueAt(h.WindDirection, i),
		PrecipitationProbability: forecast.RoundedInt(valueAt(h.PrecipitationProbability, i)),
		PrecipitationAmount:      precipitation,
		PrecipitationType:        &precipitationType,
	}
}

var openMeteoDescriptor = ports.ProviderDescriptor{
	ID:               "openmeteo",
	Description:      "Open-Meteo",
	Attribution:      "https://open-meteo.com",
	RequiresLocation: true,
}

func newOpenMeteoProvider(_ map[string]string, location *forecast.Location, options ProviderOptions) ports.Provider {
	if !location.Valid() {
		return nil
	}
	return NewOpenMeteoProviderAdapter(OpenMeteoProviderParams{ProviderOptions: options, Location: location})
}
