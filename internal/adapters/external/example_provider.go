package external

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

//go:embed example_weather.yaml
var exampleWeatherYAML []byte

// exampleDays is how many complete days the example provider emits
const exampleDays = 7

type exampleProfile struct {
	Base struct {
		Temperature     float64       `yaml:"temperature"`
		FeelsLikeOffset float64       `yaml:"feels_like_offset"`
		DewPoint        float64       `yaml:"dew_point"`
		Humidity        int           `yaml:"humidity"`
		WindSpeed       float64       `yaml:"wind_speed"`
		WindDirection   float64       `yaml:"wind_direction"`
		Pressure        float64       `yaml:"pressure"`
		UVIndex         int           `yaml:"uv_index"`
		Visibility      float64       `yaml:"visibility"`
		Sunrise         time.Duration `yaml:"sunrise"`
		Sunset          time.Duration `yaml:"sunset"`
	} `yaml:"base"`
	Days []struct {
		Conditions               string  `yaml:"conditions"`
		Icon                     string  `yaml:"icon"`
		Offset                   float64 `yaml:"offset"`
		PrecipitationProbability int     `yaml:"precipitation_probability"`
		PrecipitationAmount      float64 `yaml:"precipitation_amount"`
	} `yaml:"days"`
	Hours []struct {
		Conditions               string  `yaml:"conditions"`
		Icon                     string  `yaml:"icon"`
		Temperature              float64 `yaml:"temperature"`
		PrecipitationProbability int     `yaml:"precipitation_probability"`
		Precipitation            string  `yaml:"precipitation"`
	} `yaml:"hours"`
}

var loadExampleProfile = sync.OnceValues(func() (*exampleProfile, error) {
	var profile exampleProfile
	if err := yaml.Unmarshal(exampleWeatherYAML, &profile); err != nil {
		return nil, err
	}
	if len(profile.Hours) != forecast.HoursPerDay {
		return nil, fmt.Errorf("profile has %d hours, want %d", len(profile.Hours), forecast.HoursPerDay)
	}
	if len(profile.Days) != exampleDays {
		return nil, fmt.Errorf("profile has %d days, want %d", len(profile.Days), exampleDays)
	}
	return &profile, nil
})

func exampleIcon(name string) forecast.ConditionsIcon {
	var icon forecast.ConditionsIcon
	_ = icon.UnmarshalText([]byte(name))
	return icon
}

// ExampleProviderAdapter produces deterministic sample data without any network call
type ExampleProviderAdapter struct {
	clock Clock
}

// NewExampleProviderAdapter creates a new example provider
func NewExampleProviderAdapter(clock Clock) *ExampleProviderAdapter {
	if clock == nil {
		clock = time.Now
	}
	return &ExampleProviderAdapter{clock: clock}
}

// Fetch builds a week of sample weather anchored at the current hour
func (p *ExampleProviderAdapter) Fetch(ctx context.Context) (*forecast.Weather, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewNetworkError("fetching from Example: "+err.Error(), err)
	}

	profile, err := loadExampleProfile()
	if err != nil {
		return nil, errors.NewDecodeError("fetching from Example: unexpected profile data: "+err.Error(), err)
	}

	now := p.clock().UTC().Truncate(time.Hour)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	day := func(i int) forecast.Daily {
		start := midnight.Add(time.Duration(i) * forecast.Day)
		d := profile.Days[i]
		daily := forecast.Daily{
			Timestamp:                start,
			Conditions:               d.Conditions,
			ConditionsIcon:           exampleIcon(d.Icon),
			SunriseTimestamp:         start.Add(profile.Base.Sunrise),
			SunsetTimestamp:          start.Add(profile.Base.Sunset),
			PrecipitationProbability: forecast.Int(d.PrecipitationProbability),
			PrecipitationAmount:      forecast.Float(d.PrecipitationAmount),
			Hourly:                   make([]forecast.Hourly, 0, forecast.HoursPerDay),
		}
		for h := 0; h < forecast.HoursPerDay; h++ {
			daily.Hourly = append(daily.Hourly, p.hour(profile, midnight, start.Add(time.Duration(h)*time.Hour)))
		}
		daily.DeriveExtremes()
		return daily
	}

	daily := make([]forecast.Daily, 0, exampleDays)
	for i := 0; i < exampleDays; i++ {
		daily = append(daily, day(i))
	}

	nowHour := p.hour(profile, midnight, now)
	current := forecast.Current{
		Timestamp:            now,
		Conditions:           nowHour.Conditions,
		ConditionsIcon:       nowHour.ConditionsIcon,
		Temperature:          nowHour.Temperature,
		TemperatureLow:       daily[0].TemperatureLow,
		TemperatureHigh:      daily[0].TemperatureHigh,
		FeelsLikeTemperature: nowHour.Temperature + profile.Base.FeelsLikeOffset,
		DewPointTemperature:  profile.Base.DewPoint,
		RelativeHumidity:     profile.Base.Humidity,
		WindSpeed:            *nowHour.WindSpeed,
		WindDirection:        *nowHour.WindDirection,
		Pressure:             profile.Base.Pressure,
		UVIndex:              forecast.Int(profile.Base.UVIndex),
		Visibility:           forecast.Float(profile.Base.Visibility),
		Hourly:               make([]forecast.Hourly, 0, forecast.HoursPerDay),
	}
	for h := 0; h < forecast.HoursPerDay; h++ {
		hour := p.hour(profile, midnight, now.Add(time.Duration(h)*time.Hour))
		current.Hourly = append(current.Hourly, forecast.Hourly{
			Timestamp:      hour.Timestamp,
			Conditions:     hour.Conditions,
			ConditionsIcon: hour.ConditionsIcon,
			Temperature:    hour.Temperature,
		})
	}

	return &forecast.Weather{Current: current, Daily: daily}, nil
}

// hour builds the entry for t from the profile hour and the day offset
func (p *ExampleProviderAdapter) hour(profile *exampleProfile, midnight, t time.Time) forecast.Hourly {
	entry := profile.Hours[t.Hour()]
	dayIndex := int(t.Sub(midnight) / forecast.Day)
	d := profile.Days[dayIndex%len(profile.Days)]

	var precipitationType forecast.PrecipitationType
	if err := precipitationType.UnmarshalText([]byte(entry.Precipitation)); err != nil {
		precipitationType = forecast.PrecipitationNone
	}
	amount := 0.0
	if precipitationType != forecast.PrecipitationNone {
		amount = math.Round(d.PrecipitationAmount/4*10) / 10
	}

	return forecast.Hourly{
		Timestamp:                t,
		Conditions:               entry.Conditions,
		ConditionsIcon:           exampleIcon(entry.Icon),
		Temperature:              profile.Base.Temperature + d.Offset + entry.Temperature,
		WindSpeed:                forecast.Float(profile.Base.WindSpeed + float64(t.Hour()%6)),
		WindDirection:            forecast.Float(math.Mod(profile.Base.WindDirection+float64(t.Hour()*5), 360)),
		PrecipitationProbability: forecast.Int(entry.PrecipitationProbability),
		PrecipitationAmount:      forecast.Float(amount),
		PrecipitationType:        &precipitationType,
	}
}

var exampleDescriptor = ports.ProviderDescriptor{
	ID:          "example",
	Description: "Example",
}

func newExampleProvider(_ map[string]string, _ *forecast.Location, options ProviderOptions) ports.Provider {
	return NewExampleProviderAdapter(options.Clock)
}
