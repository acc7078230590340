package external

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/mocks"
	"briefsky.app/pkg/errors"
)

var weatherFlowDay0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// weatherFlowFixture starts hourly data at the current hour and ends it
// partway through the third day.
func weatherFlowFixture(t *testing.T, current time.Time) string {
	hourly := make([]map[string]interface{}, 0, 50)
	for i := 0; i < 50; i++ {
		icon := "rainy"
		if i == 3 {
			icon = "tornado"
		}
		hourly = append(hourly, map[string]interface{}{
			"time":            current.Add(time.Duration(i) * time.Hour).Unix(),
			"conditions":      "Rain Likely",
			"icon":            icon,
			"air_temperature": float64(i),
			"wind_avg":        5,
			"wind_direction":  135,
		})
	}

	daily := make([]map[string]interface{}, 0, 3)
	for d := 0; d < 3; d++ {
		start := weatherFlowDay0.Add(time.Duration(d) * forecast.Day)
		daily = append(daily, map[string]interface{}{
			"day_start_local":    start.Unix(),
			"conditions":         "Snow Possible",
			"icon":               "possibly-snow-day",
			"air_temp_low":       -4.0,
			"air_temp_high":      1.0,
			"sunrise":            start.Add(7 * time.Hour).Unix(),
			"sunset":             start.Add(17 * time.Hour).Unix(),
			"precip_probability": 30,
		})
	}

	body, err := json.Marshal(map[string]interface{}{
		"status": map[string]interface{}{"status_code": 0, "status_message": "SUCCESS"},
		"current_conditions": map[string]interface{}{
			"time":               current.Unix(),
			"conditions":         "Clear",
			"icon":               "clear-night",
			"air_temperature":    -1.5,
			"feels_like":         -4.0,
			"dew_point":          -6.0,
			"relative_humidity":  70,
			"wind_avg":           2,
			"wind_direction":     350,
			"sea_level_pressure": 1022.8,
			"uv":                 0,
		},
		"forecast": map[string]interface{}{
			"daily":  daily,
			"hourly": hourly,
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestWeatherFlowProvider_Fetch(t *testing.T) {
	now := weatherFlowDay0.Add(21 * time.Hour)
	server := newJSONServer(t, http.StatusOK, weatherFlowFixture(t, now), func(r *http.Request) {
		assert.Equal(t, "/swd/rest/better_forecast", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("station_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
	})

	provider := NewWeatherFlowProviderAdapter(WeatherFlowProviderParams{
		ProviderOptions: ProviderOptions{BaseURL: server.URL, Logger: mocks.NewLogger(t).Quiet()},
		APIKey:          "secret",
		StationID:       "12345",
	})

	weather, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.NoError(t, weather.IsValid())

	current := weather.Current
	assert.Equal(t, now, current.Timestamp)
	assert.Equal(t, forecast.IconClear, current.ConditionsIcon)
	assert.Equal(t, 70, current.RelativeHumidity)
	assert.InDelta(t, 7.2, current.WindSpeed, 1e-9)
	assert.Equal(t, 0, *current.UVIndex)
	assert.Nil(t, current.Visibility)
	assert.Equal(t, -4.0, current.TemperatureLow)
	assert.Equal(t, 1.0, current.TemperatureHigh)
	require.Len(t, current.Hourly, 24)
	assert.Equal(t, forecast.IconUnknown, current.Hourly[3].ConditionsIcon)

	// the first day is kept even though it started 21 hours ago; the third is short
	require.Len(t, weather.Daily, 2)

	today := weather.Daily[0]
	assert.Equal(t, weatherFlowDay0, today.Timestamp)
	assert.Equal(t, forecast.IconLightSnow, today.ConditionsIcon)
	assert.Equal(t, now, today.Hourly[0].Timestamp)
	assert.InDelta(t, 18.0, *today.Hourly[0].WindSpeed, 1e-9)
	assert.Equal(t, 30, *today.PrecipitationProbability)
	assert.Nil(t, today.PrecipitationAmount)

	tomorrow := weather.Daily[1]
	assert.Equal(t, weatherFlowDay0.Add(forecast.Day), tomorrow.Hourly[0].Timestamp)
}

func TestWeatherFlowProvider_UpstreamError(t *testing.T) {
	server := newJSONServer(t, http.StatusUnauthorized, `{"status":{"status_code":401,"status_message":"UNAUTHORIZED"}}`, nil)

	provider := NewWeatherFlowProviderAdapter(WeatherFlowProviderParams{
		ProviderOptions: ProviderOptions{BaseURL: server.URL, Logger: mocks.NewLogger(t).Quiet()},
		APIKey:          "bad",
		StationID:       "12345",
	})

	_, err := provider.Fetch(context.Background())

	assert.Equal(t, errors.UpstreamError, errors.TypeOf(err))
	assert.Contains(t, err.Error(), "fetching from WeatherFlow for station 12345: UNAUTHORIZED")
}
