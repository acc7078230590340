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

var tomorrowIoDay0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func tomorrowIoFixture(t *testing.T, current time.Time) string {
	hourly := make([]map[string]interface{}, 0, 60)
	first := tomorrowIoDay0.Add(8 * time.Hour)
	for i := 0; i < 60; i++ {
		code := 1000
		if i == 7 {
			code = 9999
		}
		hourly = append(hourly, map[string]interface{}{
			"startTime": first.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			"values": map[string]interface{}{
				"weatherCode":   code,
				"temperature":   float64(i),
				"windSpeed":     3,
				"windDirection": 90,
			},
		})
	}

	daily := make([]map[string]interface{}, 0, 3)
	for i := 0; i < 3; i++ {
		start := tomorrowIoDay0.Add(time.Duration(i)*forecast.Day + 6*time.Hour)
		daily = append(daily, map[string]interface{}{
			"startTime": start.Format(time.RFC3339),
			"values": map[string]interface{}{
				"weatherCode":              4001,
				"temperatureMin":           2.0,
				"temperatureMax":           30.0,
				"sunriseTime":              start.Add(30 * time.Minute).Format(time.RFC3339),
				"sunsetTime":               start.Add(12 * time.Hour).Format(time.RFC3339),
				"precipitationProbability": 25,
			},
		})
	}

	body, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"timelines": []map[string]interface{}{
				{"timestep": "1h", "intervals": hourly},
				{"timestep": "1d", "intervals": daily},
				{"timestep": "current", "intervals": []map[string]interface{}{{
					"startTime": current.Format(time.RFC3339),
					"values": map[string]interface{}{
						"weatherCode":         1101,
						"temperature":         12.5,
						"temperatureApparent": 11.0,
						"dewPoint":            3.2,
						"humidity":            64.6,
						"windSpeed":           3,
						"windDirection":       45,
						"pressureSeaLevel":    1020.3,
						"uvIndex":             2,
						"visibility":          16,
					},
				}}},
			},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestTomorrowIoProvider_Fetch(t *testing.T) {
	now := tomorrowIoDay0.Add(14 * time.Hour)
	server := newJSONServer(t, http.StatusOK, tomorrowIoFixture(t, now), func(r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/v4/timelines", r.URL.Path)
		assert.Equal(t, "40.7,-74.0", query.Get("location"))
		assert.Equal(t, "secret", query.Get("apikey"))
		assert.Equal(t, "metric", query.Get("units"))
		assert.Equal(t, []string{"current", "1d", "1h"}, query["timesteps"])
		assert.Equal(t, "nowMinus6h", query.Get("startTime"))
		assert.Equal(t, "nowPlus5d", query.Get("endTime"))
		assert.Len(t, query["fields"], 15)
	})

	provider := NewTomorrowIoProviderAdapter(TomorrowIoProviderParams{
		ProviderOptions: ProviderOptions{BaseURL: server.URL, Logger: mocks.NewLogger(t).Quiet()},
		APIKey:          "secret",
		Location:        forecast.NewLocation("40.7", "-74.0"),
	})

	weather, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.NoError(t, weather.IsValid())

	current := weather.Current
	assert.Equal(t, now, current.Timestamp)
	assert.Equal(t, "Partly Cloudy", current.Conditions)
	assert.Equal(t, 65, current.RelativeHumidity)
	assert.InDelta(t, 10.8, current.WindSpeed, 1e-9)
	assert.Equal(t, 2, *current.UVIndex)
	assert.Equal(t, 2.0, current.TemperatureLow)
	assert.Equal(t, 30.0, current.TemperatureHigh)
	require.Len(t, current.Hourly, 24)
	assert.Equal(t, 6.0, current.Hourly[0].Temperature)
	assert.Equal(t, "Unknown", current.Hourly[1].Conditions)
	assert.Equal(t, forecast.IconUnknown, current.Hourly[1].ConditionsIcon)

	require.Len(t, weather.Daily, 2)

	today := weather.Daily[0]
	assert.Equal(t, tomorrowIoDay0.Add(6*time.Hour), today.Timestamp)
	assert.Equal(t, "Rain", today.Conditions)
	assert.Equal(t, forecast.IconRain, today.ConditionsIcon)
	assert.Equal(t, 6.0, today.TemperatureLow)
	assert.Equal(t, 29.0, today.TemperatureHigh)
	assert.Equal(t, 25, *today.PrecipitationProbability)
	assert.Equal(t, tomorrowIoDay0.Add(6*time.Hour+30*time.Minute), today.SunriseTimestamp)

	tomorrow := weather.Daily[1]
	assert.Equal(t, tomorrowIoDay0.Add(forecast.Day), tomorrow.Hourly[0].Timestamp)
	assert.Equal(t, 16.0, tomorrow.TemperatureLow)
	assert.Equal(t, 39.0, tomorrow.TemperatureHigh)
}

func TestTomorrowIoProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		errorType errors.ErrorType
	}{
		{"InvalidKey", http.StatusUnauthorized, `{"code":401001,"type":"Invalid Auth","message":"The method requires authentication but it was not presented or is invalid."}`, errors.UpstreamError},
		{"MissingTimeline", http.StatusOK, `{"data":{"timelines":[{"timestep":"1h","intervals":[]}]}}`, errors.DecodeError},
		{"Malformed", http.StatusOK, `{"data":`, errors.DecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newJSONServer(t, tt.status, tt.body, nil)
			provider := NewTomorrowIoProviderAdapter(TomorrowIoProviderParams{
				ProviderOptions: ProviderOptions{BaseURL: server.URL, Logger: mocks.NewLogger(t).Quiet()},
				APIKey:          "k",
				Location:        forecast.NewLocation("1", "2"),
			})

			weather, err := provider.Fetch(context.Background())

			assert.Nil(t, weather)
			assert.Equal(t, tt.errorType, errors.TypeOf(err))
			assert.Contains(t, err.Error(), "fetching from Tomorrow.io for 1,2")
		})
	}
}
