package forecast

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoursFrom(start time.Time, n int, temps ...float64) []Hourly {
	hours := make([]Hourly, n)
	for i := range hours {
		hours[i] = Hourly{Timestamp: start.Add(time.Duration(i) * time.Hour)}
		if i < len(temps) {
			hours[i].Temperature = temps[i]
		}
	}
	return hours
}

func TestConditionsIcon_String(t *testing.T) {
	assert.Equal(t, "Clear", IconClear.String())
	assert.Equal(t, "PartlyCloudy", IconPartlyCloudy.String())
	assert.Equal(t, "Thunderstorm", IconThunderstorm.String())
	assert.Equal(t, "Unknown", IconUnknown.String())
	assert.Equal(t, "Unknown", ConditionsIcon(42).String())
	assert.Equal(t, 12, int(IconUnknown))
}

func TestConditionsIcon_JSON(t *testing.T) {
	data, err := json.Marshal(Hourly{ConditionsIcon: IconLightSnow})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"conditions_icon":"LightSnow"`)

	var decoded Hourly
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, IconLightSnow, decoded.ConditionsIcon)

	var icon ConditionsIcon
	require.NoError(t, icon.UnmarshalText([]byte("Hail")))
	assert.Equal(t, IconUnknown, icon)
}

func TestPrecipitationType_Text(t *testing.T) {
	snow := PrecipitationSnow
	data, err := json.Marshal(Hourly{PrecipitationType: &snow})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"precipitation_type":"Snow"`)

	var decoded PrecipitationType
	assert.Error(t, decoded.UnmarshalText([]byte("Hail")))
	require.NoError(t, decoded.UnmarshalText([]byte("Sleet")))
	assert.Equal(t, PrecipitationSleet, decoded)
}

func TestWeather_IsValid(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	valid := Weather{
		Current: Current{RelativeHumidity: 50},
		Daily: []Daily{
			{Timestamp: start, Hourly: hoursFrom(start, 24)},
			{Timestamp: start.Add(Day), Hourly: hoursFrom(start.Add(Day), 24)},
		},
	}
	assert.NoError(t, valid.IsValid())

	partial := valid
	partial.Daily = []Daily{{Timestamp: start, Hourly: hoursFrom(start, 23)}}
	assert.Error(t, partial.IsValid())

	unordered := valid
	unordered.Daily = []Daily{valid.Daily[1], valid.Daily[0]}
	assert.Error(t, unordered.IsValid())

	humid := valid
	humid.Current.RelativeHumidity = 101
	assert.Error(t, humid.IsValid())
}

func TestInDailyWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 19, 59, 0, 0, time.UTC)
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, InDailyWindow(now, midnight))
	assert.False(t, InDailyWindow(now.Add(time.Minute), midnight))
	assert.True(t, InDailyWindow(now, midnight.Add(Day)))
}

func TestInWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, InWindow(start, start, time.Hour))
	assert.True(t, InWindow(start.Add(59*time.Minute), start, time.Hour))
	assert.False(t, InWindow(start.Add(time.Hour), start, time.Hour))
	assert.False(t, InWindow(start.Add(-time.Second), start, time.Hour))
}

func TestLater(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)

	assert.Equal(t, b, Later(a, b))
	assert.Equal(t, b, Later(b, a))
}

func TestFullDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	days := []Daily{
		{Timestamp: start, Hourly: hoursFrom(start, 24)},
		{Timestamp: start.Add(Day), Hourly: hoursFrom(start.Add(Day), 11)},
		{Timestamp: start.Add(2 * Day), Hourly: hoursFrom(start.Add(2*Day), 25)},
	}

	full := FullDays(days)

	require.Len(t, full, 1)
	assert.Equal(t, start, full[0].Timestamp)
}

func TestDaily_DeriveExtremes(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day := Daily{TemperatureLow: 5, TemperatureHigh: 6, Hourly: hoursFrom(start, 3, 2.5, -1, 9)}

	day.DeriveExtremes()

	assert.Equal(t, -1.0, day.TemperatureLow)
	assert.Equal(t, 9.0, day.TemperatureHigh)

	empty := Daily{TemperatureLow: 5, TemperatureHigh: 6}
	empty.DeriveExtremes()
	assert.Equal(t, 5.0, empty.TemperatureLow)
	assert.Equal(t, 6.0, empty.TemperatureHigh)
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 36.0, MetersPerSecondToKmh(10))
	assert.Equal(t, 83, FractionPercent(0.834))
	assert.Equal(t, 50, FractionPercent(0.5))
	assert.Equal(t, 7, Percent(6.5))
	assert.Nil(t, RoundedInt(nil))
	assert.Equal(t, 3, *RoundedInt(Float(2.6)))
}
