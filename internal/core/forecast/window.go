package forecast

import (
	"math"
	"time"
)

const (
	// HoursPerDay is the exact hourly length of every emitted day
	HoursPerDay = 24

	// DailyWindow is how far a day's start may lie behind the current observation
	DailyWindow = 20 * time.Hour

	// Day is the span of one hourly window
	Day = 24 * time.Hour
)

// InDailyWindow reports whether a day starting at dayStart is still current at now.
func InDailyWindow(now, dayStart time.Time) bool {
	return now.Sub(dayStart) < DailyWindow
}

// InWindow reports whether t lies in [start, start+span).
func InWindow(t, start time.Time, span time.Duration) bool {
	return !t.Before(start) && t.Before(start.Add(span))
}

// Later returns the later of two instants
func Later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// FullDays drops every day whose hourly sequence does not span exactly 24 hours.
func FullDays(days []Daily) []Daily {
	full := make([]Daily, 0, len(days))
	for _, day := range days {
		if len(day.Hourly) == HoursPerDay {
			full = append(full, day)
		}
	}
	return full
}

// HourlyExtremes returns the lowest and highest hourly temperature.
// ok is false for an empty sequence.
func HourlyExtremes(hours []Hourly) (low, high float64, ok bool) {
	if len(hours) == 0 {
		return 0, 0, false
	}
	low, high = math.Inf(1), math.Inf(-1)
	for _, h := range hours {
		low = math.Min(low, h.Temperature)
		high = math.Max(high, h.Temperature)
	}
	return low, high, true
}

// DeriveExtremes replaces the day's low/high with the extremes of its hourly temperatures.
func (d *Daily) DeriveExtremes() {
	if low, high, ok := HourlyExtremes(d.Hourly); ok {
		d.TemperatureLow, d.TemperatureHigh = low, high
	}
}

// Percent rounds a value to an integer percentage
func Percent(v float64) int {
	return int(math.Round(v))
}

// FractionPercent converts a 0-1 fraction to an integer percentage
func FractionPercent(v float64) int {
	return int(math.Round(v * 100))
}

// MetersPerSecondToKmh converts wind speed
func MetersPerSecondToKmh(v float64) float64 {
	return v * (3600.0 / 1000.0)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

// RoundedInt rounds an optional value to an optional integer
func RoundedInt(v *float64) *int {
	if v == nil {
		return nil
	}
	return Int(int(math.Round(*v)))
}
