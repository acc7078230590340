package settings

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
)

// Parameter bag keys
const (
	KeyProvider            = "provider"
	KeyLocation            = "location"
	KeyUnits               = "units"
	KeyTitle               = "title"
	KeyRefreshInterval     = "refresh_interval"
	KeyAutoexpand          = "autoexpand"
	KeyHourlyPrecipitation = "hourly_precipitation"
	KeyHourlyWind          = "hourly_wind"
	KeyLayout              = "layout"
)

// DefaultRefreshInterval is two hours, in seconds
const DefaultRefreshInterval = 2 * 3600

// Params is the flat string-keyed parameter bag settings are persisted as
type Params map[string]string

// ParamsFromValues takes the first value of every query key
func ParamsFromValues(values url.Values) Params {
	params := make(Params, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			params[key] = vs[0]
		}
	}
	return params
}

// Values converts the bag to query form
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for key, value := range p {
		values.Set(key, value)
	}
	return values
}

// Keys returns the bag keys in sorted order
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Units is the display unit system
type Units int

const (
	UnitsMetric Units = iota
	UnitsImperial
)

func (u Units) String() string {
	if u == UnitsImperial {
		return "imperial"
	}
	return "metric"
}

// MarshalText implements encoding.TextMarshaler
func (u Units) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; anything but "imperial" is metric
func (u *Units) UnmarshalText(text []byte) error {
	*u = UnitsMetric
	if string(text) == "imperial" {
		*u = UnitsImperial
	}
	return nil
}

// Autoexpand selects which days are expanded on load
type Autoexpand string

const (
	AutoexpandToday Autoexpand = "today"
	AutoexpandAll   Autoexpand = "all"
	AutoexpandNone  Autoexpand = "none"
)

// Configuration is the typed form of a parameter bag. It is replaced
// wholesale on every settings change.
type Configuration struct {
	Provider            ports.ProviderFactory `json:"-"`
	ProviderParams      Params                `json:"provider_params"`
	Location            *forecast.Location    `json:"location,omitempty"`
	Units               Units                 `json:"units"`
	Title               string                `json:"title"`
	RefreshInterval     int                   `json:"refresh_interval"`
	Autoexpand          Autoexpand            `json:"autoexpand"`
	HourlyPrecipitation bool                  `json:"hourly_precipitation"`
	HourlyWind          bool                  `json:"hourly_wind"`
	Layout              string                `json:"layout"`
}

// ProviderID returns the id of the selected provider
func (c Configuration) ProviderID() ports.ProviderID {
	if c.Provider == nil {
		return ""
	}
	return c.Provider.Describe().ID
}

// Codec maps between Configuration and Params
type Codec struct {
	registry ports.ProviderRegistry
	defaults Configuration
}

// NewCodec creates a codec whose defaults follow the locale region
func NewCodec(registry ports.ProviderRegistry, region string) *Codec {
	units := UnitsMetric
	if strings.EqualFold(region, "US") {
		units = UnitsImperial
	}

	return &Codec{
		registry: registry,
		defaults: Configuration{
			Provider:            registry.Default(),
			ProviderParams:      Params{},
			Units:               units,
			RefreshInterval:     DefaultRefreshInterval,
			Autoexpand:          AutoexpandToday,
			HourlyPrecipitation: true,
		},
	}
}

// Defaults returns a copy of the default configuration
func (c *Codec) Defaults() Configuration {
	defaults := c.defaults
	defaults.ProviderParams = Params{}
	return defaults
}

// Decode never fails: every missing or malformed field takes its default.
func (c *Codec) Decode(params Params) Configuration {
	cfg := c.Defaults()

	cfg.Provider = c.registry.Lookup(params[KeyProvider])
	for _, field := range cfg.Provider.Fields() {
		if value := params[field.Name]; value != "" {
			cfg.ProviderParams[field.Name] = value
		}
	}

	if raw, ok := params[KeyLocation]; ok {
		if location := forecast.ParseLocation(raw); location.Valid() {
			cfg.Location = location
		}
	}

	if title := params[KeyTitle]; title != "" {
		cfg.Title = title
	}

	switch params[KeyUnits] {
	case "metric":
		cfg.Units = UnitsMetric
	case "imperial":
		cfg.Units = UnitsImperial
	}

	// Zero is indistinguishable from absent and reverts to the default.
	if interval, ok := leadingInt(params[KeyRefreshInterval]); ok && interval != 0 {
		cfg.RefreshInterval = interval
	}

	switch Autoexpand(params[KeyAutoexpand]) {
	case AutoexpandToday, AutoexpandAll, AutoexpandNone:
		cfg.Autoexpand = Autoexpand(params[KeyAutoexpand])
	}

	cfg.HourlyPrecipitation = parseToggle(params[KeyHourlyPrecipitation], cfg.HourlyPrecipitation)
	cfg.HourlyWind = parseToggle(params[KeyHourlyWind], cfg.HourlyWind)

	if layout := params[KeyLayout]; layout != "" {
		cfg.Layout = layout
	}

	return cfg
}

// Encode produces the minimal diff of cfg against the defaults.
func (c *Codec) Encode(cfg Configuration) Params {
	provider := cfg.Provider
	if provider == nil {
		provider = c.defaults.Provider
	}

	params := Params{KeyProvider: string(provider.Describe().ID)}
	for _, field := range provider.Fields() {
		if value, ok := cfg.ProviderParams[field.Name]; ok && value != "" {
			params[field.Name] = value
		}
	}

	set := func(key, value string) {
		if _, declared := params[key]; !declared {
			params[key] = value
		}
	}

	if cfg.Location.String() != c.defaults.Location.String() {
		set(KeyLocation, cfg.Location.String())
	}
	if cfg.Units != c.defaults.Units {
		set(KeyUnits, cfg.Units.String())
	}
	if cfg.Title != c.defaults.Title {
		set(KeyTitle, cfg.Title)
	}
	if cfg.RefreshInterval != c.defaults.RefreshInterval {
		set(KeyRefreshInterval, strconv.Itoa(cfg.RefreshInterval))
	}
	if cfg.Autoexpand != c.defaults.Autoexpand {
		set(KeyAutoexpand, string(cfg.Autoexpand))
	}
	if cfg.HourlyPrecipitation != c.defaults.HourlyPrecipitation {
		set(KeyHourlyPrecipitation, strconv.FormatBool(cfg.HourlyPrecipitation))
	}
	if cfg.HourlyWind != c.defaults.HourlyWind {
		set(KeyHourlyWind, strconv.FormatBool(cfg.HourlyWind))
	}
	if cfg.Layout != c.defaults.Layout {
		set(KeyLayout, cfg.Layout)
	}

	return params
}

func parseToggle(value string, fallback bool) bool {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		return fallback
	}
}

// leadingInt parses the integer prefix of s, so "90s" is 90 and "1.5" is 1.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
