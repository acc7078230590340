package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/pkg/errors"
	"briefsky.app/pkg/logger"
)

const (
	maxRedisDB            = 15
	maxPortNumber         = 65535
	maxSettingsTTLHours   = 24 * 365 * 5
	minGeolocationSeconds = 1
)

// Config represents the application configuration structure
type Config struct {
	Server      ServerConfig      `split_words:"true"`
	Locale      LocaleConfig      `split_words:"true"`
	Storage     StorageConfig     `split_words:"true"`
	Redis       RedisConfig       `split_words:"true"`
	Database    DatabaseConfig    `split_words:"true"`
	Providers   ProvidersConfig   `split_words:"true"`
	Geolocation GeolocationConfig `split_words:"true"`
	Geocoder    GeocoderConfig    `split_words:"true"`
	Kiosk       KioskConfig       `split_words:"true"`
}

type ServerConfig struct {
	Port     int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LocaleConfig supplies the region used when a request carries none
type LocaleConfig struct {
	DefaultRegion string `envconfig:"DEFAULT_REGION" default:"US"`
}

// StorageBackend selects where "local" settings records live
type StorageBackend int

const (
	StorageBackendUnknown StorageBackend = iota
	StorageBackendMemory
	StorageBackendRedis
	StorageBackendDatabase
)

// String returns the string representation of the storage backend
func (s StorageBackend) String() string {
	switch s {
	case StorageBackendMemory:
		return "memory"
	case StorageBackendRedis:
		return "redis"
	case StorageBackendDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// IsValid checks if the storage backend is valid
func (s StorageBackend) IsValid() bool {
	return s == StorageBackendMemory || s == StorageBackendRedis || s == StorageBackendDatabase
}

// StorageBackendFromString converts string to StorageBackend enum
func StorageBackendFromString(s string) StorageBackend {
	switch strings.ToLower(s) {
	case "memory":
		return StorageBackendMemory
	case "redis":
		return StorageBackendRedis
	case "database":
		return StorageBackendDatabase
	default:
		return StorageBackendUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (s *StorageBackend) UnmarshalText(text []byte) error {
	*s = StorageBackendFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s StorageBackend) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type StorageConfig struct {
	Backend          StorageBackend `envconfig:"STORAGE_BACKEND" default:"memory"`
	SettingsTTLHours int            `envconfig:"SETTINGS_TTL_HOURS" default:"8760"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix    string `envconfig:"REDIS_KEY_PREFIX" default:"briefsky:"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

type DatabaseConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"sqlite"`
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       int    `envconfig:"DB_PORT" default:"5432"`
	User       string `envconfig:"DB_USER" default:"postgres"`
	Password   string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name       string `envconfig:"DB_NAME" default:"briefsky"`
	SSLMode    string `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"briefsky.db"`
}

// GetDSN returns the postgres connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ProvidersConfig overrides upstream endpoints and controls request logging
type ProvidersConfig struct {
	OpenMeteoBaseURL      string `envconfig:"OPENMETEO_BASE_URL"`
	PirateWeatherBaseURL  string `envconfig:"PIRATEWEATHER_BASE_URL"`
	TomorrowIoBaseURL     string `envconfig:"TOMORROWIO_BASE_URL"`
	VisualCrossingBaseURL string `envconfig:"VISUALCROSSING_BASE_URL"`
	WeatherFlowBaseURL    string `envconfig:"WEATHERFLOW_BASE_URL"`
	EnableLogging         bool   `envconfig:"PROVIDER_LOGGING" default:"true"`
	LogFilePath           string `envconfig:"PROVIDER_LOG_FILE_PATH"`
}

// BaseURLs returns the configured overrides keyed by provider id
func (p ProvidersConfig) BaseURLs() map[string]string {
	urls := map[string]string{}
	for id, value := range map[string]string{
		"openmeteo":      p.OpenMeteoBaseURL,
		"pirateweather":  p.PirateWeatherBaseURL,
		"tomorrowio":     p.TomorrowIoBaseURL,
		"visualcrossing": p.VisualCrossingBaseURL,
		"weatherflow":    p.WeatherFlowBaseURL,
	} {
		if value != "" {
			urls[id] = value
		}
	}
	return urls
}

// GeolocationConfig supplies the device position used when the browser reports none
type GeolocationConfig struct {
	Fallback       string `envconfig:"GEOLOCATION_FALLBACK"`
	TimeoutSeconds int    `envconfig:"GEOLOCATION_TIMEOUT_SECONDS" default:"10"`
}

// FallbackLocation parses Fallback; nil when unset
func (g GeolocationConfig) FallbackLocation() *forecast.Location {
	if g.Fallback == "" {
		return nil
	}
	return forecast.ParseLocation(g.Fallback)
}

type GeocoderConfig struct {
	Kind               string `envconfig:"GEOCODER" default:"nominatim"`
	NominatimBaseURL   string `envconfig:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string `envconfig:"NOMINATIM_USER_AGENT" default:"briefsky/1.0"`
}

// KioskConfig holds the parameter bag refreshed in the background, in query form
type KioskConfig struct {
	Query string `envconfig:"KIOSK_QUERY"`
}

// Enabled reports whether a kiosk bag is configured
func (k KioskConfig) Enabled() bool {
	return k.Query != ""
}

// Values parses the kiosk bag
func (k KioskConfig) Values() (url.Values, error) {
	return url.ParseQuery(strings.TrimPrefix(k.Query, "?"))
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Locale.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Backend == StorageBackendRedis {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}
	if c.Storage.Backend == StorageBackendDatabase {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Providers.Validate(); err != nil {
		return err
	}
	if err := c.Geolocation.Validate(); err != nil {
		return err
	}
	if err := c.Geocoder.Validate(); err != nil {
		return err
	}
	if err := c.Kiosk.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", err)
	}
	return nil
}

func (l *LocaleConfig) Validate() error {
	if l.DefaultRegion != "" && len(l.DefaultRegion) != 2 {
		return errors.NewConfigurationError("DEFAULT_REGION must be a two-letter region code", nil)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	if !s.Backend.IsValid() {
		return errors.NewConfigurationError("STORAGE_BACKEND must be one of: memory, redis, database", nil)
	}
	if s.SettingsTTLHours < 1 || s.SettingsTTLHours > maxSettingsTTLHours {
		return errors.NewConfigurationError(
			fmt.Sprintf("SETTINGS_TTL_HOURS must be between 1 and %d", maxSettingsTTLHours), nil)
	}
	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis storage", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case "sqlite":
		if d.SQLitePath == "" {
			return errors.NewConfigurationError("DB_SQLITE_PATH cannot be empty when DB_DRIVER is sqlite", nil)
		}
		return nil
	case "postgres":
	default:
		return errors.NewConfigurationError("DB_DRIVER must be one of: postgres, sqlite", nil)
	}

	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return d.ValidateSSLMode()
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (p *ProvidersConfig) Validate() error {
	for id, value := range p.BaseURLs() {
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return errors.NewConfigurationError(
				fmt.Sprintf("%s_BASE_URL must start with http:// or https://", strings.ToUpper(id)), nil)
		}
	}
	return nil
}

func (g *GeolocationConfig) Validate() error {
	if g.Fallback != "" && !g.FallbackLocation().Valid() {
		return errors.NewConfigurationError("GEOLOCATION_FALLBACK must be lat,lon", nil)
	}
	if g.TimeoutSeconds < minGeolocationSeconds {
		return errors.NewConfigurationError("GEOLOCATION_TIMEOUT_SECONDS must be at least 1 second", nil)
	}
	return nil
}

func (g *GeocoderConfig) Validate() error {
	switch g.Kind {
	case "example":
		return nil
	case "nominatim":
	default:
		return errors.NewConfigurationError("GEOCODER must be one of: nominatim, example", nil)
	}
	if !strings.HasPrefix(g.NominatimBaseURL, "http://") && !strings.HasPrefix(g.NominatimBaseURL, "https://") {
		return errors.NewConfigurationError("NOMINATIM_BASE_URL must start with http:// or https://", nil)
	}
	if g.NominatimUserAgent == "" {
		return errors.NewConfigurationError("NOMINATIM_USER_AGENT cannot be empty", nil)
	}
	return nil
}

func (k *KioskConfig) Validate() error {
	if !k.Enabled() {
		return nil
	}
	if _, err := k.Values(); err != nil {
		return errors.NewConfigurationError("KIOSK_QUERY must be a query string", err)
	}
	return nil
}
