package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Forecast
	ProviderRegistry ProviderRegistry
	Geolocator       Geolocator
	Geocoder         Geocoder

	// Settings
	ParamStore ParamStore

	// Cache
	Cache CacheProvider

	// Infrastructure
	Logger  Logger
	Metrics MetricsCollector
}
