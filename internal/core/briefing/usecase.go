package briefing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/core/settings"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// UseCase turns a settings bag into a fetched briefing and persists settings
type UseCase struct {
	registry      ports.ProviderRegistry
	store         *settings.Store
	geolocator    ports.Geolocator
	logger        ports.Logger
	metrics       ports.MetricsCollector
	clock         func() time.Time
	locateTimeout time.Duration
}

// UseCaseDependencies holds the collaborators of UseCase
type UseCaseDependencies struct {
	Registry   ports.ProviderRegistry
	Store      *settings.Store
	Geolocator ports.Geolocator
	Logger     ports.Logger
	Metrics    ports.MetricsCollector
	Clock      func() time.Time
	// LocateTimeout defaults to forecast.GeolocationTimeout
	LocateTimeout time.Duration
}

// NewUseCase creates a briefing use case, failing when a required dependency is missing
func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Registry == nil {
		return nil, errors.NewValidationError("provider registry is required")
	}
	if deps.Store == nil {
		return nil, errors.NewValidationError("settings store is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.LocateTimeout <= 0 {
		deps.LocateTimeout = forecast.GeolocationTimeout
	}

	return &UseCase{
		registry:      deps.Registry,
		store:         deps.Store,
		geolocator:    deps.Geolocator,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		clock:         deps.Clock,
		locateTimeout: deps.LocateTimeout,
	}, nil
}

// GetForecast decodes the active settings, selects a provider and fetches once.
// Fetch errors are returned unchanged.
func (uc *UseCase) GetForecast(ctx context.Context, request ForecastRequest) (*Briefing, error) {
	params, err := uc.store.Load(ctx, request.SessionID, request.Query)
	if err != nil {
		return nil, err
	}

	cfg := settings.NewCodec(uc.registry, request.Region).Decode(params)
	factory := cfg.Provider
	descriptor := factory.Describe()

	location := cfg.Location
	if location == nil && descriptor.RequiresLocation {
		geolocator := request.Geolocator
		if geolocator == nil {
			geolocator = uc.geolocator
		}
		location = forecast.LocateWithTimeout(ctx, geolocator, uc.locateTimeout)
		if location == nil {
			uc.logger.Debug("No device location available", ports.F("provider", descriptor.ID))
		}
	}

	fallback := false
	provider := factory.TryConstruct(cfg.ProviderParams, location)
	if provider == nil {
		uc.logger.Info("Provider cannot be constructed from settings, using default",
			ports.F("provider", descriptor.ID))
		uc.metrics.RecordFallback(string(descriptor.ID))

		factory = uc.registry.Default()
		descriptor = factory.Describe()
		fallback = true
		provider = factory.TryConstruct(map[string]string{}, location)
		if provider == nil {
			return nil, errors.NewConfigurationError(fmt.Sprintf("default provider %s cannot be constructed", descriptor.ID), nil)
		}
	}

	weather, err := provider.Fetch(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch forecast",
			ports.F("provider", descriptor.ID),
			ports.F("error", err))
		return nil, err
	}

	uc.logger.Debug("Forecast fetched",
		ports.F("provider", descriptor.ID),
		ports.F("days", len(weather.Daily)))

	return &Briefing{
		Configuration: cfg,
		Provider:      descriptor,
		Location:      location,
		Weather:       weather,
		Fallback:      fallback,
		FetchedAt:     uc.clock(),
	}, nil
}

// GetSettings returns the decoded configuration and its minimal encoding
func (uc *UseCase) GetSettings(ctx context.Context, request ForecastRequest) (*SettingsView, error) {
	params, err := uc.store.Load(ctx, request.SessionID, request.Query)
	if err != nil {
		return nil, err
	}

	codec := settings.NewCodec(uc.registry, request.Region)
	cfg := codec.Decode(params)

	return &SettingsView{
		Configuration: cfg,
		Provider:      cfg.Provider.Describe(),
		Params:        codec.Encode(cfg),
		Storage:       uc.store.Mode(request.Query),
	}, nil
}

// SaveSettings normalizes the bag through the codec, persists it and
// returns the query to redirect to.
func (uc *UseCase) SaveSettings(ctx context.Context, request SaveRequest) (url.Values, error) {
	codec := settings.NewCodec(uc.registry, request.Region)
	encoded := codec.Encode(codec.Decode(request.Params))
	mode := settings.ParseMode(string(request.Storage))

	query, err := uc.store.Save(ctx, request.SessionID, mode, encoded)
	if err != nil {
		uc.logger.Error("Failed to save settings",
			ports.F("storage", mode),
			ports.F("error", err))
		return nil, err
	}

	uc.metrics.RecordSettingsSave(string(mode))
	uc.logger.Info("Settings saved",
		ports.F("storage", mode),
		ports.F("provider", encoded[settings.KeyProvider]))
	return query, nil
}

// Providers enumerates the registry in display order
func (uc *UseCase) Providers() []ProviderInfo {
	factories := uc.registry.Factories()
	providers := make([]ProviderInfo, 0, len(factories))
	for _, factory := range factories {
		fields := factory.Fields()
		if fields == nil {
			fields = []ports.ProviderField{}
		}
		providers = append(providers, ProviderInfo{
			ProviderDescriptor: factory.Describe(),
			Fields:             fields,
		})
	}
	return providers
}
