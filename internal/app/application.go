package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"briefsky.app/internal/adapters/api"
	"briefsky.app/internal/adapters/infrastructure"
	"briefsky.app/internal/config"
	"briefsky.app/internal/core/briefing"
	"briefsky.app/internal/core/settings"
	"briefsky.app/internal/ports"
)

type Application struct {
	config *config.Config

	// Use Cases
	briefingUseCase *briefing.UseCase

	// Adapters
	httpAdapter *api.HTTPServerAdapter
	refresher   *KioskRefresher

	// Infrastructure
	container *DependencyContainer
	ports     *ports.ApplicationPorts
}

func NewApplication(cfg *config.Config) (*Application, error) {
	container, err := NewDependencyContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, container)
	if err != nil {
		container.Close()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies creates an application with provided dependencies
func NewApplicationWithDependencies(cfg *config.Config, container *DependencyContainer) (*Application, error) {
	app := &Application{
		config:    cfg,
		container: container,
		ports:     container.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	useCase, err := briefing.NewUseCase(briefing.UseCaseDependencies{
		Registry:      a.ports.ProviderRegistry,
		Store:         settings.NewStore(a.ports.ParamStore),
		Geolocator:    a.ports.Geolocator,
		Logger:        a.ports.Logger,
		Metrics:       a.ports.Metrics,
		LocateTimeout: time.Duration(a.config.Geolocation.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create briefing use case: %w", err)
	}
	a.briefingUseCase = useCase

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	var kiosk api.KioskSnapshots
	if a.config.Kiosk.Enabled() {
		query, err := a.config.Kiosk.Values()
		if err != nil {
			return fmt.Errorf("parse kiosk query: %w", err)
		}
		refresher, err := NewKioskRefresher(KioskRefresherConfig{
			Briefing: a.briefingUseCase,
			Cache:    a.ports.Cache,
			Query:    query,
			Region:   a.config.Locale.DefaultRegion,
			Logger:   a.ports.Logger,
		})
		if err != nil {
			return fmt.Errorf("create kiosk refresher: %w", err)
		}
		a.refresher = refresher
		kiosk = refresher
	}

	checkers := map[string]ports.HealthChecker{
		"cache":     infrastructure.NewCacheHealthChecker(a.config.Storage.Backend.String(), a.ports.Cache),
		"providers": infrastructure.NewProviderRegistryHealthChecker(a.ports.ProviderRegistry),
		"geocoder":  infrastructure.NewGeocoderHealthChecker(a.ports.Geocoder),
		"config":    infrastructure.NewConfigHealthChecker(a.config),
	}
	if db := a.container.DB(); db != nil {
		checkers["database"] = infrastructure.NewDatabaseHealthChecker(db)
	}

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port:          a.config.Server.Port,
			DefaultRegion: a.config.Locale.DefaultRegion,
		},
		BriefingUseCase: a.briefingUseCase,
		Geocoder:        a.ports.Geocoder,
		Kiosk:           kiosk,
		HealthChecker:   infrastructure.NewSystemHealthChecker(checkers),
		Logger:          a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpAdapter = httpAdapter

	slog.Info("Adapters initialized successfully")
	return nil
}

// Start runs the kiosk refresher and serves HTTP until ctx is cancelled
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting application...")

	if a.refresher != nil {
		if err := a.refresher.Start(ctx); err != nil {
			return fmt.Errorf("start kiosk refresher: %w", err)
		}
	}

	return a.httpAdapter.Start(ctx)
}

// Shutdown stops background work and releases resources
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if a.refresher != nil {
		done := make(chan struct{})
		go func() {
			a.refresher.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn("Kiosk refresher did not stop in time")
		}
	}

	a.container.Close()

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.httpAdapter.GetRouter()
}

// GetBriefingUseCase returns the briefing use case for testing
func (a *Application) GetBriefingUseCase() *briefing.UseCase {
	return a.briefingUseCase
}
