package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"briefsky.app/internal/adapters/database"
	"briefsky.app/internal/adapters/external"
	"briefsky.app/internal/adapters/infrastructure"
	"briefsky.app/internal/config"
	"briefsky.app/internal/ports"
)

// DependencyContainer builds the adapters behind every port
type DependencyContainer struct {
	config  *config.Config
	db      *gorm.DB
	ports   *ports.ApplicationPorts
	closers []io.Closer
}

func NewDependencyContainer(cfg *config.Config) (*DependencyContainer, error) {
	container := &DependencyContainer{config: cfg}

	if err := container.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := container.initializePorts(); err != nil {
		container.Close()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

// initializeDatabase connects only when settings records live in SQL
func (c *DependencyContainer) initializeDatabase() error {
	if c.config.Storage.Backend != config.StorageBackendDatabase {
		return nil
	}

	slog.Info("Initializing database connection...", "driver", c.config.Database.Driver)
	db, err := database.Open(&c.config.Database)
	if err != nil {
		return err
	}

	c.db = db
	slog.Info("Database connection established successfully")
	return nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	var logger ports.Logger = infrastructure.NewSlogLoggerAdapter(nil)
	providerLogger := logger
	if path := c.config.Providers.LogFilePath; c.config.Providers.EnableLogging && path != "" {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(path)
		if err != nil {
			slog.Warn("Failed to create provider log file, falling back to slog", "error", err)
		} else {
			c.closers = append(c.closers, fileLogger)
			providerLogger = infrastructure.TeeLogger{logger, fileLogger}
			slog.Info("Provider file logging enabled", "path", path)
		}
	}

	metrics := infrastructure.NewPrometheusMetricsCollector()

	baseURLs := map[ports.ProviderID]string{}
	for id, url := range c.config.Providers.BaseURLs() {
		baseURLs[ports.ProviderID(id)] = url
	}
	enableLogging := c.config.Providers.EnableLogging
	registry := external.NewProviderRegistry(external.RegistryOptions{
		Logger:   providerLogger,
		BaseURLs: baseURLs,
		Decorate: func(provider ports.Provider, descriptor ports.ProviderDescriptor) ports.Provider {
			provider = external.NewProviderMetricsDecorator(provider, descriptor, metrics)
			if enableLogging {
				provider = external.NewProviderLoggingDecorator(provider, descriptor, providerLogger)
			}
			return provider
		},
	})

	cache, err := external.NewCacheProviderFactory().CreateCacheProvider(c.config)
	if err != nil {
		return fmt.Errorf("create cache provider: %w", err)
	}
	if closer, ok := cache.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}
	slog.Info("Cache provider initialized", "backend", c.config.Storage.Backend.String())

	var paramStore ports.ParamStore
	if c.db != nil {
		paramStore = database.NewSettingsRepositoryAdapter(c.db)
	} else {
		ttl := time.Duration(c.config.Storage.SettingsTTLHours) * time.Hour
		paramStore = external.NewCacheParamStore(cache, ttl)
	}

	var geocoder ports.Geocoder
	switch c.config.Geocoder.Kind {
	case "example":
		geocoder = external.NewExampleGeocoder()
	default:
		geocoder = external.NewNominatimGeocoder(external.NominatimGeocoderParams{
			BaseURL:   c.config.Geocoder.NominatimBaseURL,
			UserAgent: c.config.Geocoder.NominatimUserAgent,
			Logger:    logger,
		})
	}

	c.ports = &ports.ApplicationPorts{
		ProviderRegistry: registry,
		Geolocator:       infrastructure.NewStaticGeolocator(c.config.Geolocation.FallbackLocation()),
		Geocoder:         geocoder,
		ParamStore:       paramStore,
		Cache:            cache,
		Logger:           logger,
		Metrics:          metrics,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

// ApplicationPorts returns the wired ports
func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// DB returns the settings database, nil unless the database backend is selected
func (c *DependencyContainer) DB() *gorm.DB {
	return c.db
}

// Close releases the database, the redis client and the provider log file
func (c *DependencyContainer) Close() {
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			slog.Warn("Error closing resource", "error", err)
		}
	}
	c.closers = nil

	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Warn("Error closing database", "error", err)
			}
		}
		c.db = nil
	}
}
