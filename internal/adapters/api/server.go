// Package api provides the HTTP adapter for the rendering layer.
// Handlers translate requests into briefing use case calls.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"briefsky.app/internal/core/briefing"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port          int
	DefaultRegion string
}

// HTTPServerAdapter implements the HTTP surface using Gin
type HTTPServerAdapter struct {
	router          *gin.Engine
	config          ServerConfig
	briefingUseCase BriefingUseCase
	geocoder        ports.Geocoder
	kiosk           KioskSnapshots
	healthChecker   ports.SystemHealthChecker
	logger          ports.Logger
}

// BriefingUseCase is the part of the briefing core the handlers depend on
type BriefingUseCase interface {
	GetForecast(ctx context.Context, request briefing.ForecastRequest) (*briefing.Briefing, error)
	GetSettings(ctx context.Context, request briefing.ForecastRequest) (*briefing.SettingsView, error)
	SaveSettings(ctx context.Context, request briefing.SaveRequest) (url.Values, error)
	Providers() []briefing.ProviderInfo
}

// KioskSnapshots serves the latest scheduled briefing.
// Latest returns a NotFound error before the first refresh completes.
type KioskSnapshots interface {
	Latest(ctx context.Context) (json.RawMessage, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config          ServerConfig
	BriefingUseCase BriefingUseCase
	Geocoder        ports.Geocoder
	// Kiosk is optional; without it /api/kiosk always answers 404
	Kiosk         KioskSnapshots
	HealthChecker ports.SystemHealthChecker
	Logger        ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &HTTPServerAdapter{
		router:          router,
		config:          opts.Config,
		briefingUseCase: opts.BriefingUseCase,
		geocoder:        opts.Geocoder,
		kiosk:           opts.Kiosk,
		healthChecker:   opts.HealthChecker,
		logger:          opts.Logger,
	}

	router.Use(server.requestLogger())
	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.BriefingUseCase == nil {
		return errors.NewValidationError("briefing use case is required")
	}
	if opts.Geocoder == nil {
		return errors.NewValidationError("geocoder is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/forecast", s.getForecast)
		api.GET("/settings", s.getSettings)
		api.POST("/settings", s.saveSettings)
		api.GET("/providers", s.getProviders)
		api.GET("/geocode", s.forwardGeocode)
		api.GET("/geocode/reverse", s.reverseGeocode)
		api.GET("/kiosk", s.getKiosk)
	}

	s.router.GET("/health", s.getHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *HTTPServerAdapter) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			ports.F("method", c.Request.Method),
			ports.F("path", c.FullPath()),
			ports.F("status", c.Writer.Status()),
			ports.F("duration_ms", time.Since(start).Milliseconds()))
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.config.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
