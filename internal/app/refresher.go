package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"

	"briefsky.app/internal/core/briefing"
	"briefsky.app/internal/core/settings"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

const (
	kioskSnapshotKey = "kiosk:snapshot"
	kioskSession     = "kiosk"
	// kioskSnapshotTTL bounds how long a snapshot outlives failing refreshes
	kioskSnapshotTTL = 24 * time.Hour
)

// KioskBriefing is the part of the briefing use case the refresher drives
type KioskBriefing interface {
	GetForecast(ctx context.Context, request briefing.ForecastRequest) (*briefing.Briefing, error)
	GetSettings(ctx context.Context, request briefing.ForecastRequest) (*briefing.SettingsView, error)
}

// KioskRefresherConfig holds the refresher dependencies
type KioskRefresherConfig struct {
	Briefing KioskBriefing
	Cache    ports.CacheProvider
	Query    url.Values
	Region   string
	Logger   ports.Logger
}

// KioskRefresher fetches the configured briefing on its refresh interval and
// keeps the latest result in the cache.
type KioskRefresher struct {
	briefing KioskBriefing
	cache    ports.CacheProvider
	request  briefing.ForecastRequest
	logger   ports.Logger
	guard    briefing.RefreshGuard
	cron     *cron.Cron
}

// NewKioskRefresher creates a refresher. Overlapping scheduled runs are skipped.
func NewKioskRefresher(cfg KioskRefresherConfig) (*KioskRefresher, error) {
	if cfg.Briefing == nil {
		return nil, errors.NewValidationError("briefing use case is required")
	}
	if cfg.Cache == nil {
		return nil, errors.NewValidationError("cache is required")
	}
	if cfg.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	logger := cronLogger{logger: cfg.Logger}
	return &KioskRefresher{
		briefing: cfg.Briefing,
		cache:    cfg.Cache,
		request: briefing.ForecastRequest{
			SessionID: kioskSession,
			Query:     cfg.Query,
			Region:    cfg.Region,
		},
		logger: cfg.Logger,
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
	}, nil
}

// Schedule returns the cron spec derived from the configured refresh interval
func (r *KioskRefresher) Schedule(ctx context.Context) (string, error) {
	view, err := r.briefing.GetSettings(ctx, r.request)
	if err != nil {
		return "", fmt.Errorf("decode kiosk settings: %w", err)
	}
	interval := view.Configuration.RefreshInterval
	if interval <= 0 {
		r.logger.Warn("Kiosk refresh interval is not positive, using default",
			ports.F("refresh_interval", interval),
			ports.F("default", settings.DefaultRefreshInterval))
		interval = settings.DefaultRefreshInterval
	}
	return fmt.Sprintf("@every %ds", interval), nil
}

// Start refreshes once, then keeps refreshing until ctx is cancelled or Stop is called
func (r *KioskRefresher) Start(ctx context.Context) error {
	schedule, err := r.Schedule(ctx)
	if err != nil {
		return err
	}

	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("Initial kiosk refresh failed", ports.F("error", err))
	}

	if _, err := r.cron.AddFunc(schedule, func() {
		if err := r.Refresh(ctx); err != nil {
			r.logger.Warn("Kiosk refresh failed", ports.F("error", err))
		}
	}); err != nil {
		return fmt.Errorf("schedule kiosk refresh: %w", err)
	}

	r.logger.Info("Kiosk refresher started", ports.F("schedule", schedule))
	r.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running refresh to finish
func (r *KioskRefresher) Stop() {
	<-r.cron.Stop().Done()
}

// Refresh fetches once and stores the snapshot unless a later refresh began meanwhile
func (r *KioskRefresher) Refresh(ctx context.Context) error {
	token := r.guard.Begin()

	result, err := r.briefing.GetForecast(ctx, r.request)
	if err != nil {
		return err
	}

	if !r.guard.Complete(token) {
		r.logger.Debug("Discarding stale kiosk refresh", ports.F("token", token))
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode kiosk snapshot: %w", err)
	}
	if err := r.cache.Set(ctx, kioskSnapshotKey, data, kioskSnapshotTTL); err != nil {
		return fmt.Errorf("store kiosk snapshot: %w", err)
	}

	r.logger.Debug("Kiosk snapshot stored",
		ports.F("provider", result.Provider.ID),
		ports.F("fallback", result.Fallback))
	return nil
}

// Latest returns the stored snapshot, or a NotFound error before the first refresh
func (r *KioskRefresher) Latest(ctx context.Context) (json.RawMessage, error) {
	data, err := r.cache.Get(ctx, kioskSnapshotKey)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("no kiosk snapshot yet")
		}
		return nil, fmt.Errorf("read kiosk snapshot: %w", err)
	}
	return json.RawMessage(data), nil
}

// cronLogger routes cron's own logging through ports.Logger
type cronLogger struct {
	logger ports.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(fields(keysAndValues), ports.F("error", err))...)
}

func fields(keysAndValues []interface{}) []ports.Field {
	result := make([]ports.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		result = append(result, ports.F(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return result
}
