package infrastructure

import (
	"context"
	"time"

	"gorm.io/gorm"

	"briefsky.app/internal/adapters/database"
	"briefsky.app/internal/ports"
)

// DatabaseHealthChecker reports on the SQL settings store: reachability,
// whether the settings table is migrated, and how many sessions it holds.
type DatabaseHealthChecker struct {
	db *gorm.DB
}

func NewDatabaseHealthChecker(db *gorm.DB) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db}
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "database",
		Details:   make(map[string]interface{}),
	}

	if d.db == nil {
		status.Status = StatusUnhealthy
		status.Error = "settings database not configured"
		return status
	}
	status.Details["driver"] = d.db.Dialector.Name()

	sqlDB, err := d.db.DB()
	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = "settings database handle unavailable"
		return status
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	db := d.db.WithContext(ctx)
	model := &database.SettingsModel{}
	if !db.Migrator().HasTable(model) {
		status.Status = StatusUnhealthy
		status.Error = "settings table is not migrated"
		return status
	}

	var sessions int64
	if err := db.Model(model).Count(&sessions).Error; err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}
	status.Details["stored_settings"] = sessions

	var latest database.SettingsModel
	result := db.Order("updated_at DESC").Limit(1).Find(&latest)
	if result.Error == nil && result.RowsAffected > 0 {
		status.Details["last_saved"] = latest.UpdatedAt.UTC().Format(time.RFC3339)
	}

	status.Status = StatusHealthy
	return status
}
