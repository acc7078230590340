package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"briefsky.app/pkg/errors"
)

// SettingsModel is one persisted settings record
type SettingsModel struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;size:191;not null"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SettingsModel) TableName() string {
	return "settings_records"
}

// SettingsRepositoryAdapter implements the ParamStore port using GORM
type SettingsRepositoryAdapter struct {
	db *gorm.DB
}

// NewSettingsRepositoryAdapter creates a new settings repository adapter
func NewSettingsRepositoryAdapter(db *gorm.DB) *SettingsRepositoryAdapter {
	return &SettingsRepositoryAdapter{db: db}
}

// Get returns the value stored at key
func (r *SettingsRepositoryAdapter) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.NewValidationError("settings key cannot be empty")
	}

	var model SettingsModel
	result := r.db.WithContext(ctx).Where("key = ?", key).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return "", errors.NewNotFoundError("settings record not found")
		}
		return "", errors.NewDatabaseError("failed to find settings record", result.Error)
	}

	return model.Value, nil
}

// Put inserts or replaces the value stored at key
func (r *SettingsRepositoryAdapter) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.NewValidationError("settings key cannot be empty")
	}

	model := SettingsModel{Key: key, Value: value}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to save settings record", result.Error)
	}

	return nil
}

// Delete removes the record at key
func (r *SettingsRepositoryAdapter) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&SettingsModel{})
	if result.Error != nil {
		return errors.NewDatabaseError("failed to delete settings record", result.Error)
	}
	return nil
}
