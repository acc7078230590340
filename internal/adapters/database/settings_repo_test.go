package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"briefsky.app/internal/config"
	"briefsky.app/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	return db
}

func TestSettingsRepository_PutAndGet(t *testing.T) {
	repo := NewSettingsRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "settings:abc", `{"provider":"openmeteo"}`))

	value, err := repo.Get(ctx, "settings:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"provider":"openmeteo"}`, value)
}

func TestSettingsRepository_PutReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepositoryAdapter(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "settings:abc", `{"units":"metric"}`))
	require.NoError(t, repo.Put(ctx, "settings:abc", `{"units":"imperial"}`))

	value, err := repo.Get(ctx, "settings:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"units":"imperial"}`, value)

	var count int64
	require.NoError(t, db.Model(&SettingsModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	repo := NewSettingsRepositoryAdapter(setupTestDB(t))

	_, err := repo.Get(context.Background(), "settings:nobody")

	assert.True(t, errors.IsNotFoundError(err))
}

func TestSettingsRepository_Validation(t *testing.T) {
	repo := NewSettingsRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, "")
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(repo.Put(ctx, "", "{}")))
}

func TestSettingsRepository_Delete(t *testing.T) {
	repo := NewSettingsRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "settings:abc", "{}"))
	require.NoError(t, repo.Delete(ctx, "settings:abc"))

	_, err := repo.Get(ctx, "settings:abc")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSettingsRepository_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewSettingsRepositoryAdapter(db)

	_, err = repo.Get(context.Background(), "settings:abc")
	assert.True(t, errors.IsDatabaseError(err))
	assert.True(t, errors.IsDatabaseError(repo.Put(context.Background(), "settings:abc", "{}")))
}

func TestOpen(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		db, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
		require.NoError(t, err)

		assert.True(t, db.Migrator().HasTable(&SettingsModel{}))
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := Open(&config.DatabaseConfig{Driver: "mysql"})

		assert.True(t, errors.IsConfigurationError(err))
	})

	t.Run("NilConfig", func(t *testing.T) {
		_, err := Open(nil)

		assert.True(t, errors.IsConfigurationError(err))
	})
}
