package storage_test

import (
	"testing"

	"whodidit/backend/internal/models"
	"whodidit/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMigrate_CreatesEveryTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_fresh?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))

	for _, table := range []interface{}{&models.Profile{}, &models.Provider{}, &models.Claim{}, &models.Review{}, &models.ContactMessage{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasColumn(&models.Review{}, "media_urls"))
}
