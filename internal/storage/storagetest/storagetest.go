// Package storagetest provides database fixtures for package tests.
package storagetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"whodidit/backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupSQLiteTestDB creates a migrated in-memory SQLite database private to t.
// The database uses a shared cache and a single connection so concurrent
// goroutines in one test see the same data.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(db), "migrate sqlite test database")
	return db
}

// NewService returns a storage.Service over a fresh SQLite database.
func NewService(t *testing.T) *storage.Service {
	t.Helper()
	return storage.NewStorageService(SetupSQLiteTestDB(t), nil, nil)
}

// SetupMockDB returns a gorm handle on the postgres dialector backed by sqlmock.
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}
