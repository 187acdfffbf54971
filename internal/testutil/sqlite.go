// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"warbler/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a private in-memory SQLite database with foreign keys
// enforced and the full schema migrated. It is closed when t finishes.
//
// The pool is pinned to one connection, so code under test must not query the
// root handle while a transaction on it is open.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = cfg.Logger.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN("file::memory:")), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}
