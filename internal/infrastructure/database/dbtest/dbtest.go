// Package dbtest opens throwaway SQLite databases carrying the service schema for repository tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coparent-api/internal/infrastructure/database"
	"coparent-api/internal/infrastructure/database/entities"
)

// Open returns an in-memory database migrated from the entity definitions.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(entities.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
