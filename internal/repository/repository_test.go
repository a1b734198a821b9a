package repository

import (
	"path/filepath"
	"testing"

	"github.com/minisource/httpcron/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// openTestDB opens a migrated, file-backed SQLite database for repository
// tests, through the same cgo-free modernc.org/sqlite driver production
// uses when no Postgres host is configured.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Dialector{DSN: dsn, DriverName: "sqlite"}, &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
