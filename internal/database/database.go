package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/minisource/httpcron/config"
	"github.com/minisource/httpcron/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite" // registers the cgo-free "sqlite" database/sql driver
)

// Open connects to Postgres when cfg.DatabaseURL points at one, otherwise
// falls back to the SQLite file the spec names as the default
// (database_url, "default SQLite file").
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logLevel(cfg.Postgres.LogLevel),
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
	}

	dsn := cfg.DatabaseURL()
	var dialector gorm.Dialector
	if cfg.Postgres.Host != "" {
		dialector = postgres.Open(dsn)
	} else {
		// modernc.org/sqlite registers itself under the driver name "sqlite";
		// overriding DriverName here keeps the default SQLite path cgo-free.
		dialector = sqlite.Dialector{DSN: dsn, DriverName: "sqlite"}
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Postgres.MaxLifetimeMinutes) * time.Minute)

	return db, nil
}

func logLevel(name string) logger.LogLevel {
	switch name {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// AutoMigrate registers the four core tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Target{},
		&models.Schedule{},
		&models.Run{},
		&models.Attempt{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
