package db

import (
	"fmt"
	"os"
	"path/filepath"

	"transportsystem/avganger/internal/logging"
	gormModels "transportsystem/avganger/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitPostgresORM opens a GORM connection to Postgres.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// InitSQLiteORM opens (and creates when missing) a SQLite database file.
func InitSQLiteORM(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory %q: %w", dir, err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	// Each connection to :memory: is its own database; SQLite also allows
	// only one writer at a time.
	sqlDB.SetMaxOpenConns(1)

	logging.Info("Opened SQLite via GORM", "path", path)
	return db, nil
}

// Migrate creates or updates the tables used by the SQL store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormModels.Departure{}, &gormModels.DepartureWrite{}); err != nil {
		return fmt.Errorf("failed to migrate departures schema: %w", err)
	}
	return nil
}
