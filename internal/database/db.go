package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NikitaReddy9/applyFlow/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Connect opens the database behind dsn. A "sqlite://path" DSN opens a
// local file; anything else is a Postgres DSN. Simple protocol keeps
// Postgres usable through transaction-mode poolers.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	slog.Info("database connection established", "component", "database")
	return db, nil
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	slog.Info("running migrations", "component", "database")
	return db.AutoMigrate(
		&models.JobPreferences{},
		&models.Job{},
		&models.Application{},
		&models.MailCredential{},
	)
}
