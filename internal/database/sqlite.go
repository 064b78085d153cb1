package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/lifelog-labs/lifelog/backend/internal/diaries"
	"github.com/lifelog-labs/lifelog/backend/internal/habits"
	"github.com/lifelog-labs/lifelog/backend/internal/identity"
	"github.com/lifelog-labs/lifelog/backend/internal/notes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}

// Migrate applies the schema and the named data migrations. Exposed so
// tests can prepare in-memory databases the same way the server does.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&identity.User{},
		&notes.Note{},
		&habits.Habit{},
		&diaries.Diary{},
		&migrationRecord{},
	)
	if err != nil {
		return err
	}
	return applyMigrations(db, logger)
}
