package database

import (
	"errors"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/diaries"
	"github.com/lifelog-labs/lifelog/backend/internal/timefmt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationNormalizeDiaryDates = "2026-08-20_normalize_diary_dates"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationNormalizeDiaryDates, apply: normalizeDiaryDates},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// normalizeDiaryDates re-keys diary rows written by builds that stored the
// raw client instant instead of the display-zone day start. Rows already
// at a day boundary are untouched.
func normalizeDiaryDates(db *gorm.DB) error {
	var entries []diaries.Diary
	if err := db.Find(&entries).Error; err != nil {
		return err
	}
	for _, entry := range entries {
		normalized := timefmt.DayStart(entry.Date).UTC()
		if entry.Date.Equal(normalized) {
			continue
		}
		err := db.Model(&diaries.Diary{}).
			Where("id = ?", entry.ID).
			Update("date", normalized).Error
		if err != nil {
			return err
		}
	}
	return nil
}
