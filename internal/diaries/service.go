package diaries

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/ids"
	"github.com/lifelog-labs/lifelog/backend/internal/timefmt"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase   = errors.New("diaries: database handle is required")
	errMissingIDProvider = errors.New("diaries: id provider is required")
)

// ServiceConfig describes the dependencies required by the diaries service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service implements per-user diary entries keyed on calendar day.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService constructs the diaries service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// List returns every entry owned by the user, most recent day first.
func (s *Service) List(ctx context.Context, userID string) ([]Diary, error) {
	results := make([]Diary, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		s.logger.Error("diaries query failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("failed to list diaries", err)
	}
	return results, nil
}

// Upsert writes the entry for the calendar day containing input.Date,
// creating it if absent and overwriting mood, core event and reflection
// if present. The conflict clause makes this a single atomic statement,
// so concurrent writes for the same day converge on one row.
func (s *Service) Upsert(ctx context.Context, userID string, input UpsertInput) (Diary, error) {
	mood := strings.TrimSpace(input.Mood)
	if mood == "" {
		return Diary{}, apperrors.InvalidArgument("mood must not be empty")
	}

	at := input.Date
	if at.IsZero() {
		at = s.clock()
	}
	day := timefmt.DayStart(at).UTC()

	diaryID, err := s.idProvider.NewID()
	if err != nil {
		s.logger.Error("diary id generation failed", zap.Error(err))
		return Diary{}, apperrors.Internal("failed to save diary", err)
	}

	now := s.clock().UTC()
	entry := Diary{
		ID:         diaryID,
		UserID:     userID,
		Date:       day,
		Mood:       mood,
		CoreEvent:  input.CoreEvent,
		Reflection: input.Reflection,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"mood", "core_event", "reflection", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		s.logger.Error("diary upsert failed", zap.String("user_id", userID), zap.Error(err))
		return Diary{}, apperrors.Internal("failed to save diary", err)
	}

	// On conflict the existing row keeps its id and created_at, so the
	// stored entry is always re-read after the write.
	var stored Diary
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		Take(&stored).Error
	if err != nil {
		s.logger.Error("diary lookup failed", zap.String("user_id", userID), zap.Error(err))
		return Diary{}, apperrors.Internal("failed to save diary", err)
	}
	return stored, nil
}
