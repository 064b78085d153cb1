package habits

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
)

var (
	errMissingDatabase   = errors.New("habits: database handle is required")
	errMissingIDProvider = errors.New("habits: id provider is required")
)

// ServiceConfig describes the dependencies required by the habits service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service implements per-user habit tracking and check-ins.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService constructs the habits service.
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

// List returns every habit owned by the user, newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]Habit, error) {
	results := make([]Habit, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		s.logger.Error("habits query failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("failed to list habits", err)
	}
	return results, nil
}

// Create persists a new habit with zeroed streaks and no check-ins.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Habit{}, apperrors.InvalidArgument("habit name must not be empty")
	}

	habitID, err := s.idProvider.NewID()
	if err != nil {
		s.logger.Error("habit id generation failed", zap.Error(err))
		return Habit{}, apperrors.Internal("failed to create habit", err)
	}

	frequency := strings.TrimSpace(input.Frequency)
	if frequency == "" {
		frequency = DefaultFrequency
	}
	target := strings.TrimSpace(input.Target)
	if target == "" {
		target = DefaultTarget
	}

	now := s.clock().UTC()
	habit := Habit{
		ID:        habitID,
		UserID:    userID,
		Name:      name,
		Frequency: frequency,
		Target:    target,
		CheckIns:  []time.Time{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&habit).Error; err != nil {
		s.logger.Error("habit insert failed", zap.String("user_id", userID), zap.Error(err))
		return Habit{}, apperrors.Internal("failed to create habit", err)
	}
	return habit, nil
}

// CheckIn records a check-in for the current calendar day and updates the
// streak counters. Only the most recent prior check-in is inspected: a
// check-in yesterday extends the streak, anything else restarts it at 1.
// A second check-in on the same day is rejected without mutation.
func (s *Service) CheckIn(ctx context.Context, userID, habitID string) (Habit, error) {
	if err := ids.Validate(habitID); err != nil {
		return Habit{}, apperrors.InvalidArgument("invalid habit id")
	}

	var updated Habit
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit Habit
		err := tx.Where("id = ? AND user_id = ?", habitID, userID).Take(&habit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("habit not found")
		}
		if err != nil {
			s.logger.Error("habit lookup failed", zap.String("user_id", userID), zap.String("habit_id", habitID), zap.Error(err))
			return apperrors.Internal("failed to check in", err)
		}

		now := s.clock()
		if len(habit.CheckIns) > 0 {
			last := habit.CheckIns[len(habit.CheckIns)-1]
			if timefmt.SameDay(last, now) {
				return apperrors.Duplicate("already checked in today")
			}
			if timefmt.DayStart(last).Equal(timefmt.PreviousDay(now)) {
				habit.CurrentStreak++
			} else {
				habit.CurrentStreak = 1
			}
		} else {
			habit.CurrentStreak = 1
		}

		if habit.CurrentStreak > habit.MaxStreak {
			habit.MaxStreak = habit.CurrentStreak
		}
		habit.CheckIns = append(habit.CheckIns, now.UTC())
		habit.UpdatedAt = now.UTC()

		if err := tx.Save(&habit).Error; err != nil {
			s.logger.Error("habit save failed", zap.String("user_id", userID), zap.String("habit_id", habitID), zap.Error(err))
			return apperrors.Internal("failed to check in", err)
		}
		updated = habit
		return nil
	})
	if txErr != nil {
		return Habit{}, txErr
	}
	return updated, nil
}
