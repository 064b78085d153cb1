package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/ids"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase   = errors.New("identity: database handle is required")
	errMissingIDProvider = errors.New("identity: id provider is required")
)

// ServiceConfig describes the dependencies required for token resolution.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service resolves anonymous tokens to stable user identifiers,
// provisioning a user record the first time a token is seen.
type Service struct {
	db         *gorm.DB
	now        func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
	cache      sync.Map
}

// NewService constructs the identity service.
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
		now:        clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// Resolve returns the stable user id for the provided anonymous token.
// An unseen token provisions a user record through the store's conflict
// clause, so two concurrent first requests converge on a single row.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", apperrors.Authentication("missing identity token")
	}

	if cached, ok := s.cache.Load(trimmed); ok {
		if userID, ok := cached.(string); ok {
			return userID, nil
		}
	}

	userID, err := s.idProvider.NewID()
	if err != nil {
		s.logger.Error("identity id generation failed", zap.Error(err))
		return "", apperrors.Internal("failed to resolve identity", err)
	}

	candidate := User{
		ID:             userID,
		AnonymousToken: trimmed,
		CreatedAt:      s.now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "anonymous_token"}},
			DoNothing: true,
		}).
		Create(&candidate).Error
	if err != nil {
		s.logger.Error("identity provisioning failed", zap.Error(err))
		return "", apperrors.Internal("failed to resolve identity", err)
	}

	// The insert may have been a no-op when the token already existed, so
	// the authoritative id always comes from a fresh lookup.
	var stored User
	err = s.db.WithContext(ctx).
		Where("anonymous_token = ?", trimmed).
		Take(&stored).Error
	if err != nil {
		s.logger.Error("identity lookup failed", zap.Error(err))
		return "", apperrors.Internal("failed to resolve identity", err)
	}

	s.cache.Store(trimmed, stored.ID)
	return stored.ID, nil
}
