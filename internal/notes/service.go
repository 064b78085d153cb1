package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/ids"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase   = errors.New("notes: database handle is required")
	errMissingIDProvider = errors.New("notes: id provider is required")
)

// sortColumns whitelists the sortable fields and their column bindings.
// Sort values follow the client convention of an optional leading "-"
// for descending order, e.g. "-createdAt".
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// ServiceConfig describes the dependencies required by the notes service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service implements per-user note CRUD.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService constructs the notes service.
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

// List returns one page of the user's notes plus the total match count.
// Search filters on a case-insensitive substring of title or content.
func (s *Service) List(ctx context.Context, userID string, query ListQuery) ([]Note, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var total int64
	if err := s.scoped(ctx, userID, query.Search).Model(&Note{}).Count(&total).Error; err != nil {
		s.logger.Error("notes count failed", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, apperrors.Internal("failed to list notes", err)
	}

	results := make([]Note, 0, pageSize)
	err := s.scoped(ctx, userID, query.Search).
		Order(orderClause(query.Sort)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	if err != nil {
		s.logger.Error("notes query failed", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, apperrors.Internal("failed to list notes", err)
	}

	return results, total, nil
}

// Get returns the user's note with the given id. A note that exists but
// belongs to someone else is reported as not found.
func (s *Service) Get(ctx context.Context, userID, noteID string) (Note, error) {
	if err := ids.Validate(noteID); err != nil {
		return Note{}, apperrors.InvalidArgument("invalid note id")
	}

	var note Note
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Note{}, apperrors.NotFound("note not found")
	}
	if err != nil {
		s.logger.Error("note lookup failed", zap.String("user_id", userID), zap.String("note_id", noteID), zap.Error(err))
		return Note{}, apperrors.Internal("failed to fetch note", err)
	}
	return note, nil
}

// Create persists a new note for the user. Title is trimmed and required.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Note{}, apperrors.InvalidArgument("title must not be empty")
	}

	noteID, err := s.idProvider.NewID()
	if err != nil {
		s.logger.Error("note id generation failed", zap.Error(err))
		return Note{}, apperrors.Internal("failed to create note", err)
	}

	now := s.clock().UTC()
	note := Note{
		ID:        noteID,
		UserID:    userID,
		Title:     title,
		Content:   input.Content,
		Images:    normalizeImages(input.Images),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		s.logger.Error("note insert failed", zap.String("user_id", userID), zap.Error(err))
		return Note{}, apperrors.Internal("failed to create note", err)
	}
	return note, nil
}

// Replace overwrites every client-supplied field of the user's note.
func (s *Service) Replace(ctx context.Context, userID, noteID string, input CreateInput) (Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Note{}, apperrors.InvalidArgument("title must not be empty")
	}

	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return Note{}, err
	}

	note.Title = title
	note.Content = input.Content
	note.Images = normalizeImages(input.Images)
	note.UpdatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Save(&note).Error; err != nil {
		s.logger.Error("note update failed", zap.String("user_id", userID), zap.String("note_id", noteID), zap.Error(err))
		return Note{}, apperrors.Internal("failed to update note", err)
	}
	return note, nil
}

// Update applies the supplied fields of a partial update. A supplied
// title must still be non-empty after trimming.
func (s *Service) Update(ctx context.Context, userID, noteID string, input PatchInput) (Note, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return Note{}, apperrors.InvalidArgument("title must not be empty")
	}

	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return Note{}, err
	}

	if input.Title != nil {
		note.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.Images != nil {
		note.Images = normalizeImages(*input.Images)
	}
	note.UpdatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Save(&note).Error; err != nil {
		s.logger.Error("note update failed", zap.String("user_id", userID), zap.String("note_id", noteID), zap.Error(err))
		return Note{}, apperrors.Internal("failed to update note", err)
	}
	return note, nil
}

// Delete removes the user's note and returns the deleted document.
func (s *Service) Delete(ctx context.Context, userID, noteID string) (Note, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return Note{}, err
	}

	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&Note{}).Error
	if err != nil {
		s.logger.Error("note delete failed", zap.String("user_id", userID), zap.String("note_id", noteID), zap.Error(err))
		return Note{}, apperrors.Internal("failed to delete note", err)
	}
	return note, nil
}

func (s *Service) scoped(ctx context.Context, userID, search string) *gorm.DB {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}
	return tx
}

func orderClause(sort string) string {
	trimmed := strings.TrimSpace(sort)
	if trimmed == "" {
		trimmed = DefaultSort
	}
	descending := strings.HasPrefix(trimmed, "-")
	field := strings.TrimPrefix(trimmed, "-")
	column, ok := sortColumns[field]
	if !ok {
		// Unknown sort keys fall back to the default rather than failing.
		return "created_at DESC"
	}
	if descending {
		return column + " DESC"
	}
	return column + " ASC"
}

func normalizeImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
