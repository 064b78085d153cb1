package notes

import "time"

// Note models a persisted note document owned by exactly one user.
type Note struct {
	ID        string    `gorm:"column:id;primaryKey;size:36;not null"`
	UserID    string    `gorm:"column:user_id;size:36;not null;index:idx_notes_user_created,priority:1"`
	Title     string    `gorm:"column:title;size:500;not null"`
	Content   string    `gorm:"column:content;type:text;not null;default:''"`
	Images    []string  `gorm:"column:images;type:text;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_notes_user_created,priority:2"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Note) TableName() string {
	return "notes"
}

// CreateInput carries the full document supplied on create and replace.
type CreateInput struct {
	Title   string
	Content string
	Images  []string
}

// PatchInput carries a partial update; nil fields are left untouched.
type PatchInput struct {
	Title   *string
	Content *string
	Images  *[]string
}

// ListQuery describes pagination, filtering and ordering for List.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

const (
	defaultPageSize = 10

	// DefaultSort orders listings newest-first.
	DefaultSort = "-createdAt"
)
