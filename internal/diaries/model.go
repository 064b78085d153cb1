package diaries

import "time"

// Diary models one day's entry. Date is the instant the entry's calendar
// day begins; the unique (user_id, date) index enforces at most one entry
// per user per day.
type Diary struct {
	ID         string    `gorm:"column:id;primaryKey;size:36;not null"`
	UserID     string    `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_diaries_user_date,priority:1"`
	Date       time.Time `gorm:"column:date;not null;uniqueIndex:idx_diaries_user_date,priority:2"`
	Mood       string    `gorm:"column:mood;size:100;not null"`
	CoreEvent  string    `gorm:"column:core_event;type:text;not null;default:''"`
	Reflection string    `gorm:"column:reflection;type:text;not null;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Diary) TableName() string {
	return "diaries"
}

// UpsertInput carries the fields written for one calendar day. A zero
// Date means "now".
type UpsertInput struct {
	Date       time.Time
	Mood       string
	CoreEvent  string
	Reflection string
}
