package habits

import "time"

// Frequency and target defaults applied when the client omits them.
const (
	DefaultFrequency = "daily"
	DefaultTarget    = "每日"
)

// Habit models a tracked habit with its check-in history. CheckIns is
// chronological and holds at most one entry per calendar day; MaxStreak
// never drops below CurrentStreak.
type Habit struct {
	ID            string      `gorm:"column:id;primaryKey;size:36;not null"`
	UserID        string      `gorm:"column:user_id;size:36;not null;index:idx_habits_user_created,priority:1"`
	Name          string      `gorm:"column:name;size:200;not null"`
	Frequency     string      `gorm:"column:frequency;size:64;not null"`
	Target        string      `gorm:"column:target;size:200;not null"`
	CurrentStreak int         `gorm:"column:current_streak;not null;default:0"`
	MaxStreak     int         `gorm:"column:max_streak;not null;default:0"`
	CheckIns      []time.Time `gorm:"column:check_ins;type:text;serializer:json"`
	CreatedAt     time.Time   `gorm:"column:created_at;index:idx_habits_user_created,priority:2"`
	UpdatedAt     time.Time   `gorm:"column:updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Habit) TableName() string {
	return "habits"
}

// CreateInput carries the fields supplied on habit creation.
type CreateInput struct {
	Name      string
	Frequency string
	Target    string
}
