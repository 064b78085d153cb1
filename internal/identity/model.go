package identity

import "time"

// User maps a client-chosen anonymous token to a stable user id. Rows are
// created lazily on the first request bearing an unseen token and are
// never mutated or deleted afterwards.
type User struct {
	ID             string    `gorm:"column:id;primaryKey;size:36;not null"`
	AnonymousToken string    `gorm:"column:anonymous_token;size:190;not null;uniqueIndex:idx_users_anonymous_token"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName exposes the table backing anonymous users.
func (User) TableName() string {
	return "users"
}
