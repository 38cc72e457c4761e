package models

import "time"

// UserProfile holds the per-user record created at signup. Read-only after
// creation as far as the game logic is concerned.
type UserProfile struct {
	UserID      string    `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Phone       string    `db:"phone"` // optional, E.164; empty means no SMS
	CreatedAt   time.Time `db:"created_at"`
}

// HasPhone reports whether the profile can receive SMS notifications.
func (u *UserProfile) HasPhone() bool {
	return u.Phone != ""
}
