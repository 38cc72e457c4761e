package models

import "time"

// PickSubmission is one player's set of predicted winners for a week, plus
// the Monday-night combined-score guess used to break ties. At most one
// submission exists per (UserID, Week); the picks repository enforces this
// with a unique constraint.
type PickSubmission struct {
	UserID          string            `db:"user_id"`
	Week            int               `db:"week"`
	DisplayName     string            `db:"display_name"`
	Picks           map[string]string `db:"picks"` // event ID -> chosen team
	TiebreakerGuess int               `db:"tiebreaker_guess"`
	SubmittedAt     time.Time         `db:"submitted_at"`
}
