package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSubmission is returned when a user already has a
	// submission stored for the week. The unique constraint on
	// (user_id, week) makes the check atomic.
	ErrDuplicateSubmission = errors.New("picks already submitted for this week")
)
