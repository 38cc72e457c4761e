package models

import "time"

// ScoreEntry is a player's computed result for one week. Derived on every
// leaderboard render, never persisted.
type ScoreEntry struct {
	UserID          string
	DisplayName     string
	CorrectCount    int
	TiebreakerGuess int
	SubmittedAt     time.Time
}

// LeaderboardRow is a ScoreEntry with its 1-based position after ranking.
type LeaderboardRow struct {
	Rank int
	ScoreEntry
}
