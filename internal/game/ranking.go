package game

import (
	"sort"

	"nfl_pickem/service/internal/models"
)

// Rank total-orders the scored players into leaderboard rows.
//
// Comparator, ascending by composite key:
//  1. higher CorrectCount first
//  2. tiebreaker guess closer to actualTiebreak first
//  3. earlier SubmittedAt first
//  4. UserID, so map iteration order never leaks into the output
//
// The sort is stable and the function is idempotent: ranking the same input
// twice yields identical rows.
func Rank(scores map[string]models.ScoreEntry, actualTiebreak int) []models.LeaderboardRow {
	entries := make([]models.ScoreEntry, 0, len(scores))
	for _, entry := range scores {
		entries = append(entries, entry)
	}

	// Pre-sort by UserID so the stable sort sees a deterministic input.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if a.CorrectCount != b.CorrectCount {
			return a.CorrectCount > b.CorrectCount
		}

		da, db := tiebreakDistance(a.TiebreakerGuess, actualTiebreak), tiebreakDistance(b.TiebreakerGuess, actualTiebreak)
		if da != db {
			return da < db
		}

		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}

		return false
	})

	rows := make([]models.LeaderboardRow, len(entries))
	for i, entry := range entries {
		rows[i] = models.LeaderboardRow{Rank: i + 1, ScoreEntry: entry}
	}
	return rows
}

func tiebreakDistance(guess, actual int) int {
	d := guess - actual
	if d < 0 {
		return -d
	}
	return d
}
