// Package game holds the scoring and ranking computations for the weekly
// pick'em contest.
package game

import (
	"nfl_pickem/service/internal/models"
)

// Score computes each player's correct-pick count from their submission and
// the map of authoritative winners keyed by event ID.
//
// The output is keyed by user ID, so two accounts sharing a display name
// never merge. A matchup whose winner is not yet known counts as incorrect,
// not as an error. If the input somehow contains two submissions for the
// same user, the later one in input order wins.
func Score(picks []models.PickSubmission, winners map[string]string) map[string]models.ScoreEntry {
	scores := make(map[string]models.ScoreEntry, len(picks))

	for _, sub := range picks {
		correct := 0
		for eventID, chosen := range sub.Picks {
			if winners[eventID] == chosen {
				correct++
			}
		}

		scores[sub.UserID] = models.ScoreEntry{
			UserID:          sub.UserID,
			DisplayName:     sub.DisplayName,
			CorrectCount:    correct,
			TiebreakerGuess: sub.TiebreakerGuess,
			SubmittedAt:     sub.SubmittedAt,
		}
	}

	return scores
}
