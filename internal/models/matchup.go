package models

import (
	"fmt"
	"strconv"
	"time"
)

// Matchup represents a single scheduled game between two teams in a week.
// Matchups come from the schedule feed per request and are never persisted.
type Matchup struct {
	EventID      string
	AwayTeam     string
	HomeTeam     string
	Kickoff      time.Time
	AwayBadgeURL string
	HomeBadgeURL string
}

// Label returns the human-readable "{away} vs {home}" form. It is a display
// string only; EventID is the join key.
func (m *Matchup) Label() string {
	return fmt.Sprintf("%s vs %s", m.AwayTeam, m.HomeTeam)
}

// Started reports whether the kickoff has passed, which closes picks for
// this matchup.
func (m *Matchup) Started(now time.Time) bool {
	return !now.Before(m.Kickoff)
}

// GameResult is the authoritative outcome of a finished matchup.
type GameResult struct {
	EventID       string
	Label         string
	Winner        string
	CombinedScore int
}

// MondayNightResult is the designated tiebreaker game: the Monday game with
// the latest kickoff time of day that has a final score.
type MondayNightResult struct {
	EventID       string
	Label         string
	CombinedScore int
	Kickoff       time.Time
}

// EventInput is a raw event as returned by the schedule feed.
// Score fields arrive as strings ("24") or null.
type EventInput struct {
	EventID   string  `json:"idEvent"`
	HomeTeam  string  `json:"strHomeTeam"`
	AwayTeam  string  `json:"strAwayTeam"`
	HomeBadge string  `json:"strHomeTeamBadge"`
	AwayBadge string  `json:"strAwayTeamBadge"`
	DateEvent string  `json:"dateEvent"` // "2006-01-02"
	Time      string  `json:"strTime"`   // "15:04:05"
	HomeScore *string `json:"intHomeScore"`
	AwayScore *string `json:"intAwayScore"`
}

const (
	eventDateLayout = "2006-01-02"
	eventTimeLayout = "15:04:05"
)

// Complete reports whether the event carries every field a Matchup needs.
// Events missing team names, date or time are dropped by the adapter.
func (ei *EventInput) Complete() bool {
	return ei.HomeTeam != "" && ei.AwayTeam != "" && ei.DateEvent != "" && ei.Time != ""
}

// KickoffTime parses the event's date and time into a single timestamp.
func (ei *EventInput) KickoffTime() (time.Time, error) {
	return time.Parse(eventDateLayout+" "+eventTimeLayout, ei.DateEvent+" "+ei.Time)
}

// FinalScores returns both scores when the event is final. A missing or
// unparseable score field means the game has no authoritative outcome yet.
func (ei *EventInput) FinalScores() (home, away int, ok bool) {
	if ei.HomeScore == nil || ei.AwayScore == nil {
		return 0, 0, false
	}
	home, err := strconv.Atoi(*ei.HomeScore)
	if err != nil {
		return 0, 0, false
	}
	away, err = strconv.Atoi(*ei.AwayScore)
	if err != nil {
		return 0, 0, false
	}
	return home, away, true
}

// ToMatchup converts the raw event to a Matchup.
// Call Complete first; an unparseable kickoff returns an error.
func (ei *EventInput) ToMatchup() (*Matchup, error) {
	kickoff, err := ei.KickoffTime()
	if err != nil {
		return nil, fmt.Errorf("failed to parse kickoff for event %s: %w", ei.EventID, err)
	}

	return &Matchup{
		EventID:      ei.EventID,
		AwayTeam:     ei.AwayTeam,
		HomeTeam:     ei.HomeTeam,
		Kickoff:      kickoff,
		AwayBadgeURL: ei.AwayBadge,
		HomeBadgeURL: ei.HomeBadge,
	}, nil
}

// ToResult converts a final event to a GameResult. The home team wins on a
// higher score; otherwise the away team is recorded as the winner.
func (ei *EventInput) ToResult() (*GameResult, bool) {
	home, away, ok := ei.FinalScores()
	if !ok || ei.HomeTeam == "" || ei.AwayTeam == "" {
		return nil, false
	}

	winner := ei.AwayTeam
	if home > away {
		winner = ei.HomeTeam
	}

	return &GameResult{
		EventID:       ei.EventID,
		Label:         fmt.Sprintf("%s vs %s", ei.AwayTeam, ei.HomeTeam),
		Winner:        winner,
		CombinedScore: home + away,
	}, true
}
