// Package season derives the current competition week from wall-clock time.
//
// A week runs Wednesday through Tuesday so that Monday-night games land in
// the week that opened the previous Wednesday.
package season

import "time"

// DefaultAnchor is the Wednesday that opens week 1 of the 2025 season.
var DefaultAnchor = time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC)

// Calendar computes week numbers relative to a fixed season anchor.
type Calendar struct {
	anchor time.Time
	season int
}

// NewCalendar returns a Calendar anchored at the given week-1 Wednesday.
func NewCalendar(anchor time.Time, seasonYear int) *Calendar {
	return &Calendar{anchor: anchor, season: seasonYear}
}

// Season returns the season year the calendar covers.
func (c *Calendar) Season() int {
	return c.season
}

// CurrentWeek returns the week number containing now. Time is walked back to
// the most recent Wednesday and the whole-week offset from the anchor is
// taken, floored at 1. The result never decreases as now advances.
func (c *Calendar) CurrentWeek(now time.Time) int {
	aligned := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.anchor.Location())
	for aligned.Weekday() != time.Wednesday {
		aligned = aligned.AddDate(0, 0, -1)
	}

	days := int(aligned.Sub(c.anchor).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	return week
}

// KickoffLocked reports whether picks are closed for a game: once kickoff
// passes, the matchup no longer accepts picks.
func KickoffLocked(now, kickoff time.Time) bool {
	return !now.Before(kickoff)
}
