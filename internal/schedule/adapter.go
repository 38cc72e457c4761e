// Package schedule normalizes raw schedule feed payloads into typed matchup
// and result records for the current week.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/metrics"
	"nfl_pickem/service/internal/models"
)

// EventSource fetches raw events for a week. Implemented by the feed client.
type EventSource interface {
	FetchEventsRound(ctx context.Context, week, seasonYear int) ([]models.EventInput, error)
}

// ByteCache is an optional read-through cache for feed payloads.
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

// Adapter turns feed events into Matchups and GameResults.
//
// Every fetch fails softly: an unreachable feed or unparseable payload
// degrades to an empty result, which callers must treat as "no data yet"
// rather than an error.
type Adapter struct {
	feed     EventSource
	cache    ByteCache // nil disables caching
	cacheTTL time.Duration
}

// NewAdapter creates a schedule adapter. cache may be nil.
func NewAdapter(feed EventSource, cache ByteCache, cacheTTL time.Duration) *Adapter {
	return &Adapter{
		feed:     feed,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// FetchMatchups returns the week's matchups, skipping events that are
// missing team names, date or time.
func (a *Adapter) FetchMatchups(ctx context.Context, week, seasonYear int) []models.Matchup {
	events := a.fetchEvents(ctx, "matchups", week, seasonYear)

	matchups := make([]models.Matchup, 0, len(events))
	for i := range events {
		ev := &events[i]
		if !ev.Complete() {
			log.Debug().
				Str("event_id", ev.EventID).
				Msg("Skipping event with missing fields")
			continue
		}

		matchup, err := ev.ToMatchup()
		if err != nil {
			log.Debug().Err(err).Str("event_id", ev.EventID).Msg("Skipping unparseable event")
			continue
		}
		matchups = append(matchups, *matchup)
	}

	return matchups
}

// FetchResults returns results for the week's matchups that have both final
// scores.
func (a *Adapter) FetchResults(ctx context.Context, week, seasonYear int) []models.GameResult {
	events := a.fetchEvents(ctx, "results", week, seasonYear)

	results := make([]models.GameResult, 0, len(events))
	for i := range events {
		if result, ok := events[i].ToResult(); ok {
			results = append(results, *result)
		}
	}

	return results
}

// Winners maps event IDs to winning teams for a set of results.
func Winners(results []models.GameResult) map[string]string {
	winners := make(map[string]string, len(results))
	for _, r := range results {
		winners[r.EventID] = r.Winner
	}
	return winners
}

// FetchMondayNightResult selects the tiebreaker game: among the week's
// Monday events with a final score, the one with the latest kickoff time of
// day. Returns false while no Monday game has finished.
func (a *Adapter) FetchMondayNightResult(ctx context.Context, week, seasonYear int) (*models.MondayNightResult, bool) {
	events := a.fetchEvents(ctx, "monday_night", week, seasonYear)

	var latest *models.MondayNightResult
	for i := range events {
		ev := &events[i]

		home, away, ok := ev.FinalScores()
		if !ok {
			continue
		}

		kickoff, err := ev.KickoffTime()
		if err != nil || kickoff.Weekday() != time.Monday {
			continue
		}

		if latest != nil && !timeOfDayAfter(kickoff, latest.Kickoff) {
			continue
		}

		latest = &models.MondayNightResult{
			EventID:       ev.EventID,
			Label:         fmt.Sprintf("%s vs %s", ev.AwayTeam, ev.HomeTeam),
			CombinedScore: home + away,
			Kickoff:       kickoff,
		}
	}

	return latest, latest != nil
}

// fetchEvents reads the week's events through the cache. Any failure is
// logged and reported as an empty slice.
func (a *Adapter) fetchEvents(ctx context.Context, operation string, week, seasonYear int) []models.EventInput {
	key := fmt.Sprintf("feed:events:%d:%d", seasonYear, week)

	if a.cache != nil {
		if payload, ok := a.cache.Get(ctx, key); ok {
			var events []models.EventInput
			if err := json.Unmarshal(payload, &events); err == nil {
				return events
			}
			log.Warn().Str("key", key).Msg("Discarding corrupt cached feed payload")
		}
	}

	start := time.Now()
	events, err := a.feed.FetchEventsRound(ctx, week, seasonYear)
	if err != nil {
		metrics.RecordFeedCall(operation, "error", time.Since(start).Seconds())
		metrics.RecordError("schedule", "feed_unavailable")
		log.Warn().
			Err(err).
			Int("week", week).
			Int("season", seasonYear).
			Msg("Schedule feed unavailable, returning no data")
		return nil
	}
	metrics.RecordFeedCall(operation, "success", time.Since(start).Seconds())

	if a.cache != nil && len(events) > 0 {
		if payload, err := json.Marshal(events); err == nil {
			a.cache.Set(ctx, key, payload, a.cacheTTL)
		}
	}

	return events
}

// timeOfDayAfter compares only the clock component of two kickoffs.
func timeOfDayAfter(a, b time.Time) bool {
	as := a.Hour()*3600 + a.Minute()*60 + a.Second()
	bs := b.Hour()*3600 + b.Minute()*60 + b.Second()
	return as > bs
}
