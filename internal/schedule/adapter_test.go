package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl_pickem/service/internal/models"
)

type fakeSource struct {
	events []models.EventInput
	err    error
	calls  int
}

func (f *fakeSource) FetchEventsRound(_ context.Context, _, _ int) ([]models.EventInput, error) {
	f.calls++
	return f.events, f.err
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	payload, ok := m.data[key]
	return payload, ok
}

func (m *memoryCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) {
	m.data[key] = payload
}

func strPtr(s string) *string { return &s }

func event(id, away, home, date, clock string, awayScore, homeScore *string) models.EventInput {
	return models.EventInput{
		EventID:   id,
		AwayTeam:  away,
		HomeTeam:  home,
		DateEvent: date,
		Time:      clock,
		AwayScore: awayScore,
		HomeScore: homeScore,
	}
}

func TestAdapter_FetchMatchups(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", nil, nil),
		event("e2", "", "Bears", "2025-09-07", "13:00:00", nil, nil),       // missing away team
		event("e3", "Jets", "Bills", "", "13:00:00", nil, nil),             // missing date
		event("e4", "Rams", "Lions", "2025-09-07", "", nil, nil),           // missing time
		event("e5", "Chiefs", "Chargers", "2025-09-07", "not-a-time", nil, nil),
	}}
	adapter := NewAdapter(source, nil, time.Hour)

	matchups := adapter.FetchMatchups(context.Background(), 1, 2025)

	require.Len(t, matchups, 1)
	assert.Equal(t, "e1", matchups[0].EventID)
	assert.Equal(t, "Packers vs Eagles", matchups[0].Label())
	assert.Equal(t, time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC), matchups[0].Kickoff)
}

func TestAdapter_FetchResults_OnlyFinalGames(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", strPtr("17"), strPtr("24")),
		event("e2", "Jets", "Bills", "2025-09-07", "16:25:00", strPtr("10"), nil), // in progress
		event("e3", "Rams", "Lions", "2025-09-07", "20:20:00", nil, nil),          // not started
	}}
	adapter := NewAdapter(source, nil, time.Hour)

	results := adapter.FetchResults(context.Background(), 1, 2025)

	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0].EventID)
	assert.Equal(t, "Eagles", results[0].Winner, "home team wins on higher score")
	assert.Equal(t, 41, results[0].CombinedScore)
}

func TestAdapter_FetchResults_TieGoesToAway(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", strPtr("20"), strPtr("20")),
	}}
	adapter := NewAdapter(source, nil, time.Hour)

	results := adapter.FetchResults(context.Background(), 1, 2025)

	require.Len(t, results, 1)
	assert.Equal(t, "Packers", results[0].Winner)
}

func TestWinners(t *testing.T) {
	winners := Winners([]models.GameResult{
		{EventID: "e1", Winner: "Eagles"},
		{EventID: "e2", Winner: "Bills"},
	})

	assert.Equal(t, map[string]string{"e1": "Eagles", "e2": "Bills"}, winners)
}

func TestAdapter_FetchMondayNightResult_PicksLatestKickoff(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		// Sunday final, never the tiebreaker.
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", strPtr("17"), strPtr("24")),
		// Two Monday finals; the 20:15 game is the tiebreaker.
		event("e2", "Jets", "Bills", "2025-09-08", "13:00:00", strPtr("10"), strPtr("20")),
		event("e3", "Rams", "Lions", "2025-09-08", "20:15:00", strPtr("21"), strPtr("28")),
	}}
	adapter := NewAdapter(source, nil, time.Hour)

	mnf, ok := adapter.FetchMondayNightResult(context.Background(), 1, 2025)

	require.True(t, ok)
	assert.Equal(t, "e3", mnf.EventID)
	assert.Equal(t, "Rams vs Lions", mnf.Label)
	assert.Equal(t, 49, mnf.CombinedScore)
}

func TestAdapter_FetchMondayNightResult_NoneFinal(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Jets", "Bills", "2025-09-08", "20:15:00", nil, nil),
	}}
	adapter := NewAdapter(source, nil, time.Hour)

	mnf, ok := adapter.FetchMondayNightResult(context.Background(), 1, 2025)

	assert.False(t, ok)
	assert.Nil(t, mnf)
}

func TestAdapter_FeedUnavailable_DegradesToEmpty(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	adapter := NewAdapter(source, nil, time.Hour)

	assert.Empty(t, adapter.FetchMatchups(context.Background(), 1, 2025))
	assert.Empty(t, adapter.FetchResults(context.Background(), 1, 2025))

	mnf, ok := adapter.FetchMondayNightResult(context.Background(), 1, 2025)
	assert.False(t, ok)
	assert.Nil(t, mnf)
}

func TestAdapter_CachesFeedPayload(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", nil, nil),
	}}
	cache := newMemoryCache()
	adapter := NewAdapter(source, cache, time.Hour)

	first := adapter.FetchMatchups(context.Background(), 1, 2025)
	second := adapter.FetchMatchups(context.Background(), 1, 2025)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second fetch must be served from cache")
}

func TestAdapter_CorruptCacheFallsBackToFeed(t *testing.T) {
	source := &fakeSource{events: []models.EventInput{
		event("e1", "Packers", "Eagles", "2025-09-07", "13:00:00", nil, nil),
	}}
	cache := newMemoryCache()
	cache.data["feed:events:2025:1"] = []byte("{not json")
	adapter := NewAdapter(source, cache, time.Hour)

	matchups := adapter.FetchMatchups(context.Background(), 1, 2025)

	require.Len(t, matchups, 1)
	assert.Equal(t, 1, source.calls)
}
