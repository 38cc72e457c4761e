package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRound = `{
	"events": [
		{
			"idEvent": "2052711",
			"strHomeTeam": "Philadelphia Eagles",
			"strAwayTeam": "Green Bay Packers",
			"strHomeTeamBadge": "https://example.com/phi.png",
			"strAwayTeamBadge": "https://example.com/gb.png",
			"dateEvent": "2025-09-07",
			"strTime": "13:00:00",
			"intHomeScore": "24",
			"intAwayScore": "17"
		},
		{
			"idEvent": "2052712",
			"strHomeTeam": "Buffalo Bills",
			"strAwayTeam": "New York Jets",
			"dateEvent": "2025-09-08",
			"strTime": "20:15:00",
			"intHomeScore": null,
			"intAwayScore": null
		}
	]
}`

func TestFeedClient_FetchEventsRound(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"id": r.URL.Query().Get("id"),
			"r":  r.URL.Query().Get("r"),
			"s":  r.URL.Query().Get("s"),
		}
		w.Write([]byte(sampleRound))
	}))
	defer server.Close()

	c := NewFeedClient(server.URL, "testkey", NFLLeagueID, 5*time.Second)

	events, err := c.FetchEventsRound(context.Background(), 1, 2025)
	require.NoError(t, err)

	assert.Equal(t, "/testkey/eventsround.php", gotPath)
	assert.Equal(t, map[string]string{"id": "4391", "r": "1", "s": "2025"}, gotQuery)

	require.Len(t, events, 2)
	assert.Equal(t, "2052711", events[0].EventID)
	assert.Equal(t, "Green Bay Packers", events[0].AwayTeam)
	require.NotNil(t, events[0].HomeScore)
	assert.Equal(t, "24", *events[0].HomeScore)
	assert.Nil(t, events[1].HomeScore)
}

func TestFeedClient_FetchEventsRound_NullEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": null}`))
	}))
	defer server.Close()

	c := NewFeedClient(server.URL, "testkey", NFLLeagueID, 5*time.Second)

	events, err := c.FetchEventsRound(context.Background(), 30, 2025)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFeedClient_FetchEventsRound_Garbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	c := NewFeedClient(server.URL, "testkey", NFLLeagueID, 5*time.Second)

	_, err := c.FetchEventsRound(context.Background(), 1, 2025)
	assert.Error(t, err)
}

func TestFeedClient_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	c := NewFeedClient(server.URL, "testkey", NFLLeagueID, 5*time.Second)
	c.retryDelay = time.Millisecond

	_, err := c.FetchEventsRound(context.Background(), 1, 2025)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFeedClient_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewFeedClient(server.URL, "testkey", NFLLeagueID, 5*time.Second)
	c.retryDelay = time.Millisecond

	_, err := c.FetchEventsRound(context.Background(), 1, 2025)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
