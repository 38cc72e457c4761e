package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/models"
)

// NFLLeagueID is TheSportsDB league identifier for the NFL.
const NFLLeagueID = "4391"

// FeedClient is the TheSportsDB schedule feed client.
type FeedClient struct {
	baseURL     string
	apiKey      string
	leagueID    string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
}

// NewFeedClient creates a new schedule feed client with transport tuning.
func NewFeedClient(baseURL, apiKey, leagueID string, timeout time.Duration) *FeedClient {
	// Create rate limiter (max 10 concurrent requests)
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &FeedClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		leagueID:    leagueID,
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request to the feed with retry logic and rate limiting.
func (c *FeedClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiKey, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("path", path).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying feed request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		// Rate limiting: acquire semaphore
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.rateLimiter:
			defer func() { c.rateLimiter <- struct{}{} }()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "nfl-pickem/1.0")

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		log.Debug().
			Str("path", path).
			Int("attempt", attempt+1).
			Msg("Making feed request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("feed request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			log.Debug().
				Str("path", path).
				Int("status", resp.StatusCode).
				Int("size", len(body)).
				Msg("Feed request successful")
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("feed returned retryable status %d: %s", resp.StatusCode, string(body))
			if attempt < c.maxRetries {
				log.Warn().
					Str("path", path).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			return nil, lastErr

		default:
			return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// eventsRoundResponse wraps the feed's round-of-events payload.
// The events array is null when the round has no data.
type eventsRoundResponse struct {
	Events []models.EventInput `json:"events"`
}

// FetchEventsRound fetches all events for a week of a season.
func (c *FeedClient) FetchEventsRound(ctx context.Context, week, seasonYear int) ([]models.EventInput, error) {
	params := map[string]string{
		"id": c.leagueID,
		"r":  fmt.Sprintf("%d", week),
		"s":  fmt.Sprintf("%d", seasonYear),
	}

	body, err := c.get(ctx, "eventsround.php", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events round: %w", err)
	}

	var round eventsRoundResponse
	if err := json.Unmarshal(body, &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events round: %w", err)
	}

	return round.Events, nil
}
