// Package service orchestrates one user interaction at a time: signup,
// login, pick submission, pick history and the weekly leaderboard. All state
// is request-scoped; durable state lives behind the store interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/client"
	"nfl_pickem/service/internal/game"
	"nfl_pickem/service/internal/metrics"
	"nfl_pickem/service/internal/models"
	"nfl_pickem/service/internal/repository"
	"nfl_pickem/service/internal/schedule"
	"nfl_pickem/service/internal/season"
)

var (
	// ErrNoPicks is returned when a submission carries no picks.
	ErrNoPicks = errors.New("no picks submitted")

	// ErrInvalidTiebreaker is returned for a negative combined-score guess.
	ErrInvalidTiebreaker = errors.New("tiebreaker guess must be non-negative")

	// ErrUnknownMatchup is returned when a pick references a matchup that
	// does not exist for the week.
	ErrUnknownMatchup = errors.New("pick references unknown matchup")

	// ErrInvalidPick is returned when the chosen team is not playing in the
	// picked matchup.
	ErrInvalidPick = errors.New("chosen team is not playing in this matchup")

	// ErrPicksClosed is returned when the matchup's kickoff has passed.
	ErrPicksClosed = errors.New("picks are closed for this matchup")
)

// ErrDuplicateSubmission is re-exported so callers need not import the
// repository package to classify the failure.
var ErrDuplicateSubmission = repository.ErrDuplicateSubmission

// Identity exchanges credentials for a stable user identifier.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*client.AuthResult, error)
	SignUp(ctx context.Context, email, password string) (*client.AuthResult, error)
}

// UserStore is the durable store for user profiles.
type UserStore interface {
	PutProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// PickStore is the durable store for pick submissions.
type PickStore interface {
	CreateSubmission(ctx context.Context, sub *models.PickSubmission) error
	ListByWeek(ctx context.Context, week int) ([]models.PickSubmission, error)
	ListByUser(ctx context.Context, userID string) ([]models.PickSubmission, error)
}

// Schedule supplies normalized matchups and results for a week.
type Schedule interface {
	FetchMatchups(ctx context.Context, week, seasonYear int) []models.Matchup
	FetchResults(ctx context.Context, week, seasonYear int) []models.GameResult
	FetchMondayNightResult(ctx context.Context, week, seasonYear int) (*models.MondayNightResult, bool)
}

// Leaderboard is the computed standing for one week.
type Leaderboard struct {
	Week           int
	ActualTiebreak int
	TiebreakLabel  string // empty until the Monday-night game is final
	Rows           []models.LeaderboardRow
}

// Pickem is the contest service.
type Pickem struct {
	identity Identity
	users    UserStore
	picks    PickStore
	schedule Schedule
	calendar *season.Calendar
	now      func() time.Time
}

// NewPickem creates the contest service.
func NewPickem(identity Identity, users UserStore, picks PickStore, sched Schedule, calendar *season.Calendar) *Pickem {
	return &Pickem{
		identity: identity,
		users:    users,
		picks:    picks,
		schedule: sched,
		calendar: calendar,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (p *Pickem) WithClock(now func() time.Time) *Pickem {
	p.now = now
	return p
}

// CurrentWeek returns the competition week containing the current time.
func (p *Pickem) CurrentWeek() int {
	return p.calendar.CurrentWeek(p.now())
}

// Signup creates an identity account and its profile.
// Identity provider failures carry the provider's message verbatim.
func (p *Pickem) Signup(ctx context.Context, email, password, displayName, phone string) (*models.UserProfile, error) {
	auth, err := p.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:      auth.UserID,
		Email:       email,
		DisplayName: displayName,
		Phone:       phone,
	}
	if err := p.users.PutProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to store profile for new user: %w", err)
	}

	log.Info().
		Str("user_id", auth.UserID).
		Str("display_name", displayName).
		Msg("User signed up")

	return profile, nil
}

// Login exchanges credentials and loads the stored profile. A missing
// profile is not an error; the returned profile then has an empty display
// name.
func (p *Pickem) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	auth, err := p.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := p.users.GetProfile(ctx, auth.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.UserProfile{UserID: auth.UserID, Email: auth.Email}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return profile, nil
}

// SubmitPicks validates and stores one user's picks for a week.
//
// Rejections, all before anything is persisted: empty picks, a negative
// tiebreaker guess, a pick for a matchup that does not exist this week, a
// chosen team not playing in its matchup, a matchup whose kickoff has
// passed, and a duplicate submission for the (user, week).
func (p *Pickem) SubmitPicks(ctx context.Context, userID string, week int, picks map[string]string, tiebreakerGuess int) (*models.PickSubmission, error) {
	if len(picks) == 0 {
		metrics.RecordSubmission("invalid")
		return nil, ErrNoPicks
	}
	if tiebreakerGuess < 0 {
		metrics.RecordSubmission("invalid")
		return nil, ErrInvalidTiebreaker
	}

	profile, err := p.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submitter profile: %w", err)
	}

	matchups := p.schedule.FetchMatchups(ctx, week, p.calendar.Season())
	byEvent := make(map[string]models.Matchup, len(matchups))
	for _, m := range matchups {
		byEvent[m.EventID] = m
	}

	now := p.now()
	for eventID, chosen := range picks {
		matchup, ok := byEvent[eventID]
		if !ok {
			metrics.RecordSubmission("invalid")
			return nil, fmt.Errorf("%w: %s", ErrUnknownMatchup, eventID)
		}
		if chosen != matchup.AwayTeam && chosen != matchup.HomeTeam {
			metrics.RecordSubmission("invalid")
			return nil, fmt.Errorf("%w: %s in %s", ErrInvalidPick, chosen, matchup.Label())
		}
		if season.KickoffLocked(now, matchup.Kickoff) {
			metrics.RecordSubmission("closed")
			return nil, fmt.Errorf("%w: %s", ErrPicksClosed, matchup.Label())
		}
	}

	sub := &models.PickSubmission{
		UserID:          userID,
		Week:            week,
		DisplayName:     profile.DisplayName,
		Picks:           picks,
		TiebreakerGuess: tiebreakerGuess,
		SubmittedAt:     now,
	}

	if err := p.picks.CreateSubmission(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			metrics.RecordSubmission("duplicate")
			log.Warn().
				Str("user_id", userID).
				Int("week", week).
				Msg("Duplicate pick submission rejected")
			return nil, err
		}
		metrics.RecordSubmission("error")
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	metrics.RecordSubmission("accepted")
	return sub, nil
}

// WeeklyLeaderboard scores and ranks every submission for a week against
// the authoritative results. Missing results are a normal state: unplayed
// games score nothing and the actual tiebreak defaults to zero until the
// Monday-night game is final.
func (p *Pickem) WeeklyLeaderboard(ctx context.Context, week int) (*Leaderboard, error) {
	seasonYear := p.calendar.Season()

	results := p.schedule.FetchResults(ctx, week, seasonYear)
	winners := schedule.Winners(results)

	board := &Leaderboard{Week: week}
	if mnf, ok := p.schedule.FetchMondayNightResult(ctx, week, seasonYear); ok {
		board.ActualTiebreak = mnf.CombinedScore
		board.TiebreakLabel = mnf.Label
	}

	subs, err := p.picks.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	scores := game.Score(subs, winners)
	board.Rows = game.Rank(scores, board.ActualTiebreak)

	metrics.RecordLeaderboard()
	log.Debug().
		Int("week", week).
		Int("players", len(board.Rows)).
		Int("decided_games", len(winners)).
		Msg("Leaderboard computed")

	return board, nil
}

// PickHistory returns the user's submissions across all weeks, newest week
// first.
func (p *Pickem) PickHistory(ctx context.Context, userID string) ([]models.PickSubmission, error) {
	subs, err := p.picks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick history: %w", err)
	}
	return subs, nil
}
