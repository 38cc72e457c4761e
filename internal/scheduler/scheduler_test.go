package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl_pickem/service/internal/config"
	"nfl_pickem/service/internal/models"
	"nfl_pickem/service/internal/service"
)

type fakeContacts struct {
	profiles []*models.UserProfile
	err      error
}

func (f *fakeContacts) ListWithPhone(_ context.Context) ([]*models.UserProfile, error) {
	return f.profiles, f.err
}

type fakeGame struct {
	week  int
	board *service.Leaderboard
}

func (f *fakeGame) CurrentWeek() int { return f.week }

func (f *fakeGame) WeeklyLeaderboard(_ context.Context, _ int) (*service.Leaderboard, error) {
	return f.board, nil
}

type fakeMessenger struct {
	sent   []string // "to|body"
	failTo string
}

func (f *fakeMessenger) Send(_ context.Context, to, body string) error {
	if to == f.failTo {
		return errors.New("provider rejected message")
	}
	f.sent = append(f.sent, to+"|"+body)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		PickReminderCron:   "0 16 * * 4",
		ResultsSummaryCron: "0 9 * * 2",
	}
}

func contact(userID, phone string) *models.UserProfile {
	return &models.UserProfile{UserID: userID, DisplayName: userID, Phone: phone}
}

func TestScheduler_SendPickReminders(t *testing.T) {
	contacts := &fakeContacts{profiles: []*models.UserProfile{
		contact("u1", "+15550001"),
		contact("u2", "+15550002"),
	}}
	messenger := &fakeMessenger{}
	s := NewScheduler(testConfig(), contacts, &fakeGame{week: 3}, messenger)

	require.NoError(t, s.SendPickReminders(context.Background()))

	require.Len(t, messenger.sent, 2)
	assert.Contains(t, messenger.sent[0], "+15550001|")
	assert.Contains(t, messenger.sent[0], "week 3")
}

func TestScheduler_SendPickReminders_DeliveryFailureDoesNotAbort(t *testing.T) {
	contacts := &fakeContacts{profiles: []*models.UserProfile{
		contact("u1", "+15550001"),
		contact("u2", "+15550002"),
	}}
	messenger := &fakeMessenger{failTo: "+15550001"}
	s := NewScheduler(testConfig(), contacts, &fakeGame{week: 3}, messenger)

	require.NoError(t, s.SendPickReminders(context.Background()))

	require.Len(t, messenger.sent, 1, "remaining contacts still get the message")
	assert.Contains(t, messenger.sent[0], "+15550002|")
}

func TestScheduler_SendResultsSummary(t *testing.T) {
	now := time.Now()
	board := &service.Leaderboard{
		Week:           3,
		ActualTiebreak: 49,
		TiebreakLabel:  "Jets vs Bills",
		Rows: []models.LeaderboardRow{
			{Rank: 1, ScoreEntry: models.ScoreEntry{UserID: "u2", DisplayName: "Bob", CorrectCount: 12, SubmittedAt: now}},
			{Rank: 2, ScoreEntry: models.ScoreEntry{UserID: "u1", DisplayName: "Alice", CorrectCount: 10, SubmittedAt: now}},
			{Rank: 3, ScoreEntry: models.ScoreEntry{UserID: "u3", DisplayName: "Carol", CorrectCount: 9, SubmittedAt: now}},
			{Rank: 4, ScoreEntry: models.ScoreEntry{UserID: "u4", DisplayName: "Dave", CorrectCount: 2, SubmittedAt: now}},
		},
	}
	contacts := &fakeContacts{profiles: []*models.UserProfile{contact("u1", "+15550001")}}
	messenger := &fakeMessenger{}
	s := NewScheduler(testConfig(), contacts, &fakeGame{week: 3, board: board}, messenger)

	require.NoError(t, s.SendResultsSummary(context.Background()))

	require.Len(t, messenger.sent, 1)
	msg := messenger.sent[0]
	assert.Contains(t, msg, "1) Bob 12 correct")
	assert.Contains(t, msg, "3) Carol 9 correct")
	assert.NotContains(t, msg, "Dave", "only the top three appear")
	assert.Contains(t, msg, "Jets vs Bills")
}

func TestScheduler_SendResultsSummary_NoSubmissions(t *testing.T) {
	messenger := &fakeMessenger{}
	s := NewScheduler(testConfig(),
		&fakeContacts{profiles: []*models.UserProfile{contact("u1", "+15550001")}},
		&fakeGame{week: 3, board: &service.Leaderboard{Week: 3}},
		messenger)

	require.NoError(t, s.SendResultsSummary(context.Background()))
	assert.Empty(t, messenger.sent)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeContacts{}, &fakeGame{week: 1}, &fakeMessenger{})

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_Start_BadCron(t *testing.T) {
	cfg := testConfig()
	cfg.PickReminderCron = "not a cron expression"
	s := NewScheduler(cfg, &fakeContacts{}, &fakeGame{week: 1}, &fakeMessenger{})

	assert.Error(t, s.Start(context.Background()))
}
