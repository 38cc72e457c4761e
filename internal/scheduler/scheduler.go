// Package scheduler runs the periodic notification jobs. It shares no
// mutable state with request handling; each job loads what it needs from
// the store when it fires.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/config"
	"nfl_pickem/service/internal/metrics"
	"nfl_pickem/service/internal/models"
	"nfl_pickem/service/internal/notify"
	"nfl_pickem/service/internal/service"
)

// ContactLister supplies the profiles that can receive SMS.
type ContactLister interface {
	ListWithPhone(ctx context.Context) ([]*models.UserProfile, error)
}

// GameSource supplies the current week and its computed leaderboard.
type GameSource interface {
	CurrentWeek() int
	WeeklyLeaderboard(ctx context.Context, week int) (*service.Leaderboard, error)
}

// Scheduler manages the background notification jobs:
// - weekly pick reminder before the first kickoff
// - weekly results summary once Monday night is done
type Scheduler struct {
	cfg       *config.Config
	contacts  ContactLister
	game      GameSource
	messenger notify.Messenger
	cron      *cron.Cron
	stopChan  chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, contacts ContactLister, game GameSource, messenger notify.Messenger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		contacts:  contacts,
		game:      game,
		messenger: messenger,
		cron:      cron.New(),
		stopChan:  make(chan struct{}),
	}
}

// Start registers the cron jobs and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.PickReminderCron, func() {
		if err := s.SendPickReminders(ctx); err != nil {
			log.Error().Err(err).Msg("Pick reminder job failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule pick reminders: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.ResultsSummaryCron, func() {
		if err := s.SendResultsSummary(ctx); err != nil {
			log.Error().Err(err).Msg("Results summary job failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule results summary: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("reminder_schedule", s.cfg.PickReminderCron).
		Str("summary_schedule", s.cfg.ResultsSummaryCron).
		Msg("Notification jobs scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// SendPickReminders texts every reachable user that the week's picks are
// open. Delivery is fire-and-forget: a failed send is logged and the job
// moves on to the next contact.
func (s *Scheduler) SendPickReminders(ctx context.Context) error {
	start := time.Now()
	week := s.game.CurrentWeek()

	contacts, err := s.contacts.ListWithPhone(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	if len(contacts) == 0 {
		log.Debug().Msg("No reachable contacts for pick reminder")
		return nil
	}

	body := fmt.Sprintf("NFL Pick'em: week %d is open. Get your picks in before kickoff!", week)

	sent := 0
	for _, contact := range contacts {
		if err := s.messenger.Send(ctx, contact.Phone, body); err != nil {
			metrics.RecordNotification("reminder", "error")
			log.Warn().
				Err(err).
				Str("user_id", contact.UserID).
				Msg("Failed to send pick reminder")
			continue
		}
		metrics.RecordNotification("reminder", "sent")
		sent++
	}

	log.Info().
		Int("week", week).
		Int("sent", sent).
		Int("contacts", len(contacts)).
		Dur("duration", time.Since(start)).
		Msg("Pick reminders sent")

	return nil
}

// SendResultsSummary texts the week's top of the leaderboard to every
// reachable user. Skipped quietly when nobody has submitted.
func (s *Scheduler) SendResultsSummary(ctx context.Context) error {
	start := time.Now()
	week := s.game.CurrentWeek()

	board, err := s.game.WeeklyLeaderboard(ctx, week)
	if err != nil {
		return fmt.Errorf("failed to compute leaderboard: %w", err)
	}

	if len(board.Rows) == 0 {
		log.Debug().Int("week", week).Msg("No submissions this week, skipping results summary")
		return nil
	}

	contacts, err := s.contacts.ListWithPhone(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	body := summaryBody(board)

	sent := 0
	for _, contact := range contacts {
		if err := s.messenger.Send(ctx, contact.Phone, body); err != nil {
			metrics.RecordNotification("summary", "error")
			log.Warn().
				Err(err).
				Str("user_id", contact.UserID).
				Msg("Failed to send results summary")
			continue
		}
		metrics.RecordNotification("summary", "sent")
		sent++
	}

	log.Info().
		Int("week", week).
		Int("sent", sent).
		Dur("duration", time.Since(start)).
		Msg("Results summaries sent")

	return nil
}

// summaryBody renders the top three leaderboard rows into one SMS.
func summaryBody(board *service.Leaderboard) string {
	body := fmt.Sprintf("NFL Pick'em week %d standings:", board.Week)

	top := board.Rows
	if len(top) > 3 {
		top = top[:3]
	}
	for _, row := range top {
		body += fmt.Sprintf(" %d) %s %d correct", row.Rank, row.DisplayName, row.CorrectCount)
	}

	if board.TiebreakLabel != "" {
		body += fmt.Sprintf(". Tiebreaker (%s): %d points", board.TiebreakLabel, board.ActualTiebreak)
	}

	return body
}
