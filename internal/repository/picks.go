package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/metrics"
	"nfl_pickem/service/internal/models"
)

// PickRepository handles pick submission database operations
type PickRepository struct {
	db *Database
}

// CreateSubmission stores a submission. The unique constraint on
// (user_id, week) plus ON CONFLICT DO NOTHING makes the at-most-one
// submission invariant atomic: a second submission for the same week
// returns ErrDuplicateSubmission and leaves the stored row untouched.
func (r *PickRepository) CreateSubmission(ctx context.Context, sub *models.PickSubmission) error {
	if sub == nil {
		return fmt.Errorf("submission cannot be nil")
	}

	query := `
		INSERT INTO picks (user_id, week, display_name, picks, tiebreaker_guess, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, week) DO NOTHING
	`

	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, query,
		sub.UserID, sub.Week, sub.DisplayName, sub.Picks, sub.TiebreakerGuess, sub.SubmittedAt,
	)
	metrics.RecordDBQuery("insert", "picks", queryStatus(err), time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDuplicateSubmission
	}

	log.Info().
		Str("user_id", sub.UserID).
		Int("week", sub.Week).
		Int("picks", len(sub.Picks)).
		Msg("Pick submission stored")

	return nil
}

// GetByUserWeek retrieves a user's submission for a week.
func (r *PickRepository) GetByUserWeek(ctx context.Context, userID string, week int) (*models.PickSubmission, error) {
	query := `
		SELECT user_id, week, display_name, picks, tiebreaker_guess, submitted_at
		FROM picks
		WHERE user_id = $1 AND week = $2
	`

	var sub models.PickSubmission
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, userID, week).Scan(
		&sub.UserID, &sub.Week, &sub.DisplayName, &sub.Picks, &sub.TiebreakerGuess, &sub.SubmittedAt,
	)
	metrics.RecordDBQuery("get", "picks", queryStatus(err), time.Since(start).Seconds())

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &sub, nil
}

// ListByWeek retrieves every submission for a week, in submission order.
// Feeds the scoring engine.
func (r *PickRepository) ListByWeek(ctx context.Context, week int) ([]models.PickSubmission, error) {
	query := `
		SELECT user_id, week, display_name, picks, tiebreaker_guess, submitted_at
		FROM picks
		WHERE week = $1
		ORDER BY submitted_at
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, week)
	metrics.RecordDBQuery("list", "picks", queryStatus(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by week: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListByUser retrieves a user's submissions across all weeks, newest first.
// Feeds the pick history view.
func (r *PickRepository) ListByUser(ctx context.Context, userID string) ([]models.PickSubmission, error) {
	query := `
		SELECT user_id, week, display_name, picks, tiebreaker_guess, submitted_at
		FROM picks
		WHERE user_id = $1
		ORDER BY week DESC
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, userID)
	metrics.RecordDBQuery("list", "picks", queryStatus(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by user: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// Count returns the total number of stored submissions.
func (r *PickRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM picks`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}

func scanSubmissions(rows pgx.Rows) ([]models.PickSubmission, error) {
	var subs []models.PickSubmission
	for rows.Next() {
		var sub models.PickSubmission
		err := rows.Scan(
			&sub.UserID, &sub.Week, &sub.DisplayName, &sub.Picks, &sub.TiebreakerGuess, &sub.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}
