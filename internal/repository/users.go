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

// UserRepository handles user profile database operations
type UserRepository struct {
	db *Database
}

// PutProfile inserts or updates a user profile. The identity provider owns
// the user_id; signup writes the profile exactly once and later writes are
// no-op refreshes of the same data.
func (r *UserRepository) PutProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO users (user_id, email, display_name, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			phone = EXCLUDED.phone
		RETURNING created_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		profile.UserID, profile.Email, profile.DisplayName, profile.Phone,
	).Scan(&profile.CreatedAt)
	metrics.RecordDBQuery("upsert", "users", queryStatus(err), time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("failed to put user profile: %w", err)
	}

	log.Debug().
		Str("user_id", profile.UserID).
		Str("display_name", profile.DisplayName).
		Msg("User profile saved")

	return nil
}

// GetProfile retrieves a profile by user ID.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT user_id, email, display_name, phone, created_at
		FROM users
		WHERE user_id = $1
	`

	var profile models.UserProfile
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.Email, &profile.DisplayName, &profile.Phone, &profile.CreatedAt,
	)
	metrics.RecordDBQuery("get", "users", queryStatus(err), time.Since(start).Seconds())

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &profile, nil
}

// ListWithPhone retrieves every profile that can receive SMS notifications.
func (r *UserRepository) ListWithPhone(ctx context.Context) ([]*models.UserProfile, error) {
	query := `
		SELECT user_id, email, display_name, phone, created_at
		FROM users
		WHERE phone <> ''
		ORDER BY created_at
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query)
	metrics.RecordDBQuery("list", "users", queryStatus(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to list users with phone: %w", err)
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		var profile models.UserProfile
		err := rows.Scan(
			&profile.UserID, &profile.Email, &profile.DisplayName, &profile.Phone, &profile.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user profiles: %w", err)
	}

	log.Debug().Int("count", len(profiles)).Msg("Retrieved users with phone numbers")
	return profiles, nil
}

func queryStatus(err error) string {
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "error"
	}
	return "success"
}
