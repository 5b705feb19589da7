package postgres

import (
	"context"
	"errors"
	"fmt"

	"compboard/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SettingsRepository is the Postgres implementation of app.SettingsRepository.
// A single row holds the flag; Get creates it hidden on first access.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.LeaderboardSettings, error) {
	var settings domain.LeaderboardSettings
	err := r.pool.QueryRow(ctx,
		`SELECT show_private_scores, updated_at FROM leaderboard_settings ORDER BY id LIMIT 1`).
		Scan(&settings.ShowPrivateScores, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.pool.QueryRow(ctx,
			`INSERT INTO leaderboard_settings (show_private_scores) VALUES (false)
			 RETURNING show_private_scores, updated_at`).
			Scan(&settings.ShowPrivateScores, &settings.UpdatedAt)
	}
	if err != nil {
		return domain.LeaderboardSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) Update(ctx context.Context, showPrivate bool) (domain.LeaderboardSettings, error) {
	if _, err := r.Get(ctx); err != nil {
		return domain.LeaderboardSettings{}, err
	}
	var settings domain.LeaderboardSettings
	err := r.pool.QueryRow(ctx,
		`UPDATE leaderboard_settings SET show_private_scores=$1, updated_at=now()
		 WHERE id = (SELECT id FROM leaderboard_settings ORDER BY id LIMIT 1)
		 RETURNING show_private_scores, updated_at`, showPrivate).
		Scan(&settings.ShowPrivateScores, &settings.UpdatedAt)
	if err != nil {
		return domain.LeaderboardSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}
