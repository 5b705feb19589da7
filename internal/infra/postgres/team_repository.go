package postgres

import (
	"context"
	"errors"
	"fmt"

	"compboard/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TeamRepository is the Postgres implementation of app.TeamRepository.
type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (domain.Team, error) {
	return r.scanOne(ctx, `SELECT id, name, password_hash, is_admin, irl_score, created_at FROM teams WHERE id=$1`, id)
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (domain.Team, error) {
	return r.scanOne(ctx, `SELECT id, name, password_hash, is_admin, irl_score, created_at FROM teams WHERE name=$1`, name)
}

func (r *TeamRepository) scanOne(ctx context.Context, query string, arg interface{}) (domain.Team, error) {
	var team domain.Team
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&team.ID, &team.Name, &team.PasswordHash, &team.IsAdmin, &team.IRLScore, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("load team: %w", err)
	}
	return team, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, password_hash, is_admin, irl_score, created_at FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.PasswordHash, &team.IsAdmin, &team.IRLScore, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Create(ctx context.Context, name, passwordHash string, isAdmin bool) (domain.Team, error) {
	var team domain.Team
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teams (name, password_hash, is_admin) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id, name, password_hash, is_admin, irl_score, created_at`,
		name, passwordHash, isAdmin).
		Scan(&team.ID, &team.Name, &team.PasswordHash, &team.IsAdmin, &team.IRLScore, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamExists
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

func (r *TeamRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE teams SET password_hash=$2 WHERE id=$1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

// SetIRLScore records a team's offline presentation score.
func (r *TeamRepository) SetIRLScore(ctx context.Context, id int64, score float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE teams SET irl_score=$2 WHERE id=$1`, id, score)
	if err != nil {
		return fmt.Errorf("update irl score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}
