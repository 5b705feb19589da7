package postgres

import (
	"context"
	"fmt"

	"compboard/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SubmissionRepository is the Postgres implementation of app.SubmissionRepository.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, team_id, task_id, filename, public_score, private_score, details, timestamp`

func (r *SubmissionRepository) ListByTeam(ctx context.Context, teamID int64, taskID int) ([]domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE team_id=$1 ORDER BY timestamp DESC, id DESC`
	args := []interface{}{teamID}
	if taskID != 0 {
		query = `SELECT ` + submissionColumns + ` FROM submissions WHERE team_id=$1 AND task_id=$2 ORDER BY timestamp DESC, id DESC`
		args = append(args, taskID)
	}
	return r.list(ctx, query, args...)
}

func (r *SubmissionRepository) ListAll(ctx context.Context) ([]domain.Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY timestamp DESC, id DESC`)
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.Submission, 0)
	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(&sub.ID, &sub.TeamID, &sub.TaskID, &sub.Filename,
			&sub.PublicScore, &sub.PrivateScore, &sub.Details, &sub.Timestamp); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *SubmissionRepository) Create(ctx context.Context, sub domain.Submission) (domain.Submission, error) {
	details := sub.Details
	if details == "" {
		details = "{}"
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO submissions (team_id, task_id, filename, public_score, private_score, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, timestamp`,
		sub.TeamID, sub.TaskID, sub.Filename, sub.PublicScore, sub.PrivateScore, details).
		Scan(&sub.ID, &sub.Timestamp)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	sub.Details = details
	return sub, nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *SubmissionRepository) DeleteByTeam(ctx context.Context, teamID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE team_id=$1`, teamID)
	if err != nil {
		return fmt.Errorf("delete team submissions: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) BestScores(ctx context.Context, taskID int) ([]domain.TeamBest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.team_id, t.name, MAX(s.public_score), MAX(s.private_score)
		 FROM submissions s
		 JOIN teams t ON t.id = s.team_id
		 WHERE s.task_id = $1
		 GROUP BY s.team_id, t.name
		 ORDER BY MAX(s.public_score) DESC, t.name ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("best scores: %w", err)
	}
	defer rows.Close()

	bests := make([]domain.TeamBest, 0)
	for rows.Next() {
		var best domain.TeamBest
		if err := rows.Scan(&best.TeamID, &best.TeamName, &best.BestPublic, &best.BestPrivate); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		bests = append(bests, best)
	}
	return bests, rows.Err()
}
