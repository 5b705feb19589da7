package postgres

import (
	"context"
	"errors"
	"fmt"

	"compboard/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QARepository is the Postgres implementation of app.QARepository. Author
// fields come from a join against teams.
type QARepository struct {
	pool *pgxpool.Pool
}

func NewQARepository(pool *pgxpool.Pool) *QARepository {
	return &QARepository{pool: pool}
}

const questionColumns = `q.id, q.team_id, q.title, q.content, t.name, t.is_admin, q.created_at, q.updated_at`

func (r *QARepository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q JOIN teams t ON t.id = q.team_id
		 ORDER BY q.created_at DESC, q.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.TeamID, &q.Title, &q.Content,
			&q.AuthorName, &q.AuthorIsAdmin, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QARepository) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	var q domain.Question
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q JOIN teams t ON t.id = q.team_id
		 WHERE q.id=$1`, id).
		Scan(&q.ID, &q.TeamID, &q.Title, &q.Content,
			&q.AuthorName, &q.AuthorIsAdmin, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (r *QARepository) ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.question_id, a.team_id, a.content, t.name, t.is_admin, a.created_at, a.updated_at
		 FROM answers a JOIN teams t ON t.id = a.team_id
		 WHERE a.question_id=$1
		 ORDER BY a.created_at ASC, a.id ASC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.Answer, 0)
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.TeamID, &a.Content,
			&a.AuthorName, &a.AuthorIsAdmin, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *QARepository) CreateQuestion(ctx context.Context, teamID int64, title, content string) (domain.Question, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (team_id, title, content) VALUES ($1, $2, $3) RETURNING id`,
		teamID, title, content).Scan(&id)
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return r.GetQuestion(ctx, id)
}

func (r *QARepository) CreateAnswer(ctx context.Context, questionID, teamID int64, content string) (domain.Answer, error) {
	var a domain.Answer
	err := r.pool.QueryRow(ctx,
		`WITH inserted AS (
		   INSERT INTO answers (question_id, team_id, content) VALUES ($1, $2, $3)
		   RETURNING id, question_id, team_id, content, created_at, updated_at
		 )
		 SELECT i.id, i.question_id, i.team_id, i.content, t.name, t.is_admin, i.created_at, i.updated_at
		 FROM inserted i JOIN teams t ON t.id = i.team_id`,
		questionID, teamID, content).
		Scan(&a.ID, &a.QuestionID, &a.TeamID, &a.Content,
			&a.AuthorName, &a.AuthorIsAdmin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("create answer: %w", err)
	}
	return a, nil
}

func (r *QARepository) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QARepository) DeleteAnswer(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM answers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}
