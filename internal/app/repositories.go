package app

import (
	"context"

	"compboard/internal/domain"
)

// TeamRepository abstracts how teams are stored (in-memory, Postgres).
type TeamRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Team, error)
	GetByName(ctx context.Context, name string) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Create(ctx context.Context, name, passwordHash string, isAdmin bool) (domain.Team, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// SubmissionRepository stores scored submissions. A taskID of 0 means all tasks.
type SubmissionRepository interface {
	ListByTeam(ctx context.Context, teamID int64, taskID int) ([]domain.Submission, error)
	ListAll(ctx context.Context) ([]domain.Submission, error)
	Create(ctx context.Context, sub domain.Submission) (domain.Submission, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTeam(ctx context.Context, teamID int64) error
	// BestScores returns each team's best public and private score for a task,
	// ordered by best public score descending.
	BestScores(ctx context.Context, taskID int) ([]domain.TeamBest, error)
}

// SettingsRepository stores the private score visibility flag. Get creates the
// default row (hidden) on first access.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.LeaderboardSettings, error)
	Update(ctx context.Context, showPrivate bool) (domain.LeaderboardSettings, error)
}

// QARepository stores forum questions and answers with author info resolved.
type QARepository interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error)
	CreateQuestion(ctx context.Context, teamID int64, title, content string) (domain.Question, error)
	CreateAnswer(ctx context.Context, questionID, teamID int64, content string) (domain.Answer, error)
	DeleteQuestion(ctx context.Context, id int64) error
	DeleteAnswer(ctx context.Context, id int64) error
}

// BoardInvalidator drops cached leaderboard snapshots after a mutation.
type BoardInvalidator interface {
	Invalidate(ctx context.Context)
}
