package domain

import "time"

// Team is a registered competitor. The one admin team doubles as the operator account.
type Team struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	IRLScore     float64   `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Submission is one scored upload for a task. Details carries an opaque JSON blob
// produced by the scorer (metrics such as accuracy, size, time).
type Submission struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	TaskID       int       `json:"task_id"`
	Filename     string    `json:"filename"`
	PublicScore  float64   `json:"public_score"`
	PrivateScore float64   `json:"private_score"`
	Details      string    `json:"details"`
	Timestamp    time.Time `json:"timestamp"`
}

// LeaderboardEntry is one ranked row of a per-task board.
type LeaderboardEntry struct {
	TeamName     string   `json:"team_name"`
	Score        float64  `json:"score"`
	Rank         int      `json:"rank"`
	PrivateScore *float64 `json:"private_score,omitempty"`
}

// CombinedLeaderboardEntry is one ranked row of the weighted cross-task board.
type CombinedLeaderboardEntry struct {
	TeamName             string   `json:"team_name"`
	CombinedScore        float64  `json:"combined_score"`
	Task1Score           *float64 `json:"task1_score,omitempty"`
	Task2Score           *float64 `json:"task2_score,omitempty"`
	Rank                 int      `json:"rank"`
	PrivateCombinedScore *float64 `json:"private_combined_score,omitempty"`
	PrivateTask1Score    *float64 `json:"private_task1_score,omitempty"`
	PrivateTask2Score    *float64 `json:"private_task2_score,omitempty"`
}

// LeaderboardSettings is the process-wide private score visibility flag.
type LeaderboardSettings struct {
	ShowPrivateScores bool       `json:"show_private_scores"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// TeamBest aggregates a team's best scores for one task.
type TeamBest struct {
	TeamID      int64
	TeamName    string
	BestPublic  float64
	BestPrivate float64
}

// Answer is a reply to a question, denormalized with its author for rendering.
type Answer struct {
	ID            int64     `json:"id"`
	QuestionID    int64     `json:"question_id"`
	TeamID        int64     `json:"team_id"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	AuthorIsAdmin bool      `json:"author_is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Question is a forum thread head. List responses carry a short preview tail of
// answers; detail responses carry all of them.
type Question struct {
	ID            int64     `json:"id"`
	TeamID        int64     `json:"team_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	AuthorIsAdmin bool      `json:"author_is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AnswerCount   int       `json:"answer_count"`
	LatestAnswers []Answer  `json:"latest_answers"`
}

// QuestionDetail is a question with its full answer thread.
type QuestionDetail struct {
	Question
	AllAnswers []Answer `json:"all_answers"`
}

// BatchImportResult reports the outcome of a CSV team import.
type BatchImportResult struct {
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Skipped      int      `json:"skipped"`
	Teams        []string `json:"teams"`
	UpdatedTeams []string `json:"updated_teams"`
	SkippedTeams []string `json:"skipped_teams"`
	Errors       []string `json:"errors"`
}

// RecomputeResult summarizes a private leaderboard recomputation run.
type RecomputeResult struct {
	TeamsProcessed int    `json:"teams_processed"`
	Message        string `json:"message"`
}
