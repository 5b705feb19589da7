package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when the team name or password is wrong.
	ErrInvalidCredentials = errors.New("incorrect team name or password")
	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamExists indicates a team with the same name is already registered.
	ErrTeamExists = errors.New("team already registered")
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrQuestionNotFound indicates the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound indicates the requested answer does not exist.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrAdminRequired is returned when a non-admin team calls an admin-only operation.
	ErrAdminRequired = errors.New("admin privileges required")
	// ErrRecomputeRunning is returned while a private leaderboard recompute is in flight.
	ErrRecomputeRunning = errors.New("private leaderboard recompute already running")
	// ErrPasswordPolicy is returned when a new password fails the minimum rules.
	ErrPasswordPolicy = errors.New("password does not meet requirements")
)
