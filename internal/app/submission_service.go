package app

import (
	"context"
	"fmt"

	"compboard/internal/domain"
)

// SubmissionService serves submission history and admin review operations.
type SubmissionService struct {
	subs   SubmissionRepository
	boards *LeaderboardService
}

func NewSubmissionService(subs SubmissionRepository, boards *LeaderboardService) *SubmissionService {
	return &SubmissionService{subs: subs, boards: boards}
}

// History lists a team's own submissions, newest first. taskID 0 means all tasks.
func (s *SubmissionService) History(ctx context.Context, teamID int64, taskID int) ([]domain.Submission, error) {
	if taskID != 0 && taskID != 1 && taskID != 2 {
		return nil, fmt.Errorf("unknown task id %d", taskID)
	}
	return s.subs.ListByTeam(ctx, teamID, taskID)
}

// All lists every submission across teams, newest first. Admin review only.
func (s *SubmissionService) All(ctx context.Context) ([]domain.Submission, error) {
	return s.subs.ListAll(ctx)
}

// Record stores an already-scored submission and refreshes the boards.
// The scoring pipeline calls this once evaluation finishes.
func (s *SubmissionService) Record(ctx context.Context, sub domain.Submission) (domain.Submission, error) {
	if sub.TaskID != 1 && sub.TaskID != 2 {
		return domain.Submission{}, fmt.Errorf("unknown task id %d", sub.TaskID)
	}
	created, err := s.subs.Create(ctx, sub)
	if err != nil {
		return domain.Submission{}, err
	}
	if s.boards != nil {
		s.boards.NotifyBoardsChanged(ctx, "submission")
	}
	return created, nil
}

// Delete removes one submission and refreshes the boards.
func (s *SubmissionService) Delete(ctx context.Context, id int64) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		return err
	}
	if s.boards != nil {
		s.boards.NotifyBoardsChanged(ctx, "submission-deleted")
	}
	return nil
}
