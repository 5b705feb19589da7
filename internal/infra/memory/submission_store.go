package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"compboard/internal/domain"
)

// SubmissionStore is an in-memory implementation of app.SubmissionRepository.
type SubmissionStore struct {
	teams *TeamStore

	mu     sync.RWMutex
	nextID int64
	subs   map[int64]domain.Submission
	clock  func() time.Time
}

func NewSubmissionStore(teams *TeamStore) *SubmissionStore {
	return &SubmissionStore{
		teams:  teams,
		nextID: 1,
		subs:   make(map[int64]domain.Submission),
		clock:  time.Now,
	}
}

func (s *SubmissionStore) ListByTeam(_ context.Context, teamID int64, taskID int) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]domain.Submission, 0)
	for _, sub := range s.subs {
		if sub.TeamID != teamID {
			continue
		}
		if taskID != 0 && sub.TaskID != taskID {
			continue
		}
		subs = append(subs, sub)
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (s *SubmissionStore) ListAll(_ context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]domain.Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (s *SubmissionStore) Create(_ context.Context, sub domain.Submission) (domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = s.nextID
	if sub.Timestamp.IsZero() {
		sub.Timestamp = s.clock()
	}
	if sub.Details == "" {
		sub.Details = "{}"
	}
	s.subs[sub.ID] = sub
	s.nextID++
	return sub, nil
}

func (s *SubmissionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *SubmissionStore) DeleteByTeam(_ context.Context, teamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subs {
		if sub.TeamID == teamID {
			delete(s.subs, id)
		}
	}
	return nil
}

func (s *SubmissionStore) BestScores(ctx context.Context, taskID int) ([]domain.TeamBest, error) {
	s.mu.RLock()
	bestByTeam := make(map[int64]*domain.TeamBest)
	for _, sub := range s.subs {
		if sub.TaskID != taskID {
			continue
		}
		best, ok := bestByTeam[sub.TeamID]
		if !ok {
			bestByTeam[sub.TeamID] = &domain.TeamBest{
				TeamID:      sub.TeamID,
				BestPublic:  sub.PublicScore,
				BestPrivate: sub.PrivateScore,
			}
			continue
		}
		if sub.PublicScore > best.BestPublic {
			best.BestPublic = sub.PublicScore
		}
		if sub.PrivateScore > best.BestPrivate {
			best.BestPrivate = sub.PrivateScore
		}
	}
	s.mu.RUnlock()

	bests := make([]domain.TeamBest, 0, len(bestByTeam))
	for teamID, best := range bestByTeam {
		team, err := s.teams.GetByID(ctx, teamID)
		if err != nil {
			continue
		}
		best.TeamName = team.Name
		bests = append(bests, *best)
	}
	sort.Slice(bests, func(i, j int) bool {
		if bests[i].BestPublic != bests[j].BestPublic {
			return bests[i].BestPublic > bests[j].BestPublic
		}
		return bests[i].TeamName < bests[j].TeamName
	})
	return bests, nil
}

func sortNewestFirst(subs []domain.Submission) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].Timestamp.Equal(subs[j].Timestamp) {
			return subs[i].Timestamp.After(subs[j].Timestamp)
		}
		return subs[i].ID > subs[j].ID
	})
}
