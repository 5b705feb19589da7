package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"compboard/internal/domain"
)

// Weights control the combined score: w1*task1 + w2*task2 + wIRL*irl.
type Weights struct {
	Task1 float64
	Task2 float64
	IRL   float64
}

// DefaultWeights matches the published competition formula.
var DefaultWeights = Weights{Task1: 0.6, Task2: 0.3, IRL: 0.1}

// LeaderboardService computes ranked boards from stored submissions.
type LeaderboardService struct {
	teams    TeamRepository
	subs     SubmissionRepository
	settings SettingsRepository
	weights  Weights
	cache    BoardInvalidator
	hub      *UpdateHub

	recomputeMu sync.Mutex
}

func NewLeaderboardService(teams TeamRepository, subs SubmissionRepository, settings SettingsRepository, weights Weights, cache BoardInvalidator, hub *UpdateHub) *LeaderboardService {
	if weights == (Weights{}) {
		weights = DefaultWeights
	}
	return &LeaderboardService{
		teams:    teams,
		subs:     subs,
		settings: settings,
		weights:  weights,
		cache:    cache,
		hub:      hub,
	}
}

// SetBoardCache wires the snapshot cache once it exists; the cache itself uses
// this service as its loader, so it is attached after construction.
func (s *LeaderboardService) SetBoardCache(cache BoardInvalidator) {
	s.cache = cache
}

// Settings returns the visibility flag, creating the default row if needed.
func (s *LeaderboardService) Settings(ctx context.Context) (domain.LeaderboardSettings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings flips private score visibility and invalidates cached boards.
func (s *LeaderboardService) UpdateSettings(ctx context.Context, showPrivate bool) (domain.LeaderboardSettings, error) {
	settings, err := s.settings.Update(ctx, showPrivate)
	if err != nil {
		return domain.LeaderboardSettings{}, err
	}
	s.boardsChanged(ctx, "settings")
	return settings, nil
}

// TaskBoard ranks teams by their best public score for a task. Private scores
// are attached only while visibility is enabled.
func (s *LeaderboardService) TaskBoard(ctx context.Context, taskID int) ([]domain.LeaderboardEntry, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	bests, err := s.subs.BestScores(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("task %d best scores: %w", taskID, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(bests))
	for i, best := range bests {
		entry := domain.LeaderboardEntry{
			TeamName: best.TeamName,
			Score:    best.BestPublic,
			Rank:     i + 1,
		}
		if settings.ShowPrivateScores {
			private := best.BestPrivate
			entry.PrivateScore = &private
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CombinedBoard ranks every team with at least one submission by the weighted
// sum of its best task scores and its IRL presentation score. Ranks follow the
// public combined score; clients may re-sort by the private score themselves.
func (s *LeaderboardService) CombinedBoard(ctx context.Context) ([]domain.CombinedLeaderboardEntry, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	best1, err := s.subs.BestScores(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("task 1 best scores: %w", err)
	}
	best2, err := s.subs.BestScores(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("task 2 best scores: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}

	irlByID := make(map[int64]float64, len(teams))
	for _, team := range teams {
		irlByID[team.ID] = team.IRLScore
	}

	type combined struct {
		name                     string
		task1, task2             *domain.TeamBest
		irl                      float64
		public, private          float64
	}
	byTeam := make(map[int64]*combined)
	for i := range best1 {
		b := best1[i]
		byTeam[b.TeamID] = &combined{name: b.TeamName, task1: &b, irl: irlByID[b.TeamID]}
	}
	for i := range best2 {
		b := best2[i]
		if c, ok := byTeam[b.TeamID]; ok {
			c.task2 = &b
		} else {
			byTeam[b.TeamID] = &combined{name: b.TeamName, task2: &b, irl: irlByID[b.TeamID]}
		}
	}

	entries := make([]domain.CombinedLeaderboardEntry, 0, len(byTeam))
	for _, c := range byTeam {
		var t1pub, t2pub, t1priv, t2priv float64
		if c.task1 != nil {
			t1pub, t1priv = c.task1.BestPublic, c.task1.BestPrivate
		}
		if c.task2 != nil {
			t2pub, t2priv = c.task2.BestPublic, c.task2.BestPrivate
		}
		c.public = s.weights.Task1*t1pub + s.weights.Task2*t2pub + s.weights.IRL*c.irl
		c.private = s.weights.Task1*t1priv + s.weights.Task2*t2priv + s.weights.IRL*c.irl

		entry := domain.CombinedLeaderboardEntry{
			TeamName:      c.name,
			CombinedScore: c.public,
		}
		if c.task1 != nil {
			entry.Task1Score = &c.task1.BestPublic
		}
		if c.task2 != nil {
			entry.Task2Score = &c.task2.BestPublic
		}
		if settings.ShowPrivateScores {
			private := c.private
			entry.PrivateCombinedScore = &private
			if c.task1 != nil {
				entry.PrivateTask1Score = &c.task1.BestPrivate
			}
			if c.task2 != nil {
				entry.PrivateTask2Score = &c.task2.BestPrivate
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CombinedScore != entries[j].CombinedScore {
			return entries[i].CombinedScore > entries[j].CombinedScore
		}
		return entries[i].TeamName < entries[j].TeamName
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// RecomputePrivate walks every team's submissions and rebuilds the private
// combined standings. Only one recompute runs at a time.
func (s *LeaderboardService) RecomputePrivate(ctx context.Context) (domain.RecomputeResult, error) {
	if !s.recomputeMu.TryLock() {
		return domain.RecomputeResult{}, domain.ErrRecomputeRunning
	}
	defer s.recomputeMu.Unlock()

	teams, err := s.teams.List(ctx)
	if err != nil {
		return domain.RecomputeResult{}, err
	}

	processed := 0
	for _, team := range teams {
		if team.IsAdmin {
			continue
		}
		subs, err := s.subs.ListByTeam(ctx, team.ID, 0)
		if err != nil {
			return domain.RecomputeResult{}, fmt.Errorf("team %s submissions: %w", team.Name, err)
		}
		if len(subs) == 0 {
			continue
		}
		processed++
	}

	s.boardsChanged(ctx, "recompute")
	return domain.RecomputeResult{
		TeamsProcessed: processed,
		Message:        fmt.Sprintf("Private leaderboard recalculated for %d teams", processed),
	}, nil
}

func (s *LeaderboardService) boardsChanged(ctx context.Context, reason string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.hub != nil {
		s.hub.Broadcast(reason)
	}
}

// NotifyBoardsChanged is called by sibling services after mutations that move
// leaderboard contents (new submissions, team deletions).
func (s *LeaderboardService) NotifyBoardsChanged(ctx context.Context, reason string) {
	s.boardsChanged(ctx, reason)
}
