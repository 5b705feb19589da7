package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"compboard/internal/domain"
)

// TeamStore is an in-memory implementation of app.TeamRepository.
type TeamStore struct {
	mu     sync.RWMutex
	nextID int64
	teams  map[int64]domain.Team
	clock  func() time.Time
}

func NewTeamStore() *TeamStore {
	return &TeamStore{
		nextID: 1,
		teams:  make(map[int64]domain.Team),
		clock:  time.Now,
	}
}

func (s *TeamStore) GetByID(_ context.Context, id int64) (domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return team, nil
}

func (s *TeamStore) GetByName(_ context.Context, name string) (domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, team := range s.teams {
		if team.Name == name {
			return team, nil
		}
	}
	return domain.Team{}, domain.ErrTeamNotFound
}

func (s *TeamStore) List(_ context.Context) ([]domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]domain.Team, 0, len(s.teams))
	for _, team := range s.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *TeamStore) Create(_ context.Context, name, passwordHash string, isAdmin bool) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.Name == name {
			return domain.Team{}, domain.ErrTeamExists
		}
	}
	team := domain.Team{
		ID:           s.nextID,
		Name:         name,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    s.clock(),
	}
	s.teams[team.ID] = team
	s.nextID++
	return team, nil
}

func (s *TeamStore) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.ErrTeamNotFound
	}
	team.PasswordHash = passwordHash
	s.teams[id] = team
	return nil
}

// SetIRLScore records a team's offline presentation score.
func (s *TeamStore) SetIRLScore(_ context.Context, id int64, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.ErrTeamNotFound
	}
	team.IRLScore = score
	s.teams[id] = team
	return nil
}

func (s *TeamStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return domain.ErrTeamNotFound
	}
	delete(s.teams, id)
	return nil
}
