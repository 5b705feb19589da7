package memory

import (
	"context"
	"sync"
	"time"

	"compboard/internal/domain"
)

// SettingsStore is an in-memory implementation of app.SettingsRepository.
// The visibility flag starts hidden, matching the backend default row.
type SettingsStore struct {
	mu        sync.RWMutex
	settings  domain.LeaderboardSettings
	clock     func() time.Time
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{clock: time.Now}
}

func (s *SettingsStore) Get(_ context.Context) (domain.LeaderboardSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *SettingsStore) Update(_ context.Context, showPrivate bool) (domain.LeaderboardSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.settings = domain.LeaderboardSettings{ShowPrivateScores: showPrivate, UpdatedAt: &now}
	return s.settings, nil
}
