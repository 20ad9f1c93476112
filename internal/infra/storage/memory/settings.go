package memory

import (
	"context"
	"sync"

	domainpricing "innkeep/internal/domain/pricing"
)

// SettingsStore serves pricing settings from a mutable in-memory snapshot.
type SettingsStore struct {
	mu       sync.RWMutex
	settings domainpricing.Settings
}

func NewSettingsStore(settings domainpricing.Settings) *SettingsStore {
	return &SettingsStore{settings: settings}
}

func (s *SettingsStore) Pricing(ctx context.Context) (domainpricing.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// Update replaces the snapshot; admin endpoints and tests use it.
func (s *SettingsStore) Update(settings domainpricing.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

var _ domainpricing.SettingsSource = (*SettingsStore)(nil)
