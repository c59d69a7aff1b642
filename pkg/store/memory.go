package store

import (
	"context"
	"sort"
	"sync"

	"github.com/griddock/griddock/pkg/deck"
)

// MemoryStore is an in-process profile store for tests and ephemeral runs.
// Profiles are cloned on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]deck.Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]deck.Profile)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (deck.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return deck.Profile{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Set(ctx context.Context, p deck.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = p.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
