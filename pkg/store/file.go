package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/errors"
)

// FileStore keeps one JSON document per profile in a directory. This is the
// default backend for single-machine CLI use.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based profile store.
// If baseDir is empty, defaults to ~/.config/griddock/profiles/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "griddock", "profiles")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// profilePath maps a name to its file. The name is validated first so a
// crafted profile name can never escape the base directory.
func (s *FileStore) profilePath(name string) (string, error) {
	if err := errors.ValidateProfileName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, name+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, name string) (deck.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.profilePath(name)
	if err != nil {
		return deck.Profile{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return deck.Profile{}, ErrNotFound
		}
		return deck.Profile{}, fmt.Errorf("read profile file: %w", err)
	}
	return deck.UnmarshalProfile(data)
}

func (s *FileStore) Set(ctx context.Context, p deck.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.profilePath(p.Name)
	if err != nil {
		return err
	}
	data, err := deck.MarshalProfile(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.profilePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove profile file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for profile files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
