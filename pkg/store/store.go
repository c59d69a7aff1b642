// Package store persists launcher profiles.
//
// This package defines the storage interface the launcher commits profiles
// through, with implementations for different backends:
//   - memory: in-process storage for tests and ephemeral runs
//   - file: one JSON document per profile for single-machine CLI use
//   - sqlite: single-file database, no CGO
//   - redis: shared storage for multi-machine deployments
//   - mongo: document storage, decoding profiles through their bson tags
//
// # Architecture
//
// Profiles are opaque documents to every backend: the deck package owns the
// tree's shape and validation, and stores only move serialized copies in and
// out. All mutation is copy-on-write upstream (see [deck.Page.Apply]), so a
// Set always carries a complete replacement profile — there are no partial
// updates to merge and no read-modify-write races inside a backend.
//
// The Store interface supports:
//   - Get/Set/Delete by profile name
//   - List of stored profile names
//   - Close for backends holding connections
//
// # Usage
//
// Open a store from configuration:
//
//	st, err := store.Open(ctx, store.Config{Backend: store.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
// Commit a profile after an applied drop batch:
//
//	next, err := profile.ReplacePage(page, applied)
//	if err != nil {
//	    return err
//	}
//	if err := st.Set(ctx, next); err != nil {
//	    return err
//	}
//
// Absence is signaled with the sentinel:
//
//	p, err := st.Get(ctx, "default")
//	if errors.Is(err, store.ErrNotFound) {
//	    p = deck.NewProfile("default", rows, cols)
//	}
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/observability"
)

// ErrNotFound is returned when no profile is stored under the given name.
var ErrNotFound = errors.New("profile not found")

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Store is the interface for profile storage backends.
type Store interface {
	// Get retrieves a profile by name.
	// Returns ErrNotFound when no profile is stored under the name.
	Get(ctx context.Context, name string) (deck.Profile, error)

	// Set stores a profile under its name, replacing any previous version.
	Set(ctx context.Context, p deck.Profile) error

	// Delete removes a profile. Deleting an absent profile is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored profile names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes a backend. Zero values take backend
// defaults; the zero Config opens the file store in its default directory.
type Config struct {
	Backend string

	// Dir is the profile directory for the file backend.
	Dir string

	// Path is the database file for the sqlite backend.
	Path string

	// Redis backend.
	Addr     string
	Password string
	DB       int

	// Mongo backend.
	URI        string
	Database   string
	Collection string
}

// Open creates the configured backend and wraps it with observability
// instrumentation. Unknown backend names are a configuration error.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		s, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return Instrument(s, BackendFile), nil
	case BackendMemory:
		return Instrument(NewMemoryStore(), BackendMemory), nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return Instrument(s, BackendSQLite), nil
	case BackendRedis:
		s, err := OpenRedis(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, err
		}
		return Instrument(s, BackendRedis), nil
	case BackendMongo:
		s, err := OpenMongo(ctx, cfg.URI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return Instrument(s, BackendMongo), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// =============================================================================
// Instrumentation
// =============================================================================

// Instrument decorates a store so loads and commits report to the
// registered observability hooks.
func Instrument(s Store, backend string) Store {
	return &instrumented{inner: s, backend: backend}
}

type instrumented struct {
	inner   Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, name string) (deck.Profile, error) {
	start := time.Now()
	p, err := s.inner.Get(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(start), err)
	return p, err
}

func (s *instrumented) Set(ctx context.Context, p deck.Profile) error {
	start := time.Now()
	err := s.inner.Set(ctx, p)
	observability.Store().OnCommit(ctx, s.backend, p.Name, time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *instrumented) List(ctx context.Context) ([]string, error) {
	return s.inner.List(ctx)
}

func (s *instrumented) Close() error { return s.inner.Close() }

var _ Store = (*instrumented)(nil)
