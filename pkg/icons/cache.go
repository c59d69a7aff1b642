package icons

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// Cache
// =============================================================================

// Cache stores extracted icon bytes on behalf of the extractors. Favicon
// fetches are slow and flaky, so their results live here between runs.
type Cache interface {
	// Get returns the cached bytes for key. Misses and expired entries
	// report found == false.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores data under key and returns the absolute path of the
	// stored file. The path is stable per key and usable as an icon ref.
	Set(ctx context.Context, key string, data []byte) (string, error)

	// Path returns the path Set would store key at, and whether a fresh
	// entry currently exists there.
	Path(ctx context.Context, key string) (string, bool)

	// Delete removes the entry for key, if present.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// =============================================================================
// FileCache
// =============================================================================

// FileCache stores entries as raw files under a directory. The filename is
// the SHA-256 of the key, split into a two-character subdirectory for
// distribution; freshness rides on file modification time, so a TTL needs
// no sidecar metadata. A TTL of 0 never expires.
//
// FileCache instances are safe to share between processes: every operation
// is a single atomic filesystem action.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates a file cache in dir, creating it if needed. An empty
// dir uses ~/.cache/griddock/icons.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "griddock", "icons")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// TTL returns the entry time-to-live. Zero means entries never expire.
func (c *FileCache) TTL() time.Duration { return c.ttl }

// Get retrieves the bytes stored under key. Expired entries are removed
// and reported as misses: the caller refetches and the next Set refreshes
// the modification time.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		_ = os.Remove(path)
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data under key and returns the stored file's path.
func (c *FileCache) Set(ctx context.Context, key string, data []byte) (string, error) {
	path := c.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Path returns the stable path for key and whether a fresh entry is there.
func (c *FileCache) Path(ctx context.Context, key string) (string, bool) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return path, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return path, false
	}
	return path, true
}

// Delete removes the entry for key. Removing a missing entry is not an
// error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry under the cache directory, keeping the
// directory itself.
func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close does nothing for a file cache.
func (c *FileCache) Close() error { return nil }

// keyPath converts a cache key to a file path. The first two hash
// characters become a subdirectory so one directory never holds every
// entry.
func (c *FileCache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	hash := hex.EncodeToString(h[:])
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)

// =============================================================================
// NullCache
// =============================================================================

// NullCache is a no-op cache that never stores anything. With it in place
// favicon extraction degrades to the default icon (a favicon ref must point
// at a stored file), which is exactly what "icons disabled" should mean.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the data and returns no path.
func (c *NullCache) Set(ctx context.Context, key string, data []byte) (string, error) {
	return "", nil
}

// Path reports no entry.
func (c *NullCache) Path(ctx context.Context, key string) (string, bool) { return "", false }

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Clear does nothing.
func (c *NullCache) Clear(ctx context.Context) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
