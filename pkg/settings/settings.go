// Package settings loads the launcher configuration.
//
// Configuration lives in a TOML file at ~/.config/griddock/config.toml with
// one table per concern:
//
//	[grid]
//	rows = 4
//	cols = 6
//	cell_width = 96.0
//	cell_height = 96.0
//	gap = 8.0
//
//	[store]
//	backend = "file"    # memory | file | sqlite | redis | mongo
//
//	[icons]
//	theme = "Adwaita"
//	favicon_ttl = "168h"
//	extract_timeout = "3s"
//
//	[server]
//	addr = "127.0.0.1:7643"
//
// A missing file is not an error: [Load] starts from [Defaults] and the
// file only overrides what it mentions, so a two-line config is enough to
// change the grid size.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/store"
)

// Settings is the full launcher configuration.
type Settings struct {
	Grid   GridSettings   `toml:"grid"`
	Store  StoreSettings  `toml:"store"`
	Icons  IconSettings   `toml:"icons"`
	Server ServerSettings `toml:"server"`
}

// GridSettings shapes the overlay grid. The gap applies to both axes.
type GridSettings struct {
	Rows       int     `toml:"rows"`
	Cols       int     `toml:"cols"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	Gap        float64 `toml:"gap"`
}

// StoreSettings selects and parameterizes the profile store backend.
type StoreSettings struct {
	Backend string `toml:"backend"`

	// file backend
	Dir string `toml:"dir"`

	// sqlite backend
	Path string `toml:"path"`

	// redis backend
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// mongo backend
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// IconSettings tunes icon extraction. Durations are TOML strings in
// time.ParseDuration syntax.
type IconSettings struct {
	// Theme names the icon theme searched before the hicolor fallback.
	// Empty means hicolor alone.
	Theme string `toml:"theme"`

	// CacheDir overrides the icon cache location
	// (default ~/.cache/griddock/icons).
	CacheDir string `toml:"cache_dir"`

	// FaviconTTL bounds how long cached favicons stay fresh.
	FaviconTTL string `toml:"favicon_ttl"`

	// ExtractTimeout bounds each icon extraction; "0" disables the limit.
	ExtractTimeout string `toml:"extract_timeout"`
}

// ServerSettings configures the remote-drop API.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// Defaults returns the settings used when no config file exists.
func Defaults() Settings {
	return Settings{
		Grid: GridSettings{
			Rows:       4,
			Cols:       6,
			CellWidth:  96,
			CellHeight: 96,
			Gap:        8,
		},
		Store: StoreSettings{
			Backend: store.BackendFile,
		},
		Icons: IconSettings{
			FaviconTTL:     "168h",
			ExtractTimeout: "3s",
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:7643",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "griddock", "config.toml"), nil
}

// Load reads settings from path. An empty path means the default location;
// a missing file yields [Defaults]. The result is validated.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Settings{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the settings for values the launcher cannot run with.
func (s Settings) Validate() error {
	if err := s.Layout().Validate(); err != nil {
		return err
	}

	switch s.Store.Backend {
	case "", store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendRedis, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidBackend, "unknown store backend %q", s.Store.Backend)
	}

	if s.Icons.FaviconTTL != "" {
		if _, err := time.ParseDuration(s.Icons.FaviconTTL); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid favicon_ttl %q", s.Icons.FaviconTTL)
		}
	}
	if s.Icons.ExtractTimeout != "" {
		if _, err := time.ParseDuration(s.Icons.ExtractTimeout); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid extract_timeout %q", s.Icons.ExtractTimeout)
		}
	}

	if s.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server addr cannot be empty")
	}
	return nil
}

// Layout builds the grid layout at origin (0,0); renderers recenter it for
// their viewport via [geometry.Layout.Centered].
func (s Settings) Layout() geometry.Layout {
	return geometry.Layout{
		Rows:       s.Grid.Rows,
		Cols:       s.Grid.Cols,
		CellWidth:  s.Grid.CellWidth,
		CellHeight: s.Grid.CellHeight,
		GapX:       s.Grid.Gap,
		GapY:       s.Grid.Gap,
	}
}

// StoreConfig maps the store section onto the store package's config.
func (s Settings) StoreConfig() store.Config {
	return store.Config{
		Backend:    s.Store.Backend,
		Dir:        s.Store.Dir,
		Path:       s.Store.Path,
		Addr:       s.Store.Addr,
		Password:   s.Store.Password,
		DB:         s.Store.DB,
		URI:        s.Store.URI,
		Database:   s.Store.Database,
		Collection: s.Store.Collection,
	}
}

// FaviconTTL returns the parsed favicon TTL. Assumes validated settings;
// unparseable values fall back to the default.
func (s Settings) FaviconTTL() time.Duration {
	d, err := time.ParseDuration(s.Icons.FaviconTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// ExtractTimeout returns the parsed per-extraction timeout; zero disables
// the limit.
func (s Settings) ExtractTimeout() time.Duration {
	d, err := time.ParseDuration(s.Icons.ExtractTimeout)
	if err != nil || d < 0 {
		return 3 * time.Second
	}
	return d
}
