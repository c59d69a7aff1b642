// Package cli implements the griddock command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/griddock/griddock/pkg/buildinfo"
	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/icons"
	"github.com/griddock/griddock/pkg/ingest"
	"github.com/griddock/griddock/pkg/settings"
	"github.com/griddock/griddock/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "griddock"

	// defaultProfile is the profile commands operate on when --profile
	// is not given.
	defaultProfile = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag target, empty for the default
	// location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "griddock",
		Short:        "Griddock places dropped files onto a launcher grid",
		Long:         `Griddock is a grid-based launcher. Files, directories, and URLs dropped onto the overlay become buttons on a configurable grid, with icons resolved from desktop entries, icon themes, and favicons.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/griddock/config.toml)")

	// Register all subcommands
	root.AddCommand(c.overlayCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.iconsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings & Store Factories
// =============================================================================

// loadSettings reads the config file selected by --config, falling back to
// the default location and built-in defaults.
func (c *CLI) loadSettings() (settings.Settings, error) {
	return settings.Load(c.configPath)
}

// openStore opens the profile store configured in settings.
func (c *CLI) openStore(ctx context.Context, s settings.Settings) (store.Store, error) {
	return store.Open(ctx, s.StoreConfig())
}

// =============================================================================
// Ingestor Factory
// =============================================================================

// newIngestor creates an ingestion pipeline for CLI use, honoring the
// configured icon theme and cache settings.
func (c *CLI) newIngestor(s settings.Settings, noCache bool) (*ingest.Ingestor, error) {
	cache, err := newIconCache(s, noCache)
	if err != nil {
		return nil, err
	}
	resolver := icons.NewResolverWith(
		icons.NewDesktopExtractor(icons.ThemeSearchPaths(s.Icons.Theme)...),
		icons.NewFaviconExtractor(cache, nil),
	)
	ing := ingest.NewIngestor(resolver, c.Logger)
	ing.ExtractTimeout = s.ExtractTimeout()
	return ing, nil
}

func newIconCache(s settings.Settings, noCache bool) (icons.Cache, error) {
	if noCache {
		return icons.NewNullCache(), nil
	}
	dir, err := resolveIconCacheDir(s)
	if err != nil {
		return icons.NewNullCache(), nil
	}
	return icons.NewFileCache(dir, s.FaviconTTL())
}

// =============================================================================
// Paths
// =============================================================================

// resolveIconCacheDir picks the icon cache directory: the configured
// override when set, the XDG default otherwise.
func resolveIconCacheDir(s settings.Settings) (string, error) {
	if s.Icons.CacheDir != "" {
		return s.Icons.CacheDir, nil
	}
	return iconCacheDir()
}

// iconCacheDir returns the icon cache directory using XDG standard
// (~/.cache/griddock/icons).
func iconCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "icons"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName, "icons"), nil
}

// =============================================================================
// Profile Helpers
// =============================================================================

// loadOrCreateProfile fetches name from the store, seeding a fresh profile
// sized by the configured grid when the default profile does not exist yet.
// Missing non-default profiles are an error: creating those is an explicit
// `profiles create` step.
func loadOrCreateProfile(ctx context.Context, st store.Store, s settings.Settings, name string) (deck.Profile, error) {
	p, err := st.Get(ctx, name)
	if err == nil {
		return p, nil
	}
	if !stderrors.Is(err, store.ErrNotFound) || name != defaultProfile {
		return deck.Profile{}, err
	}
	p = deck.NewProfile(name, s.Grid.Rows, s.Grid.Cols)
	if err := st.Set(ctx, p); err != nil {
		return deck.Profile{}, err
	}
	return p, nil
}
