package icons

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/griddock/griddock/pkg/errors"
)

// =============================================================================
// Desktop Entries
// =============================================================================

// desktopEntry holds the keys of the [Desktop Entry] group this package
// cares about.
type desktopEntry struct {
	Name string
	Exec string
	Icon string
}

// parseDesktopFile reads the [Desktop Entry] group of a .desktop file.
// The format is INI-like: "[Group]" headers, "Key=Value" lines, "#"
// comments. Localized keys (Name[de]=...) are skipped; only the plain keys
// matter here.
func parseDesktopFile(path string) (desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, err
	}
	defer f.Close()

	var entry desktopEntry
	inEntry := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if strings.Contains(key, "[") {
			continue // localized variant
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Name":
			entry.Name = value
		case "Exec":
			entry.Exec = value
		case "Icon":
			entry.Icon = value
		}
	}
	if err := scanner.Err(); err != nil {
		return desktopEntry{}, err
	}
	return entry, nil
}

// =============================================================================
// DesktopExtractor
// =============================================================================

// DesktopExtractor resolves icons for desktop entries and plain
// executables by searching the host's icon directories.
type DesktopExtractor struct {
	searchPaths []string
}

// NewDesktopExtractor creates an extractor searching the given directories
// for icon files. With no arguments it searches the hicolor theme sizes
// (largest first) and /usr/share/pixmaps.
func NewDesktopExtractor(searchPaths ...string) *DesktopExtractor {
	if len(searchPaths) == 0 {
		searchPaths = defaultSearchPaths()
	}
	return &DesktopExtractor{searchPaths: searchPaths}
}

func defaultSearchPaths() []string {
	return append(themeSizeDirs("hicolor"), "/usr/share/pixmaps")
}

// ThemeSearchPaths returns the icon directories for the named theme, sizes
// largest first, followed by the hicolor fallback and /usr/share/pixmaps.
// Empty and "hicolor" both yield the default search order.
func ThemeSearchPaths(theme string) []string {
	if theme == "" || theme == "hicolor" {
		return defaultSearchPaths()
	}
	paths := themeSizeDirs(theme)
	paths = append(paths, themeSizeDirs("hicolor")...)
	return append(paths, "/usr/share/pixmaps")
}

func themeSizeDirs(theme string) []string {
	sizes := []string{"scalable", "512x512", "256x256", "128x128", "64x64", "48x48", "32x32"}
	dirs := make([]string, 0, len(sizes))
	for _, size := range sizes {
		dirs = append(dirs, filepath.Join("/usr/share/icons", theme, size, "apps"))
	}
	return dirs
}

// Extract resolves the icon of a .desktop file: parse the Icon= key, then
// resolve it like a theme name. An entry without an Icon= key fails
// extraction and the pipeline falls back to the class default.
func (e *DesktopExtractor) Extract(ctx context.Context, target string) (Icon, error) {
	if err := ctx.Err(); err != nil {
		return Icon{}, err
	}

	entry, err := parseDesktopFile(target)
	if err != nil {
		return Icon{}, errors.Wrap(errors.ErrCodeExtraction, err, "parse desktop entry %s", target)
	}
	if entry.Icon == "" {
		return Icon{}, errors.New(errors.ErrCodeExtraction, "desktop entry %s has no icon", target)
	}

	return e.resolveName(entry.Icon), nil
}

// ExtractBinary resolves an icon for a plain executable by looking its
// base name up in the icon search paths. Most CLI binaries have none, in
// which case extraction fails and the default applies.
func (e *DesktopExtractor) ExtractBinary(ctx context.Context, target string) (Icon, error) {
	if err := ctx.Err(); err != nil {
		return Icon{}, err
	}

	name := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	if name == "" {
		return Icon{}, errors.New(errors.ErrCodeExtraction, "no base name in %s", target)
	}
	if path, ok := e.findIconFile(name); ok {
		return Icon{Ref: path, Source: SourceExtracted}, nil
	}
	return Icon{}, errors.New(errors.ErrCodeExtraction, "no icon named %q in search paths", name)
}

// resolveName turns an Icon= value into a ref. Absolute paths that exist
// win; theme names search the icon directories; an unmatched name stays a
// symbolic theme ref for the renderer to resolve.
func (e *DesktopExtractor) resolveName(name string) Icon {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return Icon{Ref: name, Source: SourceExtracted}
		}
		name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if path, ok := e.findIconFile(name); ok {
		return Icon{Ref: path, Source: SourceExtracted}
	}
	return Icon{Ref: "theme:" + name, Source: SourceExtracted}
}

// findIconFile searches the configured directories for name with the usual
// icon extensions, in search-path order.
func (e *DesktopExtractor) findIconFile(name string) (string, bool) {
	for _, dir := range e.searchPaths {
		for _, ext := range []string{".png", ".svg", ".xpm"} {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// Ensure DesktopExtractor implements Extractor.
var _ Extractor = (*DesktopExtractor)(nil)
