package ingest

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/icons"
)

// =============================================================================
// Classification
// =============================================================================

// Classification is what a dropped target becomes: the icon class used for
// default selection, the action tag, a default label, and the seed config
// the action executor will read.
type Classification struct {
	Class  string
	Action string
	Label  string
	Config map[string]string
}

// extractable reports whether this class is worth an asynchronous icon
// extraction. Everything else takes the class default immediately.
func (c Classification) extractable() bool {
	switch c.Class {
	case icons.ClassExecutable, icons.ClassDesktop, icons.ClassURL:
		return true
	}
	return false
}

// Extension sets for the open-action classes. Lowercased, dot included.
var (
	executableExts = map[string]bool{
		".sh": true, ".bin": true, ".run": true, ".appimage": true,
	}
	documentExts = map[string]bool{
		".pdf": true, ".txt": true, ".text": true, ".md": true, ".markdown": true,
		".doc": true, ".docx": true, ".odt": true, ".rtf": true,
		".html": true, ".htm": true, ".csv": true, ".json": true, ".yaml": true, ".yml": true,
	}
	imageExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".svg": true, ".webp": true, ".bmp": true, ".ico": true, ".xpm": true,
	}
	audioExts = map[string]bool{
		".mp3": true, ".ogg": true, ".oga": true, ".flac": true, ".wav": true, ".m4a": true,
	}
	videoExts = map[string]bool{
		".mp4": true, ".mkv": true, ".webm": true, ".avi": true, ".mov": true, ".m4v": true,
	}
	archiveExts = map[string]bool{
		".zip": true, ".tar": true, ".gz": true, ".tgz": true,
		".bz2": true, ".xz": true, ".zst": true, ".7z": true, ".rar": true,
	}
)

// Classify maps a dropped target to its class, action, and config seed.
//
// URLs are recognized by scheme. Files classify by extension first, then by
// the executable mode bit for extensionless binaries; a stat failure just
// means mode information is unavailable and the extension verdict stands.
// Unknown types become generic open actions, so every drop classifies to
// something.
func Classify(target string) Classification {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return classifyURL(target)
	}

	info, statErr := os.Stat(target)
	if statErr == nil && info.IsDir() {
		return Classification{
			Class:  icons.ClassDirectory,
			Action: deck.ActionBrowse,
			Label:  filepath.Base(target),
			Config: map[string]string{"path": target},
		}
	}

	ext := strings.ToLower(filepath.Ext(target))
	label := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	if label == "" {
		// Dotfiles: the whole name is the "extension".
		label = filepath.Base(target)
	}

	switch {
	case ext == ".desktop":
		return Classification{
			Class:  icons.ClassDesktop,
			Action: deck.ActionLaunch,
			Label:  label,
			Config: map[string]string{"entry": target},
		}
	case executableExts[ext]:
		return classifyLaunch(target, label)
	case documentExts[ext]:
		return classifyOpen(icons.ClassDocument, target, label)
	case imageExts[ext]:
		return classifyOpen(icons.ClassImage, target, label)
	case audioExts[ext]:
		return classifyOpen(icons.ClassAudio, target, label)
	case videoExts[ext]:
		return classifyOpen(icons.ClassVideo, target, label)
	case archiveExts[ext]:
		return classifyOpen(icons.ClassArchive, target, label)
	case statErr == nil && info.Mode()&0o111 != 0:
		return classifyLaunch(target, label)
	default:
		return classifyOpen(icons.ClassGeneric, target, label)
	}
}

// classifyURL builds the open-url classification. The label is the host so
// the button reads "example.com" rather than a full query string.
func classifyURL(target string) Classification {
	label := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		label = u.Host
	}
	return Classification{
		Class:  icons.ClassURL,
		Action: deck.ActionOpenURL,
		Label:  label,
		Config: map[string]string{"url": target},
	}
}

// classifyLaunch builds the launch classification for an executable.
func classifyLaunch(target, label string) Classification {
	return Classification{
		Class:  icons.ClassExecutable,
		Action: deck.ActionLaunch,
		Label:  label,
		Config: map[string]string{"exec": target},
	}
}

// classifyOpen builds an open-with-default-handler classification.
func classifyOpen(class, target, label string) Classification {
	return Classification{
		Class:  class,
		Action: deck.ActionOpen,
		Label:  label,
		Config: map[string]string{"path": target},
	}
}
