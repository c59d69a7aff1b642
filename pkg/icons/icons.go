// Package icons resolves the icon shown on a launcher button.
//
// # Architecture
//
// Ingestion classifies every dropped file, and most classes take a
// type-derived default icon immediately (see [Default]). Executable-like
// targets are worth more effort, so they go through an [Extractor]:
//
//   - .desktop entries: parse the Icon= key and resolve the icon name
//     against the hicolor/pixmaps search paths ([DesktopExtractor])
//   - URLs: fetch the site favicon, downscale it, and cache it on disk
//     ([FaviconExtractor])
//   - other executables: look the binary's name up in the icon search
//     paths ([DesktopExtractor.ExtractBinary])
//
// [NewResolver] bundles the extractors behind one Extractor that dispatches
// by target shape; the ingestion pipeline awaits it per file and substitutes
// the default icon when it fails. Extraction failure is normal operation
// here, never fatal: a file must not be lost to a missing favicon.
//
// # Icon References
//
// An [Icon] carries an opaque ref: either a filesystem path to an image, or
// a symbolic "theme:<name>" reference left to the renderer. The terminal
// overlay maps refs to glyphs with [Glyph]; a graphical front end would
// resolve them against its icon theme instead.
package icons

import (
	"context"
)

// Source records how an icon ref was obtained.
type Source string

const (
	// SourceExtracted means the ref came from the target itself: a parsed
	// desktop entry, a fetched favicon, a matched theme file.
	SourceExtracted Source = "extracted"

	// SourceDefault means the ref is the class fallback.
	SourceDefault Source = "default"
)

// Icon is a resolved button icon.
type Icon struct {
	Ref    string `json:"ref" bson:"ref"`
	Source Source `json:"source" bson:"source"`
}

// Extractor resolves an icon for one target (a file path or URL). The call
// may block on I/O; implementations honor ctx. Errors mean "no icon found"
// and callers degrade to [Default] — they never abort a drop.
type Extractor interface {
	Extract(ctx context.Context, target string) (Icon, error)
}

// File classes used for default icon selection. The ingestion classifier
// assigns one per dropped file.
const (
	ClassExecutable = "executable"
	ClassDesktop    = "desktop"
	ClassDirectory  = "directory"
	ClassURL        = "url"
	ClassDocument   = "document"
	ClassImage      = "image"
	ClassAudio      = "audio"
	ClassVideo      = "video"
	ClassArchive    = "archive"
	ClassGeneric    = "generic"
)
