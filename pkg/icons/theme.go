package icons

import "strings"

// =============================================================================
// Theme Defaults
// =============================================================================

// defaultRefs maps a file class to its symbolic fallback icon, named after
// the freedesktop icon naming spec so graphical renderers can resolve them.
var defaultRefs = map[string]string{
	ClassExecutable: "theme:application-x-executable",
	ClassDesktop:    "theme:application-x-executable",
	ClassDirectory:  "theme:folder",
	ClassURL:        "theme:web-browser",
	ClassDocument:   "theme:text-x-generic",
	ClassImage:      "theme:image-x-generic",
	ClassAudio:      "theme:audio-x-generic",
	ClassVideo:      "theme:video-x-generic",
	ClassArchive:    "theme:package-x-generic",
	ClassGeneric:    "theme:text-x-generic",
}

// Default returns the fallback icon for a file class. Unknown classes get
// the generic fallback, so a classifier extension can never produce a
// button without an icon.
func Default(class string) Icon {
	ref, ok := defaultRefs[class]
	if !ok {
		ref = defaultRefs[ClassGeneric]
	}
	return Icon{Ref: ref, Source: SourceDefault}
}

// glyphs maps symbolic theme refs to the single-cell glyph the terminal
// overlay renders.
var glyphs = map[string]string{
	"theme:application-x-executable": "▶",
	"theme:folder":                   "▤",
	"theme:web-browser":              "◉",
	"theme:text-x-generic":           "≡",
	"theme:image-x-generic":          "▣",
	"theme:audio-x-generic":          "♪",
	"theme:video-x-generic":          "▷",
	"theme:package-x-generic":        "◫",
}

// Glyph maps an icon ref to a terminal glyph. Symbolic theme refs use the
// glyph table; filesystem refs (extracted images the terminal cannot show)
// render as a filled marker.
func Glyph(ref string) string {
	if g, ok := glyphs[ref]; ok {
		return g
	}
	if strings.HasPrefix(ref, "theme:") {
		return "◆"
	}
	if ref == "" {
		return " "
	}
	return "■"
}
