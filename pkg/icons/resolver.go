package icons

import (
	"context"
	"strings"
)

// Resolver is the extractor the ingestion pipeline talks to. It dispatches
// each target to the extractor that understands it: URLs to the favicon
// fetcher, .desktop files to the entry parser, everything else to the
// binary name lookup.
type Resolver struct {
	desktop *DesktopExtractor
	favicon *FaviconExtractor
}

// NewResolver bundles the standard extractors over the given cache.
func NewResolver(cache Cache) *Resolver {
	return &Resolver{
		desktop: NewDesktopExtractor(),
		favicon: NewFaviconExtractor(cache, nil),
	}
}

// NewResolverWith assembles a resolver from explicit extractors, for tests
// and nonstandard search paths.
func NewResolverWith(desktop *DesktopExtractor, favicon *FaviconExtractor) *Resolver {
	return &Resolver{desktop: desktop, favicon: favicon}
}

// Extract resolves an icon for target by shape.
func (r *Resolver) Extract(ctx context.Context, target string) (Icon, error) {
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return r.favicon.Extract(ctx, target)
	case strings.HasSuffix(target, ".desktop"):
		return r.desktop.Extract(ctx, target)
	default:
		return r.desktop.ExtractBinary(ctx, target)
	}
}

// Ensure Resolver implements Extractor.
var _ Extractor = (*Resolver)(nil)
