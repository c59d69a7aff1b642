// Package ingest turns a native file drop into launcher button placements.
//
// This is the pipeline between the drag tracker and the configuration
// mutator: it consumes the drop snapshot plus the dropped file list and
// produces one [deck.Placement] per placeable file, with a per-file outcome
// for everything else. By centralizing this logic the overlay TUI, the
// headless drop command, and the remote drop API all share identical
// placement semantics.
//
// # Architecture
//
// A batch runs in two phases:
//
//  1. Assign: every file gets its target cell synchronously, in drop order,
//     before any icon work starts. The hovered cell wins when free; a cell
//     re-resolved from the drop pointer may overwrite an existing button;
//     collisions inside the batch and targetless files advance row-major to
//     the next free cell. Cell assignment is therefore deterministic and
//     independent of icon latency.
//  2. Resolve icons: executable-like files (desktop entries, binaries,
//     URLs) each get their own extraction goroutine and are awaited
//     independently; every other class takes its type-derived default icon
//     immediately. A failed or timed-out extraction substitutes the default
//     icon — no file is ever lost to icon trouble.
//
// The resulting placements are buffered and returned as one batch so the
// caller applies them in a single [deck.Page.Apply], keeping the
// no-duplicate-position invariant batch-wide instead of racing against
// partially applied state.
//
// # Usage
//
// Create an Ingestor and run a batch:
//
//	ing := ingest.NewIngestor(icons.NewResolver(cache), logger)
//	result, err := ing.Batch(ctx, ingest.BatchRequest{
//	    Files:    dropped,
//	    Snapshot: snap,
//	    Layout:   layout,
//	    Page:     page,
//	})
//	if err != nil {
//	    return err
//	}
//	next, err := page.Apply(result.Placements)
//
// Cancelling ctx (overlay dismissed, client gone) aborts the batch: late
// extraction results are discarded and nothing is handed to the mutator.
package ingest

import (
	"fmt"
	"time"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/drag"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/icons"
)

// =============================================================================
// Outcome Statuses
// =============================================================================

// Per-file outcome statuses. Exactly one is reported per dropped file.
const (
	// StatusPlaced means the file landed on its direct target: the hovered
	// cell, the cell under the drop pointer, or the first free cell when
	// the drop carried no target at all.
	StatusPlaced = "placed"

	// StatusRelocated means the file's target was contested by an earlier
	// file in the same batch, so it advanced to the next free cell in
	// row-major order.
	StatusRelocated = "placed-relocated"

	// StatusSkippedFull means no free cell remained for the file.
	StatusSkippedFull = "skipped-grid-full"

	// StatusSkippedInvalid means the dropped path was unusable (empty or
	// carrying control characters) and never reached cell assignment.
	StatusSkippedInvalid = "skipped-invalid"
)

// =============================================================================
// Request & Result
// =============================================================================

// BatchRequest describes one drop batch: the files delivered by a single
// native drop event plus the context they were dropped into.
type BatchRequest struct {
	// Files are the dropped paths or URLs, in drop order.
	Files []string

	// Snapshot is the drag state captured at drop time. Remote callers
	// without a drag interaction submit a synthetic snapshot holding just
	// a pointer, or nothing at all for pure fallback placement.
	Snapshot drag.Snapshot

	// Layout is the grid the drop targets.
	Layout geometry.Layout

	// Page is the occupancy snapshot placements are computed against. The
	// page itself is never mutated; the caller applies the resulting
	// placements to whatever page is current at commit time.
	Page deck.Page
}

// Validate checks that the request can run.
func (r BatchRequest) Validate() error {
	if len(r.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "drop batch has no files")
	}
	return r.Layout.Validate()
}

// Outcome is the per-file result of a batch, in drop order.
type Outcome struct {
	// Path is the dropped file path or URL.
	Path string `json:"path"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Cell is the assigned cell for placed outcomes, nil for skips.
	Cell *geometry.Cell `json:"cell,omitempty"`

	// Action is the classified action tag, empty for invalid paths.
	Action string `json:"action,omitempty"`

	// Icon is the resolved icon for placed outcomes. Source tells whether
	// extraction won or the class default substituted.
	Icon icons.Icon `json:"icon"`

	// Err holds the reason for a skip. Icon extraction failures are not
	// errors and never appear here.
	Err error `json:"-"`
}

// Placed reports whether the file produced a placement.
func (o Outcome) Placed() bool {
	return o.Status == StatusPlaced || o.Status == StatusRelocated
}

// Stats describes one batch run for logs and hooks.
type Stats struct {
	Files      int
	Placed     int
	Relocated  int
	Skipped    int
	AssignTime time.Duration
	IconTime   time.Duration
}

// BatchResult is the buffered output of one drop batch.
type BatchResult struct {
	// BatchID identifies the batch in logs and hooks.
	BatchID string

	// Generation echoes the drag snapshot's generation so the caller can
	// settle the tracker that started this batch.
	Generation uint64

	// Placements is the batch handed to [deck.Page.Apply], in drop order.
	// Positions are already distinct across the batch.
	Placements []deck.Placement

	// Outcomes holds one entry per dropped file, in drop order.
	Outcomes []Outcome

	// Stats carries timing and counts for the run.
	Stats Stats
}

// Summary returns the single-line report shown to the user: placements
// first, then one aggregate count for everything that could not be placed.
func (r *BatchResult) Summary() string {
	placed := r.Stats.Placed + r.Stats.Relocated
	if r.Stats.Skipped == 0 {
		if placed == 1 {
			return "placed 1 file"
		}
		return fmt.Sprintf("placed %d files", placed)
	}
	return fmt.Sprintf("placed %d of %d files, %d could not be placed",
		placed, r.Stats.Files, r.Stats.Skipped)
}
