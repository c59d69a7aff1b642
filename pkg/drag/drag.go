// Package drag tracks the lifecycle of one drag-and-drop interaction over
// the launcher grid.
//
// # Architecture
//
// A [Tracker] is a four-phase state machine:
//
//	Idle → Entered → Hovering → Processing → Idle
//
// Entering the grid starts an interaction; pointer motion resolves the
// hovered cell through pkg/geometry and reports only actual cell changes so
// callers can skip redundant renders; dropping snapshots the pointer and
// hovered cell and holds the Processing phase until the resulting batch
// settles. Every drop increments a generation counter, and [Tracker.Settle]
// ignores stale generations, so late results from a superseded or cancelled
// batch can never flip the tracker back to Idle underneath a newer drop.
//
// Leave events carry a containment check: event systems fire leave when the
// pointer crosses into a child of the tracked container, with coordinates
// still inside it. Those must not clear the hover highlight, so
// [Tracker.Leave] ignores any leave whose coordinate is still inside the
// grid bounds.
//
// # Concurrency
//
// A Tracker belongs to the UI event loop that created it and is not safe
// for concurrent use. Batch completions arriving from other goroutines must
// be delivered into that loop (for example as bubbletea messages) before
// calling Settle.
//
// # Usage
//
//	t := drag.NewTracker()
//	t.Enter(p, layout)
//	if t.Over(p, layout) {
//	    // hovered cell changed, re-render highlight
//	}
//	snap, err := t.Drop()
//	// ... run the ingestion batch with snap ...
//	t.Settle(snap.Generation)
package drag

import (
	"errors"
	"fmt"

	"github.com/griddock/griddock/pkg/geometry"
)

// ErrNoActiveDrag is returned by Drop when no drag interaction is active.
var ErrNoActiveDrag = errors.New("no active drag")

// =============================================================================
// Phase
// =============================================================================

// Phase is the tracker's position in the drag lifecycle.
type Phase int

const (
	// PhaseIdle means no drag interaction is active.
	PhaseIdle Phase = iota

	// PhaseEntered means a drag is over the container but not over a cell.
	PhaseEntered

	// PhaseHovering means a drag is over a resolved grid cell.
	PhaseHovering

	// PhaseProcessing means a drop happened and its batch has not settled.
	PhaseProcessing
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEntered:
		return "entered"
	case PhaseHovering:
		return "hovering"
	case PhaseProcessing:
		return "processing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot captures the drag state at the moment of a drop. The ingestion
// pipeline works exclusively from the snapshot: the tracker is free to serve
// a new interaction while the batch runs.
type Snapshot struct {
	// Pointer is the last coordinate seen before the drop.
	Pointer geometry.Point

	// HoverCell is the cell hovered at drop time, nil when the drop
	// happened over the container but outside the grid.
	HoverCell *geometry.Cell

	// Generation identifies the batch this drop started. Pass it back to
	// Settle when the batch completes.
	Generation uint64
}

// =============================================================================
// Tracker
// =============================================================================

// Tracker is the drag state machine for one overlay session. Not safe for
// concurrent use; see the package documentation.
type Tracker struct {
	phase       Phase
	hoverCell   *geometry.Cell
	lastPointer geometry.Point
	generation  uint64
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{phase: PhaseIdle}
}

// Phase returns the current lifecycle phase.
func (t *Tracker) Phase() Phase { return t.phase }

// HoverCell returns the currently hovered cell. The second return is false
// outside the Entered/Hovering phases or when the pointer is over the
// container but not over a cell.
func (t *Tracker) HoverCell() (geometry.Cell, bool) {
	if t.hoverCell == nil {
		return geometry.Cell{}, false
	}
	return *t.hoverCell, true
}

// LastPointer returns the most recent pointer coordinate. Only meaningful
// while an interaction is active.
func (t *Tracker) LastPointer() geometry.Point { return t.lastPointer }

// Generation returns the identifier of the most recent drop. It is
// monotonic across the tracker's lifetime, surviving Reset, so batches
// started before a reset can never settle a drop that came after it.
func (t *Tracker) Generation() uint64 { return t.generation }

// Enter begins an interaction. Called when a drag first crosses into the
// container. Re-entry while an interaction is already active is treated as
// pointer motion. Returns true when the visible state changed.
func (t *Tracker) Enter(p geometry.Point, l geometry.Layout) bool {
	if t.phase != PhaseIdle {
		return t.Over(p, l)
	}

	t.phase = PhaseEntered
	t.lastPointer = p
	if cell, ok := l.Resolve(p); ok {
		t.phase = PhaseHovering
		t.hoverCell = &cell
	}
	return true
}

// Over records pointer motion during a drag. It returns true only when the
// hovered cell actually changed, so callers can skip renders for the
// continuous motion events between cell transitions.
//
// Motion in the Processing phase keeps the pointer current but never touches
// the hover state; motion in Idle is treated as a missed Enter.
func (t *Tracker) Over(p geometry.Point, l geometry.Layout) bool {
	switch t.phase {
	case PhaseIdle:
		return t.Enter(p, l)
	case PhaseProcessing:
		t.lastPointer = p
		return false
	}

	t.lastPointer = p

	cell, ok := l.Resolve(p)
	if !ok {
		// Over the container but outside the grid.
		if t.hoverCell != nil {
			t.hoverCell = nil
			t.phase = PhaseEntered
			return true
		}
		return false
	}

	if t.hoverCell != nil && *t.hoverCell == cell {
		return false
	}
	t.hoverCell = &cell
	t.phase = PhaseHovering
	return true
}

// Leave ends an interaction when the drag departs the container. Event
// systems also fire leave when the pointer crosses a child boundary inside
// the container; those events carry an in-bounds coordinate and are
// ignored, keeping the hover highlight stable. Returns true when the
// tracker actually returned to Idle.
func (t *Tracker) Leave(p geometry.Point, l geometry.Layout) bool {
	if t.phase == PhaseIdle || t.phase == PhaseProcessing {
		return false
	}
	if l.Contains(p) {
		// Child-boundary crossing, not a departure.
		return false
	}

	t.phase = PhaseIdle
	t.hoverCell = nil
	return true
}

// Drop ends the hover portion of an interaction and snapshots its state for
// the ingestion batch. Valid in any phase except Idle; dropping while a
// previous batch is still processing supersedes it, and the superseded
// generation can no longer settle the tracker.
func (t *Tracker) Drop() (Snapshot, error) {
	if t.phase == PhaseIdle {
		return Snapshot{}, ErrNoActiveDrag
	}

	t.generation++
	snap := Snapshot{
		Pointer:    t.lastPointer,
		Generation: t.generation,
	}
	if t.hoverCell != nil {
		cell := *t.hoverCell
		snap.HoverCell = &cell
	}

	t.phase = PhaseProcessing
	t.hoverCell = nil
	return snap, nil
}

// Settle completes the batch started by the drop with the given generation
// and returns the tracker to Idle. Stale generations are ignored: a batch
// superseded by a newer drop, or discarded by cancellation after a Reset,
// reports completion without effect. Returns true when the tracker settled.
func (t *Tracker) Settle(generation uint64) bool {
	if t.phase != PhaseProcessing || generation != t.generation {
		return false
	}
	t.phase = PhaseIdle
	return true
}

// Reset forces the tracker back to Idle, abandoning any active interaction
// or in-flight batch. The generation counter is preserved so the abandoned
// batch stays stale.
func (t *Tracker) Reset() {
	t.phase = PhaseIdle
	t.hoverCell = nil
}
