package ingest

import (
	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/geometry"
)

// =============================================================================
// Cell Assignment
// =============================================================================

// assignment is one file's resolved target, produced before any icon work.
type assignment struct {
	path      string
	cell      geometry.Cell
	ok        bool // false when the grid had no room
	relocated bool // true when a batch collision moved the file
}

// occupancy tracks which cells are taken while a batch is being assigned.
// Page occupancy and batch occupancy are kept separate because they differ
// in one way: a deliberately targeted drop may overwrite a page button, but
// nothing in the batch may land on a cell the batch already claimed.
type occupancy struct {
	layout geometry.Layout
	page   map[geometry.Cell]bool
	batch  map[geometry.Cell]bool
}

func newOccupancy(layout geometry.Layout, page deck.Page) *occupancy {
	occ := &occupancy{
		layout: layout,
		page:   make(map[geometry.Cell]bool, len(page.Buttons)),
		batch:  make(map[geometry.Cell]bool),
	}
	for _, b := range page.Buttons {
		occ.page[b.Position] = true
	}
	return occ
}

// free reports whether c is unoccupied by both the page and the batch.
func (o *occupancy) free(c geometry.Cell) bool {
	return !o.page[c] && !o.batch[c]
}

// claim marks c as taken by the batch.
func (o *occupancy) claim(c geometry.Cell) {
	o.batch[c] = true
}

// nextFree scans row-major for the first cell free of both page and batch,
// starting at cell index from and wrapping around once. Returns false when
// the grid is full.
func (o *occupancy) nextFree(from int) (geometry.Cell, bool) {
	count := o.layout.CellCount()
	for k := 0; k < count; k++ {
		c := o.layout.CellAt((from + k) % count)
		if o.free(c) {
			return c, true
		}
	}
	return geometry.Cell{}, false
}

// assignCells computes every file's target cell in drop order. This phase
// is synchronous: by the time it returns, cell assignment is fixed and only
// icon content remains outstanding.
//
// Per file:
//
//  1. The hovered cell, when present and free of both page and batch.
//  2. The cell under the drop pointer. Taking a page-occupied cell here is
//     the deliberate-overwrite path (the occupant is replaced at apply);
//     a cell already claimed by this batch instead advances the file
//     row-major from the contested cell, wrapping once.
//  3. No target at all: the first free cell in row-major order from the
//     grid origin.
//
// A file finding no free cell is reported as unplaced; later files still
// get their turn, so a full grid fails exactly the overflow, not the batch.
func assignCells(req BatchRequest, paths []string) []assignment {
	occ := newOccupancy(req.Layout, req.Page)
	out := make([]assignment, 0, len(paths))

	for _, path := range paths {
		a := assignment{path: path}

		if hover := req.Snapshot.HoverCell; hover != nil && req.Layout.InGrid(*hover) && occ.free(*hover) {
			a.cell, a.ok = *hover, true
		} else if cell, ok := req.Layout.Resolve(req.Snapshot.Pointer); ok {
			if !occ.batch[cell] {
				a.cell, a.ok = cell, true
			} else if next, found := occ.nextFree(req.Layout.Index(cell)); found {
				a.cell, a.ok, a.relocated = next, true, true
			}
		} else if next, found := occ.nextFree(0); found {
			a.cell, a.ok = next, true
		}

		if a.ok {
			occ.claim(a.cell)
		}
		out = append(out, a)
	}
	return out
}
