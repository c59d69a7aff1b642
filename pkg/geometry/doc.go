// Package geometry maps pointer coordinates to grid cells for the launcher
// overlay.
//
// # Coordinate Model
//
// A [Layout] describes one rendered grid: a fixed matrix of Rows x Cols
// cells, each CellWidth x CellHeight pixels, separated by GapX/GapY pixels,
// with the top-left corner of the first cell at (OriginX, OriginY) in screen
// coordinates. Layouts are plain values; a render pass builds one and every
// resolution against it is pure and deterministic.
//
// # Resolution
//
// [Layout.Resolve] translates a screen point into the cell under it:
// subtract the origin, floor-divide each axis by the pitch (cell size plus
// gap), and clamp to the last row/column. Points left of or above the
// origin, or beyond the far edge of the last cell, do not resolve. Inside
// the bounds there are no dead zones: a point over a gap resolves to the
// cell on the origin side of that gap, so dragging across the grid never
// loses its target.
//
// For example, with 96-pixel square cells and an 8-pixel gap the pitch is
// 104, and the point (100, 50) relative to the origin lands in column
// floor(100/104) = 0, row floor(50/104) = 0: the first cell, even though
// the pointer sits inside the trailing gap.
//
// # Iteration Order
//
// Cells are ordered row-major: left to right, then top to bottom.
// [Layout.Index] and [Layout.CellAt] convert between a [Cell] and its
// position in that order; placement scans in pkg/ingest rely on it.
package geometry
