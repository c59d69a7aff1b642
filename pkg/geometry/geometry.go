package geometry

import (
	"fmt"

	"github.com/griddock/griddock/pkg/errors"
)

// =============================================================================
// Core Types
// =============================================================================

// Point is a pointer coordinate in screen space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Cell identifies one grid cell by row and column, both zero-based.
type Cell struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// String returns the cell in (row,col) form for logs and error messages.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Rect is an axis-aligned rectangle in screen space.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Contains reports whether p lies inside r. Both edges are closed, matching
// the grid bounds: a point exactly on the far edge still counts as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// =============================================================================
// Layout
// =============================================================================

// Layout describes one rendered grid. It is immutable for the duration of a
// render pass: resize or reconfiguration produces a new value.
//
// A square layout is the special case CellWidth == CellHeight and
// GapX == GapY; terminal rendering typically uses rectangular cells.
type Layout struct {
	Rows       int     `json:"rows" bson:"rows"`
	Cols       int     `json:"cols" bson:"cols"`
	CellWidth  float64 `json:"cell_width" bson:"cell_width"`
	CellHeight float64 `json:"cell_height" bson:"cell_height"`
	GapX       float64 `json:"gap_x" bson:"gap_x"`
	GapY       float64 `json:"gap_y" bson:"gap_y"`
	OriginX    float64 `json:"origin_x" bson:"origin_x"`
	OriginY    float64 `json:"origin_y" bson:"origin_y"`
}

// Validate checks that the layout describes a usable grid.
func (l Layout) Validate() error {
	if l.Rows < 1 || l.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidLayout, "grid must have at least one row and column, got %dx%d", l.Rows, l.Cols)
	}
	if l.CellWidth <= 0 || l.CellHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "cell dimensions must be positive, got %gx%g", l.CellWidth, l.CellHeight)
	}
	if l.GapX < 0 || l.GapY < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "gaps cannot be negative, got %g/%g", l.GapX, l.GapY)
	}
	return nil
}

// PitchX returns the horizontal distance between the left edges of two
// neighboring cells.
func (l Layout) PitchX() float64 { return l.CellWidth + l.GapX }

// PitchY returns the vertical distance between the top edges of two
// neighboring cells.
func (l Layout) PitchY() float64 { return l.CellHeight + l.GapY }

// Width returns the total width of the grid. The trailing gap is not part
// of the grid: N columns span N cells and N-1 gaps.
func (l Layout) Width() float64 {
	if l.Cols < 1 {
		return 0
	}
	return float64(l.Cols)*l.CellWidth + float64(l.Cols-1)*l.GapX
}

// Height returns the total height of the grid.
func (l Layout) Height() float64 {
	if l.Rows < 1 {
		return 0
	}
	return float64(l.Rows)*l.CellHeight + float64(l.Rows-1)*l.GapY
}

// Bounds returns the bounding box of the whole grid in screen coordinates.
func (l Layout) Bounds() Rect {
	return Rect{X: l.OriginX, Y: l.OriginY, Width: l.Width(), Height: l.Height()}
}

// Contains reports whether p falls inside the grid bounds.
func (l Layout) Contains(p Point) bool {
	return l.Bounds().Contains(p)
}

// CellCount returns the number of cells in the grid.
func (l Layout) CellCount() int { return l.Rows * l.Cols }

// InGrid reports whether c names an existing cell of this layout.
func (l Layout) InGrid(c Cell) bool {
	return c.Row >= 0 && c.Row < l.Rows && c.Col >= 0 && c.Col < l.Cols
}

// Index returns the row-major index of c: left to right, then top to bottom.
func (l Layout) Index(c Cell) int {
	return c.Row*l.Cols + c.Col
}

// CellAt returns the cell at row-major index i.
func (l Layout) CellAt(i int) Cell {
	return Cell{Row: i / l.Cols, Col: i % l.Cols}
}

// CellRect returns the screen rectangle covered by c, excluding gaps.
func (l Layout) CellRect(c Cell) Rect {
	return Rect{
		X:      l.OriginX + float64(c.Col)*l.PitchX(),
		Y:      l.OriginY + float64(c.Row)*l.PitchY(),
		Width:  l.CellWidth,
		Height: l.CellHeight,
	}
}

// WithOrigin returns a copy of the layout positioned at (x, y).
func (l Layout) WithOrigin(x, y float64) Layout {
	l.OriginX = x
	l.OriginY = y
	return l
}

// Centered returns a copy of the layout with its origin set so the grid is
// centered inside an outer area of the given size. If the grid is larger
// than the area the origin pins to the top-left edge instead.
func (l Layout) Centered(outerWidth, outerHeight float64) Layout {
	x := (outerWidth - l.Width()) / 2
	y := (outerHeight - l.Height()) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return l.WithOrigin(x, y)
}

// =============================================================================
// Resolution
// =============================================================================

// Resolve maps a screen point to the cell under it.
//
// The point is translated into grid-local coordinates by subtracting the
// origin; negative locals and locals beyond the far edge of the last cell
// report no cell. In-bounds locals floor-divide by the pitch, so a point
// over a gap resolves to the cell on the origin side of that gap, and are
// clamped to the last row/column so the closed far edge resolves too.
func (l Layout) Resolve(p Point) (Cell, bool) {
	localX := p.X - l.OriginX
	localY := p.Y - l.OriginY

	if localX < 0 || localY < 0 {
		return Cell{}, false
	}
	if localX > l.Width() || localY > l.Height() {
		return Cell{}, false
	}

	col := int(localX / l.PitchX())
	row := int(localY / l.PitchY())

	// Gap-free layouts make the far edge divide out to Cols/Rows exactly.
	if col > l.Cols-1 {
		col = l.Cols - 1
	}
	if row > l.Rows-1 {
		row = l.Rows - 1
	}

	return Cell{Row: row, Col: col}, true
}
