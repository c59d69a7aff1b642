// Package deck models the launcher configuration tree and its copy-on-write
// mutation.
//
// # Architecture
//
// The durable tree is Profile → Pages → Buttons. A [Button] is one occupied
// grid cell: a position, an opaque action tag, a label, an icon reference,
// and an action-specific config map. A [Page] owns its buttons keyed by
// unique position; a [Profile] owns an ordered list of pages plus the grid
// dimensions they were laid out for.
//
// Renderers read-share pages, so nothing in this package mutates a page in
// place. [Page.Apply] consumes a batch of placements and returns a new page;
// the profile-level helpers return updated Profile values the same way. The
// caller publishes the replacement through its store and drops the old
// value.
//
// # Usage
//
//	profile := deck.NewProfile("default", 4, 6)
//	page, err := profile.PageAt(0)
//	next, err := page.Apply(placements)
//	profile, err = profile.ReplacePage(0, next)
//	// commit profile via pkg/store
//
// Action execution is out of scope: buttons carry opaque tags consumed by an
// [Executor] living outside this repository.
package deck

import (
	"context"
	"slices"
	"time"

	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
)

// =============================================================================
// Action Tags
// =============================================================================

// Action tags seeded by ingestion. Opaque to this package: the executor
// decides what they mean.
const (
	// ActionLaunch starts an application (executables, desktop entries).
	ActionLaunch = "launch"

	// ActionOpen opens a file with its default handler.
	ActionOpen = "open"

	// ActionOpenURL opens a URL in the browser.
	ActionOpenURL = "open-url"

	// ActionBrowse opens a directory in the file manager.
	ActionBrowse = "browse"

	// ActionRun runs an arbitrary command line.
	ActionRun = "run"
)

// Executor launches the action behind a button. Implementations live in the
// host environment, not in this repository.
type Executor interface {
	Execute(ctx context.Context, b Button) error
}

// =============================================================================
// Button
// =============================================================================

// Button is the durable record for one occupied cell. Created by
// [Page.Apply], owned by the configuration tree thereafter, and destroyed
// only by explicit deletion or page removal.
type Button struct {
	ID       string            `json:"id" bson:"id"`
	Position geometry.Cell     `json:"position" bson:"position"`
	Action   string            `json:"action" bson:"action"`
	Label    string            `json:"label,omitempty" bson:"label,omitempty"`
	Icon     string            `json:"icon,omitempty" bson:"icon,omitempty"`
	Config   map[string]string `json:"config,omitempty" bson:"config,omitempty"`
}

// Clone returns a deep copy of the button.
func (b Button) Clone() Button {
	c := b
	if b.Config != nil {
		c.Config = make(map[string]string, len(b.Config))
		for k, v := range b.Config {
			c.Config[k] = v
		}
	}
	return c
}

// =============================================================================
// Page
// =============================================================================

// Page is one grid of buttons. Buttons are kept sorted in row-major order
// with unique positions; both properties are maintained by [Page.Apply] and
// checked by [Page.Validate] on import paths.
type Page struct {
	Name    string   `json:"name,omitempty" bson:"name,omitempty"`
	Buttons []Button `json:"buttons,omitempty" bson:"buttons,omitempty"`
}

// ButtonAt returns the button occupying c, if any.
func (p Page) ButtonAt(c geometry.Cell) (Button, bool) {
	for _, b := range p.Buttons {
		if b.Position == c {
			return b, true
		}
	}
	return Button{}, false
}

// Occupied reports whether c holds a button.
func (p Page) Occupied(c geometry.Cell) bool {
	_, ok := p.ButtonAt(c)
	return ok
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	c := Page{Name: p.Name}
	if p.Buttons != nil {
		c.Buttons = make([]Button, len(p.Buttons))
		for i, b := range p.Buttons {
			c.Buttons[i] = b.Clone()
		}
	}
	return c
}

// RemoveButton returns a copy of the page without the button at c. The
// second return reports whether a button was there.
func (p Page) RemoveButton(c geometry.Cell) (Page, bool) {
	if !p.Occupied(c) {
		return p.Clone(), false
	}
	out := Page{Name: p.Name}
	for _, b := range p.Buttons {
		if b.Position != c {
			out.Buttons = append(out.Buttons, b.Clone())
		}
	}
	return out, true
}

// MoveButton returns a copy of the page with the button at from relocated
// to to, replacing any occupant of to. The button keeps its identity; only
// the position changes. The second return is false when from holds no
// button or the move is a no-op.
func (p Page) MoveButton(from, to geometry.Cell) (Page, bool) {
	if from == to {
		return p.Clone(), false
	}
	moved, ok := p.ButtonAt(from)
	if !ok {
		return p.Clone(), false
	}
	out := Page{Name: p.Name}
	for _, b := range p.Buttons {
		if b.Position == from || b.Position == to {
			continue
		}
		out.Buttons = append(out.Buttons, b.Clone())
	}
	moved = moved.Clone()
	moved.Position = to
	out.Buttons = append(out.Buttons, moved)
	sortButtons(out.Buttons)
	return out, true
}

// Validate checks the unique-position invariant. Used on import and by
// store backends before committing external data.
func (p Page) Validate() error {
	seen := make(map[geometry.Cell]bool, len(p.Buttons))
	for _, b := range p.Buttons {
		if seen[b.Position] {
			return errors.New(errors.ErrCodeDuplicatePlacement, "page %q holds two buttons at %s", p.Name, b.Position)
		}
		seen[b.Position] = true
	}
	return nil
}

// sortButtons orders buttons row-major so serialization is deterministic.
func sortButtons(buttons []Button) {
	slices.SortFunc(buttons, func(a, b Button) int {
		if a.Position.Row != b.Position.Row {
			return a.Position.Row - b.Position.Row
		}
		return a.Position.Col - b.Position.Col
	})
}

// =============================================================================
// Profile
// =============================================================================

// Profile is the root of one launcher configuration: grid dimensions plus
// an ordered list of pages.
type Profile struct {
	Name      string    `json:"name" bson:"name"`
	Rows      int       `json:"rows" bson:"rows"`
	Cols      int       `json:"cols" bson:"cols"`
	Pages     []Page    `json:"pages" bson:"pages"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewProfile returns a profile with the given grid dimensions and a single
// empty page.
func NewProfile(name string, rows, cols int) Profile {
	now := time.Now().UTC()
	return Profile{
		Name:      name,
		Rows:      rows,
		Cols:      cols,
		Pages:     []Page{{Name: "main"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	c := p
	if p.Pages != nil {
		c.Pages = make([]Page, len(p.Pages))
		for i, pg := range p.Pages {
			c.Pages[i] = pg.Clone()
		}
	}
	return c
}

// PageCount returns the number of pages.
func (p Profile) PageCount() int { return len(p.Pages) }

// PageAt returns the page at index i.
func (p Profile) PageAt(i int) (Page, error) {
	if i < 0 || i >= len(p.Pages) {
		return Page{}, errors.New(errors.ErrCodePageNotFound, "profile %q has no page %d", p.Name, i)
	}
	return p.Pages[i].Clone(), nil
}

// ReplacePage returns a copy of the profile with page i swapped for next.
// This is the commit half of the copy-on-write cycle started by
// [Page.Apply].
func (p Profile) ReplacePage(i int, next Page) (Profile, error) {
	if i < 0 || i >= len(p.Pages) {
		return Profile{}, errors.New(errors.ErrCodePageNotFound, "profile %q has no page %d", p.Name, i)
	}
	out := p.Clone()
	out.Pages[i] = next.Clone()
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}

// AddPage returns a copy of the profile with an empty page appended.
func (p Profile) AddPage(name string) Profile {
	out := p.Clone()
	out.Pages = append(out.Pages, Page{Name: name})
	out.UpdatedAt = time.Now().UTC()
	return out
}

// RemovePage returns a copy of the profile without page i. The last page
// cannot be removed: a profile always renders something.
func (p Profile) RemovePage(i int) (Profile, error) {
	if i < 0 || i >= len(p.Pages) {
		return Profile{}, errors.New(errors.ErrCodePageNotFound, "profile %q has no page %d", p.Name, i)
	}
	if len(p.Pages) == 1 {
		return Profile{}, errors.New(errors.ErrCodeInvalidPage, "cannot remove the last page of profile %q", p.Name)
	}
	out := p.Clone()
	out.Pages = append(out.Pages[:i], out.Pages[i+1:]...)
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}

// ButtonCount returns the number of buttons across all pages.
func (p Profile) ButtonCount() int {
	n := 0
	for _, pg := range p.Pages {
		n += len(pg.Buttons)
	}
	return n
}

// Validate checks the profile's structural invariants: a usable grid, at
// least one page, per-page unique positions, and every position inside the
// grid.
func (p Profile) Validate() error {
	if err := errors.ValidateProfileName(p.Name); err != nil {
		return err
	}
	if p.Rows < 1 || p.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidLayout, "profile %q has invalid grid %dx%d", p.Name, p.Rows, p.Cols)
	}
	if len(p.Pages) == 0 {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %q has no pages", p.Name)
	}
	for _, pg := range p.Pages {
		if err := pg.Validate(); err != nil {
			return err
		}
		for _, b := range pg.Buttons {
			if b.Position.Row < 0 || b.Position.Row >= p.Rows || b.Position.Col < 0 || b.Position.Col >= p.Cols {
				return errors.New(errors.ErrCodeInvalidPosition, "button %s at %s is outside the %dx%d grid", b.ID, b.Position, p.Rows, p.Cols)
			}
		}
	}
	return nil
}
