package cli

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/ingest"
	"github.com/griddock/griddock/pkg/store"
)

// newTestOverlay builds an overlay model over a seeded in-memory store so
// tests can verify persisted commits. The profile is a 2x3 grid.
func newTestOverlay(t *testing.T) (OverlayModel, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	profile := deck.NewProfile("work", 2, 3)
	if err := st.Set(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	ing := ingest.NewIngestor(nil, logger)
	return NewOverlayModel(st, ing, profile), st
}

// sized delivers a window size message and returns the centered model.
func sized(t *testing.T, m OverlayModel, w, h int) OverlayModel {
	t.Helper()

	model, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return model.(OverlayModel)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pasteMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

func motionMsg(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func pressMsg(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func releaseMsg(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

// =============================================================================
// Paste Parsing
// =============================================================================

func TestParseDropPaths(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single path",
			text: "/home/user/notes.txt",
			want: []string{"/home/user/notes.txt"},
		},
		{
			name: "space separated",
			text: "/tmp/a.png /tmp/b.png",
			want: []string{"/tmp/a.png", "/tmp/b.png"},
		},
		{
			name: "newline separated",
			text: "/tmp/a.png\n/tmp/b.png\n",
			want: []string{"/tmp/a.png", "/tmp/b.png"},
		},
		{
			name: "crlf separated",
			text: "/tmp/a.png\r\n/tmp/b.png",
			want: []string{"/tmp/a.png", "/tmp/b.png"},
		},
		{
			name: "single quoted with space",
			text: "'/home/user/My Documents/report.pdf'",
			want: []string{"/home/user/My Documents/report.pdf"},
		},
		{
			name: "double quoted with space",
			text: `"/tmp/a b.txt"`,
			want: []string{"/tmp/a b.txt"},
		},
		{
			name: "backslash escaped space",
			text: `/tmp/a\ b.txt`,
			want: []string{"/tmp/a b.txt"},
		},
		{
			name: "quoted and bare mixed",
			text: "'/tmp/x y' /tmp/z",
			want: []string{"/tmp/x y", "/tmp/z"},
		},
		{
			name: "file uri with escapes",
			text: "file:///home/user/report%20v2.pdf",
			want: []string{"/home/user/report v2.pdf"},
		},
		{
			name: "url passes through",
			text: "https://example.com/docs",
			want: []string{"https://example.com/docs"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "  \t\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDropPaths(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseDropPaths(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanDropPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "plain path untouched",
			path: "/usr/bin/app",
			want: "/usr/bin/app",
		},
		{
			name: "file uri",
			path: "file:///etc/hosts",
			want: "/etc/hosts",
		},
		{
			name: "file uri with host",
			path: "file://localhost/etc/hosts",
			want: "/etc/hosts",
		},
		{
			name: "percent decoding",
			path: "file:///tmp/a%20b.txt",
			want: "/tmp/a b.txt",
		},
		{
			name: "bad escape kept literal",
			path: "file:///tmp/a%zz",
			want: "/tmp/a%zz",
		},
		{
			name: "http url untouched",
			path: "https://example.com/a%20b",
			want: "https://example.com/a%20b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanDropPath(tt.path); got != tt.want {
				t.Errorf("cleanDropPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{name: "shorter kept", s: "notes", max: 10, want: "notes"},
		{name: "exact kept", s: "notes", max: 5, want: "notes"},
		{name: "truncated with ellipsis", s: "abcdefgh", max: 5, want: "abcd…"},
		{name: "multibyte runes", s: "ééééé", max: 3, want: "éé…"},
		{name: "max one", s: "abc", max: 1, want: "a"},
		{name: "max zero", s: "abc", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateLabel(tt.s, tt.max); got != tt.want {
				t.Errorf("truncateLabel(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Layout & View
// =============================================================================

func TestTermLayout(t *testing.T) {
	l := termLayout(2, 3)

	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if l.Rows != 2 || l.Cols != 3 {
		t.Errorf("termLayout(2, 3) dims = %dx%d, want 2x3", l.Rows, l.Cols)
	}
	wantW := float64(3*termCellWidth + 2*termGap)
	wantH := float64(2*termCellHeight + termGap)
	if l.Width() != wantW || l.Height() != wantH {
		t.Errorf("size = %gx%g, want %gx%g", l.Width(), l.Height(), wantW, wantH)
	}
}

func TestOverlayRecenter(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	if !m.ready {
		t.Fatal("model not ready after window size")
	}
	// 2x3 grid is 56x11 terminal cells.
	if m.placed.OriginX != 32 {
		t.Errorf("OriginX = %g, want 32", m.placed.OriginX)
	}
	if m.placed.OriginY != 14 {
		t.Errorf("OriginY = %g, want 14", m.placed.OriginY)
	}
}

func TestOverlayRecenterClampsToChrome(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 40, 6)

	if m.placed.OriginX != 0 {
		t.Errorf("OriginX = %g, want 0", m.placed.OriginX)
	}
	if m.placed.OriginY != chromeTop {
		t.Errorf("OriginY = %g, want %d", m.placed.OriginY, chromeTop)
	}
}

func TestOverlayViewTooSmall(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 40, 6)

	if view := m.View(); !strings.Contains(view, "terminal too small") {
		t.Errorf("View() = %q, want too-small warning", view)
	}
}

func TestOverlayViewFillsWindow(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	view := m.View()
	if got := strings.Count(view, "\n"); got != m.height-1 {
		t.Errorf("View() has %d lines, want %d", got+1, m.height)
	}
	if !strings.Contains(view, "work") {
		t.Error("View() missing profile name")
	}
	if !strings.Contains(view, "page 1/1") {
		t.Error("View() missing page position")
	}
}

func TestOverlayViewShowsButton(t *testing.T) {
	m, _ := newTestOverlay(t)
	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	page, err = page.Apply([]deck.Placement{{
		Position: geometry.Cell{Row: 0, Col: 1},
		Action:   deck.ActionOpen,
		Label:    "notes",
	}})
	if err != nil {
		t.Fatal(err)
	}
	m.profile, err = m.profile.ReplacePage(0, page)
	if err != nil {
		t.Fatal(err)
	}
	m = sized(t, m, 120, 40)

	view := m.View()
	if !strings.Contains(view, "notes") {
		t.Error("View() missing button label")
	}
	if !strings.Contains(view, deck.ActionOpen) {
		t.Error("View() missing button action")
	}
}

// =============================================================================
// Update Loop
// =============================================================================

func TestOverlayMouseHover(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	// Grid origin is (32, 14); cell (0,1) starts one cell-plus-gap over.
	model, _ := m.Update(motionMsg(52, 15))
	m = model.(OverlayModel)

	cell, ok := m.tracker.HoverCell()
	if !ok {
		t.Fatal("HoverCell() ok = false, want hover")
	}
	if want := (geometry.Cell{Row: 0, Col: 1}); cell != want {
		t.Errorf("HoverCell() = %v, want %v", cell, want)
	}
	if m.lastMouse.X != 52 || m.lastMouse.Y != 15 {
		t.Errorf("lastMouse = %v, want (52, 15)", m.lastMouse)
	}

	// Off the grid the hover clears but the pointer stays current.
	model, _ = m.Update(motionMsg(2, 1))
	m = model.(OverlayModel)
	if _, ok := m.tracker.HoverCell(); ok {
		t.Error("HoverCell() still set after moving off the grid")
	}
}

func TestOverlayQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: keyMsg("q")},
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestOverlay(t)
			_, cmd := m.Update(tt.msg)
			if cmd == nil {
				t.Fatal("Update() cmd = nil, want quit")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

func TestOverlayPageNavigation(t *testing.T) {
	m, st := newTestOverlay(t)

	// Single page: both directions clamp.
	model, _ := m.Update(keyMsg("]"))
	m = model.(OverlayModel)
	if m.page != 0 {
		t.Fatalf("page = %d after ] on last page, want 0", m.page)
	}
	model, _ = m.Update(keyMsg("["))
	m = model.(OverlayModel)
	if m.page != 0 {
		t.Fatalf("page = %d after [ on first page, want 0", m.page)
	}

	// n appends a page, moves to it, and persists.
	model, cmd := m.Update(keyMsg("n"))
	m = model.(OverlayModel)
	if m.page != 1 || m.profile.PageCount() != 2 {
		t.Fatalf("page = %d of %d after n, want 1 of 2", m.page, m.profile.PageCount())
	}
	if cmd == nil {
		t.Fatal("Update(n) cmd = nil, want persist")
	}
	if saved, ok := cmd().(profileSavedMsg); !ok || saved.err != nil {
		t.Fatalf("persist = %v, want clean save", saved.err)
	}
	stored, err := st.Get(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if stored.PageCount() != 2 {
		t.Errorf("stored pages = %d, want 2", stored.PageCount())
	}

	// Back to the first page.
	model, _ = m.Update(keyMsg("["))
	m = model.(OverlayModel)
	if m.page != 0 {
		t.Errorf("page = %d after [, want 0", m.page)
	}
}

func TestOverlayReload(t *testing.T) {
	m, st := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	// Resize the profile behind the model's back.
	if err := st.Set(context.Background(), deck.NewProfile("work", 3, 4)); err != nil {
		t.Fatal(err)
	}

	model, cmd := m.Update(keyMsg("r"))
	m = model.(OverlayModel)
	if cmd == nil {
		t.Fatal("Update(r) cmd = nil, want reload")
	}
	model, _ = m.Update(cmd())
	m = model.(OverlayModel)

	if m.grid.Rows != 3 || m.grid.Cols != 4 {
		t.Errorf("grid = %dx%d after reload, want 3x4", m.grid.Rows, m.grid.Cols)
	}
	if m.status != "profile reloaded" {
		t.Errorf("status = %q, want reload confirmation", m.status)
	}
}

func TestOverlayReloadClampsPage(t *testing.T) {
	m, _ := newTestOverlay(t)

	model, cmd := m.Update(keyMsg("n"))
	m = model.(OverlayModel)
	cmd() // commit the added page, result not needed here

	// A reload can deliver a profile with fewer pages than the model is
	// sitting on; inject one directly.
	model, _ = m.Update(profileLoadedMsg{profile: deck.NewProfile("work", 2, 3)})
	m = model.(OverlayModel)

	if m.page != 0 {
		t.Errorf("page = %d after reload shrank the profile, want 0", m.page)
	}
}

func TestOverlayDeleteHovered(t *testing.T) {
	m, st := newTestOverlay(t)
	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	page, err = page.Apply([]deck.Placement{{
		Position: geometry.Cell{Row: 0, Col: 1},
		Action:   deck.ActionOpen,
		Label:    "notes",
	}})
	if err != nil {
		t.Fatal(err)
	}
	m.profile, err = m.profile.ReplacePage(0, page)
	if err != nil {
		t.Fatal(err)
	}
	m = sized(t, m, 120, 40)

	// No hover: x is a no-op.
	model, cmd := m.Update(keyMsg("x"))
	m = model.(OverlayModel)
	if cmd != nil {
		t.Fatal("Update(x) without hover returned a command")
	}

	// Hover the button, then delete it.
	model, _ = m.Update(motionMsg(52, 15))
	m = model.(OverlayModel)
	model, cmd = m.Update(keyMsg("x"))
	m = model.(OverlayModel)

	got, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Buttons) != 0 {
		t.Fatalf("page has %d buttons after delete, want 0", len(got.Buttons))
	}
	if cmd == nil {
		t.Fatal("Update(x) cmd = nil, want persist")
	}
	cmd()
	stored, err := st.Get(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	storedPage, err := stored.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(storedPage.Buttons) != 0 {
		t.Errorf("stored page has %d buttons, want 0", len(storedPage.Buttons))
	}
}

func TestOverlayPasteWithoutPointerPlacesFirstFree(t *testing.T) {
	m, st := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	model, cmd := m.Update(pasteMsg("/tmp/readme.txt"))
	m = model.(OverlayModel)
	if cmd == nil {
		t.Fatal("paste returned no command")
	}
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}

	done, ok := cmd().(batchDoneMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want batchDoneMsg", cmd())
	}
	if done.generation != 0 {
		t.Errorf("generation = %d for synthetic drop, want 0", done.generation)
	}

	model, cmd = m.Update(done)
	m = model.(OverlayModel)
	if m.pending != 0 {
		t.Errorf("pending = %d after completion, want 0", m.pending)
	}
	if m.status != "placed 1 file" {
		t.Errorf("status = %q, want placement summary", m.status)
	}
	gotPage, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotPage.Buttons) != 1 {
		t.Fatalf("page has %d buttons, want 1", len(gotPage.Buttons))
	}
	if want := (geometry.Cell{Row: 0, Col: 0}); gotPage.Buttons[0].Position != want {
		t.Errorf("button at %v, want first free cell %v", gotPage.Buttons[0].Position, want)
	}

	if cmd == nil {
		t.Fatal("apply returned no persist command")
	}
	cmd()
	stored, err := st.Get(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	storedPage, err := stored.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(storedPage.Buttons) != 1 {
		t.Errorf("stored page has %d buttons, want 1", len(storedPage.Buttons))
	}
}

func TestOverlayDropOnHoveredCell(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	model, _ := m.Update(motionMsg(52, 15)) // cell (0,1)
	m = model.(OverlayModel)
	model, cmd := m.Update(pasteMsg("/tmp/song.mp3"))
	m = model.(OverlayModel)
	if cmd == nil {
		t.Fatal("paste returned no command")
	}

	done := cmd().(batchDoneMsg)
	if done.generation == 0 {
		t.Fatal("generation = 0, want tracked drop")
	}
	model, _ = m.Update(done)
	m = model.(OverlayModel)

	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Buttons) != 1 {
		t.Fatalf("page has %d buttons, want 1", len(page.Buttons))
	}
	if want := (geometry.Cell{Row: 0, Col: 1}); page.Buttons[0].Position != want {
		t.Errorf("button at %v, want hovered cell %v", page.Buttons[0].Position, want)
	}
}

func TestOverlayMoveButton(t *testing.T) {
	m, st := newTestOverlay(t)
	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	page, err = page.Apply([]deck.Placement{{
		Position: geometry.Cell{Row: 0, Col: 0},
		Action:   deck.ActionOpen,
		Label:    "notes",
	}})
	if err != nil {
		t.Fatal(err)
	}
	m.profile, err = m.profile.ReplacePage(0, page)
	if err != nil {
		t.Fatal(err)
	}
	m = sized(t, m, 120, 40)

	// Press the button at (0,0), drag to (0,2), release.
	model, _ := m.Update(pressMsg(33, 15))
	m = model.(OverlayModel)
	if m.moveFrom == nil {
		t.Fatal("press on occupied cell did not start a move")
	}
	model, _ = m.Update(motionMsg(72, 15))
	m = model.(OverlayModel)
	model, cmd := m.Update(releaseMsg(72, 15))
	m = model.(OverlayModel)

	if m.moveFrom != nil {
		t.Error("move still active after release")
	}
	got, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Occupied(geometry.Cell{Row: 0, Col: 0}) {
		t.Error("source cell still occupied after move")
	}
	b, ok := got.ButtonAt(geometry.Cell{Row: 0, Col: 2})
	if !ok || b.Label != "notes" {
		t.Fatalf("button at destination = %+v, want notes", b)
	}

	if cmd == nil {
		t.Fatal("move returned no persist command")
	}
	cmd()
	stored, err := st.Get(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	storedPage, err := stored.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if !storedPage.Occupied(geometry.Cell{Row: 0, Col: 2}) {
		t.Error("move not persisted")
	}
}

func TestOverlayMoveCancelsOffGrid(t *testing.T) {
	m, _ := newTestOverlay(t)
	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	page, err = page.Apply([]deck.Placement{{
		Position: geometry.Cell{Row: 0, Col: 0},
		Action:   deck.ActionOpen,
		Label:    "notes",
	}})
	if err != nil {
		t.Fatal(err)
	}
	m.profile, err = m.profile.ReplacePage(0, page)
	if err != nil {
		t.Fatal(err)
	}
	m = sized(t, m, 120, 40)

	model, _ := m.Update(pressMsg(33, 15))
	m = model.(OverlayModel)
	model, cmd := m.Update(releaseMsg(2, 1))
	m = model.(OverlayModel)

	if cmd != nil {
		t.Error("cancelled move still returned a command")
	}
	got, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Occupied(geometry.Cell{Row: 0, Col: 0}) {
		t.Error("button left its cell on a cancelled move")
	}
}

func TestOverlayPressOnEmptyCellIsNotAMove(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	model, _ := m.Update(pressMsg(33, 15))
	m = model.(OverlayModel)
	if m.moveFrom != nil {
		t.Error("press on empty cell started a move")
	}
}

func TestOverlayDiscardsSupersededBatch(t *testing.T) {
	m, _ := newTestOverlay(t)
	m = sized(t, m, 120, 40)

	model, _ := m.Update(motionMsg(33, 15)) // cell (0,0)
	m = model.(OverlayModel)

	model, first := m.Update(pasteMsg("/tmp/one.txt"))
	m = model.(OverlayModel)
	model, second := m.Update(pasteMsg("/tmp/two.txt"))
	m = model.(OverlayModel)
	if m.pending != 2 {
		t.Fatalf("pending = %d, want 2", m.pending)
	}

	// The first batch completes after being superseded: discarded.
	model, _ = m.Update(first())
	m = model.(OverlayModel)
	if m.status != "discarded superseded drop" {
		t.Errorf("status = %q, want superseded discard", m.status)
	}
	page, err := m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Buttons) != 0 {
		t.Fatalf("superseded batch placed %d buttons, want 0", len(page.Buttons))
	}

	// The superseding batch settles and applies.
	model, _ = m.Update(second())
	m = model.(OverlayModel)
	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}
	page, err = m.profile.PageAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Buttons) != 1 {
		t.Errorf("page has %d buttons after settling, want 1", len(page.Buttons))
	}
}
