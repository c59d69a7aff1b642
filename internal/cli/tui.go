package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/drag"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/icons"
	"github.com/griddock/griddock/pkg/ingest"
	"github.com/griddock/griddock/pkg/store"
)

// Grid styles
var (
	styleCellEmpty   = lipgloss.NewStyle().Foreground(colorDim)
	styleStatusLeft  = lipgloss.NewStyle().Foreground(colorWhite)
	styleStatusRight = lipgloss.NewStyle().Foreground(colorGray)
)

// Terminal cell geometry. Pixel sizes from the grid config describe the
// desktop overlay; the terminal view sizes cells in character units so a
// pointer coordinate from the mouse event stream maps straight onto the
// layout.
const (
	termCellWidth  = 18
	termCellHeight = 5
	termGap        = 1

	chromeTop    = 2 // title + hint line
	chromeBottom = 2 // status + help line
)

// =============================================================================
// OverlayModel - Interactive launcher grid
// =============================================================================

// batchDoneMsg delivers the outcome of an ingestion batch back to the
// update loop.
type batchDoneMsg struct {
	generation uint64
	page       int
	result     *ingest.BatchResult
	err        error
}

// profileSavedMsg reports a store commit.
type profileSavedMsg struct {
	err error
}

// profileLoadedMsg delivers a freshly loaded profile.
type profileLoadedMsg struct {
	profile deck.Profile
	err     error
}

// OverlayModel is the bubbletea model for the launcher grid. Pointer motion
// feeds the drag tracker, pasted text is treated as a drop (terminals
// deliver drag-and-dropped files as bracketed paste), pressing a button and
// releasing elsewhere moves it, and completed batches come back as messages
// carrying the generation of the drop they answer.
type OverlayModel struct {
	store    store.Store
	ingestor *ingest.Ingestor
	tracker  *drag.Tracker

	profile deck.Profile
	page    int

	grid   geometry.Layout // origin zero, terminal units
	placed geometry.Layout // grid positioned in the current window

	width, height int
	ready         bool

	lastMouse geometry.Point
	moveFrom  *geometry.Cell // source cell of an active button move
	pending   int            // batches still resolving icons
	status    string
}

// NewOverlayModel creates an overlay model for the given profile. The grid
// dimensions come from the profile itself.
func NewOverlayModel(st store.Store, ing *ingest.Ingestor, profile deck.Profile) OverlayModel {
	return OverlayModel{
		store:     st,
		ingestor:  ing,
		tracker:   drag.NewTracker(),
		profile:   profile,
		grid:      termLayout(profile.Rows, profile.Cols),
		lastMouse: geometry.Point{X: -1, Y: -1},
		status:    "drop files to place them",
	}
}

// termLayout builds a grid layout sized in terminal character cells.
func termLayout(rows, cols int) geometry.Layout {
	return geometry.Layout{
		Rows:       rows,
		Cols:       cols,
		CellWidth:  termCellWidth,
		CellHeight: termCellHeight,
		GapX:       termGap,
		GapY:       termGap,
	}
}

func (m OverlayModel) Init() tea.Cmd {
	return nil
}

func (m OverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Paste {
			if paths := parseDropPaths(string(msg.Runes)); len(paths) > 0 {
				return m.startDrop(paths)
			}
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recenter()
		return m, nil

	case batchDoneMsg:
		return m.handleBatchDone(msg)

	case profileSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + errors.UserMessage(msg.err)
		}
		return m, nil

	case profileLoadedMsg:
		if msg.err != nil {
			m.status = "reload failed: " + errors.UserMessage(msg.err)
			return m, nil
		}
		m.profile = msg.profile
		m.moveFrom = nil
		m.grid = termLayout(msg.profile.Rows, msg.profile.Cols)
		if m.ready {
			m.recenter()
		}
		if m.page >= m.profile.PageCount() {
			m.page = m.profile.PageCount() - 1
		}
		m.status = "profile reloaded"
		return m, nil
	}
	return m, nil
}

// handleKey processes non-paste key events.
func (m OverlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "[":
		if m.page > 0 {
			m.page--
			m.tracker.Reset()
			m.moveFrom = nil
		}

	case "]":
		if m.page < m.profile.PageCount()-1 {
			m.page++
			m.tracker.Reset()
			m.moveFrom = nil
		}

	case "n":
		m.profile = m.profile.AddPage(fmt.Sprintf("page %d", m.profile.PageCount()+1))
		m.page = m.profile.PageCount() - 1
		m.status = fmt.Sprintf("added page %d", m.page+1)
		return m, m.persist()

	case "x":
		return m.deleteHovered()

	case "r":
		m.tracker.Reset()
		m.moveFrom = nil
		return m, m.reload()
	}
	return m, nil
}

// handleMouse feeds pointer events to the drag tracker and drives the
// press-drag-release button move.
func (m OverlayModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := geometry.Point{X: float64(msg.X), Y: float64(msg.Y)}
	m.lastMouse = p
	m.tracker.Over(p, m.placed)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if cell, ok := m.placed.Resolve(p); ok {
			if page, err := m.profile.PageAt(m.page); err == nil && page.Occupied(cell) {
				c := cell
				m.moveFrom = &c
			}
		}

	case tea.MouseActionRelease:
		if m.moveFrom != nil {
			return m.finishMove(p)
		}
	}
	return m, nil
}

// finishMove completes a button move at the release coordinate. Releasing
// off the grid or back on the source cell cancels the move. The release
// resolves its own cell instead of going through Drop, so rearranging
// buttons never supersedes an in-flight drop batch.
func (m OverlayModel) finishMove(p geometry.Point) (tea.Model, tea.Cmd) {
	from := *m.moveFrom
	m.moveFrom = nil

	to, ok := m.placed.Resolve(p)
	if !ok || to == from {
		return m, nil
	}
	page, err := m.profile.PageAt(m.page)
	if err != nil {
		return m, nil
	}
	next, moved := page.MoveButton(from, to)
	if !moved {
		return m, nil
	}
	prof, err := m.profile.ReplacePage(m.page, next)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}
	m.profile = prof
	m.status = fmt.Sprintf("moved button to %s", to)
	return m, m.persist()
}

// deleteHovered removes the button under the hovered cell, if any.
func (m OverlayModel) deleteHovered() (tea.Model, tea.Cmd) {
	cell, ok := m.tracker.HoverCell()
	if !ok {
		return m, nil
	}
	page, err := m.profile.PageAt(m.page)
	if err != nil {
		return m, nil
	}
	next, removed := page.RemoveButton(cell)
	if !removed {
		return m, nil
	}
	prof, err := m.profile.ReplacePage(m.page, next)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}
	m.profile = prof
	m.status = fmt.Sprintf("removed button at %s", cell)
	return m, m.persist()
}

// startDrop snapshots the drag state and launches the ingestion batch. A
// paste without a live interaction (the mouse never moved, or the tracker
// already settled) falls back to a synthetic snapshot at the last pointer
// position so the batch still lands near the cursor.
func (m OverlayModel) startDrop(files []string) (tea.Model, tea.Cmd) {
	snap, err := m.tracker.Drop()
	if err != nil {
		snap = drag.Snapshot{Pointer: m.lastMouse}
	}
	page, err := m.profile.PageAt(m.page)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}

	req := ingest.BatchRequest{
		Files:    files,
		Snapshot: snap,
		Layout:   m.placed,
		Page:     page,
	}
	ing := m.ingestor
	pageIdx := m.page
	m.pending++
	m.status = fmt.Sprintf("placing %d file(s)...", len(files))

	return m, func() tea.Msg {
		result, err := ing.Batch(context.Background(), req)
		return batchDoneMsg{generation: snap.Generation, page: pageIdx, result: result, err: err}
	}
}

// handleBatchDone applies a completed batch to the page it targeted. A
// tracked batch that can no longer settle was superseded by a newer drop or
// abandoned by a reset; its placements are discarded.
func (m OverlayModel) handleBatchDone(msg batchDoneMsg) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	settled := m.tracker.Settle(msg.generation)
	if msg.generation != 0 && !settled {
		m.status = "discarded superseded drop"
		return m, nil
	}
	if msg.err != nil {
		m.status = errors.UserMessage(msg.err)
		return m, nil
	}

	m.status = msg.result.Summary()
	if len(msg.result.Placements) == 0 {
		return m, nil
	}

	page, err := m.profile.PageAt(msg.page)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}
	next, err := page.Apply(msg.result.Placements)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}
	prof, err := m.profile.ReplacePage(msg.page, next)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m, nil
	}
	m.profile = prof
	return m, m.persist()
}

// persist commits the current profile to the store.
func (m OverlayModel) persist() tea.Cmd {
	st, prof := m.store, m.profile
	return func() tea.Msg {
		return profileSavedMsg{err: st.Set(context.Background(), prof)}
	}
}

// reload fetches the profile from the store, discarding local state.
func (m OverlayModel) reload() tea.Cmd {
	st, name := m.store, m.profile.Name
	return func() tea.Msg {
		p, err := st.Get(context.Background(), name)
		return profileLoadedMsg{profile: p, err: err}
	}
}

// recenter repositions the grid inside the current window, leaving room
// for the top and bottom chrome. Origins are computed in whole character
// cells so the drawn grid and the pointer geometry agree exactly.
func (m *OverlayModel) recenter() {
	avail := m.height - chromeTop - chromeBottom
	ox := (m.width - int(m.grid.Width())) / 2
	oy := chromeTop + (avail-int(m.grid.Height()))/2
	if ox < 0 {
		ox = 0
	}
	if oy < chromeTop {
		oy = chromeTop
	}
	m.placed = m.grid.WithOrigin(float64(ox), float64(oy))
}

func (m OverlayModel) View() string {
	if !m.ready {
		return "initializing..."
	}
	gridW, gridH := int(m.grid.Width()), int(m.grid.Height())
	if m.width < gridW || m.height < gridH+chromeTop+chromeBottom {
		return StyleWarning.Render(fmt.Sprintf("terminal too small: need %dx%d", gridW, gridH+chromeTop+chromeBottom))
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName) + " " + StyleValue.Render(m.profile.Name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drop or paste paths onto the grid"))
	b.WriteString("\n")

	blanks := int(m.placed.OriginY) - chromeTop
	if blanks > 0 {
		b.WriteString(strings.Repeat("\n", blanks))
	}

	grid := lipgloss.NewStyle().MarginLeft(int(m.placed.OriginX)).Render(m.renderGrid())
	b.WriteString(grid)
	b.WriteString("\n")

	fill := m.height - chromeTop - blanks - gridH - chromeBottom
	if fill > 0 {
		b.WriteString(strings.Repeat("\n", fill))
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[ ] page · n new page · x delete · r reload · q quit"))

	return b.String()
}

// statusLine renders the bottom status: profile position on the left, the
// last batch outcome on the right.
func (m OverlayModel) statusLine() string {
	left := styleStatusLeft.Render(fmt.Sprintf("page %d/%d", m.page+1, m.profile.PageCount()))
	status := m.status
	if m.pending > 0 {
		status = fmt.Sprintf("%s (%d resolving)", status, m.pending)
	}
	right := styleStatusRight.Render(status)
	return left + StyleDim.Render(" · ") + right
}

// renderGrid draws the full cell grid for the current page.
func (m OverlayModel) renderGrid() string {
	page, err := m.profile.PageAt(m.page)
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	hover, hasHover := m.tracker.HoverCell()

	rows := make([]string, 0, m.grid.Rows*2-1)
	for r := 0; r < m.grid.Rows; r++ {
		cells := make([]string, 0, m.grid.Cols*2-1)
		for c := 0; c < m.grid.Cols; c++ {
			cell := geometry.Cell{Row: r, Col: c}
			if c > 0 {
				cells = append(cells, strings.Repeat(" ", termGap))
			}
			cells = append(cells, m.renderCell(page, cell, hasHover && hover == cell))
		}
		if r > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCell draws one cell box: bordered, icon glyph, label and action
// centered, border color tracking hover and occupancy.
func (m OverlayModel) renderCell(page deck.Page, cell geometry.Cell, hovered bool) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(termCellWidth - 2).
		Height(termCellHeight - 2).
		Align(lipgloss.Center, lipgloss.Center)

	button, occupied := page.ButtonAt(cell)
	switch {
	case m.moveFrom != nil && *m.moveFrom == cell:
		box = box.BorderForeground(colorYellow)
	case hovered:
		box = box.BorderForeground(colorCyan)
	case occupied:
		box = box.BorderForeground(colorGray)
	default:
		box = box.BorderForeground(colorDim)
	}

	if !occupied {
		return box.Render(styleCellEmpty.Render("·"))
	}
	label := truncateLabel(button.Label, termCellWidth-4)
	body := actionStyle(button.Action).Render(icons.Glyph(button.Icon)+" "+label) +
		"\n" + StyleDim.Render(button.Action)
	return box.Render(body)
}

// actionStyle picks the label color for a button action.
func actionStyle(action string) lipgloss.Style {
	switch action {
	case deck.ActionLaunch:
		return lipgloss.NewStyle().Foreground(colorCyan)
	case deck.ActionOpenURL:
		return lipgloss.NewStyle().Foreground(colorBlue)
	case deck.ActionBrowse:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case deck.ActionRun:
		return lipgloss.NewStyle().Foreground(colorGreen)
	default:
		return lipgloss.NewStyle().Foreground(colorWhite)
	}
}

// truncateLabel shortens s to max display runes, marking the cut with an
// ellipsis.
func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// =============================================================================
// Drop Paste Parsing
// =============================================================================

// parseDropPaths splits text pasted by a terminal drag-and-drop into
// individual targets. Terminals deliver dropped files as shell-quoted
// paths or file:// URIs separated by whitespace; quoting and backslash
// escapes protect embedded spaces.
func parseDropPaths(text string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		paths = append(paths, cleanDropPath(cur.String()))
		cur.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '\\' && i+1 < len(runes):
			i++
			cur.WriteRune(runes[i])
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return paths
}

// cleanDropPath normalizes one dropped target. file:// URIs decode to
// plain paths; everything else passes through untouched.
func cleanDropPath(p string) string {
	if !strings.HasPrefix(p, "file://") {
		return p
	}
	trimmed := strings.TrimPrefix(p, "file://")
	// file://host/path carries a host component before the path.
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		trimmed = trimmed[i:]
	}
	if dec, err := url.PathUnescape(trimmed); err == nil {
		return dec
	}
	return trimmed
}
