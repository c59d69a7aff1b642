package deck

import (
	"path/filepath"
	"testing"

	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
)

func TestApply(t *testing.T) {
	page := Page{Name: "main"}

	placements := []Placement{
		{Position: geometry.Cell{Row: 2, Col: 3}, Action: ActionOpen, Label: "notes.txt", Config: map[string]string{"path": "/tmp/notes.txt"}},
		{Position: geometry.Cell{Row: 0, Col: 1}, Action: ActionLaunch, Label: "editor"},
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionBrowse, Label: "home"},
	}

	next, err := page.Apply(placements)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(next.Buttons) != 3 {
		t.Fatalf("len(Buttons) = %d, want 3", len(next.Buttons))
	}

	// Buttons come out sorted row-major regardless of placement order.
	wantOrder := []geometry.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 2, Col: 3}}
	for i, want := range wantOrder {
		if next.Buttons[i].Position != want {
			t.Errorf("Buttons[%d].Position = %v, want %v", i, next.Buttons[i].Position, want)
		}
	}

	// Every button gets a unique minted ID.
	seen := make(map[string]bool)
	for _, b := range next.Buttons {
		if b.ID == "" {
			t.Error("button has empty ID")
		}
		if seen[b.ID] {
			t.Errorf("duplicate button ID %s", b.ID)
		}
		seen[b.ID] = true
	}

	b, ok := next.ButtonAt(geometry.Cell{Row: 2, Col: 3})
	if !ok {
		t.Fatal("ButtonAt((2,3)) not found")
	}
	if b.Action != ActionOpen || b.Config["path"] != "/tmp/notes.txt" {
		t.Errorf("ButtonAt((2,3)) = %+v, want open action with path config", b)
	}
}

func TestApplyOverwritesOccupant(t *testing.T) {
	page, err := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionOpen, Label: "old"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	next, err := page.Apply([]Placement{
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionLaunch, Label: "new"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(next.Buttons) != 1 {
		t.Fatalf("len(Buttons) = %d, want 1 (overwrite, not duplication)", len(next.Buttons))
	}
	b, _ := next.ButtonAt(geometry.Cell{Row: 1, Col: 1})
	if b.Label != "new" || b.Action != ActionLaunch {
		t.Errorf("occupant = %+v, want overwritten button", b)
	}
}

func TestApplyDuplicatePositionFailsBatch(t *testing.T) {
	page := Page{Name: "main"}

	_, err := page.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen},
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionOpen},
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionLaunch},
	})
	if err == nil {
		t.Fatal("Apply() with duplicate positions succeeded, want defect error")
	}
	if !errors.Is(err, errors.ErrCodeDuplicatePlacement) {
		t.Errorf("Apply() error = %v, want code %s", err, errors.ErrCodeDuplicatePlacement)
	}
}

func TestApplyCopyOnWrite(t *testing.T) {
	original, err := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen, Label: "keep", Config: map[string]string{"path": "/a"}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	next, err := original.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionLaunch, Label: "replaced"},
		{Position: geometry.Cell{Row: 0, Col: 1}, Action: ActionOpen, Label: "added"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// The receiver is untouched.
	if len(original.Buttons) != 1 {
		t.Fatalf("original len(Buttons) = %d, want 1", len(original.Buttons))
	}
	b, _ := original.ButtonAt(geometry.Cell{Row: 0, Col: 0})
	if b.Label != "keep" {
		t.Errorf("original occupant label = %q, want %q", b.Label, "keep")
	}

	// And shares no config map with the result.
	nb, _ := next.ButtonAt(geometry.Cell{Row: 0, Col: 0})
	if nb.Config != nil {
		nb.Config["path"] = "/mutated"
	}
	if b.Config["path"] != "/a" {
		t.Error("mutating the new page's config leaked into the original")
	}
}

func TestApplyTwiceOverwritesNotDuplicates(t *testing.T) {
	batch := []Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen, Label: "a"},
		{Position: geometry.Cell{Row: 1, Col: 2}, Action: ActionLaunch, Label: "b", Config: map[string]string{"exec": "/bin/b"}},
	}

	once, err := Page{Name: "main"}.Apply(batch)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	twice, err := once.Apply(batch)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}

	if len(twice.Buttons) != len(once.Buttons) {
		t.Fatalf("second apply len(Buttons) = %d, want %d", len(twice.Buttons), len(once.Buttons))
	}
	for i := range once.Buttons {
		a, b := once.Buttons[i], twice.Buttons[i]
		if a.Position != b.Position || a.Action != b.Action || a.Label != b.Label {
			t.Errorf("Buttons[%d]: first apply %+v, second apply %+v", i, a, b)
		}
	}
}

func TestRemoveButton(t *testing.T) {
	page, _ := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen},
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionOpen},
	})

	next, removed := page.RemoveButton(geometry.Cell{Row: 0, Col: 0})
	if !removed {
		t.Fatal("RemoveButton((0,0)) = false, want true")
	}
	if len(next.Buttons) != 1 || next.Occupied(geometry.Cell{Row: 0, Col: 0}) {
		t.Errorf("page after removal = %+v, want only (1,1) occupied", next.Buttons)
	}
	if len(page.Buttons) != 2 {
		t.Error("RemoveButton mutated the receiver")
	}

	_, removed = next.RemoveButton(geometry.Cell{Row: 3, Col: 3})
	if removed {
		t.Error("RemoveButton(empty cell) = true, want false")
	}
}

func TestMoveButton(t *testing.T) {
	page, _ := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen, Label: "a"},
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionOpen, Label: "b"},
	})
	id := page.Buttons[0].ID

	next, moved := page.MoveButton(geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 2, Col: 3})
	if !moved {
		t.Fatal("MoveButton to empty cell = false, want true")
	}
	b, ok := next.ButtonAt(geometry.Cell{Row: 2, Col: 3})
	if !ok || b.Label != "a" {
		t.Fatalf("button at destination = %+v, want label a", b)
	}
	if b.ID != id {
		t.Errorf("moved button ID = %q, want identity preserved %q", b.ID, id)
	}
	if next.Occupied(geometry.Cell{Row: 0, Col: 0}) {
		t.Error("source cell still occupied after move")
	}
	if !page.Occupied(geometry.Cell{Row: 0, Col: 0}) {
		t.Error("MoveButton mutated the receiver")
	}
}

func TestMoveButtonReplacesOccupant(t *testing.T) {
	page, _ := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen, Label: "a"},
		{Position: geometry.Cell{Row: 1, Col: 1}, Action: ActionOpen, Label: "b"},
	})

	next, moved := page.MoveButton(geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 1, Col: 1})
	if !moved {
		t.Fatal("MoveButton onto occupant = false, want true")
	}
	if len(next.Buttons) != 1 {
		t.Fatalf("page has %d buttons after replacing move, want 1", len(next.Buttons))
	}
	if b, _ := next.ButtonAt(geometry.Cell{Row: 1, Col: 1}); b.Label != "a" {
		t.Errorf("occupant = %q, want moved button a", b.Label)
	}
}

func TestMoveButtonNoOps(t *testing.T) {
	page, _ := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen},
	})

	if _, moved := page.MoveButton(geometry.Cell{Row: 2, Col: 2}, geometry.Cell{Row: 0, Col: 1}); moved {
		t.Error("MoveButton(empty source) = true, want false")
	}
	if _, moved := page.MoveButton(geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 0, Col: 0}); moved {
		t.Error("MoveButton(same cell) = true, want false")
	}
}

func TestPageValidate(t *testing.T) {
	valid, _ := Page{Name: "main"}.Apply([]Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionOpen},
	})
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	corrupt := Page{Buttons: []Button{
		{ID: "a", Position: geometry.Cell{Row: 0, Col: 0}},
		{ID: "b", Position: geometry.Cell{Row: 0, Col: 0}},
	}}
	err := corrupt.Validate()
	if !errors.Is(err, errors.ErrCodeDuplicatePlacement) {
		t.Errorf("Validate() error = %v, want code %s", err, errors.ErrCodeDuplicatePlacement)
	}
}

func TestProfilePages(t *testing.T) {
	p := NewProfile("default", 4, 6)

	if p.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", p.PageCount())
	}
	if _, err := p.PageAt(1); !errors.Is(err, errors.ErrCodePageNotFound) {
		t.Errorf("PageAt(1) error = %v, want code %s", err, errors.ErrCodePageNotFound)
	}

	p = p.AddPage("games")
	if p.PageCount() != 2 {
		t.Fatalf("PageCount() after AddPage = %d, want 2", p.PageCount())
	}

	page, err := p.PageAt(1)
	if err != nil {
		t.Fatalf("PageAt(1) error = %v", err)
	}
	next, err := page.Apply([]Placement{{Position: geometry.Cell{Row: 0, Col: 0}, Action: ActionLaunch}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	p2, err := p.ReplacePage(1, next)
	if err != nil {
		t.Fatalf("ReplacePage() error = %v", err)
	}
	if p2.ButtonCount() != 1 {
		t.Errorf("ButtonCount() = %d, want 1", p2.ButtonCount())
	}
	if p.ButtonCount() != 0 {
		t.Error("ReplacePage mutated the receiver")
	}

	p3, err := p2.RemovePage(1)
	if err != nil {
		t.Fatalf("RemovePage(1) error = %v", err)
	}
	if p3.PageCount() != 1 {
		t.Errorf("PageCount() after removal = %d, want 1", p3.PageCount())
	}
	if _, err := p3.RemovePage(0); !errors.Is(err, errors.ErrCodeInvalidPage) {
		t.Errorf("RemovePage(last) error = %v, want code %s", err, errors.ErrCodeInvalidPage)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(Profile) Profile
		wantErr bool
	}{
		{
			name:   "fresh profile",
			mutate: func(p Profile) Profile { return p },
		},
		{
			name: "bad name",
			mutate: func(p Profile) Profile {
				p.Name = "bad/name"
				return p
			},
			wantErr: true,
		},
		{
			name: "zero grid",
			mutate: func(p Profile) Profile {
				p.Rows = 0
				return p
			},
			wantErr: true,
		},
		{
			name: "no pages",
			mutate: func(p Profile) Profile {
				p.Pages = nil
				return p
			},
			wantErr: true,
		},
		{
			name: "button outside grid",
			mutate: func(p Profile) Profile {
				p.Pages[0].Buttons = []Button{{ID: "x", Position: geometry.Cell{Row: 9, Col: 0}}}
				return p
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.mutate(NewProfile("default", 4, 6))
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileFileRoundTrip(t *testing.T) {
	p := NewProfile("roundtrip", 4, 6)
	page, _ := p.PageAt(0)
	page, err := page.Apply([]Placement{
		{Position: geometry.Cell{Row: 1, Col: 2}, Action: ActionOpenURL, Label: "docs", Config: map[string]string{"url": "https://example.com"}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	p, _ = p.ReplacePage(0, page)

	path := filepath.Join(t.TempDir(), "roundtrip.json")
	if err := WriteProfileFile(p, path); err != nil {
		t.Fatalf("WriteProfileFile() error = %v", err)
	}

	back, err := ReadProfileFile(path)
	if err != nil {
		t.Fatalf("ReadProfileFile() error = %v", err)
	}

	if back.Name != p.Name || back.Rows != p.Rows || back.Cols != p.Cols {
		t.Errorf("round trip header = %s %dx%d, want %s %dx%d", back.Name, back.Rows, back.Cols, p.Name, p.Rows, p.Cols)
	}
	b, ok := back.Pages[0].ButtonAt(geometry.Cell{Row: 1, Col: 2})
	if !ok || b.Config["url"] != "https://example.com" {
		t.Errorf("round trip button = %+v/%v, want open-url with config", b, ok)
	}
}

func TestUnmarshalProfileRejectsCorruptTree(t *testing.T) {
	corrupt := []byte(`{
		"name": "bad",
		"rows": 2,
		"cols": 2,
		"pages": [{
			"buttons": [
				{"id": "a", "position": {"row": 0, "col": 0}, "action": "open"},
				{"id": "b", "position": {"row": 0, "col": 0}, "action": "open"}
			]
		}]
	}`)

	if _, err := UnmarshalProfile(corrupt); err == nil {
		t.Error("UnmarshalProfile(duplicate positions) succeeded, want error")
	}

	if _, err := UnmarshalProfile([]byte("not json")); err == nil {
		t.Error("UnmarshalProfile(garbage) succeeded, want error")
	}
}
