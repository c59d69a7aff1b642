package deck

import (
	"github.com/google/uuid"

	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
)

// =============================================================================
// Placement
// =============================================================================

// Placement is the ephemeral unit handed to [Page.Apply]: one resolved file
// drop, produced by pkg/ingest and not retained after the mutation. The
// button ID is minted at apply time.
type Placement struct {
	Position geometry.Cell     `json:"position"`
	Action   string            `json:"action"`
	Label    string            `json:"label,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
}

// =============================================================================
// Apply
// =============================================================================

// Apply builds a new page with every placement inserted, overwriting any
// existing occupant at the same position. The receiver is never modified.
//
// Placements arrive deduplicated: the ingestion pipeline resolves position
// collisions across the whole batch before flushing it here. Two placements
// at the same position therefore mean the upstream collision resolution was
// bypassed, and the whole batch fails as a defect instead of silently
// overwriting half of it. Applying the same batch twice overwrites rather
// than duplicates: the second pass lands on the same positions.
func (p Page) Apply(placements []Placement) (Page, error) {
	seen := make(map[geometry.Cell]bool, len(placements))
	for _, pl := range placements {
		if seen[pl.Position] {
			return Page{}, errors.New(errors.ErrCodeDuplicatePlacement, "batch places %s twice", pl.Position)
		}
		seen[pl.Position] = true
	}

	out := p.Clone()
	for _, pl := range placements {
		b := Button{
			ID:       uuid.NewString(),
			Position: pl.Position,
			Action:   pl.Action,
			Label:    pl.Label,
			Icon:     pl.Icon,
		}
		if pl.Config != nil {
			b.Config = make(map[string]string, len(pl.Config))
			for k, v := range pl.Config {
				b.Config[k] = v
			}
		}

		replaced := false
		for i := range out.Buttons {
			if out.Buttons[i].Position == pl.Position {
				out.Buttons[i] = b
				replaced = true
				break
			}
		}
		if !replaced {
			out.Buttons = append(out.Buttons, b)
		}
	}

	sortButtons(out.Buttons)
	return out, nil
}
