package deck

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// =============================================================================
// Profile Tree Visualization
// =============================================================================

// ToDOT converts a profile to Graphviz DOT format: the profile as root, one
// node per page, one node per button labeled with its position and action.
// Useful for debugging how a drop batch landed. Render the result with
// [RenderSVG] or [RenderPNG].
func ToDOT(p Profile) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	root := fmt.Sprintf("%s (%dx%d)", p.Name, p.Rows, p.Cols)
	fmt.Fprintf(&buf, "  %q [fillcolor=lightblue];\n", root)

	for i, page := range p.Pages {
		pageID := fmt.Sprintf("page %d", i)
		if page.Name != "" {
			pageID = fmt.Sprintf("page %d: %s", i, page.Name)
		}
		fmt.Fprintf(&buf, "  %q [fillcolor=lightgrey];\n", pageID)
		fmt.Fprintf(&buf, "  %q -> %q;\n", root, pageID)

		for _, b := range page.Buttons {
			label := b.Label
			if label == "" {
				label = b.ID
			}
			buttonID := fmt.Sprintf("%s\n%s %s", label, b.Position, b.Action)
			fmt.Fprintf(&buf, "  %q;\n", buttonID)
			fmt.Fprintf(&buf, "  %q -> %q;\n", pageID, buttonID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT string to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT string to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
