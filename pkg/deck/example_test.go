package deck_test

import (
	"fmt"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/geometry"
)

func ExamplePage_Apply() {
	page := deck.Page{Name: "main"}

	// A settled drop batch: positions were resolved upstream.
	next, err := page.Apply([]deck.Placement{
		{Position: geometry.Cell{Row: 0, Col: 1}, Action: deck.ActionOpen, Label: "notes.txt"},
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: deck.ActionLaunch, Label: "editor"},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, b := range next.Buttons {
		fmt.Printf("%s %s %s\n", b.Position, b.Action, b.Label)
	}
	fmt.Println("original still empty:", len(page.Buttons) == 0)
	// Output:
	// (0,0) launch editor
	// (0,1) open notes.txt
	// original still empty: true
}

func ExampleToDOT() {
	profile := deck.NewProfile("demo", 2, 2)
	page, _ := profile.PageAt(0)
	page, _ = page.Apply([]deck.Placement{
		{Position: geometry.Cell{Row: 0, Col: 0}, Action: deck.ActionLaunch, Label: "editor"},
	})
	profile, _ = profile.ReplacePage(0, page)

	fmt.Print(deck.ToDOT(profile))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//
	//   "demo (2x2)" [fillcolor=lightblue];
	//   "page 0: main" [fillcolor=lightgrey];
	//   "demo (2x2)" -> "page 0: main";
	//   "editor\n(0,0) launch";
	//   "page 0: main" -> "editor\n(0,0) launch";
	// }
}
