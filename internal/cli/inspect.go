package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/griddock/griddock/pkg/deck"
)

// inspectCommand creates the inspect command for rendering the profile tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "inspect [profile]",
		Short: "Render the profile tree with Graphviz",
		Long: `Render the profile tree with Graphviz.

The profile, its pages, and every button are laid out as a tree: useful for
checking where a drop batch landed without opening the overlay. DOT output
goes to stdout by default; svg and png always write a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultProfile
			if len(args) == 1 {
				name = args[0]
			}
			format = strings.ToLower(format)
			if err := validateInspectFormat(format); err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), name, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for dot, <profile>.<format> otherwise)")

	return cmd
}

// runInspect loads the profile and renders it in the requested format.
func (c *CLI) runInspect(ctx context.Context, name, format, output string) error {
	s, err := c.loadSettings()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, s)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.Get(ctx, name)
	if err != nil {
		return err
	}

	dot := deck.ToDOT(p)
	if format == "dot" {
		if output == "" || output == "-" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()

	var data []byte
	switch format {
	case "svg":
		data, err = deck.RenderSVG(ctx, dot)
	case "png":
		data, err = deck.RenderPNG(ctx, dot)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", format, err)
	}
	spinner.Stop()

	if output == "" {
		output = name + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	printSuccess("Rendered %s", name)
	printFile(output)
	return nil
}

// validateInspectFormat checks the --format flag.
func validateInspectFormat(format string) error {
	switch format {
	case "dot", "svg", "png":
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", format)
}
