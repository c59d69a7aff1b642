package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/store"
)

// profilesCommand creates the profiles management command.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Short:   "Manage launcher profiles",
		Aliases: []string{"profile"},
	}

	cmd.AddCommand(c.profilesListCommand())
	cmd.AddCommand(c.profilesShowCommand())
	cmd.AddCommand(c.profilesCreateCommand())
	cmd.AddCommand(c.profilesDeleteCommand())
	cmd.AddCommand(c.profilesExportCommand())
	cmd.AddCommand(c.profilesImportCommand())

	return cmd
}

// profilesListCommand creates the "profiles list" subcommand.
func (c *CLI) profilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No profiles yet")
				printNextStep("Create one", appName+" profiles create default")
				return nil
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p, err := st.Get(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("load profile %s: %w", name, err)
				}
				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("%dx%d", p.Rows, p.Cols),
					fmt.Sprintf("%d", p.PageCount()),
					fmt.Sprintf("%d", p.ButtonCount()),
					formatRelativeTime(p.UpdatedAt),
				})
			}

			fmt.Println(profileTable([]string{"Name", "Grid", "Pages", "Buttons", "Updated"}, rows))
			return nil
		},
	}
}

// profilesShowCommand creates the "profiles show" subcommand.
func (c *CLI) profilesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one profile's pages and buttons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(p.Name))
			printKeyValue("Grid", fmt.Sprintf("%dx%d", p.Rows, p.Cols))
			printKeyValue("Created", p.CreatedAt.Format(time.RFC3339))
			printKeyValue("Updated", p.UpdatedAt.Format(time.RFC3339))
			printProfileStats(p.PageCount(), p.ButtonCount(), s.Store.Backend)

			for i, page := range p.Pages {
				printNewline()
				title := page.Name
				if title == "" {
					title = fmt.Sprintf("page %d", i+1)
				}
				fmt.Println(StyleHighlight.Render(title))
				if len(page.Buttons) == 0 {
					printDetail("empty")
					continue
				}
				rows := make([][]string, 0, len(page.Buttons))
				for _, b := range page.Buttons {
					rows = append(rows, []string{
						b.Position.String(),
						b.Action,
						b.Label,
						buttonTarget(b),
					})
				}
				fmt.Println(profileTable([]string{"Cell", "Action", "Label", "Target"}, rows))
			}
			return nil
		},
	}
}

// profilesCreateCommand creates the "profiles create" subcommand.
func (c *CLI) profilesCreateCommand() *cobra.Command {
	var rows, cols int

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			name := args[0]
			if _, err := st.Get(cmd.Context(), name); err == nil {
				return fmt.Errorf("profile %s already exists", name)
			} else if !stderrors.Is(err, store.ErrNotFound) {
				return err
			}

			if rows == 0 {
				rows = s.Grid.Rows
			}
			if cols == 0 {
				cols = s.Grid.Cols
			}
			p := deck.NewProfile(name, rows, cols)
			if err := st.Set(cmd.Context(), p); err != nil {
				return err
			}

			printSuccess("Created profile %s (%dx%d)", name, rows, cols)
			printNextStep("Place a file", fmt.Sprintf("%s drop ~/some-file --profile %s", appName, name))
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "grid rows (default from config)")
	cmd.Flags().IntVar(&cols, "cols", 0, "grid columns (default from config)")

	return cmd
}

// profilesDeleteCommand creates the "profiles delete" subcommand.
func (c *CLI) profilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			name := args[0]
			if _, err := st.Get(cmd.Context(), name); err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), name); err != nil {
				return err
			}
			printSuccess("Deleted profile %s", name)
			return nil
		},
	}
}

// profilesExportCommand creates the "profiles export" subcommand.
func (c *CLI) profilesExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "-" {
				return deck.WriteProfile(p, os.Stdout)
			}
			if output == "" {
				output = p.Name + ".json"
			}
			if err := deck.WriteProfileFile(p, output); err != nil {
				return err
			}
			printSuccess("Exported %s", p.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json, - for stdout)")

	return cmd
}

// profilesImportCommand creates the "profiles import" subcommand.
func (c *CLI) profilesImportCommand() *cobra.Command {
	var rename string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a profile from JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := deck.ReadProfileFile(args[0])
			if err != nil {
				return err
			}
			if rename != "" {
				p.Name = rename
			}
			if err := st.Set(cmd.Context(), p); err != nil {
				return err
			}

			printSuccess("Imported profile %s", p.Name)
			printProfileStats(p.PageCount(), p.ButtonCount(), s.Store.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&rename, "name", "", "store under a different name")

	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// profileTable renders rows under headers in the house table style.
func profileTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// buttonTarget extracts the launch target from a button's config for
// display.
func buttonTarget(b deck.Button) string {
	for _, key := range []string{"path", "url", "exec", "entry", "cmd"} {
		if v, ok := b.Config[key]; ok {
			return v
		}
	}
	return ""
}

// formatRelativeTime renders t as a short "ago" string for table columns.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
