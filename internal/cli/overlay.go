package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// overlayCommand creates the overlay command for running the interactive grid.
func (c *CLI) overlayCommand() *cobra.Command {
	var (
		profileName string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Run the interactive launcher grid",
		Long: `Run the interactive launcher grid.

The overlay shows the profile's button grid full-screen. Dropping files onto
the terminal (delivered as a paste by the emulator) places them as buttons:
the hovered cell wins, occupied cells push the new button to the next free
cell in row-major order, and icons resolve in the background while the grid
stays responsive. Press a button and release over another cell to move it.

Keys: [ and ] switch pages, n adds a page, x deletes the hovered button,
r reloads the profile from the store, q quits.`,
		Args: cobra.NoArgs,
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

			ing, err := c.newIngestor(s, noCache)
			if err != nil {
				return err
			}
			profile, err := loadOrCreateProfile(cmd.Context(), st, s, profileName)
			if err != nil {
				return fmt.Errorf("load profile %s: %w", profileName, err)
			}

			model := NewOverlayModel(st, ing, profile)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", defaultProfile, "profile to show")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the icon cache")

	return cmd
}
