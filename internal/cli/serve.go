package cli

import (
	"github.com/spf13/cobra"

	"github.com/griddock/griddock/internal/server"
)

// serveCommand creates the serve command for the remote drop API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the remote drop API",
		Long: `Serve the remote drop API.

Exposes profiles and pages over HTTP and accepts drop batches from remote
clients: POST /api/v1/profiles/{name}/pages/{page}/drop with a JSON body
listing files and an optional pointer. Placement follows the same rules as
the overlay.`,
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

			if addr == "" {
				addr = s.Server.Addr
			}

			srv := server.New(st, ing, s.Layout(), c.Logger)
			c.Logger.Infof("Listening on http://%s", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the icon cache")

	return cmd
}
