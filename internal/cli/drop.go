package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/griddock/griddock/pkg/drag"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/icons"
	"github.com/griddock/griddock/pkg/ingest"
	"github.com/griddock/griddock/pkg/observability"
)

// dropCommand creates the drop command for headless ingestion.
func (c *CLI) dropCommand() *cobra.Command {
	var (
		profileName string
		pageIdx     int
		at          string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "drop <file|url>...",
		Short: "Place files onto the grid without the overlay",
		Long: `Place files onto the grid without the overlay.

Each argument becomes a button on the target page, assigned to cells in
argument order. Without --at, placement scans for free cells from the
top-left; with --at x,y the files land at the cell under that coordinate
(in the configured grid's pixel space), pushing onto following cells when
it is contested.

Icons resolve concurrently while the placements are computed; a file whose
icon cannot be extracted still places with its class default.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pointer := geometry.Point{X: -1, Y: -1}
			if at != "" {
				p, err := parseAt(at)
				if err != nil {
					return err
				}
				pointer = p
			}
			return c.runDrop(cmd.Context(), args, dropParams{
				profile: profileName,
				page:    pageIdx,
				pointer: pointer,
				noCache: noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", defaultProfile, "profile to place onto")
	cmd.Flags().IntVar(&pageIdx, "page", 0, "page index to place onto")
	cmd.Flags().StringVar(&at, "at", "", "drop coordinate as x,y (default: first free cell)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the icon cache")

	return cmd
}

// dropParams collects the resolved drop flags.
type dropParams struct {
	profile string
	page    int
	pointer geometry.Point
	noCache bool
}

// runDrop loads the target page, runs the batch, and commits the result.
func (c *CLI) runDrop(ctx context.Context, files []string, params dropParams) error {
	s, err := c.loadSettings()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, s)
	if err != nil {
		return err
	}
	defer st.Close()

	ing, err := c.newIngestor(s, params.noCache)
	if err != nil {
		return err
	}

	profile, err := loadOrCreateProfile(ctx, st, s, params.profile)
	if err != nil {
		return fmt.Errorf("load profile %s: %w", params.profile, err)
	}
	page, err := profile.PageAt(params.page)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d file(s)...", len(files)))
	observability.SetIngestHooks(&spinnerHooks{spinner: spinner})
	defer observability.Reset()
	spinner.Start()

	// Grid dimensions follow the profile; the config contributes the cell
	// pixel geometry --at coordinates are resolved against.
	layout := s.Layout()
	layout.Rows, layout.Cols = profile.Rows, profile.Cols

	result, err := ing.Batch(ctx, ingest.BatchRequest{
		Files:    files,
		Snapshot: drag.Snapshot{Pointer: params.pointer},
		Layout:   layout,
		Page:     page,
	})
	if err != nil {
		spinner.StopWithError("Drop failed")
		return err
	}
	spinner.Stop()

	if len(result.Placements) > 0 {
		next, err := page.Apply(result.Placements)
		if err != nil {
			return err
		}
		profile, err = profile.ReplacePage(params.page, next)
		if err != nil {
			return err
		}
		if err := st.Set(ctx, profile); err != nil {
			return fmt.Errorf("commit profile: %w", err)
		}
	}

	for _, o := range result.Outcomes {
		printOutcome(o)
	}
	printProfileStats(profile.PageCount(), profile.ButtonCount(), s.Store.Backend)
	prog.done(result.Summary())

	if result.Stats.Placed == 0 {
		return fmt.Errorf("no files could be placed")
	}
	printNextStep("Inspect the profile", fmt.Sprintf("%s profiles show %s", appName, profile.Name))
	return nil
}

// printOutcome prints one per-file drop result line.
func printOutcome(o ingest.Outcome) {
	switch o.Status {
	case ingest.StatusPlaced, ingest.StatusRelocated:
		tag := styleFallback.Render(iconFallback)
		if o.Icon.Source == icons.SourceExtracted {
			tag = styleExtracted.Render(iconExtracted)
		}
		note := ""
		if o.Status == ingest.StatusRelocated {
			note = StyleDim.Render(" (moved)")
		}
		printSuccess("%s %s %s %s %s%s", o.Path, iconArrow, o.Cell, StyleDim.Render(o.Action), tag, note)
	default:
		msg := o.Status
		if o.Err != nil {
			msg = errors.UserMessage(o.Err)
		}
		printWarning("%s: %s", o.Path, msg)
	}
}

// parseAt parses the --at flag value "x,y" into a point.
func parseAt(s string) (geometry.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("invalid --at value %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid --at x coordinate %q", parts[0])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid --at y coordinate %q", parts[1])
	}
	return geometry.Point{X: x, Y: y}, nil
}

// spinnerHooks drives the drop spinner from ingestion events, showing
// per-icon progress while extractions run.
type spinnerHooks struct {
	observability.NoopIngestHooks
	spinner *Spinner
	started atomic.Int32
	done    atomic.Int32
}

func (h *spinnerHooks) OnExtractionStart(_ context.Context, _, _ string) {
	h.started.Add(1)
}

func (h *spinnerHooks) OnExtractionComplete(_ context.Context, _, _ string, _ time.Duration, _ error) {
	done := h.done.Add(1)
	h.spinner.SetMessage(fmt.Sprintf("Resolving icons (%d/%d)...", done, h.started.Load()))
}
