package ingest

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/icons"
	"github.com/griddock/griddock/pkg/observability"
)

// Ingestor runs drop batches. It is stateless between batches: the same
// Ingestor serves the overlay, the drop command, and the API concurrently,
// each batch working from its own request snapshot.
type Ingestor struct {
	// Extractor resolves icons for executable-like drops. A nil extractor
	// disables extraction and every file takes its class default.
	Extractor icons.Extractor

	// ExtractTimeout bounds each extraction when positive. The pipeline
	// itself imposes no deadline; a timeout configured here counts as an
	// extraction failure and degrades to the default icon like any other.
	ExtractTimeout time.Duration

	Logger *log.Logger
}

// NewIngestor creates an ingestor using the given extractor.
// If logger is nil, the default logger is used.
func NewIngestor(extractor icons.Extractor, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingestor{Extractor: extractor, Logger: logger}
}

// iconResult carries one finished extraction back to the batch goroutine.
type iconResult struct {
	index int
	icon  icons.Icon
	err   error
}

// Batch ingests one drop. Cell assignment runs synchronously in drop order
// first; icon extractions then run concurrently and are awaited
// independently; finally all placements are buffered into the result for a
// single apply.
//
// The returned error is nil even when individual files were skipped —
// per-file trouble lives in the outcomes. A non-nil error means the batch
// as a whole did not run: invalid request, or ctx cancelled while icon
// extractions were outstanding. On cancellation nothing is returned to
// apply, and late extraction results are discarded as their goroutines
// drain into the buffered channel.
func (ing *Ingestor) Batch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	start := time.Now()
	observability.Ingest().OnBatchStart(ctx, batchID, len(req.Files))

	result := &BatchResult{
		BatchID:    batchID,
		Generation: req.Snapshot.Generation,
	}
	result.Stats.Files = len(req.Files)

	// Phase 1: assign cells, synchronously, in drop order. After this loop
	// every placement's position is fixed; extraction latency can no longer
	// influence where anything lands.
	assignStart := time.Now()
	outcomes := make([]Outcome, len(req.Files))
	classes := make([]Classification, len(req.Files))

	valid := make([]string, 0, len(req.Files))
	validIdx := make([]int, 0, len(req.Files))
	for i, path := range req.Files {
		outcomes[i] = Outcome{Path: path}
		if err := errors.ValidateDropPath(path); err != nil {
			outcomes[i].Status = StatusSkippedInvalid
			outcomes[i].Err = err
			continue
		}
		valid = append(valid, path)
		validIdx = append(validIdx, i)
	}

	for k, a := range assignCells(req, valid) {
		i := validIdx[k]
		if !a.ok {
			outcomes[i].Status = StatusSkippedFull
			outcomes[i].Err = errors.New(errors.ErrCodeGridFull, "no free cell for %s", a.path)
			continue
		}

		cell := a.cell
		outcomes[i].Cell = &cell
		outcomes[i].Status = StatusPlaced
		if a.relocated {
			outcomes[i].Status = StatusRelocated
		}

		classes[i] = Classify(a.path)
		outcomes[i].Action = classes[i].Action
		ing.Logger.Debug("assigned cell",
			"batch", batchID,
			"path", a.path,
			"cell", cell,
			"action", classes[i].Action,
			"relocated", a.relocated)
	}
	result.Stats.AssignTime = time.Since(assignStart)

	// Phase 2: resolve icons. Extractable classes get one goroutine each;
	// the rest take their class default without suspending.
	iconStart := time.Now()
	var pending []int
	for i, o := range outcomes {
		if !o.Placed() {
			continue
		}
		if classes[i].extractable() && ing.Extractor != nil {
			pending = append(pending, i)
			continue
		}
		outcomes[i].Icon = icons.Default(classes[i].Class)
	}

	// The channel buffers every pending result so extraction goroutines
	// finish even when the batch is cancelled underneath them.
	ch := make(chan iconResult, len(pending))
	for _, i := range pending {
		go ing.extract(ctx, batchID, i, outcomes[i].Path, ch)
	}
	for range pending {
		select {
		case <-ctx.Done():
			observability.Ingest().OnBatchComplete(ctx, batchID, 0, 0, time.Since(start), ctx.Err())
			return nil, ctx.Err()
		case r := <-ch:
			if r.err != nil {
				ing.Logger.Debug("extraction failed, substituting default icon",
					"batch", batchID,
					"target", outcomes[r.index].Path,
					"error", r.err)
				outcomes[r.index].Icon = icons.Default(classes[r.index].Class)
				continue
			}
			outcomes[r.index].Icon = r.icon
		}
	}
	// The select can drain the last result and the cancellation in either
	// order; a cancelled batch is discarded regardless.
	if err := ctx.Err(); err != nil {
		observability.Ingest().OnBatchComplete(ctx, batchID, 0, 0, time.Since(start), err)
		return nil, err
	}
	result.Stats.IconTime = time.Since(iconStart)

	// Phase 3: buffer placements for a single apply, still in drop order.
	for i, o := range outcomes {
		observability.Ingest().OnFileOutcome(ctx, batchID, o.Path, o.Status)
		switch o.Status {
		case StatusPlaced:
			result.Stats.Placed++
		case StatusRelocated:
			result.Stats.Relocated++
		default:
			result.Stats.Skipped++
			continue
		}
		result.Placements = append(result.Placements, deck.Placement{
			Position: *o.Cell,
			Action:   o.Action,
			Label:    classes[i].Label,
			Icon:     o.Icon.Ref,
			Config:   classes[i].Config,
		})
	}
	result.Outcomes = outcomes

	placed := result.Stats.Placed + result.Stats.Relocated
	observability.Ingest().OnBatchComplete(ctx, batchID, placed, result.Stats.Skipped, time.Since(start), nil)
	ing.Logger.Info("ingested drop batch",
		"batch", batchID,
		"files", result.Stats.Files,
		"placed", placed,
		"skipped", result.Stats.Skipped,
		"duration", time.Since(start))

	return result, nil
}

// extract runs one icon extraction and reports into ch. The per-extraction
// timeout, when configured, applies here so one stuck extractor cannot hold
// the whole batch open.
func (ing *Ingestor) extract(ctx context.Context, batchID string, index int, target string, ch chan<- iconResult) {
	if ing.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ing.ExtractTimeout)
		defer cancel()
	}

	start := time.Now()
	observability.Ingest().OnExtractionStart(ctx, batchID, target)
	icon, err := ing.Extractor.Extract(ctx, target)
	observability.Ingest().OnExtractionComplete(ctx, batchID, target, time.Since(start), err)

	ch <- iconResult{index: index, icon: icon, err: err}
}
