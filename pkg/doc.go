// Package pkg provides the core libraries for the Griddock launcher.
//
// # Overview
//
// Griddock turns drag-and-dropped files and URLs into launcher buttons on a
// paged grid. The pkg directory is organized into four main areas:
//
//  1. Interaction ([geometry], [drag]) - pointer math and drag lifecycle
//  2. Ingestion ([ingest], [icons]) - classify drops, assign cells, resolve icons
//  3. Configuration ([deck], [store], [settings]) - the profile tree and its persistence
//  4. Plumbing ([errors], [httputil], [observability], [buildinfo]) - shared infrastructure
//
// # Architecture
//
// The typical data flow through a drop:
//
//	Native drop event (file paths + pointer position)
//	         ↓
//	    [drag] package (interaction phases, drop snapshot + generation)
//	         ↓
//	    [ingest] package (classify → assign cells → resolve icons)
//	         ↓
//	    [deck] package (apply buffered placements to the profile)
//	         ↓
//	    [store] package (commit the replacement profile)
//
// Cell assignment is synchronous and icon extraction is concurrent: where a
// file lands is fixed the moment the batch starts, and icon latency can only
// ever delay artwork, never move a button.
//
// # Quick Start
//
// Ingest one drop and commit the result:
//
//	import (
//	    "context"
//	    "github.com/griddock/griddock/pkg/drag"
//	    "github.com/griddock/griddock/pkg/icons"
//	    "github.com/griddock/griddock/pkg/ingest"
//	)
//
//	// 1. Track the drag and snapshot it at the drop
//	tracker := drag.NewTracker()
//	tracker.Enter(pos, layout)
//	snap, _ := tracker.Drop()
//
//	// 2. Run the batch
//	ing := ingest.NewIngestor(icons.NewResolver(cache), logger)
//	result, _ := ing.Batch(context.Background(), ingest.BatchRequest{
//	    Files:    files,
//	    Snapshot: snap,
//	    Layout:   layout,
//	    Page:     page,
//	})
//
//	// 3. Apply the placements and settle the tracker
//	next, _ := page.Apply(result.Placements)
//	profile, _ = profile.ReplacePage(pageIndex, next)
//	_ = st.Set(context.Background(), profile)
//	tracker.Settle(result.Generation)
//
// # Main Packages
//
// ## Interaction
//
// [geometry] - Grid layout math. Resolves pointer coordinates to cells with
// no dead zones: gaps belong to the origin-side cell and the far edge is
// closed.
//
// [drag] - The drag state machine for one overlay session. Tracks
// Idle/Entered/Hovering/Processing, snapshots pointer and hover cell at the
// drop, and stamps every drop with a monotonic generation so superseded or
// abandoned batches can never settle.
//
// ## Ingestion
//
// [ingest] - The drop pipeline. Classifies each target (URL scheme,
// directory, extension sets, executable mode bit), assigns cells in drop
// order, fans out icon extraction, and buffers placements for a single
// apply. Per-file failures skip the file, never the batch.
//
// [icons] - Icon resolution. Desktop-entry parsing with theme lookup,
// per-host favicon fetching with retry and downscaling, and a
// content-addressed byte cache with TTL. Extraction failure degrades to the
// class default icon.
//
// ## Configuration
//
// [deck] - The durable profile tree (Profile → Page → Button) with
// copy-on-write mutation, JSON import/export, and DOT/SVG/PNG rendering for
// inspection. All placement mutation funnels through [deck.Page.Apply].
//
// [store] - Profile persistence behind one interface: memory, file, SQLite,
// Redis, and MongoDB backends, opened from configuration and instrumented
// through observability hooks.
//
// [settings] - TOML configuration: grid dimensions, store backend, icon
// cache tuning, server address.
//
// ## Plumbing
//
// [errors] - Machine-readable error codes with wrapping and user-facing
// messages.
//
// [httputil] - Bounded HTTP fetch with retryable-error classification and
// exponential backoff, used by the favicon extractor.
//
// [observability] - Hook interfaces (ingest, store, cache) with no-op
// defaults and a global registry, keeping the core free of any concrete
// metrics dependency.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/ingest/...    # Specific package
//	go test -run Example        # Examples only
//
// [geometry]: https://pkg.go.dev/github.com/griddock/griddock/pkg/geometry
// [drag]: https://pkg.go.dev/github.com/griddock/griddock/pkg/drag
// [ingest]: https://pkg.go.dev/github.com/griddock/griddock/pkg/ingest
// [icons]: https://pkg.go.dev/github.com/griddock/griddock/pkg/icons
// [deck]: https://pkg.go.dev/github.com/griddock/griddock/pkg/deck
// [store]: https://pkg.go.dev/github.com/griddock/griddock/pkg/store
// [settings]: https://pkg.go.dev/github.com/griddock/griddock/pkg/settings
// [errors]: https://pkg.go.dev/github.com/griddock/griddock/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/griddock/griddock/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/griddock/griddock/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/griddock/griddock/pkg/buildinfo
// [deck.Page.Apply]: https://pkg.go.dev/github.com/griddock/griddock/pkg/deck#Page.Apply
package pkg
