// Package moistureboard provides an embeddable live dashboard for a
// paginated soil-moisture telemetry API.
//
// The package is built around a polling [Monitor]: it owns the page and
// limit cursor, fetches the current page on start and whenever the cursor
// changes, refreshes it in the background on a fixed interval, and keeps
// only the outcome of the most recently issued request. Summary statistics
// are never stored; [Aggregate] derives them from the current readings on
// demand.
//
// # Quick Start
//
//	ep, _ := moistureboard.NewEndpoint("https://sensors.example.com/api/readings")
//	board, _ := moistureboard.New(moistureboard.WithEndpoint(ep))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	board.Start(ctx) // blocks until ctx is cancelled
//
// # Embedding the Monitor
//
// Applications that render readings themselves can drive a [Monitor]
// directly:
//
//	m, _ := moistureboard.NewMonitor(
//	    moistureboard.WithEndpoint(ep),
//	    moistureboard.WithPollInterval(10*time.Second),
//	    moistureboard.WithInitialLimit(50),
//	)
//	m.Start(ctx)
//	defer m.Stop()
//
//	for st := range m.Updates() {
//	    stats := st.Stats()
//	    fmt.Println(st.Phase(), len(st.Data), stats.Average)
//	}
//
// Changing the limit does not move the page cursor. Callers that want to
// return to the first page after resizing call SetPage(1) themselves, as
// the built-in dashboard and terminal view do.
//
// # Errors
//
// Fetch failures never escape the Monitor; they are recorded in
// [State].Error while the last good readings stay visible. Use [errors.As]
// with [*HTTPError] or [*ShapeError] to tell them apart. Cancellation is not
// a failure and never reaches State.Error.
//
// # Architecture
//
//   - internal/telemetry: reading and pagination types, timestamp parsing
//   - internal/poller: HTTP client, cancellation tokens, repeater, coordinator
//   - internal/store: latest dashboard snapshot with pub/sub
//   - internal/server: REST control API and Server-Sent Events
//   - internal/tui: terminal view used by the watch command
//   - dashboard: embedded web UI assets
package moistureboard
