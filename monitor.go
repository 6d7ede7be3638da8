package moistureboard

import (
	"context"
	"log/slog"

	"github.com/jpalmerr/moistureboard/internal/poller"
)

// Monitor polls a paginated telemetry endpoint and tracks the current page
// of readings.
//
// A Monitor fetches on [Monitor.Start], on every page or limit change and
// on each poll interval. Issuing a fetch cancels the one in flight, and only
// the most recently issued fetch can change the [State]. Failures are
// recorded in State.Error and keep the previous readings.
//
// All methods are safe for concurrent use. Stop must be called to release
// the monitor's goroutines, even if Start was never called.
type Monitor struct {
	coord    *poller.Coordinator
	endpoint Endpoint
	logger   *slog.Logger
	updates  chan State
	done     chan struct{}
}

// NewMonitor creates a [Monitor]. Nothing is fetched until [Monitor.Start].
//
// Example:
//
//	m, err := moistureboard.NewMonitor(
//	    moistureboard.WithEndpoint(ep),
//	    moistureboard.WithInitialLimit(50),
//	)
func NewMonitor(opts ...Option) (*Monitor, error) {
	cfg := defaultBoardConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return newMonitor(cfg)
}

func newMonitor(cfg *boardConfig) (*Monitor, error) {
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	endpoint := Endpoint{url: DefaultEndpointURL}
	if cfg.endpoint != nil {
		endpoint = *cfg.endpoint
	}

	fetcher := poller.NewClient(endpoint.url, endpoint.headers, endpoint.timeout)

	coord := poller.NewCoordinator(fetcher, poller.Config{
		InitialPage:  cfg.initialPage,
		InitialLimit: cfg.initialLimit,
		PollInterval: cfg.pollInterval,
		Enabled:      cfg.enabled,
	}, logger.With("endpoint", endpoint.url))

	m := &Monitor{
		coord:    coord,
		endpoint: endpoint,
		logger:   logger,
		updates:  make(chan State, 1),
		done:     make(chan struct{}),
	}
	go m.forward()
	return m, nil
}

// forward converts coordinator snapshots, keeping only the newest unread one.
func (m *Monitor) forward() {
	defer close(m.done)
	defer close(m.updates)

	for ps := range m.coord.Updates() {
		st := fromPollerState(ps)
		select {
		case <-m.updates:
		default:
		}
		m.updates <- st
	}
}

// Endpoint returns the endpoint being polled.
func (m *Monitor) Endpoint() Endpoint {
	return m.endpoint
}

// Start issues the initial fetch and starts background refresh, if enabled.
// Cancelling ctx stops the monitor. Calls after the first are no-ops.
func (m *Monitor) Start(ctx context.Context) {
	m.coord.Start(ctx)
}

// Stop cancels the in-flight fetch, stops background refresh and closes
// [Monitor.Updates]. Safe to call multiple times.
func (m *Monitor) Stop() {
	m.coord.Stop()
	<-m.done
}

// State returns the current snapshot.
func (m *Monitor) State() State {
	return fromPollerState(m.coord.State())
}

// Updates returns a channel delivering the latest [State] after every
// change. Unread states are replaced by newer ones, so readers never block
// the monitor. The channel is closed by [Monitor.Stop].
func (m *Monitor) Updates() <-chan State {
	return m.updates
}

// SetPage moves to the given page. Fractions truncate; NaN, infinities
// and values below 1 become 1. A changed page triggers a load fetch.
func (m *Monitor) SetPage(page float64) {
	m.coord.SetPage(page)
}

// UpdatePage sets the page to fn(current), with the same rules as SetPage.
// fn must not call back into the Monitor.
func (m *Monitor) UpdatePage(fn func(current int) float64) {
	m.coord.UpdatePage(fn)
}

// SetLimit changes the page size. Fractions truncate; NaN, infinities and
// values below 1 become 20. The page cursor is not reset.
func (m *Monitor) SetLimit(limit float64) {
	m.coord.SetLimit(limit)
}

// UpdateLimit sets the page size to fn(current), with the same rules as
// SetLimit. fn must not call back into the Monitor.
func (m *Monitor) UpdateLimit(fn func(current int) float64) {
	m.coord.UpdateLimit(fn)
}

// Refetch refreshes the current page and waits for the result. It returns
// nil when the fetch fails, is cancelled or superseded, or polling is
// disabled; failures are visible in [State].Error instead.
func (m *Monitor) Refetch(ctx context.Context) *Page {
	return m.coord.Refetch(ctx)
}

// SetEnabled turns polling on or off. Disabling cancels the in-flight fetch
// and stops background refresh; enabling fetches the current page again.
func (m *Monitor) SetEnabled(enabled bool) {
	m.coord.SetEnabled(enabled)
}
