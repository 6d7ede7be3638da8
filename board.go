package moistureboard

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/moistureboard/dashboard"
	"github.com/jpalmerr/moistureboard/internal/server"
	"github.com/jpalmerr/moistureboard/internal/store"
)

// Board serves a live dashboard for one telemetry endpoint.
//
// Board wires a [Monitor] to an in-memory snapshot store and an HTTP server
// exposing the dashboard, a JSON state endpoint, a Server-Sent Events stream
// and the page/limit/refresh controls. It is created with [New] and run
// with [Board.Start].
//
// The typical lifecycle is:
//
//	board, err := moistureboard.New(moistureboard.WithEndpoint(ep))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	board.Start(ctx) // blocks until context cancelled
type Board struct {
	title          string
	port           int
	logger         *slog.Logger
	stateCallbacks []func(State)
	monitor        *Monitor
}

// New creates a [Board] with the given options.
//
// Defaults:
//   - Endpoint: [DefaultEndpointURL]
//   - Poll interval: 5 seconds
//   - Initial page 1, limit 20, polling enabled
//   - Port: 8080
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Board, error) {
	cfg := defaultBoardConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.logger = logger

	monitor, err := newMonitor(cfg)
	if err != nil {
		return nil, err
	}

	title := cfg.title
	if title == "" {
		title = DefaultTitle
	}

	return &Board{
		title:          title,
		port:           cfg.port,
		logger:         logger,
		stateCallbacks: cfg.stateCallbacks,
		monitor:        monitor,
	}, nil
}

// Monitor returns the board's monitor, for driving it programmatically.
func (b *Board) Monitor() *Monitor {
	return b.monitor
}

// Port returns the configured HTTP port.
func (b *Board) Port() int {
	return b.port
}

// Title returns the dashboard title.
func (b *Board) Title() string {
	return b.title
}

// Start begins polling and serves the dashboard. It blocks until ctx is
// cancelled, then stops the monitor and waits for in-flight work.
//
// A Board runs once: the monitor cannot be restarted after Start returns.
//
// Returns nil on graceful shutdown, or an error if the HTTP server fails to
// start.
func (b *Board) Start(ctx context.Context) error {
	b.logger.Info("moistureboard starting",
		"endpoint", b.monitor.Endpoint().URL(),
		"port", b.port,
	)

	if ctx.Err() != nil {
		b.monitor.Stop()
		return nil
	}

	snapshots := store.NewMemoryStore()

	httpServer := server.NewServer(snapshots, boardController{b.monitor}, b.port, dashboard.Assets, b.title, b.logger)
	if err := httpServer.Start(ctx); err != nil {
		b.monitor.Stop()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	b.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", b.port))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for st := range b.monitor.Updates() {
			// store first: callbacks observe a state the dashboard already has
			snapshots.Update(toSnapshot(st))
			for _, cb := range b.stateCallbacks {
				invokeCallbackSafe(cb, st, b.logger)
			}
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		b.monitor.Stop()
		return nil
	})

	b.monitor.Start(gctx)

	err := g.Wait()
	b.logger.Info("moistureboard stopped")
	return err
}

// boardController adapts a Monitor to the server's control interface.
type boardController struct {
	m *Monitor
}

func (c boardController) SetPage(page float64)                    { c.m.SetPage(page) }
func (c boardController) UpdatePage(fn func(current int) float64) { c.m.UpdatePage(fn) }
func (c boardController) SetLimit(limit float64)                  { c.m.SetLimit(limit) }
func (c boardController) SetEnabled(enabled bool)                 { c.m.SetEnabled(enabled) }

func (c boardController) Refetch(ctx context.Context) bool {
	return c.m.Refetch(ctx) != nil
}

// toSnapshot converts a State to its dashboard representation, deriving
// statistics from the readings.
func toSnapshot(st State) store.Snapshot {
	var errStr *string
	if st.Error != nil {
		s := st.Error.Error()
		errStr = &s
	}

	snap := store.Snapshot{
		Data:         st.Data,
		Meta:         st.Meta,
		Page:         st.Page,
		Limit:        st.Limit,
		TotalPages:   st.TotalPages(),
		IsLoading:    st.IsLoading,
		IsRefreshing: st.IsRefreshing,
		Enabled:      st.Enabled,
		Error:        errStr,
		Phase:        st.Phase().String(),
		Stats:        toStoreStats(st.Stats()),
	}
	if !st.FetchedAt.IsZero() {
		fetchedAt := st.FetchedAt
		snap.FetchedAt = &fetchedAt
	}
	return snap
}

func toStoreStats(s Statistics) store.Stats {
	return store.Stats{
		Average:     s.Average,
		Min:         s.Min,
		Max:         s.Max,
		Range:       s.Range,
		Trend:       s.Trend,
		Latest:      s.Latest,
		Earliest:    s.Earliest,
		LastUpdated: s.LastUpdated,
		Count:       s.Count,
	}
}

// invokeCallbackSafe calls a state callback with panic recovery. The panic
// is logged with a correlation ID and the stack; it does not propagate.
func invokeCallbackSafe(cb func(State), st State, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", r,
				"phase", st.Phase().String(),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(st)
}
