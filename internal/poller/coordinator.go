package poller

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

const (
	DefaultPage         = 1
	DefaultLimit        = 20
	DefaultPollInterval = 5 * time.Second

	// maxCursor bounds sanitized page/limit values so they always fit an int.
	maxCursor = math.MaxInt32
)

// Fetcher retrieves one page of readings. [Client] is the production
// implementation. Implementations must return an error wrapping
// [ErrCancelled] when ctx is cancelled.
type Fetcher interface {
	FetchPage(ctx context.Context, q telemetry.Query) (telemetry.Page, error)
}

// Config holds the coordinator's initial settings.
type Config struct {
	InitialPage  int
	InitialLimit int

	// PollInterval is the background refresh cadence. Non-positive disables it.
	PollInterval time.Duration

	Enabled bool
}

// State is a point-in-time snapshot of the coordinator.
//
// Data is shared with the coordinator and must be treated as read-only; the
// coordinator replaces the slice on every successful fetch and never
// modifies it in place.
type State struct {
	Data         []telemetry.Reading
	Meta         *telemetry.PaginationMeta
	Page         int
	Limit        int
	IsLoading    bool
	IsRefreshing bool
	Enabled      bool
	Error        error

	// FetchedAt is when Data was last replaced; zero before the first success.
	FetchedAt time.Time
}

type fetchMode int

const (
	modeLoad fetchMode = iota
	modeRefresh
)

func (m fetchMode) String() string {
	if m == modeLoad {
		return "load"
	}
	return "refresh"
}

// Coordinator owns pagination state and the fetch lifecycle.
//
// A load fetch (isLoading) is issued on Start and whenever page or limit
// changes; a refresh fetch (isRefreshing) is issued by the repeating timer
// and by [Coordinator.Refetch]. Issuing any fetch cancels the previous one.
// Only the most recently issued request may commit its outcome; results of
// superseded requests are discarded without touching state.
//
// All methods are safe for concurrent use.
type Coordinator struct {
	fetcher  Fetcher
	logger   *slog.Logger
	repeater *Repeater
	updates  chan State

	mu           sync.Mutex
	query        telemetry.Query
	data         []telemetry.Reading
	meta         *telemetry.PaginationMeta
	loading      bool
	refreshing   bool
	err          error
	fetchedAt    time.Time
	enabled      bool
	current      *Token
	parent       context.Context
	cancelParent context.CancelFunc
	started      bool
	stopped      bool
	closed       bool
	done         chan struct{}

	wg sync.WaitGroup
}

// NewCoordinator creates a [Coordinator]. Page and limit in cfg are
// sanitized; nothing is fetched until [Coordinator.Start].
func NewCoordinator(fetcher Fetcher, cfg Config, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		fetcher: fetcher,
		logger:  logger,
		updates: make(chan State, 1),
		query: telemetry.Query{
			Page:  SanitizePage(float64(cfg.InitialPage)),
			Limit: SanitizeLimit(float64(cfg.InitialLimit)),
		},
		data:    []telemetry.Reading{},
		enabled: cfg.Enabled,
		done:    make(chan struct{}),
	}
	c.repeater = NewRepeater(cfg.PollInterval, c.tick)
	return c
}

// SanitizePage converts arbitrary input into a valid page number.
// Fractions truncate toward zero; NaN, infinities and values below 1 yield 1.
func SanitizePage(v float64) int {
	return sanitize(v, DefaultPage)
}

// SanitizeLimit converts arbitrary input into a valid page size.
// Fractions truncate toward zero; NaN, infinities and values below 1 yield 20.
func SanitizeLimit(v float64) int {
	return sanitize(v, DefaultLimit)
}

func sanitize(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	t := math.Trunc(v)
	if t < 1 {
		return fallback
	}
	if t > maxCursor {
		return maxCursor
	}
	return int(t)
}

// Updates returns a channel carrying the latest [State] after each transition.
//
// The channel holds at most one value; an unread snapshot is replaced by a
// newer one, so a slow reader always ends up seeing the most recent state.
// The channel is closed by [Coordinator.Stop].
func (c *Coordinator) Updates() <-chan State {
	return c.updates
}

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Start activates the coordinator: if enabled, it issues the initial load
// and starts the refresh timer. Cancelling ctx tears the coordinator down as
// if [Coordinator.Stop] had been called.
//
// Start is idempotent; calls after the first, or after Stop, are no-ops.
func (c *Coordinator) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.parent, c.cancelParent = context.WithCancel(ctx)
	if c.enabled {
		c.loadLocked()
		c.repeater.Start()
	} else {
		c.publishLocked()
	}
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			c.Stop()
		case <-c.done:
		}
	}()
}

// Stop tears the coordinator down: the in-flight request is cancelled, the
// timer stopped, and Stop waits for background work before closing the
// [Coordinator.Updates] channel. Idempotent.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		c.current.Cancel()
		c.current = nil
		c.loading = false
		c.refreshing = false
		c.repeater.Stop()
		if c.cancelParent != nil {
			c.cancelParent()
		}
		close(c.done)
		c.publishLocked()
	}
	c.mu.Unlock()

	c.repeater.Wait()
	c.wg.Wait()

	if closer, ok := c.fetcher.(interface{ Close() }); ok {
		closer.Close()
	}

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.updates)
	}
	c.mu.Unlock()
}

// SetPage replaces the page number.
func (c *Coordinator) SetPage(v float64) {
	c.UpdatePage(func(int) float64 { return v })
}

// UpdatePage replaces the page number with fn(previous). fn runs under the
// coordinator's lock and must not call back into the Coordinator.
//
// A changed page cancels the in-flight request and issues a load fetch when
// the coordinator is running and enabled.
func (c *Coordinator) UpdatePage(fn func(prev int) float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := SanitizePage(fn(c.query.Page))
	if next == c.query.Page {
		return
	}
	c.query.Page = next
	c.queryChangedLocked()
}

// SetLimit replaces the page size. The page number is left unchanged;
// callers that want to return to the first page must call SetPage(1).
func (c *Coordinator) SetLimit(v float64) {
	c.UpdateLimit(func(int) float64 { return v })
}

// UpdateLimit replaces the page size with fn(previous), under the same
// rules as [Coordinator.UpdatePage].
func (c *Coordinator) UpdateLimit(fn func(prev int) float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := SanitizeLimit(fn(c.query.Limit))
	if next == c.query.Limit {
		return
	}
	c.query.Limit = next
	c.queryChangedLocked()
}

// SetEnabled toggles polling. Disabling cancels the in-flight request, stops
// the timer and clears both loading flags. Re-enabling a started coordinator
// issues a load fetch and restarts the timer.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled == enabled || c.stopped {
		c.enabled = enabled
		return
	}
	c.enabled = enabled

	if !enabled {
		c.current.Cancel()
		c.current = nil
		c.loading = false
		c.refreshing = false
		c.repeater.Stop()
		c.publishLocked()
		c.logger.Debug("polling disabled")
		return
	}

	if !c.started {
		c.publishLocked()
		return
	}
	c.loadLocked()
	c.repeater.Start()
	c.logger.Debug("polling enabled")
}

// Refetch issues a refresh for the current page and limit and waits for it.
//
// It returns the fetched page, or nil if the fetch failed, was cancelled or
// superseded, or the coordinator is not running and enabled. Cancelling ctx
// cancels the request. Refetch never returns an error; failures are recorded
// in the state instead.
func (c *Coordinator) Refetch(ctx context.Context) *telemetry.Page {
	c.mu.Lock()
	if !c.runningLocked() {
		c.mu.Unlock()
		return nil
	}
	tok, q := c.beginLocked(modeRefresh)
	c.mu.Unlock()

	if ctx != nil {
		stop := context.AfterFunc(ctx, tok.Cancel)
		defer stop()
	}

	defer c.wg.Done()
	page, err := c.fetcher.FetchPage(tok.Context(), q)
	if !c.settle(tok, page, err) || err != nil {
		return nil
	}
	return &page
}

// tick is the repeater callback: a background refresh using the query
// current at fire time. A tick from a loop stopped while it waited for the
// lock is dropped so it cannot supersede the load issued on re-enable.
func (c *Coordinator) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runningLocked() || !c.repeater.Current(gen) {
		return
	}
	tok, q := c.beginLocked(modeRefresh)
	go c.run(tok, q)
}

func (c *Coordinator) queryChangedLocked() {
	if c.runningLocked() {
		c.loadLocked()
		return
	}
	c.publishLocked()
}

func (c *Coordinator) loadLocked() {
	tok, q := c.beginLocked(modeLoad)
	go c.run(tok, q)
}

func (c *Coordinator) runningLocked() bool {
	return c.started && !c.stopped && c.enabled
}

// beginLocked supersedes the current request with a new one and applies the
// mode's flag transition. The caller must call wg.Done when the fetch ends.
func (c *Coordinator) beginLocked(mode fetchMode) (*Token, telemetry.Query) {
	c.current.Cancel()

	tok := NewToken(c.parent)
	c.current = tok

	switch mode {
	case modeLoad:
		c.loading = true
		c.refreshing = false
	case modeRefresh:
		c.loading = false
		c.refreshing = true
	}

	c.wg.Add(1)
	c.publishLocked()

	c.logger.Debug("fetch started",
		"request_id", tok.ID(),
		"mode", mode.String(),
		"page", c.query.Page,
		"limit", c.query.Limit,
	)
	return tok, c.query
}

func (c *Coordinator) run(tok *Token, q telemetry.Query) {
	defer c.wg.Done()
	page, err := c.fetcher.FetchPage(tok.Context(), q)
	c.settle(tok, page, err)
}

// settle commits a fetch outcome if tok is still the current request.
// Returns whether anything was committed.
func (c *Coordinator) settle(tok *Token, page telemetry.Page, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != tok {
		c.logger.Debug("discarding superseded response", "request_id", tok.ID())
		return false
	}
	c.current = nil

	if errors.Is(err, ErrCancelled) {
		// cancelled by the caller's context rather than superseded: the
		// flags belong to this request, so release them without an error
		c.loading = false
		c.refreshing = false
		c.publishLocked()
		return false
	}

	c.loading = false
	c.refreshing = false

	if err != nil {
		// stale-while-error: keep the last good data and meta
		c.err = err
		c.logger.Warn("fetch failed", "request_id", tok.ID(), "error", err.Error())
		c.publishLocked()
		return true
	}

	data := page.Data
	if data == nil {
		data = []telemetry.Reading{}
	}
	meta := page.Meta
	c.data = data
	c.meta = &meta
	c.err = nil
	c.fetchedAt = time.Now()
	c.publishLocked()

	c.logger.Debug("fetch completed",
		"request_id", tok.ID(),
		"readings", len(data),
		"total_pages", meta.TotalPages,
	)
	return true
}

func (c *Coordinator) stateLocked() State {
	var meta *telemetry.PaginationMeta
	if c.meta != nil {
		m := *c.meta
		meta = &m
	}
	return State{
		Data:         c.data,
		Meta:         meta,
		Page:         c.query.Page,
		Limit:        c.query.Limit,
		IsLoading:    c.loading,
		IsRefreshing: c.refreshing,
		Enabled:      c.enabled,
		Error:        c.err,
		FetchedAt:    c.fetchedAt,
	}
}

// publishLocked replaces any unread snapshot with the current one. It never
// blocks: the channel has capacity 1 and every sender holds c.mu.
func (c *Coordinator) publishLocked() {
	if c.closed {
		return
	}
	select {
	case <-c.updates:
	default:
	}
	c.updates <- c.stateLocked()
}
