// Package mockapi serves a fake paginated soil moisture API for demos and
// local development.
//
// GET /api/readings?page=N&limit=M returns
//
//	{"data": [{"timestamp": "...", "moisture": 41.7}, ...],
//	 "meta": {"totalItems": 240, "totalPages": 12, "page": 1, "limit": 20}}
//
// newest reading first. Some readings have a null moisture value, and the
// API can be told to fail or stall a share of requests so the dashboard's
// error and refreshing states are visible.
package mockapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type reading struct {
	Timestamp string   `json:"timestamp"`
	Moisture  *float64 `json:"moisture"`
}

type meta struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// Options tunes the fake API's behaviour.
type Options struct {
	// Readings is the number of historical readings generated at start.
	Readings int
	// FailRate is the share of requests answered with 500, 0 to 1.
	FailRate float64
	// SlowRate is the share of requests delayed by SlowDelay, 0 to 1.
	SlowRate float64
	// SlowDelay is how long slow requests stall.
	SlowDelay time.Duration
	// Logger receives request and failure logs. Defaults to slog.Default.
	Logger *slog.Logger
}

// API is an http.Handler serving generated readings.
type API struct {
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	readings []reading // oldest first
	next     time.Time
	step     int
	rng      *rand.Rand
}

// New creates an API with opts.Readings hourly readings ending now.
func New(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SlowDelay <= 0 {
		opts.SlowDelay = 3 * time.Second
	}

	a := &API{
		opts:   opts,
		logger: logger,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 42)),
	}

	start := time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(opts.Readings) * time.Hour)
	a.next = start
	for i := 0; i < opts.Readings; i++ {
		a.appendLocked()
	}
	return a
}

// appendLocked adds one reading an hour after the previous one.
func (a *API) appendLocked() {
	r := reading{Timestamp: a.next.Format(time.RFC3339)}

	// sensors drop a value now and then
	if a.step%17 != 16 {
		// daily cycle around 45% plus noise
		v := 45 + 15*math.Sin(float64(a.step)*2*math.Pi/24) + a.rng.NormFloat64()*2
		v = math.Round(v*10) / 10
		r.Moisture = &v
	}

	a.readings = append(a.readings, r)
	a.next = a.next.Add(time.Hour)
	a.step++
}

// Grow appends a new reading every interval until ctx is cancelled, so
// background refreshes see changing data.
func (a *API) Grow(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			a.appendLocked()
			total := len(a.readings)
			a.mu.Unlock()
			a.logger.Debug("new reading", "total", total)
		}
	}
}

// Handler returns a mux with the API mounted at /api/readings.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/readings", a)
	return mux
}

// ServeHTTP answers one page request.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	a.mu.Lock()
	fail := a.rng.Float64() < a.opts.FailRate
	slow := a.rng.Float64() < a.opts.SlowRate
	a.mu.Unlock()

	if slow {
		select {
		case <-time.After(a.opts.SlowDelay):
		case <-r.Context().Done():
			return
		}
	}

	if fail {
		a.logger.Info("simulated failure", "page", page, "limit", limit, "request_id", r.Header.Get("X-Request-ID"))
		http.Error(w, "sensor gateway unavailable", http.StatusInternalServerError)
		return
	}

	data, m := a.page(page, limit)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data, "meta": m}); err != nil {
		a.logger.Error("failed to write response", "error", err)
	}
}

// page returns the readings for page, newest first.
func (a *API) page(page, limit int) ([]reading, meta) {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := len(a.readings)
	m := meta{
		TotalItems: total,
		TotalPages: (total + limit - 1) / limit,
		Page:       page,
		Limit:      limit,
	}

	data := []reading{}
	from := (page - 1) * limit
	for i := from; i < from+limit && i < total; i++ {
		data = append(data, a.readings[total-1-i])
	}
	return data, m
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
