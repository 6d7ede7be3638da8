package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jpalmerr/moistureboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Moisture Board"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"

	// control endpoints share one token bucket
	controlRate  = rate.Limit(5)
	controlBurst = 10

	maxControlBody = 1 << 10
)

// Controller is the set of monitor operations exposed over HTTP.
type Controller interface {
	SetPage(page float64)
	UpdatePage(fn func(current int) float64)
	SetLimit(limit float64)
	SetEnabled(enabled bool)

	// Refetch refreshes the current page and reports whether it succeeded.
	Refetch(ctx context.Context) bool
}

// Server handles HTTP requests for the dashboard and its API.
//
// Routes:
//   - GET /: embedded dashboard HTML
//   - GET /api/state: latest snapshot as JSON
//   - GET /api/sse: Server-Sent Events stream of snapshots
//   - POST /api/page, /api/limit, /api/enabled, /api/refetch: monitor controls
//   - GET /healthz: liveness probe
//
// Control routes are rate limited and answer 429 when the budget is spent.
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	ctrl       Controller
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: store the dashboard snapshots are read from
//   - ctrl: monitor controls (may be nil, in which case control routes answer 503)
//   - port: TCP port to listen on
//   - assets: embedded filesystem containing dashboard assets (may be nil)
//   - title: dashboard title (defaults to "Moisture Board" if empty)
//   - logger: logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, ctrl Controller, port int, assets fs.FS, title string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   st,
		ctrl:    ctrl,
		port:    port,
		assets:  assets,
		title:   title,
		logger:  logger,
		limiter: rate.NewLimiter(controlRate, controlBurst),
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/page", s.control(s.handlePage))
	mux.HandleFunc("/api/limit", s.control(s.handleLimit))
	mux.HandleFunc("/api/enabled", s.control(s.handleEnabled))
	mux.HandleFunc("/api/refetch", s.control(s.handleRefetch))

	if s.assets != nil {
		mux.HandleFunc("/", s.handleDashboard)
	}
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleState returns the latest snapshot, or 503 before the first one.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.store.Latest()
	if !ok {
		writeJSON(w, s.logger, http.StatusServiceUnavailable, map[string]string{"error": "no state yet"})
		return
	}
	writeJSON(w, s.logger, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// control wraps a control handler with method, controller and rate checks.
func (s *Server) control(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.ctrl == nil {
			http.Error(w, "Controls unavailable", http.StatusServiceUnavailable)
			return
		}
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxControlBody)
		next(w, r)
	}
}

type pageRequest struct {
	Page  *float64 `json:"page"`
	Delta *float64 `json:"delta"`
}

// handlePage moves to an absolute page ({"page": n}) or relative to the
// current one ({"delta": d}).
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Page != nil && req.Delta == nil:
		s.ctrl.SetPage(*req.Page)
	case req.Delta != nil && req.Page == nil:
		delta := *req.Delta
		s.ctrl.UpdatePage(func(current int) float64 { return float64(current) + delta })
	default:
		http.Error(w, `Exactly one of "page" or "delta" is required`, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type limitRequest struct {
	Limit *float64 `json:"limit"`
}

// handleLimit changes the page size and returns to the first page.
func (s *Server) handleLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Limit == nil {
		http.Error(w, `"limit" is required`, http.StatusBadRequest)
		return
	}

	s.ctrl.SetLimit(*req.Limit)
	s.ctrl.SetPage(1)
	w.WriteHeader(http.StatusAccepted)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		http.Error(w, `"enabled" is required`, http.StatusBadRequest)
		return
	}

	s.ctrl.SetEnabled(*req.Enabled)
	w.WriteHeader(http.StatusAccepted)
}

// handleRefetch blocks until the refresh settles. A client that disconnects
// cancels the refresh.
func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	ok := s.ctrl.Refetch(r.Context())
	writeJSON(w, s.logger, http.StatusOK, map[string]bool{"ok": ok})
}

// handleSSE streams snapshots via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	// the subscription is already open, so nothing newer than this is missed
	var lastVersion uint64
	if snap, ok := s.store.Latest(); ok {
		data, err := json.Marshal(snap)
		if err == nil {
			if err := writeAndFlush(data); err != nil {
				return
			}
			lastVersion = snap.Version
		}
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if snap.Version != 0 && snap.Version <= lastVersion {
				continue
			}
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.Warn("failed to encode snapshot", "error", err)
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}
			lastVersion = snap.Version

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}

// decodeBody decodes a JSON control body, writing 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
