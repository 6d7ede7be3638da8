package server

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/moistureboard/internal/store"
	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockController records control calls.
type mockController struct {
	mu         sync.Mutex
	page       int
	pages      []float64
	limits     []float64
	enabled    []bool
	refetches  int
	refetchOK  bool
	refetchCtx context.Context
}

func newMockController() *mockController {
	return &mockController{page: 1, refetchOK: true}
}

func (m *mockController) SetPage(page float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, page)
	m.page = int(page)
}

func (m *mockController) UpdatePage(fn func(int) float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.page)
	m.pages = append(m.pages, next)
	m.page = int(next)
}

func (m *mockController) SetLimit(limit float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)
}

func (m *mockController) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = append(m.enabled, enabled)
}

func (m *mockController) Refetch(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refetches++
	m.refetchCtx = ctx
	return m.refetchOK
}

func snapshotWithReading(moisture float64) store.Snapshot {
	return store.Snapshot{
		Data:  []telemetry.Reading{{Timestamp: "2024-01-01T00:00:00Z", Moisture: &moisture}},
		Page:  1,
		Limit: 20,
		Phase: "up_to_date",
	}
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- State and health ---

func TestHandleState_ReturnsLatest(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.Update(snapshotWithReading(42))

	srv := NewServer(ms, nil, 0, nil, "", testLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(snap.Data) != 1 || *snap.Data[0].Moisture != 42 {
		t.Errorf("Data = %+v, want one reading of 42", snap.Data)
	}
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
}

func TestHandleState_JSONFieldNames(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.Update(store.Snapshot{Page: 2, Limit: 10, TotalPages: 3, IsLoading: true, Phase: "loading"})

	srv := NewServer(ms, nil, 0, nil, "", testLogger())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	for _, key := range []string{"data", "meta", "page", "limit", "totalPages", "isLoading", "isRefreshing", "error", "phase", "stats"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, rec.Body.String())
		}
	}
	if raw["meta"] != nil {
		t.Errorf("meta = %v, want null", raw["meta"])
	}
}

func TestHandleState_NoSnapshotYet(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleState_MethodNotAllowed(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// --- Controls ---

func TestHandlePage_Absolute(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	rec := post(t, srv.Handler(), "/api/page", `{"page": 3}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	if len(ctrl.pages) != 1 || ctrl.pages[0] != 3 {
		t.Errorf("pages = %v, want [3]", ctrl.pages)
	}
}

func TestHandlePage_Delta(t *testing.T) {
	ctrl := newMockController()
	ctrl.page = 4
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	post(t, srv.Handler(), "/api/page", `{"delta": 1}`)
	post(t, srv.Handler(), "/api/page", `{"delta": -2}`)

	want := []float64{5, 3}
	if len(ctrl.pages) != len(want) || ctrl.pages[0] != want[0] || ctrl.pages[1] != want[1] {
		t.Errorf("pages = %v, want %v", ctrl.pages, want)
	}
}

func TestHandlePage_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"both fields", `{"page": 1, "delta": 1}`},
		{"not json", `page=1`},
		{"string page", `{"page": "2"}`},
		{"unknown field", `{"pg": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newMockController()
			srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

			rec := post(t, srv.Handler(), "/api/page", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(ctrl.pages) != 0 {
				t.Errorf("controller called with %v", ctrl.pages)
			}
		})
	}
}

func TestHandleLimit_ResetsPage(t *testing.T) {
	ctrl := newMockController()
	ctrl.page = 7
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	rec := post(t, srv.Handler(), "/api/limit", `{"limit": 50}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(ctrl.limits) != 1 || ctrl.limits[0] != 50 {
		t.Errorf("limits = %v, want [50]", ctrl.limits)
	}
	if len(ctrl.pages) != 1 || ctrl.pages[0] != 1 {
		t.Errorf("pages = %v, want [1] (reset after limit change)", ctrl.pages)
	}
}

func TestHandleLimit_Missing(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	if rec := post(t, srv.Handler(), "/api/limit", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleEnabled(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	post(t, srv.Handler(), "/api/enabled", `{"enabled": false}`)
	post(t, srv.Handler(), "/api/enabled", `{"enabled": true}`)

	if len(ctrl.enabled) != 2 || ctrl.enabled[0] || !ctrl.enabled[1] {
		t.Errorf("enabled = %v, want [false true]", ctrl.enabled)
	}

	if rec := post(t, srv.Handler(), "/api/enabled", `{"enabled": null}`); rec.Code != http.StatusBadRequest {
		t.Errorf("null enabled status = %d, want 400", rec.Code)
	}
}

func TestHandleRefetch(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want string
	}{
		{"success", true, `{"ok":true}`},
		{"failure", false, `{"ok":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newMockController()
			ctrl.refetchOK = tt.ok
			srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

			rec := post(t, srv.Handler(), "/api/refetch", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.want {
				t.Errorf("body = %s, want %s", got, tt.want)
			}
			if ctrl.refetches != 1 {
				t.Errorf("Refetch called %d times, want 1", ctrl.refetches)
			}
			if ctrl.refetchCtx == nil {
				t.Error("Refetch not given the request context")
			}
		})
	}
}

func TestControl_MethodNotAllowed(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	for _, path := range []string{"/api/page", "/api/limit", "/api/enabled", "/api/refetch"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("GET %s Allow = %q, want POST", path, rec.Header().Get("Allow"))
		}
	}
}

func TestControl_NilController(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	if rec := post(t, srv.Handler(), "/api/refetch", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestControl_RateLimited(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())
	h := srv.Handler()

	var limited int
	for i := 0; i < controlBurst*3; i++ {
		rec := post(t, h, "/api/enabled", `{"enabled": true}`)
		if rec.Code == http.StatusTooManyRequests {
			limited++
			if rec.Header().Get("Retry-After") == "" {
				t.Error("429 without Retry-After header")
			}
		}
	}

	if limited == 0 {
		t.Error("expected some requests to be rate limited")
	}
	if len(ctrl.enabled) < controlBurst {
		t.Errorf("accepted %d requests, want at least the burst of %d", len(ctrl.enabled), controlBurst)
	}
}

func TestControl_BodyTooLarge(t *testing.T) {
	ctrl := newMockController()
	srv := NewServer(store.NewMemoryStore(), ctrl, 0, nil, "", testLogger())

	body := `{"page": 1` + strings.Repeat(" ", maxControlBody) + `}`
	if rec := post(t, srv.Handler(), "/api/page", body); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// --- SSE ---

func TestHandleSSE_SendsLatestFirst(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.Update(snapshotWithReading(11))

	srv := NewServer(ms, nil, 0, nil, "", testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	srv.handleSSE(rec, req)

	events := parseSSEEvents(rec.Body.String())
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %s", len(events), rec.Body.String())
	}
	if events[0].Version != 1 || len(events[0].Data) != 1 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestHandleSSE_StreamsUpdates(t *testing.T) {
	ms := store.NewMemoryStore()
	srv := NewServer(ms, nil, 0, nil, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.handleSSE(rec, req)
		close(done)
	}()

	// give handler time to subscribe
	time.Sleep(50 * time.Millisecond)

	ms.Update(store.Snapshot{Phase: "loading", IsLoading: true})
	ms.Update(store.Snapshot{Phase: "up_to_date"})

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after context cancellation")
	}

	events := parseSSEEvents(rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Phase != "loading" || events[1].Phase != "up_to_date" {
		t.Errorf("phases = %q, %q", events[0].Phase, events[1].Phase)
	}
}

func TestHandleSSE_ClientDisconnect(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.handleSSE(rec, req)
		close(done)
	}()

	// simulate client disconnect
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("handler did not exit after client disconnect")
	}
}

func TestHandleSSE_NoGoroutineLeaks(t *testing.T) {
	// allow existing goroutines to settle
	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	before := runtime.NumGoroutine()

	ms := store.NewMemoryStore()
	ms.Update(snapshotWithReading(1))
	srv := NewServer(ms, nil, 0, nil, "", testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(ctx)
			srv.handleSSE(httptest.NewRecorder(), req)
		}()
	}

	wg.Wait()

	runtime.GC()
	time.Sleep(200 * time.Millisecond)

	after := runtime.NumGoroutine()
	if after > before+2 { // small tolerance for runtime variance
		t.Errorf("potential goroutine leak: before=%d, after=%d", before, after)
	}
}

func TestHandleSSE_SSENotSupported(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	w := &nonFlushWriter{header: make(http.Header)}
	srv.handleSSE(w, httptest.NewRequest(http.MethodGet, "/api/sse", nil))

	if w.statusCode != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.statusCode)
	}
}

type nonFlushWriter struct {
	header     http.Header
	statusCode int
	body       []byte
}

func (n *nonFlushWriter) Header() http.Header {
	return n.header
}

func (n *nonFlushWriter) Write(b []byte) (int, error) {
	n.body = append(n.body, b...)
	return len(b), nil
}

func (n *nonFlushWriter) WriteHeader(statusCode int) {
	n.statusCode = statusCode
}

func TestHandleSSE_Headers(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	srv.handleSSE(rec, req)

	expectedHeaders := map[string]string{
		"Content-Type":                "text/event-stream",
		"Cache-Control":               "no-cache",
		"Connection":                  "keep-alive",
		"Access-Control-Allow-Origin": "*",
	}

	for key, expected := range expectedHeaders {
		if got := rec.Header().Get(key); got != expected {
			t.Errorf("header %s = %q, want %q", key, got, expected)
		}
	}
}

// TestHandleSSE_ServerShutdownIntegration tests that SSE handlers exit cleanly
// when the server is shut down, using a real HTTP connection.
func TestHandleSSE_ServerShutdownIntegration(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.Update(snapshotWithReading(3))

	srv := NewServer(ms, nil, 0, nil, "", testLogger())

	serverCtx, serverCancel := context.WithCancel(context.Background())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// derive request context from server context (simulates BaseContext)
		srv.handleSSE(w, r.WithContext(serverCtx))
	})

	ts := httptest.NewServer(handler)
	defer ts.Close()

	numClients := 3
	var wg sync.WaitGroup
	var connected atomic.Int32

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := ts.Client().Get(ts.URL)
			if err != nil {
				return
			}
			defer func() { _ = resp.Body.Close() }()
			connected.Add(1)

			// read until closed
			buf := make([]byte, 1024)
			for {
				if _, err := resp.Body.Read(buf); err != nil {
					return
				}
			}
		}()
	}

	// give connections time to establish
	time.Sleep(100 * time.Millisecond)
	serverCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("SSE connections did not close after server shutdown")
	}
	if connected.Load() == 0 {
		t.Error("no SSE client connected")
	}
}

func parseSSEEvents(body string) []store.Snapshot {
	var results []store.Snapshot
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			var snap store.Snapshot
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snap); err == nil {
				results = append(results, snap)
			}
		}
	}
	return results
}

// --- Server Start ---

func TestStart_ServesRoutes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	srv := NewServer(store.NewMemoryStore(), nil, port, nil, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestStart_PortInUse_ReturnsError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port

	srv := NewServer(store.NewMemoryStore(), nil, port, nil, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = srv.Start(ctx)
	if err == nil {
		t.Fatal("Start() on occupied port should return error")
	}
	if !strings.Contains(err.Error(), "failed to bind") {
		t.Errorf("expected bind error, got: %v", err)
	}
}

func TestStart_InvalidPort_ReturnsError(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, -1, nil, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err == nil {
		t.Fatal("Start() with invalid port should return error")
	}
}

// --- Dashboard ---

// mockFS implements fs.ReadFileFS for testing dashboard rendering.
type mockFS struct {
	content string
}

func (m *mockFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *mockFS) ReadFile(name string) ([]byte, error) {
	if name == "assets/index.html" {
		return []byte(m.content), nil
	}
	return nil, fs.ErrNotExist
}

func TestHandleDashboard_Title(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"custom", "Greenhouse 4", "<title>Greenhouse 4</title><h1>Greenhouse 4</h1>"},
		{"default", "", "<title>Moisture Board</title><h1>Moisture Board</h1>"},
		{"ampersand", "Beds & Borders", "<title>Beds &amp; Borders</title>"},
		{"script", "<script>alert('xss')</script>", "&lt;script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := &mockFS{content: "<title>{{.Title}}</title><h1>{{.Title}}</h1>"}
			srv := NewServer(store.NewMemoryStore(), nil, 0, assets, tt.title, testLogger())

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("body = %q, want it to contain %q", body, tt.want)
			}
			if strings.Contains(body, "<script>") {
				t.Error("title should be HTML-escaped to prevent XSS")
			}
		})
	}
}

func TestHandleDashboard_MissingAssets(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, nil, "", testLogger())

	rec := httptest.NewRecorder()
	srv.handleDashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestHandleDashboard_NonRootPath(t *testing.T) {
	srv := NewServer(store.NewMemoryStore(), nil, 0, &mockFS{content: "x"}, "", testLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d for non-root path, got %d", http.StatusNotFound, rec.Code)
	}
}
