package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/moistureboard"
	"github.com/jpalmerr/moistureboard/example/mockapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// fake telemetry API (see mockapi): one in ten requests fails, one in
	// eight stalls for two seconds
	api := mockapi.New(mockapi.Options{
		Readings:  240,
		FailRate:  0.1,
		SlowRate:  0.125,
		SlowDelay: 2 * time.Second,
	})
	apiServer := &http.Server{
		Addr:              ":8000",
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	endpoint, err := moistureboard.NewEndpoint("http://localhost:8000/api/readings",
		moistureboard.WithTimeout(5*time.Second),
	)
	if err != nil {
		slog.Error("failed to create endpoint", "error", err)
		os.Exit(1)
	}

	var lastPhase moistureboard.Phase
	board, err := moistureboard.New(
		moistureboard.WithEndpoint(endpoint),
		moistureboard.WithPollInterval(5*time.Second),
		moistureboard.WithPort(8080),
		moistureboard.WithTitle("Greenhouse Moisture"),
		moistureboard.WithStateCallback(func(st moistureboard.State) {
			// callbacks run on one goroutine, so lastPhase needs no lock
			if phase := st.Phase(); phase != lastPhase {
				slog.Info("phase changed", "from", lastPhase, "to", phase, "page", st.Page)
				lastPhase = phase
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create board", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   moistureboard demo                                  ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Mock API on :8000 with 240 hourly readings,         ║")
	fmt.Println("  ║   a new one every 10s, occasional errors and stalls   ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		api.Grow(gctx, 10*time.Second)
		return nil
	})
	g.Go(func() error {
		return board.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("demo error", "error", err)
		os.Exit(1)
	}
}
