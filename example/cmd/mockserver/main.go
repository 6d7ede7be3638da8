// Standalone mock telemetry API for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/moistureboard serve -c example/config.yaml
//	go run ./cmd/moistureboard watch -c example/config.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/moistureboard/example/mockapi"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	readings := flag.Int("readings", 240, "number of historical readings")
	failRate := flag.Float64("fail-rate", 0.1, "share of requests answered with 500")
	slowRate := flag.Float64("slow-rate", 0.1, "share of requests that stall")
	grow := flag.Duration("grow", 10*time.Second, "interval between new readings (0 disables)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := mockapi.New(mockapi.Options{
		Readings:  *readings,
		FailRate:  *failRate,
		SlowRate:  *slowRate,
		SlowDelay: 3 * time.Second,
	})
	if *grow > 0 {
		go api.Grow(ctx, *grow)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Mock telemetry API on %s/api/readings\n", *addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
