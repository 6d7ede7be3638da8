package moistureboard

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/moistureboard/internal/poller"
)

const defaultPort = 8080

// DefaultTitle is the dashboard title used when none is configured.
const DefaultTitle = "Moisture Board"

// boardConfig holds mutable state during Monitor and Board construction.
type boardConfig struct {
	endpoint       *Endpoint
	pollInterval   time.Duration
	initialPage    int
	initialLimit   int
	enabled        bool
	port           int
	title          string
	logger         *slog.Logger
	stateCallbacks []func(State)
}

func defaultBoardConfig() *boardConfig {
	return &boardConfig{
		pollInterval: poller.DefaultPollInterval,
		initialPage:  poller.DefaultPage,
		initialLimit: poller.DefaultLimit,
		enabled:      true,
		port:         defaultPort,
	}
}

// Option configures a [Monitor] or [Board] during construction.
//
// Options that only concern the dashboard ([WithPort], [WithTitle],
// [WithStateCallback]) are accepted but ignored by [NewMonitor].
type Option func(*boardConfig) error

// WithEndpoint sets the telemetry API to poll. Defaults to
// [DefaultEndpointURL] with no custom headers and no timeout.
func WithEndpoint(e Endpoint) Option {
	return func(cfg *boardConfig) error {
		if e.url == "" {
			return errors.New("endpoint must be created with NewEndpoint")
		}
		cfg.endpoint = &e
		return nil
	}
}

// WithPollInterval sets the background refresh cadence. Defaults to 5
// seconds. A zero or negative interval disables background refresh; the
// page is still fetched on start and on every page or limit change.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		cfg.pollInterval = d
		return nil
	}
}

// WithInitialPage sets the page fetched on start. Values below 1 fall
// back to 1.
func WithInitialPage(page int) Option {
	return func(cfg *boardConfig) error {
		cfg.initialPage = page
		return nil
	}
}

// WithInitialLimit sets the page size fetched on start. Values below 1
// fall back to 20.
func WithInitialLimit(limit int) Option {
	return func(cfg *boardConfig) error {
		cfg.initialLimit = limit
		return nil
	}
}

// WithEnabled sets whether polling starts enabled. Defaults to true. A
// disabled monitor issues no requests until [Monitor.SetEnabled] is called.
func WithEnabled(enabled bool) Option {
	return func(cfg *boardConfig) error {
		cfg.enabled = enabled
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStateCallback registers a function called with every [State] the
// board publishes.
//
// Callbacks run synchronously on the board's update goroutine in
// registration order and must not block. Panics are recovered and logged
// with a correlation ID. Nil callbacks are ignored.
//
// Example:
//
//	board, err := moistureboard.New(
//	    moistureboard.WithStateCallback(func(st moistureboard.State) {
//	        if st.Phase() == moistureboard.PhaseError {
//	            log.Printf("telemetry unavailable: %v", st.Error)
//	        }
//	    }),
//	)
func WithStateCallback(cb func(State)) Option {
	return func(cfg *boardConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}
