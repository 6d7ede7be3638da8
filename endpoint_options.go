package moistureboard

import (
	"errors"
	"time"
)

// endpointConfig holds mutable state during endpoint construction.
type endpointConfig struct {
	headers map[string]string
	timeout time.Duration
}

// EndpointOption configures an [Endpoint] during construction.
// Options return an error if validation fails.
type EndpointOption func(*endpointConfig) error

// WithHeaders adds custom HTTP headers to every request.
//
// Accepts variadic key-value pairs. The Accept and cache-control headers
// are always set by the client and cannot be overridden.
//
// Example:
//
//	ep, err := moistureboard.NewEndpoint(url,
//	    moistureboard.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) EndpointOption {
	return func(cfg *endpointConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout bounds each request. A request that times out is recorded as
// a failed fetch. Without this option requests have no timeout of their own.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) EndpointOption {
	return func(cfg *endpointConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}
