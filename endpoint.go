package moistureboard

import (
	"errors"
	"net/url"
	"time"
)

// DefaultEndpointURL is the telemetry API used when no endpoint is configured.
const DefaultEndpointURL = "http://localhost:8000/api/readings"

// Endpoint is the telemetry API a [Monitor] polls.
//
// Endpoint is immutable after creation via [NewEndpoint]. Getters return
// copies of mutable data.
type Endpoint struct {
	url     string
	headers map[string]string
	timeout time.Duration
}

// URL returns the endpoint URL without page or limit parameters.
func (e Endpoint) URL() string {
	return e.url
}

// Headers returns a copy of the custom HTTP headers sent with every request.
// Returns nil if none are set.
func (e Endpoint) Headers() map[string]string {
	return copyMap(e.headers)
}

// Timeout returns the per-request timeout. Zero means requests are bounded
// only by supersession and shutdown.
func (e Endpoint) Timeout() time.Duration {
	return e.timeout
}

// NewEndpoint creates an [Endpoint] for rawURL.
//
// rawURL must be an absolute http or https URL. Query parameters already
// present are kept; page and limit are added per request.
//
// Example:
//
//	ep, err := moistureboard.NewEndpoint("https://sensors.example.com/api/readings",
//	    moistureboard.WithHeaders("Authorization", "Bearer token123"),
//	    moistureboard.WithTimeout(10*time.Second),
//	)
func NewEndpoint(rawURL string, opts ...EndpointOption) (Endpoint, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Endpoint{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Endpoint{}, errors.New("URL must have an http:// or https:// scheme")
	}
	if parsedURL.Host == "" {
		return Endpoint{}, errors.New("URL must have a host")
	}

	cfg := &endpointConfig{
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Endpoint{}, err
		}
	}

	return Endpoint{
		url:     rawURL,
		headers: cfg.headers,
		timeout: cfg.timeout,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
