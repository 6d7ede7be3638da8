package config

import (
	"sort"

	"github.com/jpalmerr/moistureboard"
)

// BuildEndpoint converts the endpoint section into an SDK Endpoint.
func BuildEndpoint(cfg *Config) (moistureboard.Endpoint, error) {
	var opts []moistureboard.EndpointOption

	if cfg.Endpoint.Timeout != 0 {
		opts = append(opts, moistureboard.WithTimeout(cfg.Endpoint.Timeout.Duration()))
	}

	if len(cfg.Endpoint.Headers) > 0 {
		opts = append(opts, moistureboard.WithHeaders(mapToKeyValuePairs(cfg.Endpoint.Headers)...))
	}

	return moistureboard.NewEndpoint(cfg.Endpoint.URL, opts...)
}

// BuildOptions converts parsed configuration into SDK options for
// [moistureboard.New] or [moistureboard.NewMonitor].
//
// The logger is not part of the file format; callers append
// [moistureboard.WithLogger] themselves.
func BuildOptions(cfg *Config) ([]moistureboard.Option, error) {
	ep, err := BuildEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	opts := []moistureboard.Option{
		moistureboard.WithEndpoint(ep),
		moistureboard.WithPort(cfg.Port),
		moistureboard.WithPollInterval(cfg.PollEvery()),
		moistureboard.WithInitialPage(cfg.InitialPage),
		moistureboard.WithInitialLimit(cfg.InitialLimit),
		moistureboard.WithEnabled(cfg.IsEnabled()),
	}
	if cfg.Title != "" {
		opts = append(opts, moistureboard.WithTitle(cfg.Title))
	}

	return opts, nil
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
