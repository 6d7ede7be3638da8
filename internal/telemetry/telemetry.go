package telemetry

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Reading is one telemetry sample as received from the API.
//
// Moisture is nil when the API sent null or a non-numeric value. Timestamp is
// kept as the raw string; use [ParseTimestamp] to interpret it.
type Reading struct {
	Timestamp string   `json:"timestamp"`
	Moisture  *float64 `json:"moisture"`
}

// HasFiniteMoisture reports whether the reading carries a usable moisture value.
func (r Reading) HasFiniteMoisture() bool {
	return r.Moisture != nil && !math.IsNaN(*r.Moisture) && !math.IsInf(*r.Moisture, 0)
}

// UnmarshalJSON decodes a reading leniently: a malformed field degrades to
// its "missing" value instead of failing the whole page.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Reading{}

	if ts, ok := raw["timestamp"]; ok {
		var s string
		if err := json.Unmarshal(ts, &s); err == nil {
			r.Timestamp = s
		}
	}

	if m, ok := raw["moisture"]; ok && !bytes.Equal(bytes.TrimSpace(m), []byte("null")) {
		var f float64
		if err := json.Unmarshal(m, &f); err == nil {
			r.Moisture = &f
		}
	}

	return nil
}

// PaginationMeta describes where a page sits within the full result set.
// Fields the server omits are left at zero.
type PaginationMeta struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// Page is one successful response from the telemetry endpoint.
type Page struct {
	Data []Reading      `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// Query is the pagination cursor sent with a request.
// Zero fields are omitted from the request URL.
type Query struct {
	Page  int
	Limit int
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are
// interpreted as UTC. The second result is false when no layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
