package moistureboard

import (
	"time"

	"github.com/jpalmerr/moistureboard/internal/poller"
	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

// Reading is one telemetry sample: a raw timestamp string and a moisture
// value that is nil when the API did not send a number.
type Reading = telemetry.Reading

// PaginationMeta describes where a page sits within the full result set.
type PaginationMeta = telemetry.PaginationMeta

// Page is one decoded API response.
type Page = telemetry.Page

// HTTPError reports a response with a non-2xx status code.
type HTTPError = poller.HTTPError

// ShapeError reports a response body that is not a valid page.
type ShapeError = poller.ShapeError

// ErrCancelled is wrapped by errors from requests that were cancelled.
// It never appears in [State].Error.
var ErrCancelled = poller.ErrCancelled

// ParseTimestamp parses the ISO-8601 timestamp forms the telemetry API
// emits. The second result is false when s cannot be parsed.
func ParseTimestamp(s string) (time.Time, bool) {
	return telemetry.ParseTimestamp(s)
}
