package moistureboard

import (
	"time"

	"github.com/jpalmerr/moistureboard/internal/poller"
)

// Phase is the visible condition of the dashboard derived from a [State].
//
// Renderers use it to pick between a loading placeholder, a background
// refresh indicator, an error banner over the last good readings, and the
// steady view.
type Phase string

const (
	// PhaseLoading means a load fetch (start, page or limit change) is in flight.
	PhaseLoading Phase = "loading"

	// PhaseRefreshing means a background or manual refresh is in flight.
	PhaseRefreshing Phase = "refreshing"

	// PhaseError means the most recent fetch failed; Data holds the last good page.
	PhaseError Phase = "error"

	// PhaseUpToDate means the most recent fetch succeeded.
	PhaseUpToDate Phase = "up_to_date"

	// PhaseIdle means nothing is in flight and either polling is disabled or
	// no fetch has succeeded yet.
	PhaseIdle Phase = "idle"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// State is a point-in-time snapshot of a [Monitor].
//
// Data is shared with the monitor and must not be modified. A new slice is
// installed on every successful fetch, so a State stays consistent after
// later updates.
type State struct {
	// Data is the readings of the last successful fetch; empty, never nil.
	Data []Reading

	// Meta is the pagination metadata of the last successful fetch,
	// nil until one succeeds.
	Meta *PaginationMeta

	// Page and Limit are the current query cursor.
	Page  int
	Limit int

	IsLoading    bool
	IsRefreshing bool
	Enabled      bool

	// Error is the failure of the most recent settled fetch, nil after a success.
	Error error

	// FetchedAt is when Data was last replaced; zero before the first success.
	FetchedAt time.Time
}

// Stats computes statistics over Data. It is recomputed on each call.
func (s State) Stats() Statistics {
	return Aggregate(s.Data)
}

// TotalPages returns Meta.TotalPages, or 0 before the first success.
func (s State) TotalPages() int {
	if s.Meta == nil {
		return 0
	}
	return s.Meta.TotalPages
}

// Phase reports the visible condition. In-flight fetches take precedence
// over the outcome of the previous one.
func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.IsRefreshing:
		return PhaseRefreshing
	case s.Error != nil:
		return PhaseError
	case !s.Enabled, s.FetchedAt.IsZero():
		return PhaseIdle
	default:
		return PhaseUpToDate
	}
}

func fromPollerState(ps poller.State) State {
	return State{
		Data:         ps.Data,
		Meta:         ps.Meta,
		Page:         ps.Page,
		Limit:        ps.Limit,
		IsLoading:    ps.IsLoading,
		IsRefreshing: ps.IsRefreshing,
		Enabled:      ps.Enabled,
		Error:        ps.Error,
		FetchedAt:    ps.FetchedAt,
	}
}
