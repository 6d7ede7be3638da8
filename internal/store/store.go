package store

import (
	"time"

	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

// Stats is the storage representation of the derived statistics.
type Stats struct {
	Average     *float64           `json:"average"`
	Min         *float64           `json:"min"`
	Max         *float64           `json:"max"`
	Range       *float64           `json:"range"`
	Trend       *float64           `json:"trend"`
	Latest      *telemetry.Reading `json:"latest"`
	Earliest    *telemetry.Reading `json:"earliest"`
	LastUpdated *string            `json:"lastUpdated"`
	Count       int                `json:"count"`
}

// Snapshot is the dashboard's view of the monitor at one point in time,
// shaped for JSON consumers (the REST API and SSE).
type Snapshot struct {
	// Version increases by one with every stored snapshot. Assigned by the store.
	Version uint64 `json:"version"`

	Data       []telemetry.Reading       `json:"data"`
	Meta       *telemetry.PaginationMeta `json:"meta"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"totalPages"`

	IsLoading    bool `json:"isLoading"`
	IsRefreshing bool `json:"isRefreshing"`
	Enabled      bool `json:"enabled"`

	// Error contains the last fetch failure, nil when the last fetch succeeded.
	Error *string `json:"error"`

	// Phase is one of loading, refreshing, error, up_to_date or idle.
	Phase string `json:"phase"`

	Stats Stats `json:"stats"`

	// FetchedAt is when Data was last replaced; nil before the first success.
	FetchedAt *time.Time `json:"fetchedAt"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Store holds the latest [Snapshot] and fans updates out to subscribers.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update replaces the latest snapshot and notifies all subscribers.
	Update(snap Snapshot)

	// Latest returns the most recent snapshot and whether one was stored.
	Latest() (Snapshot, bool)

	// Subscribe returns a channel that receives snapshots.
	// Slow consumers may miss intermediate snapshots but never the channel close.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot)
}
