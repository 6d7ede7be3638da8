package moistureboard

import (
	"math"
	"time"

	"github.com/jpalmerr/moistureboard/internal/telemetry"
)

// Statistics summarises a window of readings. Every pointer field is nil
// when no reading qualifies for it.
type Statistics struct {
	// Average, Min, Max and Range cover readings with finite moisture.
	// Range is nil if hi - lo does not fit in a float64.
	Average *float64
	Min     *float64
	Max     *float64
	Range   *float64

	// Trend is Latest's moisture minus Earliest's, when both are finite
	// and the difference does not overflow.
	Trend *float64

	// Latest and Earliest are chosen by parsed timestamp, not slice order.
	Latest   *Reading
	Earliest *Reading

	// LastUpdated is the raw timestamp of Latest.
	LastUpdated *string

	// Count is the number of readings with finite moisture.
	Count int
}

// Aggregate computes [Statistics] over readings in a single pass.
//
// Latest and Earliest use strict comparisons, so among readings with equal
// timestamps the first one in slice order wins. Readings with an
// unparseable timestamp still count toward the moisture figures; readings
// without finite moisture can still be Latest or Earliest.
func Aggregate(readings []Reading) Statistics {
	var (
		mean, lo, hi float64
		count        int

		latestIdx, earliestIdx = -1, -1
		latestAt, earliestAt   time.Time
	)

	for i, r := range readings {
		if r.HasFiniteMoisture() {
			m := *r.Moisture
			if count == 0 || m < lo {
				lo = m
			}
			if count == 0 || m > hi {
				hi = m
			}
			count++
			// both terms are bounded by MaxFloat64/2 once count > 1
			n := float64(count)
			mean += m/n - mean/n
		}

		t, ok := telemetry.ParseTimestamp(r.Timestamp)
		if !ok {
			continue
		}
		if latestIdx < 0 || t.After(latestAt) {
			latestIdx, latestAt = i, t
		}
		if earliestIdx < 0 || t.Before(earliestAt) {
			earliestIdx, earliestAt = i, t
		}
	}

	stats := Statistics{Count: count}

	if count > 0 {
		stats.Average = &mean
		stats.Min = &lo
		stats.Max = &hi
		stats.Range = finite(hi - lo)
	}

	if latestIdx >= 0 {
		latest := readings[latestIdx]
		earliest := readings[earliestIdx]
		ts := latest.Timestamp

		stats.Latest = &latest
		stats.Earliest = &earliest
		stats.LastUpdated = &ts

		if latest.HasFiniteMoisture() && earliest.HasFiniteMoisture() {
			stats.Trend = finite(*latest.Moisture - *earliest.Moisture)
		}
	}

	return stats
}

// finite returns &v, or nil when a difference of finite values overflowed.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
