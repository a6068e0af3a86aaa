package congregation

import "time"

// StatsCache holds the last dashboard aggregation. Implementations must be
// safe for concurrent use.
type StatsCache interface {
	Get(now time.Time) (Stats, bool)
	Set(stats Stats, expiresAt time.Time)
	Invalidate()
}

type noopStatsCache struct{}

func (noopStatsCache) Get(time.Time) (Stats, bool) { return Stats{}, false }

func (noopStatsCache) Set(Stats, time.Time) {}

func (noopStatsCache) Invalidate() {}
