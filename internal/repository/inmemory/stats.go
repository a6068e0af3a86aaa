package inmemory

import (
	"sync"
	"time"

	"church-admin-go/internal/domain/congregation"
)

// StatsCache is a process-local TTL cache for the dashboard aggregation.
type StatsCache struct {
	mu        sync.RWMutex
	stats     congregation.Stats
	hasValue  bool
	expiresAt time.Time
}

func NewStatsCache() *StatsCache {
	return &StatsCache{}
}

func (c *StatsCache) Get(now time.Time) (congregation.Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasValue || !c.expiresAt.After(now) {
		return congregation.Stats{}, false
	}
	return cloneStats(c.stats), true
}

func (c *StatsCache) Set(stats congregation.Stats, expiresAt time.Time) {
	c.mu.Lock()
	c.stats = cloneStats(stats)
	c.hasValue = true
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	c.hasValue = false
	c.mu.Unlock()
}

func cloneStats(stats congregation.Stats) congregation.Stats {
	cloned := stats
	cloned.ByMemberType = cloneCounts(stats.ByMemberType)
	cloned.ByGender = cloneCounts(stats.ByGender)
	return cloned
}

func cloneCounts(counts map[string]int64) map[string]int64 {
	if counts == nil {
		return nil
	}
	cloned := make(map[string]int64, len(counts))
	for key, value := range counts {
		cloned[key] = value
	}
	return cloned
}
