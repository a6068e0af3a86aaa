package inmemory

import (
	"testing"
	"time"

	"church-admin-go/internal/domain/congregation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCache(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	t.Run("empty cache misses", func(t *testing.T) {
		cache := NewStatsCache()
		_, ok := cache.Get(now)
		assert.False(t, ok)
	})

	t.Run("serves until expiry", func(t *testing.T) {
		cache := NewStatsCache()
		cache.Set(congregation.Stats{Families: 3}, now.Add(time.Minute))

		stats, ok := cache.Get(now)
		require.True(t, ok)
		assert.Equal(t, int64(3), stats.Families)

		_, ok = cache.Get(now.Add(time.Minute))
		assert.False(t, ok)
	})

	t.Run("invalidate drops the value", func(t *testing.T) {
		cache := NewStatsCache()
		cache.Set(congregation.Stats{Families: 3}, now.Add(time.Minute))
		cache.Invalidate()

		_, ok := cache.Get(now)
		assert.False(t, ok)
	})

	t.Run("returned maps are isolated copies", func(t *testing.T) {
		cache := NewStatsCache()
		cache.Set(congregation.Stats{
			ByMemberType: map[string]int64{congregation.MemberTypeChild: 2},
		}, now.Add(time.Minute))

		first, ok := cache.Get(now)
		require.True(t, ok)
		first.ByMemberType[congregation.MemberTypeChild] = 99

		second, ok := cache.Get(now)
		require.True(t, ok)
		assert.Equal(t, int64(2), second.ByMemberType[congregation.MemberTypeChild])
	})
}
