package statistics

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coldCache misses on every key, as an empty or unreachable Redis would.
type coldCache struct{}

func (coldCache) Get(key string) (string, error) { return "", errors.New("cache miss") }
func (coldCache) GetInt(key string) (int, error) { return 0, errors.New("cache miss") }

type warmCache struct {
	values map[string]string
}

func (c warmCache) Get(key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c warmCache) GetInt(key string) (int, error) {
	v, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

type fakeFallback struct {
	users    int64
	packages int64
	revenue  float64
	counts   map[string]int
	calls    int
}

func (f *fakeFallback) UserCount() (int64, error)          { f.calls++; return f.users, nil }
func (f *fakeFallback) ActivePackageCount() (int64, error) { f.calls++; return f.packages, nil }
func (f *fakeFallback) SucceededRevenue() (float64, error) { f.calls++; return f.revenue, nil }
func (f *fakeFallback) AudienceCounts() (map[string]int, error) {
	f.calls++
	return f.counts, nil
}

func TestCollectDashboardStatsFallsBackOnColdCache(t *testing.T) {
	fb := &fakeFallback{
		users:    12,
		packages: 4,
		revenue:  1499.50,
		counts:   map[string]int{"all": 2, "plan": 1, "user": 3},
	}

	stats, err := collectDashboardStats(coldCache{}, fb)
	require.NoError(t, err)

	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, 4, stats.ActivePackages)
	assert.Equal(t, 1499.50, stats.TotalRevenue)
	assert.Equal(t, map[string]int{"all": 2, "plan": 1, "user": 3}, stats.AudienceCounts)
}

func TestCollectDashboardStatsPrefersWarmCache(t *testing.T) {
	c := warmCache{values: map[string]string{
		CacheKeyUsersTotal:                       "20",
		CacheKeyPackagesActive:                   "7",
		CacheKeyRevenueTotal:                     "2500.00",
		"statistics:notifications:audience:all":  "5",
		"statistics:notifications:audience:plan": "2",
		"statistics:notifications:audience:user": "1",
	}}
	fb := &fakeFallback{users: 999}

	stats, err := collectDashboardStats(c, fb)
	require.NoError(t, err)

	assert.Equal(t, 20, stats.TotalUsers)
	assert.Equal(t, 7, stats.ActivePackages)
	assert.Equal(t, 2500.00, stats.TotalRevenue)
	assert.Equal(t, map[string]int{"all": 5, "plan": 2, "user": 1}, stats.AudienceCounts)
	assert.Zero(t, fb.calls, "warm cache must not touch the database")
}
