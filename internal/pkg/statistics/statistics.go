package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/audience"
	"github.com/lumapanel/lumapanel/internal/pkg/cache"
)

const (
	CacheKeyUsersTotal     = "statistics:users:total"
	CacheKeyPackagesActive = "statistics:packages:active"
	CacheKeyRevenueTotal   = "statistics:revenue:total"
	CacheKeyAudience       = "statistics:notifications:audience:%s" // Format with audience kind
	CacheExpiration        = 30 * time.Minute
)

// DashboardStats holds the aggregate numbers for the admin dashboard cards.
type DashboardStats struct {
	TotalUsers     int            `json:"total_users"`
	ActivePackages int            `json:"active_packages"`
	TotalRevenue   float64        `json:"total_revenue"`
	AudienceCounts map[string]int `json:"audience_counts"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cached aggregates are due a refresh
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached aggregates when they are stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recomputes all aggregates from the database and
// stores them in the cache.
func UpdateStatisticsCache() error {
	repos := repository.GetGlobalRepositories()

	userCount, err := repos.User.Count()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if err := cache.Set(CacheKeyUsersTotal, userCount, CacheExpiration); err != nil {
		return err
	}

	activeCount, err := repos.Package.CountByStatus(models.PackageStatusActive)
	if err != nil {
		return fmt.Errorf("count active packages: %w", err)
	}
	if err := cache.Set(CacheKeyPackagesActive, activeCount, CacheExpiration); err != nil {
		return err
	}

	revenue, err := repos.Payment.SumSucceededAmount()
	if err != nil {
		return fmt.Errorf("sum revenue: %w", err)
	}
	if err := cache.Set(CacheKeyRevenueTotal, strconv.FormatFloat(revenue, 'f', 2, 64), CacheExpiration); err != nil {
		return err
	}

	counts, err := AudienceCounts()
	if err != nil {
		return fmt.Errorf("aggregate audiences: %w", err)
	}
	for kind, count := range counts {
		key := fmt.Sprintf(CacheKeyAudience, kind)
		if err := cache.Set(key, count, CacheExpiration); err != nil {
			return err
		}
	}

	return nil
}

// AudienceCounts tallies notifications per derived audience kind. It goes
// through the same classifier as the list views so the numbers always agree.
func AudienceCounts() (map[string]int, error) {
	repos := repository.GetGlobalRepositories()
	notifications, err := repos.Notification.GetAllForStats()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		string(audience.KindAll):  0,
		string(audience.KindPlan): 0,
		string(audience.KindUser): 0,
	}
	for i := range notifications {
		counts[string(notifications[i].Audience().Kind)]++
	}
	return counts, nil
}

// statCache is the cache read surface the stats collector needs.
type statCache interface {
	Get(key string) (string, error)
	GetInt(key string) (int, error)
}

// statFallback supplies aggregates straight from the database when the
// cache misses.
type statFallback interface {
	UserCount() (int64, error)
	ActivePackageCount() (int64, error)
	SucceededRevenue() (float64, error)
	AudienceCounts() (map[string]int, error)
}

type liveCache struct{}

func (liveCache) Get(key string) (string, error) { return cache.Get(key) }
func (liveCache) GetInt(key string) (int, error) { return cache.GetInt(key) }

type repoFallback struct{}

func (repoFallback) UserCount() (int64, error) {
	return repository.GetGlobalRepositories().User.Count()
}

func (repoFallback) ActivePackageCount() (int64, error) {
	return repository.GetGlobalRepositories().Package.CountByStatus(models.PackageStatusActive)
}

func (repoFallback) SucceededRevenue() (float64, error) {
	return repository.GetGlobalRepositories().Payment.SumSucceededAmount()
}

func (repoFallback) AudienceCounts() (map[string]int, error) {
	return AudienceCounts()
}

// GetDashboardStats serves the aggregates, preferring cached values and
// falling back to the database when the cache is cold.
func GetDashboardStats() (*DashboardStats, error) {
	UpdateCacheIfNeeded()
	return collectDashboardStats(liveCache{}, repoFallback{})
}

func collectDashboardStats(c statCache, fb statFallback) (*DashboardStats, error) {
	stats := &DashboardStats{AudienceCounts: map[string]int{}}

	if v, err := c.GetInt(CacheKeyUsersTotal); err == nil {
		stats.TotalUsers = v
	} else if n, err := fb.UserCount(); err == nil {
		stats.TotalUsers = int(n)
	}

	if v, err := c.GetInt(CacheKeyPackagesActive); err == nil {
		stats.ActivePackages = v
	} else if n, err := fb.ActivePackageCount(); err == nil {
		stats.ActivePackages = int(n)
	}

	if raw, err := c.Get(CacheKeyRevenueTotal); err == nil {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			stats.TotalRevenue = v
		}
	} else if v, err := fb.SucceededRevenue(); err == nil {
		stats.TotalRevenue = v
	}

	for _, kind := range []audience.Kind{audience.KindAll, audience.KindPlan, audience.KindUser} {
		v, err := c.GetInt(fmt.Sprintf(CacheKeyAudience, kind))
		if err != nil {
			counts, cerr := fb.AudienceCounts()
			if cerr != nil {
				break
			}
			for k, n := range counts {
				stats.AudienceCounts[k] = n
			}
			break
		}
		stats.AudienceCounts[string(kind)] = v
	}

	return stats, nil
}

// ResetCacheUpdateTimer forces the next read to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}
