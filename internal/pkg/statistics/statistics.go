package statistics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/cache"
)

const (
	CacheKeyTotal  = "statistics:%s:total"
	CacheKeyActive = "statistics:%s:active"
	CacheKeyToday  = "statistics:%s:today:%s" // second arg is YYYY-MM-DD

	CacheExpiration = 30 * time.Minute
)

// TableStats are the dashboard counters for one report kind. Each counter is
// computed independently and reports its own failure: a failing count is
// null in the JSON rather than a fake zero, and never takes the other
// counters down with it.
type TableStats struct {
	Table    string `json:"table"`
	Total    *int   `json:"total"`
	Active   *int   `json:"active"`
	Resolved *int   `json:"resolved"`
	Today    *int   `json:"today"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

type counter interface {
	CountTotal() (int64, error)
	CountByStatus(status string) (int64, error)
	CountToday(now time.Time) (int64, error)
}

func counterFor(repos *repository.Repositories, table string) counter {
	if table == models.TableCrimeReports {
		return repos.CrimeReport
	}
	return repos.VehicleAlert
}

// ShouldUpdateCache reports whether the refresh interval has elapsed.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when they are stale.
func UpdateCacheIfNeeded(repos *repository.Repositories) {
	if !ShouldUpdateCache() {
		return
	}

	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	for _, table := range []string{models.TableVehicleAlerts, models.TableCrimeReports} {
		updateTableCache(repos, table)
	}
	lastCacheUpdate = time.Now()
}

// InvalidateTable drops the cached counters for one report kind so the
// next read recounts. Used after writes that change the totals.
func InvalidateTable(table string) {
	today := time.Now().Format("2006-01-02")
	for _, key := range []string{
		fmt.Sprintf(CacheKeyTotal, table),
		fmt.Sprintf(CacheKeyActive, table),
		fmt.Sprintf(CacheKeyToday, table, today),
	} {
		if err := cache.Delete(key); err != nil {
			log.Warnf("[Statistics] dropping %s: %v", key, err)
		}
	}
	ResetCacheUpdateTimer()
}

// ResetCacheUpdateTimer forces the next read to recompute.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

func updateTableCache(repos *repository.Repositories, table string) {
	c := counterFor(repos, table)

	if total, err := c.CountTotal(); err != nil {
		log.Errorf("[Statistics] counting %s total: %v", table, err)
	} else {
		cacheCount(fmt.Sprintf(CacheKeyTotal, table), total)
	}

	if active, err := c.CountByStatus(models.STATUS_ACTIVE); err != nil {
		log.Errorf("[Statistics] counting %s active: %v", table, err)
	} else {
		cacheCount(fmt.Sprintf(CacheKeyActive, table), active)
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	if n, err := c.CountToday(now); err != nil {
		log.Errorf("[Statistics] counting %s today: %v", table, err)
	} else {
		cacheCount(fmt.Sprintf(CacheKeyToday, table, today), n)
	}
}

func cacheCount(key string, n int64) {
	if err := cache.Set(key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
		log.Errorf("[Statistics] caching %s: %v", key, err)
	}
}

// cachedOrCount resolves one counter, cache-first. A failed count returns
// nil so the API reports the counter as unavailable instead of zero.
func cachedOrCount(key string, count func() (int64, error)) *int {
	if val, err := cache.Get(key); err == nil {
		if n, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			v := int(n)
			return &v
		}
	}

	n, err := count()
	if err != nil {
		log.Errorf("[Statistics] counting for %s: %v", key, err)
		return nil
	}
	cacheCount(key, n)
	v := int(n)
	return &v
}

// GetTableStats returns the counters for one report kind, cache-first.
func GetTableStats(repos *repository.Repositories, table string) TableStats {
	c := counterFor(repos, table)
	now := time.Now()
	today := now.Format("2006-01-02")

	var resolved *int
	if n, err := c.CountByStatus(models.STATUS_RESOLVED); err != nil {
		log.Errorf("[Statistics] counting %s resolved: %v", table, err)
	} else {
		v := int(n)
		resolved = &v
	}

	return TableStats{
		Table: table,
		Total: cachedOrCount(fmt.Sprintf(CacheKeyTotal, table), c.CountTotal),
		Active: cachedOrCount(fmt.Sprintf(CacheKeyActive, table), func() (int64, error) {
			return c.CountByStatus(models.STATUS_ACTIVE)
		}),
		Resolved: resolved,
		Today: cachedOrCount(fmt.Sprintf(CacheKeyToday, table, today), func() (int64, error) {
			return c.CountToday(now)
		}),
	}
}

// GetAllStats returns counters for both report kinds.
func GetAllStats(repos *repository.Repositories) []TableStats {
	UpdateCacheIfNeeded(repos)

	return []TableStats{
		GetTableStats(repos, models.TableVehicleAlerts),
		GetTableStats(repos, models.TableCrimeReports),
	}
}
