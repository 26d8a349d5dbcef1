package cache

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/textutil"
)

// Cache is a read cache for process lookups, keyed by case number.
type Cache interface {
	Get(key string) (*database.Process, bool)
	Set(key string, value *database.Process)
	Delete(key string)
	Clear()
	Stats() Stats
}

type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type processCache struct {
	cache   *gocache.Cache
	mu      sync.RWMutex
	stats   Stats
	maxSize int
}

func NewCache(maxSize int, ttl time.Duration) Cache {
	return &processCache{
		cache:   gocache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

func (c *processCache) Get(key string) (*database.Process, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if process, ok := data.(*database.Process); ok {
			c.stats.Hits++
			return process, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *processCache) Set(key string, value *database.Process) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(key, value, gocache.DefaultExpiration)
}

func (c *processCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(key)
}

func (c *processCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = Stats{}
}

func (c *processCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}

func (c *processCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldestExpiration int64

	for key, item := range items {
		if oldestExpiration == 0 || item.Expiration < oldestExpiration {
			oldestKey = key
			oldestExpiration = item.Expiration
		}
	}

	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}

// Key builds a cache key from a case number in any display format.
func Key(processNumber string) string {
	return fmt.Sprintf("process:%s", textutil.OnlyDigits(processNumber))
}
