package batch

import "sync"

// GridCache memoizes solved grids by puzzle fingerprint so repeated
// dataset rows skip the solve entirely.
type GridCache struct {
	mu        sync.Mutex
	grids     map[string][]int
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewGridCache creates a cache holding at most maxSize grids. When the
// cache is full an arbitrary entry is evicted. Set maxSize to 0 for an
// unbounded cache.
func NewGridCache(maxSize int) *GridCache {
	return &GridCache{
		grids:   make(map[string][]int),
		maxSize: maxSize,
	}
}

// Get returns the cached grid for a fingerprint. Callers must not
// modify the returned slice.
func (c *GridCache) Get(fingerprint string) ([]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	grid, ok := c.grids[fingerprint]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return grid, ok
}

// Put stores a copy of the solved grid under the fingerprint.
func (c *GridCache) Put(fingerprint string, grid []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.grids) >= c.maxSize {
		if _, dup := c.grids[fingerprint]; !dup {
			for k := range c.grids {
				delete(c.grids, k)
				c.evictions++
				break
			}
		}
	}
	c.grids[fingerprint] = append([]int(nil), grid...)
}

// Size returns the current number of cached grids.
func (c *GridCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.grids)
}

// Clear removes all entries.
func (c *GridCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grids = make(map[string][]int)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *GridCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Size:      len(c.grids),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   rate,
	}
}
