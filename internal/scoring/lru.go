package scoring

import (
	"container/list"
	"math"
	"sync"
)

const cacheCapacity = 10000

// cacheKey quantizes the scoring inputs that actually move the score.
// Position is rounded to ~100m, the agency rate feature to two decimals,
// weather to one, so nearby repeat queries collapse onto one entry.
type cacheKey struct {
	lat       float64
	lng       float64
	hour      int
	part1     float64
	weather   float64
	gender    string
	travelers int
	weekend   bool
}

func newCacheKey(ctx *Context, part1Feature float64) cacheKey {
	return cacheKey{
		lat:       roundTo(ctx.Lat, 3),
		lng:       roundTo(ctx.Lng, 3),
		hour:      ctx.Hour,
		part1:     roundTo(part1Feature, 2),
		weather:   roundTo(ctx.WeatherSeverity, 1),
		gender:    ctx.Gender,
		travelers: ctx.Travelers,
		weekend:   ctx.IsWeekend,
	}
}

type cacheEntry struct {
	key   cacheKey
	score float64
}

// predictionCache is a mutex-guarded LRU over model predictions. The
// check-then-insert pair is not atomic on its own, so both sides of a
// miss run under one lock.
type predictionCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[cacheKey]*list.Element
}

func newPredictionCache(capacity int) *predictionCache {
	if capacity <= 0 {
		capacity = cacheCapacity
	}
	return &predictionCache{
		cap:     capacity,
		order:   list.New(),
		entries: make(map[cacheKey]*list.Element, capacity),
	}
}

// getOrCompute returns the cached score for key, or runs compute and
// stores the result, evicting the least recently used entry at
// capacity. compute runs under the cache lock.
func (c *predictionCache) getOrCompute(key cacheKey, compute func() float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).score
	}

	score := compute()
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, score: score})
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return score
}

func (c *predictionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
