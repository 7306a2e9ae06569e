package vision

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"toolgen/internal/domain/entity"
)

// resultCache is a bounded recency cache keyed by screenshot digest. On
// overflow the least recently touched entry is evicted.
type resultCache struct {
	mu      sync.Mutex
	cap     int
	entries map[string]*entity.VisionResult
	order   []string
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		cap:     capacity,
		entries: make(map[string]*entity.VisionResult, capacity),
	}
}

func (c *resultCache) get(key string) (*entity.VisionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[key]
	if ok {
		c.touch(key)
	}
	return result, ok
}

func (c *resultCache) put(key string, result *entity.VisionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = result
		c.touch(key)
		return
	}

	for len(c.entries) >= c.cap && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = result
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func screenshotDigest(shot *entity.Screenshot) string {
	if shot == nil || len(shot.Data) == 0 {
		return ""
	}
	sum := sha256.Sum256(shot.Data)
	return hex.EncodeToString(sum[:])
}
