package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// ttlCache tracks callsign keys with per-entry expiry. It backs both the
// notification cooldown and the "recently spotted" suppression table; the
// two differ only in TTL. Keys are hashed so the cache never retains raw
// callsign strings. Expired entries are swept lazily on access, there is no
// timer. Safe for concurrent use: the sked poller reads the last-spotted
// table from its own goroutine.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uint64]time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[uint64]time.Time),
	}
}

func cacheKey(call string) uint64 {
	return xxh3.HashString(strings.ToUpper(strings.TrimSpace(call)))
}

// Live reports whether the call has an unexpired entry.
func (c *ttlCache) Live(call string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(now)
	expiry, ok := c.entries[cacheKey(call)]
	return ok && now.Before(expiry)
}

// Mark installs or refreshes the entry for the call.
func (c *ttlCache) Mark(call string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(now)
	c.entries[cacheKey(call)] = now.Add(c.ttl)
}

func (c *ttlCache) sweepLocked(now time.Time) {
	for k, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of live entries; for stats lines.
func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
