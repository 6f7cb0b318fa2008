package marketdata

import (
	"sync"
	"time"

	"trading-agents-go/internal/config"
)

type cacheKey struct {
	symbol string
	kind   Kind
}

type cacheEntry struct {
	payload   any
	fetchedAt time.Time
}

// Cache is a time-bucketed in-memory store keyed by (symbol, kind) with
// per-kind expiry. Expired entries are retained: the gateway reads them as a
// last resort when every live source has failed. The key space is one entry
// per symbol per kind, so there is no eviction beyond TTL.
type Cache struct {
	mu       sync.RWMutex
	entries  map[cacheKey]cacheEntry
	ttls     map[Kind]time.Duration
	maxStale time.Duration
	now      func() time.Time
}

// NewCache creates a cache with per-kind TTLs from the configuration.
func NewCache(cfg *config.Cache) *Cache {
	return &Cache{
		entries: make(map[cacheKey]cacheEntry),
		ttls: map[Kind]time.Duration{
			KindQuote:        time.Duration(cfg.QuoteTTL) * time.Second,
			KindFundamentals: time.Duration(cfg.FundamentalsTTL) * time.Second,
			KindNews:         time.Duration(cfg.NewsTTL) * time.Second,
		},
		maxStale: time.Duration(cfg.MaxStale) * time.Second,
		now:      time.Now,
	}
}

// Get returns the cached payload for (symbol, kind). fresh reports whether the
// entry is still within its TTL; ok reports whether an entry exists at all.
// A stale entry is returned with fresh=false so the caller can decide whether
// it is an acceptable last resort. When a max-stale bound is configured,
// entries older than the bound are treated as absent.
func (c *Cache) Get(symbol string, kind Kind) (payload any, fresh bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey{symbol: symbol, kind: kind}]
	if !ok {
		return nil, false, false
	}

	age := c.now().Sub(entry.fetchedAt)
	if c.maxStale > 0 && age >= c.maxStale {
		return nil, false, false
	}

	return entry.payload, age < c.ttls[kind], true
}

// Put stores a payload for (symbol, kind), superseding any previous entry.
func (c *Cache) Put(symbol string, kind Kind, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{symbol: symbol, kind: kind}] = cacheEntry{
		payload:   payload,
		fetchedAt: c.now(),
	}
}

// Len returns the number of cached entries, for the dashboard status endpoint.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
