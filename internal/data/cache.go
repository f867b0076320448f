package data

import (
	"os"
	"sync"
	"time"

	"caltrack-baseline/internal/model"
)

// runEntry is one cached baseline run.
type runEntry struct {
	result    *model.ModelResult
	expiresAt time.Time
}

// RunCache keeps recent ModelResults in memory so the API can serve
// follow-up reads (full candidate tables are large and clients usually ask
// for the summary first). Results are immutable, so sharing pointers across
// readers is safe.
type RunCache struct {
	mu    sync.RWMutex
	store map[string]*runEntry
	ttl   time.Duration
}

// NewRunCache builds a cache with the given TTL. A non-positive TTL falls
// back to one hour; BASELINE_RUN_TTL overrides it (duration string).
func NewRunCache(ttl time.Duration) *RunCache {
	if s := os.Getenv("BASELINE_RUN_TTL"); s != "" {
		if parsed, err := time.ParseDuration(s); err == nil {
			ttl = parsed
		}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &RunCache{
		store: make(map[string]*runEntry),
		ttl:   ttl,
	}
	go c.cleanup()
	return c
}

// Get retrieves a cached run if present and not expired.
func (c *RunCache) Get(id string) (*model.ModelResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

// Set stores a run result under the given id.
func (c *RunCache) Set(id string, result *model.ModelResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[id] = &runEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *RunCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*runEntry)
}

// cleanup periodically evicts expired entries.
func (c *RunCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for id, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, id)
			}
		}
		c.mu.Unlock()
	}
}
