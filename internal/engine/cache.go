package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

// DefaultCacheTTL bounds how long a cached enrichment result is valid.
const DefaultCacheTTL = 30 * time.Minute

// cacheEntry is one stored analysis. The cached flag is not stored; it is
// set on the way out so that only actual hits report cached=true.
type cacheEntry struct {
	analysis types.EnrichedAnalysis
	storedAt time.Time
}

// AnalysisCache is a time-bounded memoization of enrichment results keyed by
// a fingerprint of (entry text, extracted metrics). It is safe for
// concurrent use by many in-flight entry analyses. An entry older than the
// TTL is never returned as a hit and is removed by the background sweep.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is injectable for TTL tests.
	now func() time.Time
}

// NewAnalysisCache creates an empty cache with the given TTL.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &AnalysisCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Fingerprint derives the stable cache key for an (entry text, metrics)
// pair. Metrics serialization is deterministic (fixed struct field order),
// so identical inputs always map to the same key.
func Fingerprint(text string, metrics types.Metrics) string {
	h := sha256.New()
	h.Write([]byte(text))
	// ExtractedAt would change between identical extractions; zero it out.
	metrics.ExtractedAt = time.Time{}
	if data, err := json.Marshal(metrics); err == nil {
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached analysis for key, or ok=false on a miss. An entry
// whose age has reached the TTL is treated as a miss.
func (c *AnalysisCache) Get(key string) (types.EnrichedAnalysis, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return types.EnrichedAnalysis{}, false
	}

	analysis := entry.analysis
	analysis.Cached = true
	return analysis, true
}

// Put stores an analysis under key, stamped at the current time.
func (c *AnalysisCache) Put(key string, analysis types.EnrichedAnalysis) {
	analysis.Cached = false
	c.mu.Lock()
	c.entries[key] = cacheEntry{analysis: analysis, storedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes every entry whose age has reached the TTL and returns the
// number removed. The sweep holds the write lock only for its own bounded
// pass over the map.
func (c *AnalysisCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs a periodic sweep at the TTL interval until ctx is
// cancelled. This bounds cache growth for a long-running process.
func (c *AnalysisCache) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.ttl)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.Sweep(); removed > 0 {
					log.Printf("AnalysisCache: swept %d expired entries", removed)
				}
			}
		}
	}()
}
