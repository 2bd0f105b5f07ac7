package engine

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

// Sliding-window admission defaults: at most 10 requests per caller in any
// trailing 60-second window.
const (
	DefaultRateLimit  = 10
	DefaultRateWindow = 60 * time.Second
)

// CallerLimiter is a per-caller sliding-window request limiter guarding the
// enrichment path. Each caller has an ordered window of request timestamps;
// only timestamps within the trailing window are retained. Safe for
// concurrent use.
type CallerLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewCallerLimiter creates a limiter admitting up to limit requests per
// caller within the trailing window. Non-positive arguments fall back to
// the defaults.
func NewCallerLimiter(limit int, window time.Duration) *CallerLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &CallerLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Admit decides whether a request from callerID may proceed. On admission it
// records the request timestamp and returns (true, 0). On denial it returns
// (false, n) where n is the number of seconds until the oldest timestamp in
// the window expires.
func (l *CallerLimiter) Admit(callerID string) (bool, int) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop timestamps that have slid out of the window.
	window := l.windows[callerID]
	kept := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.windows[callerID] = kept
		oldest := kept[0]
		retryAfter := int(math.Ceil(l.window.Seconds() - now.Sub(oldest).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	l.windows[callerID] = append(kept, now)
	return true, 0
}

// Sweep removes callers whose windows hold no timestamps inside the trailing
// window, so idle callers do not leak memory. Returns the number of windows
// removed.
func (l *CallerLimiter) Sweep() int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for callerID, window := range l.windows {
		live := false
		for _, ts := range window {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.windows, callerID)
			removed++
		}
	}
	return removed
}

// StartSweeper runs a periodic sweep at the window interval until ctx is
// cancelled.
func (l *CallerLimiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.window)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := l.Sweep(); removed > 0 {
					log.Printf("CallerLimiter: swept %d idle caller windows", removed)
				}
			}
		}
	}()
}
