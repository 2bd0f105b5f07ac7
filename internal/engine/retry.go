package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

// DefaultMaxAttempts is the total number of enrichment attempts the backoff
// wrapper makes before surfacing the last failure.
const DefaultMaxAttempts = 2

// defaultBackoffBase is the unit of the 2^attempt backoff delay. Tests
// shrink it so retry sequences complete quickly.
const defaultBackoffBase = time.Second

// EnrichWithRetry attempts the enrichment call up to maxAttempts times,
// waiting base*2^attempt (attempt starting at 0) between failures. Attempts
// within one entry are strictly sequential: attempt i+1 never starts before
// attempt i's backoff has elapsed. After the attempts are exhausted, the
// last failure is returned to the caller unchanged; falling back to local
// insight generation is the orchestration layer's decision, not this
// wrapper's.
//
// ErrEnrichmentUnavailable is a configuration condition, not a transient
// failure, so it short-circuits the retry loop.
func (e *Enricher) EnrichWithRetry(ctx context.Context, entryText string, metrics types.Metrics, maxAttempts int) (types.EnrichedAnalysis, error) {
	return e.enrichWithRetry(ctx, entryText, metrics, maxAttempts, defaultBackoffBase)
}

func (e *Enricher) enrichWithRetry(ctx context.Context, entryText string, metrics types.Metrics, maxAttempts int, base time.Duration) (types.EnrichedAnalysis, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		analysis, err := e.Enrich(ctx, entryText, metrics)
		if err == nil {
			return analysis, nil
		}
		lastErr = err

		if errors.Is(err, ErrEnrichmentUnavailable) {
			return types.EnrichedAnalysis{}, err
		}

		if attempt < maxAttempts-1 {
			delay := base << uint(attempt) // base * 2^attempt
			log.Printf("Enricher: attempt %d failed (%v), backing off %v", attempt+1, err, delay)

			select {
			case <-ctx.Done():
				return types.EnrichedAnalysis{}, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return types.EnrichedAnalysis{}, lastErr
}
