// Package engine implements the journal analysis engine: local metric
// extraction, AI enrichment with caching and backoff, per-caller admission
// control, batch aggregation, and the deterministic local fallback. Entries
// are analyzed independently; batch analysis runs entries concurrently with
// no ordering dependency between them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jfenner/vitalog/internal/extract"
	"github.com/jfenner/vitalog/internal/llm"
	"github.com/jfenner/vitalog/pkg/types"
)

// DefaultNumWorkers bounds batch concurrency.
const DefaultNumWorkers = 4

// Config holds the tunables of the analysis engine.
type Config struct {
	MaxAttempts int           // enrichment attempts per entry (default 2)
	NumWorkers  int           // concurrent entry analyses in a batch (default 4)
	CacheTTL    time.Duration // enrichment cache TTL (default 30m)
	RateLimit   int           // admissions per caller per window (default 10)
	RateWindow  time.Duration // sliding window length (default 60s)
}

// AnalysisEngine orchestrates the full per-entry pipeline:
// text -> extractor -> metrics -> rate limiter -> retry/backoff ->
// cache/AI client -> enriched result, with local fallback when enrichment
// is exhausted. It owns the process-wide cache and limiter state; construct
// one instance and share it across the request-handling layer.
type AnalysisEngine struct {
	enricher *Enricher
	cache    *AnalysisCache
	limiter  *CallerLimiter
	config   Config
}

// NewAnalysisEngine creates an engine backed by the given text generator.
// A nil generator is valid: analysis then always takes the local path.
func NewAnalysisEngine(generator llm.TextGenerator, cfg Config) *AnalysisEngine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultNumWorkers
	}

	cache := NewAnalysisCache(cfg.CacheTTL)
	return &AnalysisEngine{
		enricher: NewEnricher(generator, cache),
		cache:    cache,
		limiter:  NewCallerLimiter(cfg.RateLimit, cfg.RateWindow),
		config:   cfg,
	}
}

// Start launches the background sweepers for the cache and rate limiter.
// They stop when ctx is cancelled.
func (e *AnalysisEngine) Start(ctx context.Context) {
	e.cache.StartSweeper(ctx)
	e.limiter.StartSweeper(ctx)
}

// Admit exposes the per-caller sliding-window admission decision.
func (e *AnalysisEngine) Admit(callerID string) (bool, int) {
	return e.limiter.Admit(callerID)
}

// CacheLen reports the current enrichment cache size.
func (e *AnalysisEngine) CacheLen() int {
	return e.cache.Len()
}

// AnalyzeEntry runs the full pipeline for one entry on behalf of callerID.
// Validation and rate-limit failures are surfaced as errors; enrichment
// failure is not - after the retry budget is exhausted the engine falls
// back to locally synthesized insights, so a valid, admitted entry always
// yields a usable analysis.
func (e *AnalysisEngine) AnalyzeEntry(ctx context.Context, entry types.JournalEntry, callerID string) (*types.EnrichedAnalysis, error) {
	if err := ValidateContent(entry.Content); err != nil {
		return nil, err
	}

	if allowed, retryAfter := e.limiter.Admit(callerID); !allowed {
		return nil, &RateLimitError{RetryAfterSeconds: retryAfter}
	}

	return e.analyze(ctx, entry), nil
}

// analyze extracts metrics and enriches them, falling back to the local
// generator on exhausted or unavailable enrichment. Extraction never fails,
// so neither does this method.
func (e *AnalysisEngine) analyze(ctx context.Context, entry types.JournalEntry) *types.EnrichedAnalysis {
	metrics := extract.Extract(entry.Content)

	analysis, err := e.enricher.EnrichWithRetry(ctx, entry.Content, metrics, e.config.MaxAttempts)
	if err != nil {
		if !errors.Is(err, ErrEnrichmentUnavailable) {
			log.Printf("Engine: enrichment exhausted for entry %s, using local analysis: %v", entry.ID, err)
		}
		local := LocalAnalysis(metrics)
		return &local
	}

	return &analysis
}

// AnalyzeBatch analyzes many entries concurrently and aggregates the
// results. Per-entry validation and rate-limit failures become failure
// placeholders in the result slice; no entry aborts the batch. Results
// preserve the input order.
func (e *AnalysisEngine) AnalyzeBatch(ctx context.Context, entries []types.JournalEntry, callerID string) ([]types.EntryResult, *types.AggregateReport) {
	results := make([]types.EntryResult, len(entries))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := e.config.NumWorkers
	if workers > len(entries) {
		workers = len(entries)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entry := entries[i]
				results[i] = types.EntryResult{EntryID: entry.ID}

				if err := ValidateContent(entry.Content); err != nil {
					results[i].Error = err.Error()
					continue
				}
				if allowed, retryAfter := e.limiter.Admit(callerID); !allowed {
					results[i].Error = fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter)
					continue
				}

				results[i].Analysis = e.analyze(ctx, entry)
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, Aggregate(results)
}

// ValidateContent enforces the entry content contract: a string of
// 1-10000 characters.
func ValidateContent(content string) error {
	if len(content) < types.MinContentLength {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(content) > types.MaxContentLength {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("must be at most %d characters", types.MaxContentLength)}
	}
	return nil
}
