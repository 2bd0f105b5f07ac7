package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.New("timeout")},
		{text: validInsightJSON},
	}}
	enricher := NewEnricher(gen, NewAnalysisCache(DefaultCacheTTL))

	analysis, err := enricher.enrichWithRetry(context.Background(), "entry", types.Metrics{}, 2, time.Millisecond)
	if err != nil {
		t.Fatalf("enrichWithRetry() error = %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
	if analysis.Source != "ai" {
		t.Errorf("Source = %q, want \"ai\"", analysis.Source)
	}
}

func TestRetryReturnsLastFailure(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.New("first failure")},
		{err: errors.New("second failure")},
	}}
	enricher := NewEnricher(gen, NewAnalysisCache(DefaultCacheTTL))

	_, err := enricher.enrichWithRetry(context.Background(), "entry", types.Metrics{}, 2, time.Millisecond)
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
	if !strings.Contains(err.Error(), "second failure") {
		t.Errorf("error = %v, want the last attempt's failure", err)
	}
}

func TestRetryBacksOffBetweenAttempts(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{err: errors.New("flaky")},
		{err: errors.New("flaky")},
		{text: validInsightJSON},
	}}
	enricher := NewEnricher(gen, NewAnalysisCache(DefaultCacheTTL))

	base := 20 * time.Millisecond
	_, err := enricher.enrichWithRetry(context.Background(), "entry", types.Metrics{}, 3, base)
	if err != nil {
		t.Fatalf("enrichWithRetry() error = %v", err)
	}
	if len(gen.callTimes) != 3 {
		t.Fatalf("generator called %d times, want 3", len(gen.callTimes))
	}

	// Delay doubles per attempt: base before attempt 2, 2*base before attempt 3.
	if gap := gen.callTimes[1].Sub(gen.callTimes[0]); gap < base {
		t.Errorf("gap before second attempt = %v, want >= %v", gap, base)
	}
	if gap := gen.callTimes[2].Sub(gen.callTimes[1]); gap < 2*base {
		t.Errorf("gap before third attempt = %v, want >= %v", gap, 2*base)
	}
}

func TestRetryShortCircuitsWhenUnavailable(t *testing.T) {
	enricher := NewEnricher(nil, NewAnalysisCache(DefaultCacheTTL))

	start := time.Now()
	_, err := enricher.enrichWithRetry(context.Background(), "entry", types.Metrics{}, 2, time.Second)
	if !errors.Is(err, ErrEnrichmentUnavailable) {
		t.Fatalf("error = %v, want ErrEnrichmentUnavailable", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("unavailable provider should not trigger backoff waits")
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{err: errors.New("down")}}}
	enricher := NewEnricher(gen, NewAnalysisCache(DefaultCacheTTL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enricher.enrichWithRetry(ctx, "entry", types.Metrics{}, 3, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}
