package engine

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jfenner/vitalog/internal/llm"
	"github.com/jfenner/vitalog/pkg/types"
)

// Enricher invokes the external text-generation capability with the fixed
// health-analyst prompt contract and validates the returned JSON shape.
// Successful results are written into the analysis cache before being
// returned; a cache hit short-circuits the external call entirely.
type Enricher struct {
	generator llm.TextGenerator
	cache     *AnalysisCache
}

// NewEnricher creates an enricher backed by the given generator and cache.
// A nil generator is allowed and puts the enricher in the unavailable state.
func NewEnricher(generator llm.TextGenerator, cache *AnalysisCache) *Enricher {
	return &Enricher{
		generator: generator,
		cache:     cache,
	}
}

// Available reports whether an LLM provider is configured.
func (e *Enricher) Available() bool {
	return e.generator != nil
}

// Enrich produces an EnrichedAnalysis for the given entry text and metrics.
// It fails with ErrEnrichmentUnavailable when no provider is configured and
// with EnrichmentError when the external call errors or returns content that
// does not parse as the required insights/suggestions shape.
func (e *Enricher) Enrich(ctx context.Context, entryText string, metrics types.Metrics) (types.EnrichedAnalysis, error) {
	if e.generator == nil {
		return types.EnrichedAnalysis{}, ErrEnrichmentUnavailable
	}

	key := Fingerprint(entryText, metrics)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return types.EnrichedAnalysis{}, &EnrichmentError{Err: err}
	}

	response, err := e.generator.Generate(ctx, llm.InsightSystemPrompt, llm.InsightUserPrompt(entryText, string(metricsJSON)))
	if err != nil {
		return types.EnrichedAnalysis{}, &EnrichmentError{Err: err}
	}

	parsed, err := llm.ParseInsightResponse(response)
	if err != nil {
		log.Printf("Enricher: provider %s returned unparseable response: %v", e.generator.GetModel(), err)
		return types.EnrichedAnalysis{}, &EnrichmentError{Err: err}
	}

	analysis := types.EnrichedAnalysis{
		Metrics:     metrics,
		Insights:    parsed.Insights,
		Suggestions: parsed.Suggestions,
		Cached:      false,
		Source:      "ai",
	}

	e.cache.Put(key, analysis)
	return analysis, nil
}
