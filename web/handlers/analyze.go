package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jfenner/vitalog/internal/engine"
	"github.com/jfenner/vitalog/internal/score"
	"github.com/jfenner/vitalog/internal/storage"
	"github.com/jfenner/vitalog/pkg/types"
)

// AnalyzeHandlers contains the HTTP handlers for the analysis API.
type AnalyzeHandlers struct {
	engine *engine.AnalysisEngine
	store  storage.KVStore
}

// NewAnalyzeHandlers creates a new AnalyzeHandlers instance. The store may
// be nil, in which case results are returned but not persisted.
func NewAnalyzeHandlers(eng *engine.AnalysisEngine, store storage.KVStore) *AnalyzeHandlers {
	return &AnalyzeHandlers{
		engine: eng,
		store:  store,
	}
}

// AnalyzeRequest is the request body for single-entry analysis.
type AnalyzeRequest struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// AnalyzeResponse is the response for single-entry analysis.
type AnalyzeResponse struct {
	ID         string                  `json:"id"`
	AnalyzedAt time.Time               `json:"analyzed_at"`
	Analysis   *types.EnrichedAnalysis `json:"analysis"`
}

// Analyze handles POST /api/analyze - analyze one journal entry.
// Rejects with 400 if content is not a string of length 1-10000.
func (h *AnalyzeHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	entry := types.JournalEntry{
		ID:        req.ID,
		Timestamp: time.Now(),
		Content:   req.Content,
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	analysis, err := h.engine.AnalyzeEntry(r.Context(), entry, callerID(r))
	if err != nil {
		respondEngineError(w, err)
		return
	}

	h.appendEntry(r.Context(), entry)

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		ID:         entry.ID,
		AnalyzedAt: time.Now(),
		Analysis:   analysis,
	})
}

// BatchRequest is the request body for batch analysis.
type BatchRequest struct {
	Type    string          `json:"type"`
	Entries []BatchEntryReq `json:"entries"`
}

// BatchEntryReq is one entry in a batch request.
type BatchEntryReq struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// BatchResponse is the response for batch analysis.
type BatchResponse struct {
	Results []types.EntryResult    `json:"results"`
	Report  *types.AggregateReport `json:"report"`
}

// AnalyzeBatch handles POST /api/analyze/batch - analyze many entries and
// aggregate them. Rejects with 400 if entries is missing, not an array, or
// empty. Entries are analyzed independently; a failed entry becomes a
// failure placeholder in the results rather than aborting the batch.
func (h *AnalyzeHandlers) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	if len(req.Entries) == 0 {
		respondError(w, http.StatusBadRequest, "entries must be a non-empty array", nil)
		return
	}

	now := time.Now()
	entries := make([]types.JournalEntry, len(req.Entries))
	for i, e := range req.Entries {
		id := e.ID
		if id == "" {
			id = uuid.New().String()
		}
		entries[i] = types.JournalEntry{ID: id, Timestamp: now, Content: e.Content}
	}

	results, report := h.engine.AnalyzeBatch(r.Context(), entries, callerID(r))

	if h.store != nil {
		if err := h.store.Set(r.Context(), storage.KeyLatestReport, report); err != nil {
			log.Printf("handlers: failed to persist latest report: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, BatchResponse{Results: results, Report: report})
}

// GetLatestReport handles GET /api/report/latest - the most recent
// aggregate report. An absent or malformed stored value is treated as
// empty and reported as 404.
func (h *AnalyzeHandlers) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	h.getLatest(w, r, storage.KeyLatestReport, &types.AggregateReport{}, "no report available")
}

// ScoreRequest is the request body for health score computation.
type ScoreRequest struct {
	Entries []types.ScoreEntry  `json:"entries"`
	Habits  []types.HabitRecord `json:"habits"`
}

// ComputeScore handles POST /api/score - compute and persist the period's
// composite health score.
func (h *AnalyzeHandlers) ComputeScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	result := score.Calculate(req.Entries, req.Habits)

	if h.store != nil {
		if err := h.store.Set(r.Context(), storage.KeyLatestScore, result); err != nil {
			log.Printf("handlers: failed to persist latest score: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLatestScore handles GET /api/score/latest - the most recent health
// score.
func (h *AnalyzeHandlers) GetLatestScore(w http.ResponseWriter, r *http.Request) {
	h.getLatest(w, r, storage.KeyLatestScore, &types.HealthScore{}, "no score available")
}

// getLatest reads a stored JSON blob into dst and returns it, treating an
// absent or malformed value as empty (404).
func (h *AnalyzeHandlers) getLatest(w http.ResponseWriter, r *http.Request, key string, dst interface{}, missing string) {
	if h.store == nil {
		respondError(w, http.StatusNotFound, missing, nil)
		return
	}

	raw, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, missing, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to read storage", err)
		return
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		// Malformed stored value: treat as empty.
		log.Printf("handlers: malformed value under %q: %v", key, err)
		respondError(w, http.StatusNotFound, missing, nil)
		return
	}

	respondJSON(w, http.StatusOK, dst)
}

// appendEntry adds an analyzed entry to the persisted entry list. Storage
// failures are logged, not surfaced; persistence is best-effort.
func (h *AnalyzeHandlers) appendEntry(ctx context.Context, entry types.JournalEntry) {
	if h.store == nil {
		return
	}

	var entries []types.JournalEntry
	if raw, err := h.store.Get(ctx, storage.KeyEntries); err == nil {
		// Malformed stored list is treated as empty.
		if err := json.Unmarshal(raw, &entries); err != nil {
			entries = nil
		}
	}

	entries = append(entries, entry)
	if err := h.store.Set(ctx, storage.KeyEntries, entries); err != nil {
		log.Printf("handlers: failed to persist entries: %v", err)
	}
}

// callerID identifies the caller for the per-caller rate limiter: the
// X-Caller-ID header when present, otherwise the client IP.
func callerID(r *http.Request) string {
	if id := r.Header.Get("X-Caller-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondEngineError maps engine error types onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	var vErr *engine.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Error(), nil)
		return
	}

	var rlErr *engine.RateLimitError
	if errors.As(err, &rlErr) {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", rlErr.RetryAfterSeconds))
		respondJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:             "rate limit exceeded",
			Code:              http.StatusText(http.StatusTooManyRequests),
			RetryAfterSeconds: rlErr.RetryAfterSeconds,
		})
		return
	}

	respondError(w, http.StatusInternalServerError, "analysis failed", err)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; nothing to do but log.
		log.Printf("handlers: failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response with the given status code.
// Error text is scrubbed of credential-like substrings before leaving the
// service.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: RedactCredentials(message),
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": RedactCredentials(err.Error()),
		}
	}

	respondJSON(w, statusCode, errResp)
}
