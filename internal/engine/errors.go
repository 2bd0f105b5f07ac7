package engine

import (
	"errors"
	"fmt"
)

// ErrEnrichmentUnavailable indicates that no LLM credential/configuration is
// present. It is a service-configuration condition, never retried.
var ErrEnrichmentUnavailable = errors.New("enrichment unavailable: no LLM provider configured")

// ValidationError indicates bad input shape or length. It is surfaced
// immediately to the caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EnrichmentError indicates a transient enrichment call or parse failure.
// It is retried up to the configured attempt count, then surfaced.
type EnrichmentError struct {
	Err error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment failed: %v", e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the caller exceeded its sliding-window request
// budget. RetryAfterSeconds is the machine-readable wait hint.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %d seconds", e.RetryAfterSeconds)
}
