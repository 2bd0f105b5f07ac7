package llm

import "context"

// TextGenerator is the interface for LLM text completion. The enrichment
// contract is a fixed system instruction plus a user message embedding the
// entry text and serialized metrics, so generation takes both parts.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	GetModel() string
}
