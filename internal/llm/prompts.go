// Package llm provides LLM integration for journal enrichment. It includes
// the fixed health-analyst prompt contract and the response parser that
// validates the insights/suggestions JSON shape returned by providers.
package llm

import "fmt"

// InsightSystemPrompt is the fixed system instruction establishing the
// enrichment role. The contract to the provider is always this instruction
// plus one user message built by InsightUserPrompt.
const InsightSystemPrompt = `You are an expert health analyst. You review personal journal entries together with health metrics extracted from them, and produce practical observations.
OUTPUT: ONLY valid JSON. NO markdown. NO code blocks. NO backticks.

REQUIRED JSON STRUCTURE:
Your response MUST start with { and end with }
Your response MUST have an "insights" key with an array of strings
Your response MUST have a "suggestions" key with an array of strings

Example structure (EXACT FORMAT REQUIRED):
{"insights":["Sleep duration was below the recommended range"],"suggestions":["Aim for a consistent bedtime this week"]}

VALIDATION (STRICT):
1. Start with { - End with }
2. Both "insights" and "suggestions" keys must be present
3. Both values must be arrays of strings
4. 2-4 items per array
5. No extra fields, no null values, no trailing commas`

// InsightUserPrompt builds the user message embedding the entry text and its
// serialized metrics.
func InsightUserPrompt(entryText, metricsJSON string) string {
	return fmt.Sprintf(`JOURNAL ENTRY:
%s

EXTRACTED METRICS (JSON):
%s

Respond with ONLY the JSON object described in your instructions.`, entryText, metricsJSON)
}
