package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InsightResponse is the parsed enrichment response. Both arrays are
// required by the contract; a response missing either is a format error.
type InsightResponse struct {
	Insights    []string `json:"insights"`
	Suggestions []string `json:"suggestions"`
}

// insightEnvelope uses pointers so that a missing key can be distinguished
// from an empty array after unmarshaling.
type insightEnvelope struct {
	Insights    *[]string `json:"insights"`
	Suggestions *[]string `json:"suggestions"`
}

// extractJSON extracts the first valid JSON object from a string that may
// contain extra text. This handles cases where LLMs add explanations or
// markdown fences around the JSON despite instructions.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text // No JSON found, return as-is and let parser fail
	}

	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		// Only count braces outside of strings
		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text // No complete JSON found, return as-is
}

// ParseInsightResponse parses the enrichment JSON returned by a provider and
// validates its shape: an object with both an "insights" array and a
// "suggestions" array of strings. Any other shape is an error.
func ParseInsightResponse(jsonStr string) (*InsightResponse, error) {
	cleanJSON := extractJSON(jsonStr)

	var envelope insightEnvelope
	if err := json.Unmarshal([]byte(cleanJSON), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse insight JSON: %w", err)
	}

	if envelope.Insights == nil {
		return nil, fmt.Errorf("insight response missing required \"insights\" array")
	}
	if envelope.Suggestions == nil {
		return nil, fmt.Errorf("insight response missing required \"suggestions\" array")
	}

	return &InsightResponse{
		Insights:    *envelope.Insights,
		Suggestions: *envelope.Suggestions,
	}, nil
}
