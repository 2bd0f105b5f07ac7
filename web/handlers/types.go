package handlers

// ErrorResponse is the standard error response format for all API endpoints.
type ErrorResponse struct {
	Error             string                 `json:"error"`
	Code              string                 `json:"code"`
	RetryAfterSeconds int                    `json:"retry_after_seconds,omitempty"`
	Details           map[string]interface{} `json:"details,omitempty"`
}
