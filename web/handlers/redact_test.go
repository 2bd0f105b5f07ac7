package handlers

import (
	"strings"
	"testing"
)

func TestRedactCredentials(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		leaked string
	}{
		{"sk key", "request failed: invalid key sk-abcdef1234567890", "sk-abcdef1234567890"},
		{"api_key assignment", `config error: api_key="secret_value_here"`, "secret_value_here"},
		{"x-api-key header echo", "upstream said: x-api-key: abc123def456", "abc123def456"},
		{"bearer token", "auth failed for Bearer eyJhbGciOiJIUzI1NiJ9.payload", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactCredentials(tt.input)
			if strings.Contains(got, tt.leaked) {
				t.Errorf("RedactCredentials(%q) = %q, still contains the credential", tt.input, got)
			}
			if !strings.Contains(got, "[REDACTED]") {
				t.Errorf("RedactCredentials(%q) = %q, expected a [REDACTED] placeholder", tt.input, got)
			}
		})
	}
}

func TestRedactCredentialsLeavesPlainText(t *testing.T) {
	msg := "content: must be at most 10000 characters"
	if got := RedactCredentials(msg); got != msg {
		t.Errorf("RedactCredentials(%q) = %q, want unchanged", msg, got)
	}
}
