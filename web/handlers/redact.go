package handlers

import "regexp"

// credentialPatterns match substrings that look like API credentials.
// Provider errors can echo request headers back, so anything resembling a
// key is scrubbed before an error message leaves the service.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{8,}`),
	regexp.MustCompile(`(?i)(?:api[_-]?key|x-api-key|authorization)["':\s=]+[^\s"',}]+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]{8,}=*`),
}

// RedactCredentials replaces credential-like substrings in s with a
// placeholder.
func RedactCredentials(s string) string {
	for _, p := range credentialPatterns {
		s = p.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
