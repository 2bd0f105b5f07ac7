package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jfenner/vitalog/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthDevelopmentBypass(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.Mode = "development"

	h := RequireAuth(okHandler(), cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthProduction(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.Mode = "production"
	cfg.Security.APIToken = "secret-token"

	h := RequireAuth(okHandler(), cfg)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"valid token", "Bearer secret-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAuthProductionWithoutConfiguredToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.Mode = "production"

	h := RequireAuth(okHandler(), cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "missing server token must never allow access")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1.0, 2)
	h := RateLimitMiddleware(okHandler(), rl)

	// Burst of 2 passes, the third immediate request is rejected.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
