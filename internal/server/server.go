// Package server provides HTTP server initialization and lifecycle
// management for the Vitalog analysis API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jfenner/vitalog/internal/config"
	"github.com/jfenner/vitalog/internal/engine"
	"github.com/jfenner/vitalog/internal/storage"
	"github.com/jfenner/vitalog/web/handlers"
)

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server, wiring the analysis engine
// and the storage collaborator into the handlers. It returns the actual
// address being listened on (useful for testing with port 0). The server
// shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, eng *engine.AnalysisEngine, store storage.KVStore) (string, error) {
	mux := http.NewServeMux()

	// Process-wide limit in front of everything (10 req/sec, burst of 20).
	rateLimiter := handlers.NewRateLimiter(10.0, 20)

	analyzeHandlers := handlers.NewAnalyzeHandlers(eng, store)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyzeHandlers.Analyze(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/analyze/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyzeHandlers.AnalyzeBatch(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/report/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyzeHandlers.GetLatestReport(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/score", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyzeHandlers.ComputeScore(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/score/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyzeHandlers.GetLatestScore(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Health endpoint - no auth required, used by monitoring.
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	})

	// Wrap API routes with auth middleware.
	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	return actualAddr, nil
}
