package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 7474 {
		t.Errorf("Server.Port = %d, want 7474", cfg.Server.Port)
	}
	if cfg.Storage.Engine != "sqlite" {
		t.Errorf("Storage.Engine = %q, want sqlite", cfg.Storage.Engine)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Errorf("LLM.Timeout = %v, want 5s", cfg.LLM.Timeout)
	}
	if cfg.Engine.MaxAttempts != 2 {
		t.Errorf("Engine.MaxAttempts = %d, want 2", cfg.Engine.MaxAttempts)
	}
	if cfg.Engine.CacheTTL != 30*time.Minute {
		t.Errorf("Engine.CacheTTL = %v, want 30m", cfg.Engine.CacheTTL)
	}
	if cfg.Engine.RateLimit != 10 || cfg.Engine.RateWindow != 60*time.Second {
		t.Errorf("rate limit defaults = %d/%v, want 10/60s", cfg.Engine.RateLimit, cfg.Engine.RateWindow)
	}
	if cfg.Security.Mode != "development" {
		t.Errorf("Security.Mode = %q, want development", cfg.Security.Mode)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("VITALOG_PORT", "9090")
	t.Setenv("VITALOG_STORAGE_ENGINE", "postgres")
	t.Setenv("VITALOG_CACHE_TTL", "15m")
	t.Setenv("VITALOG_RATE_LIMIT", "25")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Engine != "postgres" {
		t.Errorf("Storage.Engine = %q, want postgres", cfg.Storage.Engine)
	}
	if cfg.Engine.CacheTTL != 15*time.Minute {
		t.Errorf("Engine.CacheTTL = %v, want 15m", cfg.Engine.CacheTTL)
	}
	if cfg.Engine.RateLimit != 25 {
		t.Errorf("Engine.RateLimit = %d, want 25", cfg.Engine.RateLimit)
	}
}

func TestLoadConfigInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("VITALOG_PORT", "not-a-number")
	t.Setenv("VITALOG_CACHE_TTL", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 7474 {
		t.Errorf("Server.Port = %d, want default 7474", cfg.Server.Port)
	}
	if cfg.Engine.CacheTTL != 30*time.Minute {
		t.Errorf("Engine.CacheTTL = %v, want default 30m", cfg.Engine.CacheTTL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vitalog.yaml")
	data := []byte(`
server:
  port: 8181
llm:
  provider: openai
engine:
  num_workers: 8
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.Engine.NumWorkers != 8 {
		t.Errorf("Engine.NumWorkers = %d, want 8", cfg.Engine.NumWorkers)
	}
	// Untouched values keep their defaults.
	if cfg.Engine.RateLimit != 10 {
		t.Errorf("Engine.RateLimit = %d, want default 10", cfg.Engine.RateLimit)
	}
}

func TestLoadConfigFileEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vitalog.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VITALOG_PORT", "9999")

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want env override 9999", cfg.Server.Port)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/vitalog.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestAPIKeyAndModelSelection(t *testing.T) {
	llm := LLMConfig{
		Provider:        "openai",
		AnthropicAPIKey: "anthropic-key",
		AnthropicModel:  "model-a",
		OpenAIAPIKey:    "openai-key",
		OpenAIModel:     "model-o",
	}
	if llm.APIKey() != "openai-key" {
		t.Errorf("APIKey() = %q, want openai-key", llm.APIKey())
	}
	if llm.Model() != "model-o" {
		t.Errorf("Model() = %q, want model-o", llm.Model())
	}

	llm.Provider = "anthropic"
	if llm.APIKey() != "anthropic-key" {
		t.Errorf("APIKey() = %q, want anthropic-key", llm.APIKey())
	}
	if llm.Model() != "model-a" {
		t.Errorf("Model() = %q, want model-a", llm.Model())
	}
}
