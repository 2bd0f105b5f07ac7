// Package config provides configuration management for Vitalog. Settings
// are loaded from an optional YAML file and environment variables with the
// VITALOG_ prefix; environment variables take precedence and every option
// has a sensible default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the Vitalog application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	LLM      LLMConfig      `yaml:"llm"`
	Engine   EngineConfig   `yaml:"engine"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"` // Server port (default: 7474)
	Host string `yaml:"host"` // Server host (default: 127.0.0.1)
}

// StorageConfig contains the storage collaborator configuration.
type StorageConfig struct {
	Engine      string `yaml:"engine"`       // sqlite or postgres (default: sqlite)
	DataPath    string `yaml:"data_path"`    // SQLite data directory (default: ./data)
	PostgresDSN string `yaml:"postgres_dsn"` // DSN when engine is postgres
}

// LLMConfig contains LLM provider configuration for the enrichment path.
type LLMConfig struct {
	Provider        string        `yaml:"provider"`         // anthropic or openai (default: anthropic)
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	AnthropicModel  string        `yaml:"anthropic_model"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	OpenAIModel     string        `yaml:"openai_model"`
	Timeout         time.Duration `yaml:"timeout"`     // per-call bound (default: 5s)
	MaxRetries      int           `yaml:"max_retries"` // client transport retries (default: 2)
}

// APIKey returns the key for the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

// Model returns the model for the selected provider.
func (c LLMConfig) Model() string {
	if c.Provider == "openai" {
		return c.OpenAIModel
	}
	return c.AnthropicModel
}

// EngineConfig contains analysis engine tunables.
type EngineConfig struct {
	MaxAttempts int           `yaml:"max_attempts"` // enrichment attempts per entry (default: 2)
	NumWorkers  int           `yaml:"num_workers"`  // batch concurrency (default: 4)
	CacheTTL    time.Duration `yaml:"cache_ttl"`    // enrichment cache TTL (default: 30m)
	RateLimit   int           `yaml:"rate_limit"`   // admissions per caller per window (default: 10)
	RateWindow  time.Duration `yaml:"rate_window"`  // sliding window length (default: 60s)
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	Mode     string `yaml:"mode"`      // development or production (default: development)
	APIToken string `yaml:"api_token"` // Bearer token required in production mode
}

// LoadConfig loads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	return buildBaseConfig(), nil
}

// LoadConfigFile loads configuration from a YAML file, then applies
// environment variable overrides on top. Missing file is an error; callers
// that treat the file as optional should stat it first.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := buildBaseConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	// Env vars win over file values.
	applyEnvOverrides(cfg)
	return cfg, nil
}

// buildBaseConfig constructs a Config with values from environment
// variables and defaults.
func buildBaseConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: 7474,
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Engine:   "sqlite",
			DataPath: "./data",
		},
		LLM: LLMConfig{
			Provider:   "anthropic",
			Timeout:    5 * time.Second,
			MaxRetries: 2,
		},
		Engine: EngineConfig{
			MaxAttempts: 2,
			NumWorkers:  4,
			CacheTTL:    30 * time.Minute,
			RateLimit:   10,
			RateWindow:  60 * time.Second,
		},
		Security: SecurityConfig{
			Mode: "development",
		},
	}
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnvInt("VITALOG_PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("VITALOG_HOST", cfg.Server.Host)

	cfg.Storage.Engine = getEnv("VITALOG_STORAGE_ENGINE", cfg.Storage.Engine)
	cfg.Storage.DataPath = getEnv("VITALOG_DATA_PATH", cfg.Storage.DataPath)
	cfg.Storage.PostgresDSN = getEnv("VITALOG_POSTGRES_DSN", cfg.Storage.PostgresDSN)

	cfg.LLM.Provider = getEnv("VITALOG_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.AnthropicAPIKey = getEnv("VITALOG_ANTHROPIC_API_KEY", cfg.LLM.AnthropicAPIKey)
	cfg.LLM.AnthropicModel = getEnv("VITALOG_ANTHROPIC_MODEL", cfg.LLM.AnthropicModel)
	cfg.LLM.OpenAIAPIKey = getEnv("VITALOG_OPENAI_API_KEY", cfg.LLM.OpenAIAPIKey)
	cfg.LLM.OpenAIModel = getEnv("VITALOG_OPENAI_MODEL", cfg.LLM.OpenAIModel)
	cfg.LLM.Timeout = getEnvDuration("VITALOG_LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.MaxRetries = getEnvInt("VITALOG_LLM_MAX_RETRIES", cfg.LLM.MaxRetries)

	cfg.Engine.MaxAttempts = getEnvInt("VITALOG_MAX_ATTEMPTS", cfg.Engine.MaxAttempts)
	cfg.Engine.NumWorkers = getEnvInt("VITALOG_NUM_WORKERS", cfg.Engine.NumWorkers)
	cfg.Engine.CacheTTL = getEnvDuration("VITALOG_CACHE_TTL", cfg.Engine.CacheTTL)
	cfg.Engine.RateLimit = getEnvInt("VITALOG_RATE_LIMIT", cfg.Engine.RateLimit)
	cfg.Engine.RateWindow = getEnvDuration("VITALOG_RATE_WINDOW", cfg.Engine.RateWindow)

	cfg.Security.Mode = getEnv("VITALOG_SECURITY_MODE", cfg.Security.Mode)
	cfg.Security.APIToken = getEnv("VITALOG_API_TOKEN", cfg.Security.APIToken)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. An unparseable value falls back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "30m") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
