package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfenner/vitalog/internal/config"
	"github.com/jfenner/vitalog/internal/engine"
	"github.com/jfenner/vitalog/internal/llm"
	"github.com/jfenner/vitalog/internal/server"
	"github.com/jfenner/vitalog/internal/storage"
	"github.com/jfenner/vitalog/internal/storage/postgres"
	"github.com/jfenner/vitalog/internal/storage/sqlite"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default: config/vitalog.yaml)")
	flag.Parse()

	// If no config path specified, use default if it exists
	if *configPath == "" {
		defaultPath := "config/vitalog.yaml"
		if _, err := os.Stat(defaultPath); err == nil {
			*configPath = defaultPath
			log.Printf("Using config: %s", defaultPath)
		}
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	var store storage.KVStore
	switch cfg.Storage.Engine {
	case "postgres":
		store, err = postgres.NewKVStore(cfg.Storage.PostgresDSN)
	default:
		if mkErr := os.MkdirAll(cfg.Storage.DataPath, 0o755); mkErr != nil {
			log.Fatalf("Failed to create data directory: %v", mkErr)
		}
		store, err = sqlite.NewKVStore(cfg.Storage.DataPath + "/vitalog.db")
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the AI enrichment client. A missing API key yields a nil
	// generator and the engine runs on local insights only.
	generator, err := llm.NewTextGenerator(llm.ProviderConfig{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey(),
		Model:      cfg.LLM.Model(),
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if generator == nil {
		log.Printf("No LLM API key configured; running with local analysis only")
	}

	// Initialize the analysis engine
	analysisEngine := engine.NewAnalysisEngine(generator, engine.Config{
		MaxAttempts: cfg.Engine.MaxAttempts,
		NumWorkers:  cfg.Engine.NumWorkers,
		CacheTTL:    cfg.Engine.CacheTTL,
		RateLimit:   cfg.Engine.RateLimit,
		RateWindow:  cfg.Engine.RateWindow,
	})

	// Start background sweepers for the cache and the per-caller limiter
	analysisEngine.Start(ctx)

	// Start server
	addr, err := server.Start(ctx, cfg, analysisEngine, store)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Vitalog API running at http://%s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
	log.Println("Shutdown complete")
}
