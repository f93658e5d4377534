package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/genopri/analysis-engine/internal/analysis"
	"github.com/genopri/analysis-engine/internal/api"
	"github.com/genopri/analysis-engine/internal/config"
	"github.com/genopri/analysis-engine/internal/database"
	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/repository"
	"github.com/genopri/analysis-engine/pkg/external"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	log.Printf("Starting analysis server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	logger := logrus.StandardLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewConnection(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		Database:    cfg.Database.Database,
		Username:    cfg.Database.Username,
		Password:    cfg.Database.Password,
		SSLMode:     cfg.Database.SSLMode,
		MaxConnLife: cfg.Database.ConnMaxLifetime,
	}, logger)
	var resultRepo domain.AnalysisResultRepository
	var pedigreeRepo domain.PedigreeRepository
	var evidenceCache domain.EvidenceCacheRepository
	if err != nil {
		log.Printf("database unavailable, analysis results will not be persisted: %v", err)
	} else {
		defer db.Close()
		resultRepo = repository.NewAnalysisResultRepository(db.Pool, logger)
		pedigreeRepo = repository.NewPedigreeRepository(db.Pool, logger)
		evidenceCache = repository.NewEvidenceCacheRepository(db.Pool, logger)
	}

	runner := analysis.NewSimpleRunner(cfg.Analysis.MaxWorkers, logger)

	evidence, err := external.NewResilientProvider(
		external.NewGnomADClient(cfg.Provider),
		external.NewCADDClient(cfg.Provider),
		external.CacheConfig{
			RedisURL:   cfg.Cache.RedisURL,
			DefaultTTL: cfg.Cache.DefaultTTL,
			LRUSize:    cfg.Cache.LRUSize,
		},
		float64(cfg.Provider.RateLimit),
	)
	if err != nil {
		log.Fatalf("Failed to construct evidence provider: %v", err)
	}

	// Create server
	server := api.NewServer(configManager, runner, api.Dependencies{
		ResultRepo:    resultRepo,
		PedigreeRepo:  pedigreeRepo,
		EvidenceCache: evidenceCache,
		Evidence:      evidence,
	}, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
