package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"novabank/config"
	httpHandler "novabank/internal/adapter/http/handler"
	"novabank/internal/adapter/rates"
	fileStorage "novabank/internal/adapter/storage/file"
	pgStorage "novabank/internal/adapter/storage/postgres"
	redisStorage "novabank/internal/adapter/storage/redis"
	"novabank/internal/core/ports"
	"novabank/internal/ledger"
	"novabank/internal/service"
	"novabank/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Backend).
		Int("port", cfg.Server.Port).
		Msg("Starting NovaBank ledger")

	ctx := context.Background()

	// Initialize snapshot store for the configured backend
	var (
		store    ports.SnapshotStore
		checkers []ports.HealthChecker
	)
	switch cfg.Storage.Backend {
	case "file":
		fileStore, err := fileStorage.NewSnapshotStore(cfg.Storage.File.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize file snapshot store")
		}
		store = fileStore
		checkers = append(checkers, fileStore)
		log.Info().Str("path", cfg.Storage.File.Path).Msg("File snapshot store ready")

	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = redisStorage.NewSnapshotStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis connected")

	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		pgStore := pgStorage.NewSnapshotStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure PostgreSQL schema")
		}
		store = pgStore
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))
		log.Info().Msg("PostgreSQL connected")

	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}

	// Initialize rate service with background refresh
	rateSource := rates.NewHTTPSource(cfg.Rates.URL, log)
	rateSvc := service.NewRateService(rateSource, log)
	if err := rateSvc.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial rate refresh failed, using fallback rates")
	}
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go rateSvc.Run(refreshCtx, cfg.Rates.RefreshInterval)

	// Initialize ledger service
	feeRate := decimal.NewFromFloat(cfg.Transfer.FeeRate)
	ledgerSvc, err := service.NewLedgerService(ctx, store, ledger.New(), rateSvc, feeRate, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ledger service")
	}

	// Initialize financial advisor
	advisorSvc := service.NewAdvisorService(
		ledgerSvc,
		rateSvc,
		cfg.Advisor.Endpoint,
		cfg.Advisor.APIKey,
		&http.Client{Timeout: 10 * time.Second},
		log,
	)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		RateSvc:        rateSvc,
		AdvisorSvc:     advisorSvc,
		HealthCheckers: checkers,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
