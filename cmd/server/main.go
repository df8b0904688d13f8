package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api"
	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
	"github.com/ndewijer/Paper-Trading-Backend/internal/database"
	"github.com/ndewijer/Paper-Trading-Backend/internal/logger"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
	"github.com/ndewijer/Paper-Trading-Backend/internal/repository"
	"github.com/ndewijer/Paper-Trading-Backend/internal/scheduler"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/version"
	"github.com/ndewijer/Paper-Trading-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(appLog)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().
		Str("path", cfg.Database.Path).
		Int64("schema_version", schemaVersion).
		Msg("Connected to database")

	// Create repositories
	ledgerRepo := repository.NewLedgerRepository(db)
	stockRepo := repository.NewStockRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	var refresher *market.Refresher
	if cfg.Market.YahooEnabled {
		client := yahoo.NewFinanceClient(cfg.Market.YahooBaseURL, cfg.Market.YahooTimeout)
		refresher = market.NewRefresher(client, stockRepo, cfg.Market.RefreshConcurrency, appLog)
	}

	// Create services
	systemService := service.NewSystemService(db, map[string]bool{
		"price_refresh": refresher != nil,
	})
	ledgerService := service.NewLedgerService(
		ledgerRepo,
		stockRepo,
		cfg.Ledger.StartingCash,
		cfg.Ledger.Currency,
		appLog,
	)
	marketService := service.NewMarketService(
		stockRepo,
		watchlistRepo,
		refresher,
		appLog,
	)

	// Background jobs
	sched := scheduler.New(appLog)
	if refresher != nil {
		if err := sched.AddJob(cfg.Scheduler.PriceRefresh, scheduler.NewPriceRefreshJob(marketService, appLog)); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule price refresh")
		}
	}
	if err := sched.AddJob(cfg.Scheduler.Snapshot, scheduler.NewSnapshotJob(ledgerService, appLog)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule performance snapshots")
	}
	sched.Start()

	// Create router
	router := api.NewRouter(systemService, ledgerService, marketService, cfg, appLog)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("version", version.Version).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	sched.Stop()

	log.Info().Msg("Server exited")
}
