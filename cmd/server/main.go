package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/binance"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/config"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/database"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/repository"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo)
	analyticsService := service.NewAnalyticsService()

	ledgerView := service.NewLedgerView(transactionRepo, cfg.Ledger.PageSize)
	transactionService.AddAppendListener(ledgerView.ObserveAppend)
	if err := ledgerView.PerformInitialFetch(context.Background()); err != nil {
		log.Printf("Initial ledger fetch failed: %v", err)
	}

	// Rate feed: poll the exchange, cache the last good rate, fan out updates
	rateCache := service.NewSettingRateCache(settingRepo)
	rateSource := binance.NewClient(cfg.Rate.SourceURL)
	rateFeed := service.NewRateFeed(rateSource, rateCache, cfg.Rate.Symbol, cfg.Rate.Interval)
	rateObserver := service.NewAnalyticsRateObserver(rateFeed, analyticsService)
	rateFeed.Start()

	// Daily analytics retention
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		cutoff := time.Now().AddDate(0, 0, -cfg.Analytics.RetentionDays)
		removed := analyticsService.PruneOlderThan(cutoff)
		log.Printf("Pruned %d analytics events older than %s", removed, cutoff.Format("2006-01-02"))
	}); err != nil {
		log.Fatalf("Failed to schedule analytics pruning: %v", err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(systemService, transactionService, analyticsService, ledgerView, rateFeed, rateCache, cfg)

	// Create HTTP server. WriteTimeout stays unset because the rate stream
	// holds its connection open indefinitely.
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	rateFeed.Stop()
	rateObserver.Close()
	scheduler.Stop()

	log.Println("Server exited")
}
