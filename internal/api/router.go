package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/middleware"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/config"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	transactionService *service.TransactionService,
	analyticsService *service.AnalyticsService,
	ledgerView *service.LedgerView,
	rateFeed *service.RateFeed,
	rateCache service.RateCache,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService, rateCache, cfg.Ledger.PageSize)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Get("/summary", transactionHandler.Summary)
		})

		r.Route("/ledger", func(r chi.Router) {
			ledgerHandler := handlers.NewLedgerHandler(ledgerView, transactionService)
			r.Get("/", ledgerHandler.Window)
			r.Post("/page", ledgerHandler.LoadNextPage)
		})

		r.Route("/rate", func(r chi.Router) {
			rateHandler := handlers.NewRateHandler(rateFeed, rateCache)
			r.Get("/", rateHandler.CurrentRate)
			r.Get("/stream", rateHandler.StreamRates)
		})

		r.Route("/analytics", func(r chi.Router) {
			analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
			r.Get("/events", analyticsHandler.Events)
		})

		// Developer utilities, behind the internal API key
		r.Route("/developer", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware)
			developerHandler := handlers.NewDeveloperHandler(transactionService)
			r.Post("/seed", developerHandler.SeedSampleData)
		})
	})

	return r
}
