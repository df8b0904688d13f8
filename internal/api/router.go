package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Paper-Trading-Backend/internal/api/middleware"
	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	ledgerService *service.LedgerService,
	marketService *service.MarketService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
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

		r.Route("/stock", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(marketService)
			r.Use(custommiddleware.OptionalUserContext)
			r.Get("/", stockHandler.Stocks)
			r.Post("/refresh", stockHandler.Refresh)
			r.Get("/{symbol}", stockHandler.Stock)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(ledgerService)
			r.Use(custommiddleware.UserContext)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/holdings", portfolioHandler.Holdings)
			r.Get("/allocation", portfolioHandler.Allocation)
			r.Get("/transactions", portfolioHandler.Transactions)
			r.Get("/realized", portfolioHandler.RealizedGains)
			r.Get("/performance", portfolioHandler.Performance)
			r.Post("/buy", portfolioHandler.Buy)
			r.Post("/trade", portfolioHandler.Trade)
			r.Post("/reset", portfolioHandler.Reset)

			r.Route("/holding/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/sell", portfolioHandler.Sell)
			})
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(marketService)
			r.Use(custommiddleware.UserContext)
			r.Get("/", watchlistHandler.Watchlist)
			r.Delete("/", watchlistHandler.Clear)
			r.Put("/{symbol}", watchlistHandler.Add)
			r.Delete("/{symbol}", watchlistHandler.Remove)
		})
	})

	return r
}
