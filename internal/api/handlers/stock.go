package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/middleware"
	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// StockHandler handles HTTP requests for the stock screener.
type StockHandler struct {
	marketService *service.MarketService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(marketService *service.MarketService) *StockHandler {
	return &StockHandler{
		marketService: marketService,
	}
}

// Stocks handles GET requests for the screener rows.
//
// Endpoint: GET /api/stock?search=&signal=buy|sell|hold&watchlist=true
// Response: 200 OK with []market.ScreenerRow
// Error: 400 Bad Request for an unknown signal or a non-boolean watchlist
// Error: 401 Unauthorized when watchlist=true without an authenticated user
func (h *StockHandler) Stocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := request.StockListParams{
		Search: q.Get("search"),
		Signal: q.Get("signal"),
	}
	if raw := q.Get("watchlist"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid watchlist", "watchlist must be true or false")
			return
		}
		params.WatchlistOnly = only
	}

	var userID string
	if params.WatchlistOnly {
		var ok bool
		if userID, ok = middleware.UserIDFromContext(r.Context()); !ok {
			response.RespondError(w, http.StatusUnauthorized, "authentication required", "watchlist filter needs a user")
			return
		}
	}

	rows, err := h.marketService.ListStocks(r.Context(), userID, params)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStocks.Error())
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// Stock handles GET requests for a single screener row.
//
// Endpoint: GET /api/stock/{symbol}
// Response: 200 OK with market.ScreenerRow
// Error: 404 Not Found if the stock is not in the catalog
func (h *StockHandler) Stock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	row, err := h.marketService.GetStock(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStock.Error())
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// Refresh handles POST requests to pull the latest quotes from Yahoo Finance.
//
// Endpoint: POST /api/stock/refresh
// Response: 200 OK with market.RefreshResult
// Error: 503 Service Unavailable when the Yahoo feed is disabled
func (h *StockHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.marketService.Refresh(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshPrices.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
