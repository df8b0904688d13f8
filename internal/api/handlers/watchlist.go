package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// WatchlistHandler handles HTTP requests for the watchlist of the
// authenticated user.
type WatchlistHandler struct {
	marketService *service.MarketService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(marketService *service.MarketService) *WatchlistHandler {
	return &WatchlistHandler{
		marketService: marketService,
	}
}

// WatchlistResponse is the selected symbols with the size limit.
type WatchlistResponse struct {
	Symbols []string `json:"symbols"`
	Max     int      `json:"max"`
}

func watchlistResponse(symbols []string) WatchlistResponse {
	return WatchlistResponse{Symbols: symbols, Max: market.MaxWatchlistSize}
}

// Watchlist handles GET requests for the watchlist.
//
// Endpoint: GET /api/watchlist
// Response: 200 OK with WatchlistResponse
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	symbols, err := h.marketService.Watchlist(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist.Error())
		return
	}
	respondJSON(w, http.StatusOK, watchlistResponse(symbols))
}

// Add handles PUT requests to select a stock. Adding a selected stock is a no-op.
//
// Endpoint: PUT /api/watchlist/{symbol}
// Response: 200 OK with WatchlistResponse
// Error: 404 Not Found if the stock is not in the catalog
// Error: 409 Conflict if the watchlist is full
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	symbols, err := h.marketService.AddToWatchlist(r.Context(), userID, symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	respondJSON(w, http.StatusOK, watchlistResponse(symbols))
}

// Remove handles DELETE requests to deselect a stock.
//
// Endpoint: DELETE /api/watchlist/{symbol}
// Response: 200 OK with WatchlistResponse
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	symbols, err := h.marketService.RemoveFromWatchlist(r.Context(), userID, symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	respondJSON(w, http.StatusOK, watchlistResponse(symbols))
}

// Clear handles DELETE requests to deselect every stock.
//
// Endpoint: DELETE /api/watchlist
// Response: 204 No Content
func (h *WatchlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.marketService.ClearWatchlist(r.Context(), userID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
