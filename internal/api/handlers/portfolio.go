package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// PortfolioHandler handles HTTP requests for the ledger of the authenticated
// user. It parses and validates requests and delegates to the LedgerService.
type PortfolioHandler struct {
	ledgerService *service.LedgerService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledgerService *service.LedgerService) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService: ledgerService,
	}
}

// Summary handles GET requests for the portfolio summary at current prices.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with service.SummaryView
// Error: 500 Internal Server Error if the ledger or prices cannot be read
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.ledgerService.Summary(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetSummary.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Holdings handles GET requests for the holdings valued at current prices.
//
// Endpoint: GET /api/portfolio/holdings
// Response: 200 OK with []ledger.HoldingValuation
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	holdings, err := h.ledgerService.Holdings(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings.Error())
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

// Allocation handles GET requests for the allocation breakdown, one entry per
// holding followed by cash.
//
// Endpoint: GET /api/portfolio/allocation
// Response: 200 OK with []ledger.AllocationEntry
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	allocation, err := h.ledgerService.Allocation(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings.Error())
		return
	}
	respondJSON(w, http.StatusOK, allocation)
}

// Transactions handles GET requests for the transaction log.
//
// Endpoint: GET /api/portfolio/transactions?order=asc|desc
// Response: 200 OK with []ledger.Transaction, oldest first unless order=desc
// Error: 400 Bad Request for an unknown order
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	newestFirst := false
	switch order := strings.ToLower(r.URL.Query().Get("order")); order {
	case "", "asc":
	case "desc":
		newestFirst = true
	default:
		response.RespondError(w, http.StatusBadRequest, "invalid order", "order must be asc or desc")
		return
	}

	txs, err := h.ledgerService.Transactions(r.Context(), userID, newestFirst)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTxns.Error())
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

// RealizedGains handles GET requests for the realized gain of every sell.
//
// Endpoint: GET /api/portfolio/realized
// Response: 200 OK with []ledger.RealizedGain
func (h *PortfolioHandler) RealizedGains(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	gains, err := h.ledgerService.RealizedGains(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTxns.Error())
		return
	}
	respondJSON(w, http.StatusOK, gains)
}

// Performance handles GET requests for the net worth history.
//
// Endpoint: GET /api/portfolio/performance?since=YYYY-MM-DD
// Response: 200 OK with service.Performance
// Error: 400 Bad Request if since is not a date or RFC 3339 timestamp
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		var err error
		if since, err = parseSince(raw); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid since", err.Error())
			return
		}
	}

	perf, err := h.ledgerService.Performance(r.Context(), userID, since)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPerformance.Error())
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Buy handles POST requests to buy shares of a catalog stock.
//
// Endpoint: POST /api/portfolio/buy
// Request Body: BuyRequest (stockSymbol, stockName?, quantity, price?)
// Response: 201 Created with ledger.Transaction
// Error: 400 Bad Request if validation fails or funds are insufficient
// Error: 404 Not Found if the stock is not in the catalog
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.BuyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateBuy(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	tx, err := h.ledgerService.Buy(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExecuteTrade.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// Sell handles POST requests to sell shares of a holding.
//
// Endpoint: POST /api/portfolio/holding/{uuid}/sell
// Request Body: SellRequest (quantity, price?)
// Response: 201 Created with ledger.Transaction
// Error: 400 Bad Request if validation fails or shares are insufficient
// Error: 404 Not Found if the holding does not exist
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	holdingID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SellRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSell(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	tx, err := h.ledgerService.Sell(r.Context(), userID, holdingID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExecuteTrade.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// Trade handles POST requests to buy or sell by symbol.
//
// Endpoint: POST /api/portfolio/trade
// Request Body: TradeRequest (stock_symbol, order_type, quantity, price?)
// Response: 201 Created with ledger.Transaction
func (h *PortfolioHandler) Trade(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateTrade(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	tx, err := h.ledgerService.Trade(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExecuteTrade.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// Reset handles POST requests to discard the ledger and start over with the
// starting cash.
//
// Endpoint: POST /api/portfolio/reset
// Response: 200 OK with the fresh service.SummaryView
func (h *PortfolioHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.ledgerService.Reset(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToResetLedger.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
