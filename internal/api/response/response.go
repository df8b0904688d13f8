// Package response writes the JSON bodies of the API: successful payloads and
// the {"error", "details"} envelope of failed requests.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

// ValidationMessage is the error message of every rejected trade or query
// input. The offending fields or the cause go into Details.
const ValidationMessage = "validation failed"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// statusRule maps a domain error to its HTTP status.
type statusRule struct {
	err    error
	status int
	// invalidInput reports the error under ValidationMessage.
	invalidInput bool
	// quiet omits the wrapped cause from Details.
	quiet bool
}

// statusRules are matched in order with errors.Is. Insufficient funds and
// shares are client errors: the trade is well formed but the ledger cannot
// cover it.
var statusRules = []statusRule{
	{err: apperrors.ErrInvalidQuantity, status: http.StatusBadRequest, invalidInput: true},
	{err: apperrors.ErrInvalidPrice, status: http.StatusBadRequest, invalidInput: true},
	{err: apperrors.ErrInvalidSymbol, status: http.StatusBadRequest, invalidInput: true},
	{err: apperrors.ErrInvalidOrderType, status: http.StatusBadRequest, invalidInput: true},
	{err: apperrors.ErrInvalidSignal, status: http.StatusBadRequest, invalidInput: true},
	{err: apperrors.ErrInsufficientFunds, status: http.StatusBadRequest},
	{err: apperrors.ErrInsufficientShares, status: http.StatusBadRequest},
	{err: apperrors.ErrHoldingNotFound, status: http.StatusNotFound},
	{err: apperrors.ErrStockNotFound, status: http.StatusNotFound},
	{err: apperrors.ErrWatchlistFull, status: http.StatusConflict},
	{err: apperrors.ErrPriceRefreshDisabled, status: http.StatusServiceUnavailable, quiet: true},
}

// StatusFor returns the HTTP status of err and the envelope describing it.
// The boolean is false for errors without a rule; callers report those as
// internal errors with their own message.
func StatusFor(err error) (int, ErrorResponse, bool) {
	for _, rule := range statusRules {
		if !errors.Is(err, rule.err) {
			continue
		}
		body := ErrorResponse{Error: rule.err.Error(), Details: err.Error()}
		if rule.invalidInput {
			body.Error = ValidationMessage
		}
		if rule.quiet {
			body.Details = nil
		}
		return rule.status, body, true
	}
	return http.StatusInternalServerError, ErrorResponse{Details: err.Error()}, false
}

// RespondJSON writes data as JSON with the given status. A nil data writes
// the status only. Encoding failures are logged; the status is already sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError writes an ErrorResponse. An empty details string is omitted.
//
// Example:
//
//	response.RespondError(w, http.StatusNotFound, "stock not found", "symbol WIPRO")
//	response.RespondError(w, http.StatusUnauthorized, "missing user context", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// RespondValidation writes a 400 with the field errors of a rejected request.
func RespondValidation(w http.ResponseWriter, fields map[string]string) {
	RespondError(w, http.StatusBadRequest, ValidationMessage, fields)
}
