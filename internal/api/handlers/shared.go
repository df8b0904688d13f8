package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/middleware"
	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON")
		}
	}
}

// parseJSON decodes the request body into a T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, fmt.Errorf("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// requireUser returns the authenticated user of r, or writes 401 and returns
// false.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrMissingUserContext.Error(), "")
	}
	return userID, ok
}

// respondServiceError maps a service error to its HTTP status. Errors
// without a specific mapping are logged and reported as 500 with message.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondValidation(w, verr.Fields)
		return
	}
	status, body, ok := response.StatusFor(err)
	if !ok {
		log.Error().Err(err).Msg(message)
		body.Error = message
	}
	respondJSON(w, status, body)
}
