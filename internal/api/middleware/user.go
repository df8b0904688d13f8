package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// UserIDHeader carries the id of the user authenticated by the upstream
// identity provider.
const UserIDHeader = "X-User-ID"

type contextKey struct{}

var userIDKey contextKey

// ContextWithUserID returns a copy of ctx carrying userID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id stored by UserContext.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// UserContext reads the authenticated user from the X-User-ID header and
// stores it in the request context. Returns 401 Unauthorized when the header
// is missing and 400 Bad Request when it is not a UUID.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication required", "Missing "+UserIDHeader+" header")
			return
		}
		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid user id", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), strings.ToLower(userID))))
	})
}

// OptionalUserContext behaves like UserContext when the X-User-ID header is
// present and passes anonymous requests through unchanged.
func OptionalUserContext(next http.Handler) http.Handler {
	strict := UserContext(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get(UserIDHeader)) == "" {
			next.ServeHTTP(w, r)
			return
		}
		strict.ServeHTTP(w, r)
	})
}
