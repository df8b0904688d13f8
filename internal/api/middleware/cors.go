package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight.
const corsMaxAge = 600

// NewCORS allows browser clients on allowedOrigins to trade and edit
// watchlists. Identity travels in the X-User-ID header rather than cookies, so
// credentials are not allowed and "*" is a valid origin.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,   // trades, reset, price refresh
			http.MethodPut,    // watchlist add
			http.MethodDelete, // watchlist remove and clear
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", UserIDHeader},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	})
}
