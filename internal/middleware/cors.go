// Package middleware provides the HTTP middleware stack of the trip planner
// API: request logging, CORS, per-client throttling and body size limits.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long, in seconds, a browser may cache a preflight answer.
const corsMaxAge = 600

// NewCORSHandler returns a middleware that lets the browser UI served from
// allowedOrigins call the API. Each entry must be a full origin (scheme and
// host, no trailing slash).
//
// Content-Disposition is exposed so the UI can name export downloads, and
// Retry-After so it can back off after a 429.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         corsMaxAge,
	})
	return c.Handler
}
