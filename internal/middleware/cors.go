// Package middleware provides the HTTP middleware chain of the trip planner API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that lets the web front end at
// webOrigin call the API. webOrigin is scheme + host with no trailing slash.
// Any other origin gets no CORS headers and the browser blocks the response.
func NewCORSHandler(webOrigin string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{webOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         600,
	})
	return c.Handler
}
