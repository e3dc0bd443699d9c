package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/rs/cors"
)

// CORS admits browser calls from origins. Entries may hold one wildcard
// ("https://*.example.com"); an empty list or "*" admits every origin.
// Tokens travel in the Authorization header, never in cookies, so
// credentials are not enabled.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		origins = []string{"*"}
		slog.Warn("CORS admits every origin")
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}).Handler
}
