package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS allows the browser client to call the API with its session cookie.
// Credentials are only allowed for an explicit origin list, never for "*".
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", AdminKeyHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           300,
	})
}
