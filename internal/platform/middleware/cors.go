package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients to post error batches and form submissions.
// Without origins every origin is allowed.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"Link", "Location", "X-Request-Id"},
		MaxAge:         300,
	})
}
