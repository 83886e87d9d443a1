package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// validRequestID accepts 1 to 128 printable ASCII characters so the value is
// safe to log.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}

// RequestID reuses a valid X-Request-Id header or generates a UUIDv4, stores it
// where chi's GetReqID finds it and echoes it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(chimiddleware.RequestIDHeader)
			if !validRequestID(id) {
				id = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
			w.Header().Set(chimiddleware.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
