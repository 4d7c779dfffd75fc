package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout puts a deadline on the request context. Handlers and the
// database layer observe the deadline through context cancellation.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
