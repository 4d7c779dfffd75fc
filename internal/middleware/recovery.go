package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"dagstore-backend/pkg/api"
)

// Recovery converts panics into 500 responses and logs the stack trace.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.Any("panic", err),
						zap.String("request_id", GetRequestIDFromRequest(r)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					// If the handler already started writing there is
					// nothing useful left to send.
					if w.Header().Get("Content-Type") == "" {
						api.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
