package middleware

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"dagstore-backend/pkg/api"
)

// CircuitBreakerConfig tunes the request circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns conservative settings: the
// breaker only opens on a sustained server-error rate.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker sheds load when too many requests end in server
// errors. Client errors (4xx) do not count as failures.
func CircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := cb.Execute(func() (any, error) {
				wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

				next.ServeHTTP(wrapper, r)

				if wrapper.statusCode >= 500 {
					return nil, http.ErrAbortHandler
				}
				return nil, nil
			})
			if err == nil {
				return
			}

			switch err {
			case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
				logger.Warn("circuit breaker rejected request",
					zap.String("name", config.Name),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				api.Error(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
			default:
				// The handler already produced the 5xx response; the
				// error only fed the breaker.
			}
		})
	}
}

// statusRecorder captures the response status for failure accounting.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
