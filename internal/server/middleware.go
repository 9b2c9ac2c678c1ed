package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/ports"
)

// withMiddleware wraps handler with the API middleware chain.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(
		s.requestIDMiddleware(
			s.panicRecoveryMiddleware(
				s.rateLimitMiddleware(
					s.loggingMiddleware(handler),
				),
			),
		),
	)
}

// requestIDMiddleware extracts or generates request IDs
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		w.Header().Set("X-Request-Id", id)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// panicRecoveryMiddleware recovers from panics
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				panicRecoveries.Inc()
				s.logger.Error("panic recovered",
					ports.String("panic", fmt.Sprint(v)),
					ports.String("request_id", requestID(r)),
					ports.String("method", r.Method),
					ports.String("path", r.URL.Path),
				)
				s.writeError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
					"Internal server error", true, nil)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// rateLimitMiddleware rejects requests above the configured rate
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			s.writeError(w, r, http.StatusTooManyRequests, ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": float64(s.config.RateLimit),
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))

		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs requests
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		s.logger.Debug("request completed",
			ports.String("request_id", requestID(r)),
			ports.String("method", r.Method),
			ports.String("path", r.URL.Path),
			ports.Int("status", rw.Status()),
			ports.Duration("duration", time.Since(start)),
		)
	}
}
