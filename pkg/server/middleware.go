package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// withMiddleware wraps an API handler with request-ID assignment, rate
// limiting, and request logging, in that order.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, requestID))

		if !s.limiter.Allow() {
			WriteError(w, r, http.StatusTooManyRequests,
				fcerrors.ErrCodeRateLimitExceeded, "rate limit exceeded", true, nil)
			return
		}

		start := time.Now()
		next(w, r)

		slog.Debug("handled request",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start),
		)
	}
}

// RequestIDFrom extracts the request ID assigned by the middleware, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
