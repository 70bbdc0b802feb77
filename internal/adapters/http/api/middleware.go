package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"icingview/pkg/logger"
	"icingview/pkg/metrics"
)

type contextKey int

const requestIDKey contextKey = iota

// requestIDFrom returns the request ID injected by the middleware, or ""
// outside a request scope.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withRequestContext tags each request with an ID for log correlation and
// records Prometheus metrics for it.
func (s *Server) withRequestContext(next http.HandlerFunc, route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := uuid.NewString()
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(wrapped, r)

		elapsed := time.Since(start)
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(route, r.Method, status)
		metrics.RecordHTTPRequestDuration(route, r.Method, elapsed.Seconds())

		s.log.Debug(r.Context(), "request handled",
			logger.String("request_id", reqID),
			logger.String("route", route),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("status", status),
			logger.Any("elapsed", elapsed))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
