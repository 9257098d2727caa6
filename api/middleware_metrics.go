package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/metrics"
)

const slowRequestThreshold = time.Second

// MetricsMiddleware records request counts and latency by route template. It must be
// installed with Router.Use so the matched route is known.
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			startTime := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			wrappedWriter := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(wrappedWriter, r)

			totalDuration := time.Since(startTime)
			m.ObserveRequest(routeTemplate(r), r.Method, wrappedWriter.statusCode, totalDuration)

			if totalDuration > slowRequestThreshold {
				zap.S().Warnw("slow request detected",
					"requestId", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"duration", totalDuration,
					"status", wrappedWriter.statusCode,
				)
			}
		})
	}
}

// routeTemplate keeps label cardinality bounded by using the route pattern, not the path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
