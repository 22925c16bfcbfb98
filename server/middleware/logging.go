package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/observability"
)

// RequestLogger logs every request except /health and records request
// metrics when metrics is non-nil.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.RecordRequestStart(r.Context())
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)
			metrics.RecordRequestEnd(r.Context(), r.URL.Path, sw.status, duration)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
				"bytes", sw.size,
				logger.FieldDuration, duration.Milliseconds(),
			)
			l := log.WithContext(r.Context())
			switch {
			case sw.status >= 500:
				l.Error("request completed", fields)
			case sw.status >= 400:
				l.Warn("request completed", fields)
			default:
				l.Info("request completed", fields)
			}
		})
	}
}
