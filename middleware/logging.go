package middleware

import (
	"net/http"
	"time"

	"geodash/internal/logger"
)

// statusWriter captures the response status and size for logging and
// metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Logging emits one structured log line per request.
func Logging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			evt := log.Info()
			if sw.status >= 500 {
				evt = log.Error()
			} else if sw.status >= 400 {
				evt = log.Warn()
			}
			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", sw.status).
				Int("bytes", sw.size).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
