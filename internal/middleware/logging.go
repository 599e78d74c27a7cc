package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/metrics"
)

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging logs every request with method, path, caller, status, and
// duration, and feeds the request duration histogram.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Milliseconds()
		lineUserID := "" // empty if pre-auth
		if user := GetUser(r.Context()); user != nil {
			lineUserID = user.LineUserID
		}

		metrics.RequestDuration.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Observe(float64(duration))

		if sw.status >= 500 {
			slog.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"line_user_id", lineUserID,
				"duration_ms", duration,
			)
		} else if sw.status >= 400 {
			slog.Warn("request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"line_user_id", lineUserID,
				"duration_ms", duration,
			)
		} else {
			slog.Info("request ok",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"line_user_id", lineUserID,
				"duration_ms", duration,
			)
		}
	})
}
