package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mlorentedev/promptune/internal/metrics"
)

// Metrics records request count and latency. Paths outside the known routes
// share the "other" label.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := routeLabel(r.URL.Path)
		metrics.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

var knownRoutes = map[string]bool{
	"/optimize":   true,
	"/api/health": true,
	"/api/tones":  true,
	"/metrics":    true,
}

func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}
