package middleware

import (
	"net/http"
	"time"
)

// Chain wraps the handler with the full middleware stack.
// Order: CORS → RequestID → Logging → Metrics → RateLimit → MaxBytes → Timeout → mux
func Chain(handler http.Handler, rl *RateLimiter, timeout time.Duration) http.Handler {
	h := handler
	h = http.TimeoutHandler(h, timeout, `{"error":"request timeout"}`)
	h = MaxBytes(64 * 1024)(h)
	h = RateLimit(rl)(h)
	h = Metrics(h)
	h = Logging(h)
	h = RequestID(h)
	h = CORS(h)
	return h
}
