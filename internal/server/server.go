package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlorentedev/promptune/internal/handler"
	"github.com/mlorentedev/promptune/internal/middleware"
	"github.com/mlorentedev/promptune/internal/optimizer"
)

// Options tunes the middleware around the mux.
type Options struct {
	// RateLimit is the number of requests per minute per client IP.
	RateLimit int
	// BackendTimeout is the inference client timeout; the handler timeout
	// sits a few seconds above it so backend expiry is reported first.
	BackendTimeout time.Duration
}

// SetupMux wires handlers with the full middleware chain.
func SetupMux(opt *optimizer.Optimizer, o Options) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/optimize", handler.Optimize(opt))
	mux.HandleFunc("/api/health", handler.Health(opt))
	mux.HandleFunc("/api/tones", handler.Tones(opt.Tones()))
	mux.Handle("/metrics", promhttp.Handler())

	rl := middleware.NewRateLimiter(o.RateLimit, time.Minute)
	return middleware.Chain(mux, rl, o.BackendTimeout+5*time.Second)
}
