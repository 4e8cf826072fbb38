// SPDX-License-Identifier: MIT

// Package ops serves the operational HTTP surface shared by all yul binaries:
// Prometheus metrics, health probes, version info and optional pprof.
package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/ManuGH/yul/health"
	"github.com/ManuGH/yul/log"
	"github.com/ManuGH/yul/metrics"
	"github.com/ManuGH/yul/version"
)

// Config holds ops server configuration.
type Config struct {
	// Addr is the listen address (e.g. ":9090"). Empty disables the server.
	Addr string

	// EnablePprof mounts the pprof handlers under /debug/pprof.
	EnablePprof bool

	// ProbeRateLimit caps probe requests per IP per minute. Zero disables limiting.
	ProbeRateLimit int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// DefaultConfig returns the ops server defaults. The server stays disabled
// until an address is set.
func DefaultConfig() Config {
	return Config{
		ProbeRateLimit: 120,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// NewRouter builds the ops router for the given health manager and build info.
func NewRouter(hm *health.Manager, info version.Info, cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(g chi.Router) {
		if cfg.ProbeRateLimit > 0 {
			g.Use(httprate.LimitByIP(cfg.ProbeRateLimit, time.Minute))
		}
		g.Get("/healthz", health.HealthHandler(hm))
		g.Get("/readyz", health.ReadyHandler(hm))
		g.Get("/version", versionHandler(info))
	})

	if cfg.EnablePprof {
		r.Mount("/debug", middleware.Profiler())
	}

	return r
}

// NewServer builds the http.Server for the ops router with bounded timeouts.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout / 2,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

func versionHandler(info version.Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			logger := log.WithComponent("ops")
			logger.Error().Err(err).Msg("failed to encode version response")
		}
	}
}
