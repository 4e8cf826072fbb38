// SPDX-License-Identifier: MIT

// Package metrics exposes the library's Prometheus collectors and the
// /metrics handler served by the ops server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/yul/version"
)

var (
	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "yul_build_info",
		Help: "Build metadata of the running binary, value is always 1",
	}, []string{"name", "version", "commit", "goversion"})

	// ConfigReloadsTotal counts configuration reload attempts by result.
	ConfigReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yul_config_reloads_total",
		Help: "Total number of configuration reload attempts by result",
	}, []string{"result"})

	shutdownHookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yul_shutdown_hook_duration_seconds",
		Help:    "Wall-clock duration of each shutdown hook",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"hook"})

	healthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "yul_health_check_status",
		Help: "Latest health check result per check (1 healthy, 0.5 degraded, 0 unhealthy)",
	}, []string{"check"})
)

// SetBuildInfo records the build metadata gauge for the running binary.
func SetBuildInfo(info version.Info) {
	buildInfo.WithLabelValues(info.Name, info.Version, info.ShortCommit(), info.GoVersion).Set(1)
}

// ObserveShutdownHook records the duration of a completed shutdown hook.
func ObserveShutdownHook(name string, d time.Duration) {
	shutdownHookDuration.WithLabelValues(name).Observe(d.Seconds())
}

// SetHealthCheckStatus records the latest result of a named health check.
func SetHealthCheckStatus(check string, value float64) {
	healthCheckStatus.WithLabelValues(check).Set(value)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
