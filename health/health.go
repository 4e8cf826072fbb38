// SPDX-License-Identifier: MIT

// Package health provides health and readiness check functionality for CLI
// daemons. It supports Docker HEALTHCHECK and Kubernetes probes with detailed
// component status.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/yul/metrics"
)

// Status represents the overall health/readiness status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the full health check response
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager manages health and readiness checks. Checkers may be registered
// while probes are being served.
type Manager struct {
	version string

	mu       sync.RWMutex
	checkers []Checker
}

// NewManager creates a new health check manager
func NewManager(version string) *Manager {
	return &Manager{
		version:  version,
		checkers: make([]Checker, 0),
	}
}

// RegisterChecker adds a health checker to the manager
func (m *Manager) RegisterChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// snapshot returns the registered checkers without holding the lock during
// the checks themselves.
func (m *Manager) snapshot() []Checker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	return checkers
}

func statusGaugeValue(s Status) float64 {
	switch s {
	case StatusHealthy:
		return 1
	case StatusDegraded:
		return 0.5
	default:
		return 0
	}
}

func (m *Manager) runChecks(ctx context.Context) (map[string]CheckResult, Status) {
	checkers := m.snapshot()
	results := make(map[string]CheckResult, len(checkers))
	overall := StatusHealthy
	for _, checker := range checkers {
		result := checker.Check(ctx)
		results[checker.Name()] = result
		metrics.SetHealthCheckStatus(checker.Name(), statusGaugeValue(result.Status))

		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}
	return results, overall
}

// Health performs a health check (liveness probe).
// The process is considered alive regardless of component state; component
// checks are only included when verbose is requested.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: time.Now(),
	}

	if verbose {
		if checks, status := m.runChecks(ctx); len(checks) > 0 {
			resp.Checks, resp.Status = checks, status
		}
	}
	return resp
}

// Ready performs a readiness check (readiness probe).
// Readiness fails when any non-informational checker reports unhealthy.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	checkers := m.snapshot()
	if len(checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult, len(checkers))
	for _, checker := range checkers {
		result := checker.Check(ctx)
		resp.Checks[checker.Name()] = result
		metrics.SetHealthCheckStatus(checker.Name(), statusGaugeValue(result.Status))

		switch result.Status {
		case StatusUnhealthy:
			resp.Ready = false
			resp.Status = StatusUnhealthy
		case StatusDegraded:
			if resp.Status == StatusHealthy {
				resp.Status = StatusDegraded
			}
		}
	}
	return resp
}
