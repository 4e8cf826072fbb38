// SPDX-License-Identifier: MIT

package health

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/yul/log"
)

// HealthHandler serves the liveness probe. Component checks are included when
// the request carries ?verbose=1.
func HealthHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verbose := r.URL.Query().Get("verbose") != ""
		resp := m.Health(r.Context(), verbose)

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		writeJSON(w, r, resp)
	}
}

// ReadyHandler serves the readiness probe, returning 503 until all
// registered checks pass.
func ReadyHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := m.Ready(r.Context())

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		writeJSON(w, r, resp)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "health")
		logger.Error().Err(err).Msg("failed to encode probe response")
	}
}
