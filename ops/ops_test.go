// SPDX-License-Identifier: MIT

package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ManuGH/yul/health"
	"github.com/ManuGH/yul/version"
)

func newTestRouter(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	hm := health.NewManager("v1.0.0")
	info := version.Info{Name: "yul-test", Version: "v1.0.0", GoVersion: "go1.24"}
	return NewRouter(hm, info, cfg)
}

func TestRouterProbes(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("GET %s content type = %q", path, ct)
		}
	}
}

func TestRouterVersion(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d, want 200", rec.Code)
	}

	var info version.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.Name != "yul-test" || info.Version != "v1.0.0" {
		t.Errorf("unexpected version payload: %+v", info)
	}
}

func TestRouterMetrics(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}

func TestRouterPprofDisabledByDefault(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /debug/pprof/ = %d, want 404 when disabled", rec.Code)
	}
}

func TestRouterPprofEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnablePprof = true
	r := newTestRouter(t, cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /debug/pprof/cmdline = %d, want 200", rec.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbeRateLimit = 3
	r := newTestRouter(t, cfg)

	limited := false
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected probe rate limit to trigger")
	}
}

func TestNewServerTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = ":0"
	srv := NewServer(cfg, newTestRouter(t, cfg))

	if srv.ReadTimeout != cfg.ReadTimeout {
		t.Errorf("ReadTimeout = %v", srv.ReadTimeout)
	}
	if srv.ReadHeaderTimeout != cfg.ReadTimeout/2 {
		t.Errorf("ReadHeaderTimeout = %v", srv.ReadHeaderTimeout)
	}
	if srv.MaxHeaderBytes != cfg.MaxHeaderBytes {
		t.Errorf("MaxHeaderBytes = %d", srv.MaxHeaderBytes)
	}

	// Server shuts down cleanly even if never started.
	if err := srv.Shutdown(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Shutdown: %v", err)
	}
}
