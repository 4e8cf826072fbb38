// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func healthyCheck(name string) Checker {
	return NewCheckFunc(name, func(context.Context) error { return nil })
}

func failingCheck(name string) Checker {
	return NewCheckFunc(name, func(context.Context) error { return errors.New("down") })
}

func TestHealthNoCheckers(t *testing.T) {
	m := NewManager("v1.0.0")
	resp := m.Health(context.Background(), true)
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "v1.0.0" {
		t.Errorf("expected version in response, got %q", resp.Version)
	}
}

func TestHealthVerboseAggregation(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(healthyCheck("store"))
	m.RegisterChecker(failingCheck("upstream"))

	resp := m.Health(context.Background(), true)
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(resp.Checks))
	}
	if resp.Checks["upstream"].Error != "down" {
		t.Errorf("expected error detail, got %+v", resp.Checks["upstream"])
	}

	// Non-verbose liveness ignores component state.
	resp = m.Health(context.Background(), false)
	if resp.Status != StatusHealthy {
		t.Errorf("liveness must report healthy without verbose, got %s", resp.Status)
	}
}

func TestReadyFailsOnUnhealthy(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(healthyCheck("store"))
	m.RegisterChecker(failingCheck("upstream"))

	resp := m.Ready(context.Background())
	if resp.Ready {
		t.Error("expected not ready")
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", resp.Status)
	}
}

func TestReadyInformationalDoesNotGate(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(Informational(failingCheck("optional")))

	resp := m.Ready(context.Background())
	if !resp.Ready {
		t.Error("informational failure must not gate readiness")
	}
	if resp.Checks["optional"].Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Checks["optional"].Status)
	}
}

func TestRegisterCheckerDuringProbes(t *testing.T) {
	m := NewManager("v1.0.0")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			m.RegisterChecker(healthyCheck(fmt.Sprintf("check-%d", i)))
		}
	}()

	// Probes must observe a consistent checker list while registration runs.
	for i := 0; i < 100; i++ {
		if resp := m.Ready(context.Background()); !resp.Ready {
			t.Fatalf("unexpected not-ready: %+v", resp)
		}
		m.Health(context.Background(), true)
	}
	<-done

	resp := m.Ready(context.Background())
	if len(resp.Checks) != 100 {
		t.Errorf("expected 100 checks after registration, got %d", len(resp.Checks))
	}
}

func TestWritableDirChecker(t *testing.T) {
	ok := NewWritableDirChecker("data", t.TempDir())
	if result := ok.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("expected healthy for temp dir, got %+v", result)
	}

	missing := NewWritableDirChecker("data", "/nonexistent/yul-test")
	if result := missing.Check(context.Background()); result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy for missing dir, got %+v", result)
	}

	empty := NewWritableDirChecker("data", "")
	if result := empty.Check(context.Background()); result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy for empty dir, got %+v", result)
	}
}

func TestThrottledCachesResult(t *testing.T) {
	var calls atomic.Int32
	counted := NewCheckFunc("slow", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	c := Throttled(counted, time.Hour)
	for i := 0; i < 10; i++ {
		if result := c.Check(context.Background()); result.Status != StatusHealthy {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 inner call, got %d", got)
	}
}

func TestHealthHandlerStatusCodes(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(failingCheck("upstream"))

	// Plain liveness stays 200.
	rec := httptest.NewRecorder()
	HealthHandler(m)(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Errorf("liveness code = %d, want 200", rec.Code)
	}

	// Verbose liveness surfaces the failure.
	rec = httptest.NewRecorder()
	HealthHandler(m)(rec, httptest.NewRequest("GET", "/healthz?verbose=1", nil))
	if rec.Code != 503 {
		t.Errorf("verbose liveness code = %d, want 503", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy in body, got %s", resp.Status)
	}
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	m := NewManager("v1.0.0")

	rec := httptest.NewRecorder()
	ReadyHandler(m)(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 200 {
		t.Errorf("ready code = %d, want 200", rec.Code)
	}

	m.RegisterChecker(failingCheck("upstream"))
	rec = httptest.NewRecorder()
	ReadyHandler(m)(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 503 {
		t.Errorf("not-ready code = %d, want 503", rec.Code)
	}
}
