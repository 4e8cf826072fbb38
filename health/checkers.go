// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CheckFunc adapts a plain function into a Checker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewCheckFunc wraps fn as a named checker. A nil error maps to healthy.
func NewCheckFunc(name string, fn func(ctx context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string { return c.name }

func (c *CheckFunc) Check(ctx context.Context) CheckResult {
	if err := c.fn(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// WritableDirChecker verifies that a directory exists and is writable by
// creating and removing a probe file.
type WritableDirChecker struct {
	name string
	dir  string
}

// NewWritableDirChecker creates a checker for the given directory.
func NewWritableDirChecker(name, dir string) *WritableDirChecker {
	return &WritableDirChecker{name: name, dir: dir}
}

func (c *WritableDirChecker) Name() string { return c.name }

func (c *WritableDirChecker) Check(_ context.Context) CheckResult {
	if c.dir == "" {
		return CheckResult{Status: StatusUnhealthy, Error: "directory not configured"}
	}
	info, err := os.Stat(c.dir)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: c.dir + " is not a directory"}
	}

	f, err := os.CreateTemp(c.dir, ".yul-health-probe-*")
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: "not writable: " + err.Error()}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	return CheckResult{Status: StatusHealthy}
}

// informationalChecker demotes failures so they surface in check output
// without flipping readiness.
type informationalChecker struct {
	inner Checker
}

// Informational wraps a checker so its failures report degraded instead of
// unhealthy and never take the process out of rotation.
func Informational(inner Checker) Checker {
	return &informationalChecker{inner: inner}
}

func (c *informationalChecker) Name() string { return c.inner.Name() }

func (c *informationalChecker) Check(ctx context.Context) CheckResult {
	result := c.inner.Check(ctx)
	if result.Status == StatusUnhealthy {
		result.Status = StatusDegraded
	}
	return result
}

// throttledChecker caches the inner result and refreshes it at a bounded
// rate, so aggressive probe intervals cannot stampede expensive checks.
type throttledChecker struct {
	inner   Checker
	limiter *rate.Limiter

	mu     sync.Mutex
	cached CheckResult
	seeded bool
}

// Throttled wraps a checker so the inner check runs at most once per interval;
// intermediate probes are served from the cached result.
func Throttled(inner Checker, interval time.Duration) Checker {
	return &throttledChecker{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (c *throttledChecker) Name() string { return c.inner.Name() }

func (c *throttledChecker) Check(ctx context.Context) CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Allow runs first so the seeding call consumes the initial token.
	if c.limiter.Allow() || !c.seeded {
		c.cached = c.inner.Check(ctx)
		c.seeded = true
	}
	return c.cached
}
