// SPDX-License-Identifier: MIT

package yul

import (
	"context"

	"github.com/ManuGH/yul/health"
	"github.com/ManuGH/yul/lifecycle"
)

type ctxKey int

const (
	managerKey ctxKey = iota
	healthKey
)

func contextWithRuntime(ctx context.Context, m *lifecycle.Manager, hm *health.Manager) context.Context {
	ctx = context.WithValue(ctx, managerKey, m)
	return context.WithValue(ctx, healthKey, hm)
}

// OnShutdown registers a named cleanup hook from inside a running app.
// Hooks run in reverse registration order during graceful shutdown.
// It reports false when ctx does not originate from a yul harness.
func OnShutdown(ctx context.Context, name string, hook lifecycle.Hook) bool {
	m, ok := ctx.Value(managerKey).(*lifecycle.Manager)
	if !ok {
		return false
	}
	m.RegisterShutdownHook(name, hook)
	return true
}

// HealthManagerFromContext returns the harness health manager, letting apps
// register checkers at runtime. It returns nil outside a yul harness.
func HealthManagerFromContext(ctx context.Context) *health.Manager {
	hm, _ := ctx.Value(healthKey).(*health.Manager)
	return hm
}
