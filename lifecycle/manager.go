// SPDX-License-Identifier: MIT

// Package lifecycle owns the runtime of a yul binary: the ops server, the
// app function and graceful shutdown with LIFO hooks.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/yul/metrics"
	"github.com/ManuGH/yul/ops"
)

// Hook is a function that performs cleanup during graceful shutdown.
// Hooks are executed in reverse registration order (LIFO).
type Hook func(ctx context.Context) error

// AppFunc is the application entrypoint run under the manager.
type AppFunc func(ctx context.Context) error

// Config holds manager configuration.
type Config struct {
	// OpsConfig configures the operational HTTP server. The server is only
	// started when OpsConfig.Addr is non-empty and OpsHandler is set.
	OpsConfig ops.Config

	// OpsHandler is the handler served on the ops address.
	OpsHandler http.Handler

	// ShutdownTimeout bounds the whole shutdown sequence.
	ShutdownTimeout time.Duration
}

// Manager runs the app and the ops server and coordinates shutdown.
type Manager struct {
	cfg       Config
	opsServer *http.Server

	hooks []namedHook

	started  bool
	stopping bool
	mu       sync.Mutex

	logger zerolog.Logger
}

type namedHook struct {
	name string
	hook Hook
}

// NewManager creates a lifecycle manager.
func NewManager(cfg Config, logger zerolog.Logger) (*Manager, error) {
	if logger.GetLevel() == zerolog.Disabled {
		return nil, ErrMissingLogger
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Manager{
		cfg:    cfg,
		logger: logger.With().Str("component", "lifecycle").Logger(),
	}, nil
}

// RegisterShutdownHook registers a cleanup function to be called during
// shutdown. Hooks are executed in reverse registration order (LIFO).
func (m *Manager) RegisterShutdownHook(name string, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = append(m.hooks, namedHook{name: name, hook: hook})
	m.logger.Debug().Str("hook", name).Msg("registered shutdown hook")
}

// Run starts the ops server (if configured) and the app, then blocks until
// the app returns or ctx is cancelled. Shutdown runs in both cases.
func (m *Manager) Run(ctx context.Context, app AppFunc) error {
	if ctx == nil {
		return fmt.Errorf("run context is nil")
	}
	if app == nil {
		return ErrMissingApp
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	errChan := make(chan error, 2)

	if m.cfg.OpsConfig.Addr != "" && m.cfg.OpsHandler != nil {
		m.startOpsServer(errChan)
	}

	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()

	g, appCtx := errgroup.WithContext(appCtx)
	appDone := make(chan error, 1)
	g.Go(func() error {
		err := app(appCtx)
		appDone <- err
		return err
	})

	var runErr error
	select {
	case err := <-errChan:
		m.logger.Error().Err(err).Msg("server error, initiating shutdown")
		runErr = err
	case err := <-appDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Error().Err(err).Msg("app failed, initiating shutdown")
			runErr = err
		}
	case <-ctx.Done():
		m.logger.Info().Msg("shutdown signal received")
	}

	// Stop the app before draining servers so hooks see a quiescent system.
	cancelApp()

	// Detached-but-bounded context so shutdown can complete even when the
	// parent is already cancelled.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.ShutdownTimeout)
	defer cancel()

	if err := m.Shutdown(shutdownCtx); err != nil {
		if runErr != nil {
			return errors.Join(runErr, err)
		}
		return err
	}

	// Wait for the app goroutine to unwind before returning.
	if err := g.Wait(); err != nil && runErr == nil && !errors.Is(err, context.Canceled) {
		runErr = err
	}
	return runErr
}

func (m *Manager) startOpsServer(errChan chan<- error) {
	m.opsServer = ops.NewServer(m.cfg.OpsConfig, m.cfg.OpsHandler)

	go func() {
		m.logger.Info().
			Str("addr", m.cfg.OpsConfig.Addr).
			Msg("ops server listening")

		if err := m.opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().
				Err(err).
				Str("event", "ops.server.failed").
				Msg("ops server failed")
			errChan <- fmt.Errorf("ops server: %w", err)
		}
	}()
}

// Shutdown stops the ops server and executes shutdown hooks in LIFO order.
// It is safe to call more than once; later calls are no-ops.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("shutdown context is nil")
	}

	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return nil
	}
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.stopping = true
	hooks := make([]namedHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	m.logger.Info().Msg("shutting down")

	var errs []error

	if m.opsServer != nil {
		m.logger.Debug().Msg("shutting down ops server")
		if err := m.opsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ops server shutdown: %w", err))
		}
	}

	m.logger.Debug().Int("hooks", len(hooks)).Msg("executing shutdown hooks")
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]

		hookStart := time.Now()
		err := hook.hook(ctx)
		duration := time.Since(hookStart)
		metrics.ObserveShutdownHook(hook.name, duration)

		if err != nil {
			m.logger.Error().
				Err(err).
				Str("hook", hook.name).
				Dur("duration", duration).
				Msg("shutdown hook failed")
			errs = append(errs, fmt.Errorf("hook %s: %w", hook.name, err))
		} else {
			m.logger.Debug().
				Str("hook", hook.name).
				Dur("duration", duration).
				Msg("shutdown hook completed")
		}
	}

	if len(errs) > 0 {
		m.logger.Error().
			Int("error_count", len(errs)).
			Msg("shutdown completed with errors")
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	m.logger.Info().Msg("stopped cleanly")
	return nil
}
