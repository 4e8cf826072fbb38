// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/yul/log"
	"github.com/ManuGH/yul/metrics"
)

// LoadFunc produces a fresh configuration value.
type LoadFunc[T any] func() (T, error)

// ValidateFunc rejects configuration values that must not be applied.
type ValidateFunc[T any] func(T) error

// Holder holds configuration with atomic reloading capability. It provides
// thread-safe access and supports hot reload from a watched file, a reload
// signal, or a manual trigger.
type Holder[T any] struct {
	mu       sync.RWMutex
	current  T
	load     LoadFunc[T]
	validate ValidateFunc[T]
	path     string
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger

	listenerMu sync.RWMutex
	listeners  []chan<- T
}

// NewHolder creates a holder seeded with the initial configuration.
// path may be empty when the config comes from the environment only;
// the watcher is then disabled. validate may be nil.
func NewHolder[T any](initial T, load LoadFunc[T], validate ValidateFunc[T], path string) *Holder[T] {
	return &Holder[T]{
		current:  initial,
		load:     load,
		validate: validate,
		path:     path,
		logger:   log.WithComponent("config"),
	}
}

// Current returns the current configuration (thread-safe read).
func (h *Holder[T]) Current() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads and validates a new configuration. If loading or validation
// fails, the old configuration is kept and an error is returned, so the swap
// is all-or-nothing.
func (h *Holder[T]) Reload(_ context.Context) error {
	h.logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.load()
	if err != nil {
		metrics.ConfigReloadsTotal.WithLabelValues("load_error").Inc()
		h.logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	if h.validate != nil {
		if err := h.validate(newCfg); err != nil {
			metrics.ConfigReloadsTotal.WithLabelValues("invalid").Inc()
			h.logger.Error().
				Err(err).
				Str(log.FieldEvent, "config.validation_failed").
				Msg("new configuration failed validation")
			return fmt.Errorf("validate config: %w", err)
		}
	}

	h.mu.Lock()
	h.current = newCfg
	h.mu.Unlock()

	h.notifyListeners(newCfg)
	metrics.ConfigReloadsTotal.WithLabelValues("success").Inc()

	h.logger.Info().
		Str(log.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// Subscribe registers a channel that receives every successfully applied
// configuration. Sends are non-blocking; slow listeners miss intermediate
// values but always see a later one.
func (h *Holder[T]) Subscribe(ch chan<- T) {
	h.listenerMu.Lock()
	defer h.listenerMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder[T]) notifyListeners(cfg T) {
	h.listenerMu.RLock()
	defer h.listenerMu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().
				Str(log.FieldEvent, "config.listener_skipped").
				Msg("config listener channel full, skipping notification")
		}
	}
}

// StartWatcher starts watching the config file for changes.
// If the holder has no path, this is a no-op.
func (h *Holder[T]) StartWatcher(ctx context.Context) error {
	if h.path == "" {
		h.logger.Info().
			Str(log.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (no config file)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.logger.Info().
		Str(log.FieldEvent, "config.watcher_started").
		Str(log.FieldPath, h.path).
		Msg("watching config file for changes")

	go h.watchLoop(ctx)
	return nil
}

func (h *Holder[T]) watchLoop(ctx context.Context) {
	// Debounce to avoid reload storms: editors produce several events per save.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	defer func() {
		_ = h.watcher.Close()
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			// Write and Create cover direct writes, vim-style rename saves
			// and atomic replacement.
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Warn().
						Err(err).
						Str(log.FieldEvent, "config.reload_failed").
						Msg("automatic config reload failed, keeping previous configuration")
				}
				// Atomic saves replace the inode; re-arm the watch.
				_ = h.watcher.Remove(h.path)
				if err := h.watcher.Add(h.path); err != nil {
					h.logger.Warn().
						Err(err).
						Str(log.FieldPath, h.path).
						Msg("failed to re-arm config watch")
				}
			})

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_error").Msg("config watcher error")
		}
	}
}
