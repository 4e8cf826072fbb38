// SPDX-License-Identifier: MIT

// Package log configures structured logging for CLI programs built on yul.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	// Verbosity is the repeat count of the -v flag: 0 is info, 1 is debug,
	// 2 and above is trace. Ignored when Level is set.
	Verbosity int

	// Level is an explicit log level ("debug", "info", etc.) overriding Verbosity.
	Level string

	// Filter holds per-component level overrides, e.g. "config=debug,ops=warn".
	Filter string

	// Format selects the output format (json, pretty, compact, otlp).
	Format Format

	// Timestamps controls whether events carry a timestamp field. Piped or
	// journald-captured output usually gets timestamps from the collector.
	Timestamps bool

	// Output is the destination writer (defaults to os.Stderr).
	Output io.Writer

	// Service is the service name attached to every log entry.
	Service string

	// Version is the build version attached to every log entry.
	Version string
}

var (
	mu     sync.RWMutex
	base   zerolog.Logger
	filter Filter
)

func init() {
	// Safe default until the harness configures the real thing.
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Configure initialises the global zerolog logger. The last call wins, which
// lets the harness install defaults early and reconfigure once flags are parsed.
func Configure(cfg Config) error {
	level := levelFor(cfg.Verbosity)
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	f, err := ParseFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("parse log filter: %w", err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	writer, err := cfg.Format.writer(out)
	if err != nil {
		return err
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(writer).Level(level).With()
	if cfg.Timestamps {
		ctx = ctx.Timestamp()
	}
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}

	mu.Lock()
	base = ctx.Logger()
	filter = f
	mu.Unlock()
	return nil
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.InfoLevel
	case 1:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
// When the log filter names the component, its level override is applied.
func WithComponent(component string) zerolog.Logger {
	mu.RLock()
	b, f := base, filter
	mu.RUnlock()

	l := b.With().Str(FieldComponent, component).Logger()
	if lvl, ok := f.LevelFor(component); ok {
		l = l.Level(lvl)
	}
	return l
}

// Derive attaches arbitrary fields to a child logger using the provided builder function.
func Derive(build func(*zerolog.Context)) zerolog.Logger {
	ctx := Base().With()
	if build != nil {
		build(&ctx)
	}
	return ctx.Logger()
}
