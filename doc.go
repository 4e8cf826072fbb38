// SPDX-License-Identifier: MIT

// Package yul is a batteries-included harness for command-line programs.
//
// A binary hands its entrypoint to Main and gets the shared plumbing for
// free: battery flags with environment fallbacks, structured zerolog logging
// in four formats (including OTLP log records), OpenTelemetry tracing,
// a Prometheus metrics and health-probe server, SIGHUP config reload and
// graceful shutdown with LIFO hooks.
//
//	func app(ctx context.Context, args []string) error {
//		logger := log.WithComponentFromContext(ctx, "app")
//		logger.Info().Msg("hello")
//		return nil
//	}
//
//	func main() {
//		yul.Main("hello", app)
//	}
//
// Subpackages can be used independently: log, config, health, metrics,
// telemetry, lifecycle, ops and state each stand on their own.
package yul
