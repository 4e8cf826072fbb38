// SPDX-License-Identifier: MIT

// Package config supplies the configuration batteries: environment parsing
// with source attribution, YAML files with atomic writes, and hot reload.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/yul/log"
)

func envLogger() zerolog.Logger {
	return log.WithComponent("config")
}

func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "token") ||
		strings.Contains(lower, "password") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "key")
}

// ParseString reads a string from an environment variable or returns the
// default value. The source (environment or default) is logged at debug level.
func ParseString(key, defaultValue string) string {
	logger := envLogger()
	if value, exists := os.LookupEnv(key); exists {
		switch {
		case sensitiveKey(key):
			logger.Debug().
				Str("key", key).
				Str("source", "environment").
				Bool("sensitive", true).
				Msg("using environment variable")
		case value == "":
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		default:
			logger.Debug().
				Str("key", key).
				Str("value", value).
				Str("source", "environment").
				Msg("using environment variable")
		}
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseStringWithAlias reads the primary key first and falls back to the alias.
// Aliases keep renamed variables working for existing deployments.
func ParseStringWithAlias(key, alias, defaultValue string) string {
	if _, exists := os.LookupEnv(key); exists {
		return ParseString(key, defaultValue)
	}
	if _, exists := os.LookupEnv(alias); exists {
		logger := envLogger()
		logger.Warn().
			Str("key", alias).
			Str("replacement", key).
			Msg("environment variable is deprecated, use replacement")
		return ParseString(alias, defaultValue)
	}
	return defaultValue
}

// ParseBool reads a boolean from an environment variable or returns the default.
func ParseBool(key string, defaultValue bool) bool {
	logger := envLogger()
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			logger.Debug().
				Str("key", key).
				Bool("value", b).
				Str("source", "environment").
				Msg("using environment variable")
			return b
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
	}
	return defaultValue
}

// ParseInt reads an integer from an environment variable or returns the
// default. It validates the input and falls back to the default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := envLogger()
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if i, err := strconv.Atoi(v); err == nil {
			logger.Debug().
				Str("key", key).
				Int("value", i).
				Str("source", "environment").
				Msg("using environment variable")
			return i
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
	}
	return defaultValue
}

// ParseFloat reads a float from an environment variable or returns the default.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := envLogger()
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			logger.Debug().
				Str("key", key).
				Float64("value", f).
				Str("source", "environment").
				Msg("using environment variable")
			return f
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
	}
	return defaultValue
}

// ParseDuration reads a duration in Go duration format (e.g. "5s") from an
// environment variable. It falls back to the default on parse errors.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := envLogger()
	if v, ok := os.LookupEnv(key); ok {
		if v == "" {
			return defaultValue
		}
		if d, err := time.ParseDuration(v); err == nil {
			logger.Debug().
				Str("key", key).
				Dur("value", d).
				Str("source", "environment").
				Msg("using environment variable")
			return d
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
	}
	return defaultValue
}
