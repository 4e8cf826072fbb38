// SPDX-License-Identifier: MIT

package yul

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Options are the battery flags every yul binary carries. Each flag has an
// environment fallback named YUL_<FLAG> with dashes replaced by underscores.
type Options struct {
	// Verbose is the repeat count of -v: 0 info, 1 debug, 2+ trace.
	Verbose int

	// LogFormat is one of 'compact', 'pretty', 'json' or 'otlp'.
	LogFormat string

	// LogFilter holds per-component level overrides ("config=debug,ops=warn").
	LogFilter string

	// LogTimestamps includes timestamps in log output. Disable with
	// --log-timestamps=false when a collector stamps the lines already.
	LogTimestamps bool

	// Trace enables OpenTelemetry trace export.
	Trace bool

	// TraceEndpoint is the OTLP collector endpoint.
	TraceEndpoint string

	// TraceProtocol is the OTLP transport, 'grpc' or 'http'.
	TraceProtocol string

	// TraceSampleRate is the trace sampling rate between 0 and 1.
	TraceSampleRate float64

	// Environment is the deployment environment attached to telemetry.
	Environment string

	// OpsAddr serves metrics, health probes and version info when non-empty.
	OpsAddr string

	// Pprof mounts pprof handlers on the ops server.
	Pprof bool

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

func defaultOptions() *Options {
	return &Options{
		LogFormat:       "pretty",
		LogTimestamps:   true,
		TraceEndpoint:   "localhost:4317",
		TraceProtocol:   "grpc",
		TraceSampleRate: 1.0,
		Environment:     "development",
		ShutdownTimeout: 30 * time.Second,
	}
}

func (o *Options) register(fs *pflag.FlagSet) {
	fs.CountVarP(&o.Verbose, "verbose", "v", "Increase log verbosity (-v, -vv)")
	fs.StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format, one of 'compact', 'pretty', 'json' or 'otlp'")
	fs.StringVar(&o.LogFilter, "log-filter", o.LogFilter, "Per-component log level overrides (component=level,...)")
	fs.BoolVar(&o.LogTimestamps, "log-timestamps", o.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&o.Trace, "trace", o.Trace, "Export OpenTelemetry traces")
	fs.StringVar(&o.TraceEndpoint, "trace-endpoint", o.TraceEndpoint, "OTLP collector endpoint")
	fs.StringVar(&o.TraceProtocol, "trace-protocol", o.TraceProtocol, "OTLP transport, 'grpc' or 'http'")
	fs.Float64Var(&o.TraceSampleRate, "trace-sample-rate", o.TraceSampleRate, "Trace sampling rate between 0 and 1")
	fs.StringVar(&o.Environment, "environment", o.Environment, "Deployment environment attached to telemetry")
	fs.StringVar(&o.OpsAddr, "ops-addr", o.OpsAddr, "Serve metrics and health probes on this address (e.g. :9090)")
	fs.BoolVar(&o.Pprof, "pprof", o.Pprof, "Expose pprof handlers on the ops server")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Maximum duration of graceful shutdown")
}

// envKey maps a flag name to its environment fallback ("log-format" → "YUL_LOG_FORMAT").
func envKey(flagName string) string {
	return "YUL_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// applyEnv fills unset flags from the environment. Flags given on the command
// line always win over environment values.
func applyEnv(fs *pflag.FlagSet) error {
	var applyErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed {
			return
		}
		value, ok := os.LookupEnv(envKey(f.Name))
		if !ok || value == "" {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			applyErr = &usageError{err: err}
		}
	})
	return applyErr
}
