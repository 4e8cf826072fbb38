// SPDX-License-Identifier: MIT

package yul

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ManuGH/yul/health"
	"github.com/ManuGH/yul/lifecycle"
	"github.com/ManuGH/yul/log"
	"github.com/ManuGH/yul/metrics"
	"github.com/ManuGH/yul/ops"
	"github.com/ManuGH/yul/telemetry"
	"github.com/ManuGH/yul/version"
)

// AppFunc is the application entrypoint. ctx is cancelled on SIGINT/SIGTERM;
// args are the positional arguments left after flag parsing.
type AppFunc func(ctx context.Context, args []string) error

type settings struct {
	short    string
	flags    func(*pflag.FlagSet)
	reload   func(context.Context) error
	checkers []health.Checker
}

// Option customises the harness.
type Option func(*settings)

// WithShort sets the one-line command description shown in help output.
func WithShort(short string) Option {
	return func(s *settings) { s.short = short }
}

// WithFlags lets the app register its own flags next to the battery flags.
func WithFlags(fn func(*pflag.FlagSet)) Option {
	return func(s *settings) { s.flags = fn }
}

// WithReloader installs a function invoked on SIGHUP, typically a config
// holder's Reload.
func WithReloader(fn func(context.Context) error) Option {
	return func(s *settings) { s.reload = fn }
}

// WithChecker registers a health checker served on the ops probe endpoints.
func WithChecker(c health.Checker) Option {
	return func(s *settings) { s.checkers = append(s.checkers, c) }
}

// usageError marks flag and argument problems so Main can exit with the
// usage code instead of the generic error code.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Command builds the cobra command carrying the battery flags. Most binaries
// use Main directly; Command is for apps that mount subcommands of their own.
func Command(name string, app AppFunc, opts ...Option) *cobra.Command {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	o := defaultOptions()

	cmd := &cobra.Command{
		Use:           name,
		Short:         s.short,
		Version:       version.Collect(name).String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), name, o, s, app, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	o.register(cmd.Flags())
	if s.flags != nil {
		s.flags(cmd.Flags())
	}

	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return applyEnv(cmd.Flags())
	}

	return cmd
}

// Run parses args and runs the app under the harness, returning the app error.
func Run(name string, app AppFunc, args []string, opts ...Option) error {
	cmd := Command(name, app, opts...)
	cmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.ExecuteContext(ctx)
}

// Main runs the app and exits the process with the appropriate code.
func Main(name string, app AppFunc, opts ...Option) {
	err := Run(name, app, os.Args[1:], opts...)
	if err == nil {
		os.Exit(ExitOK)
	}

	fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)

	var usage *usageError
	if errors.As(err, &usage) {
		os.Exit(ExitUsage)
	}
	os.Exit(ExitError)
}

func execute(ctx context.Context, name string, o *Options, s *settings, app AppFunc, args []string) error {
	format, err := log.ParseFormat(o.LogFormat)
	if err != nil {
		return &usageError{err: err}
	}

	info := version.Collect(name)

	if err := log.Configure(log.Config{
		Verbosity:  o.Verbose,
		Filter:     o.LogFilter,
		Format:     format,
		Timestamps: o.LogTimestamps,
		Service:    name,
		Version:    info.Version,
	}); err != nil {
		return &usageError{err: err}
	}

	logger := log.WithComponent(name)

	host, _ := os.Hostname()
	logger.Info().
		Str("host", host).
		Int("pid", os.Getpid()).
		Int("cores", runtime.NumCPU()).
		Str("commit", info.ShortCommit()).
		Msgf("%s %s", info.Name, info.Version)

	metrics.SetBuildInfo(info)

	hm := health.NewManager(info.Version)
	for _, c := range s.checkers {
		hm.RegisterChecker(c)
	}

	opsCfg := ops.DefaultConfig()
	opsCfg.Addr = o.OpsAddr
	opsCfg.EnablePprof = o.Pprof

	var opsHandler http.Handler
	if opsCfg.Addr != "" {
		opsHandler = ops.NewRouter(hm, info, opsCfg)
	}

	mgr, err := lifecycle.NewManager(lifecycle.Config{
		OpsConfig:       opsCfg,
		OpsHandler:      opsHandler,
		ShutdownTimeout: o.ShutdownTimeout,
	}, logger)
	if err != nil {
		return err
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        o.Trace,
		ServiceName:    name,
		ServiceVersion: info.Version,
		Environment:    o.Environment,
		ExporterType:   o.TraceProtocol,
		Endpoint:       o.TraceEndpoint,
		SamplingRate:   o.TraceSampleRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	mgr.RegisterShutdownHook("telemetry", provider.Shutdown)

	return mgr.Run(ctx, func(ctx context.Context) error {
		ctx = contextWithRuntime(ctx, mgr, hm)

		if s.reload != nil {
			go watchReload(ctx, s.reload)
		}

		return app(ctx, args)
	})
}

// watchReload invokes the reload function on every SIGHUP until ctx ends.
func watchReload(ctx context.Context, reload func(context.Context) error) {
	logger := log.WithComponent("config")

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info().
				Str(log.FieldEvent, "config.reload_signal").
				Msg("received reload signal, reloading config")

			if err := reload(context.WithoutCancel(ctx)); err != nil {
				logger.Warn().
					Err(err).
					Str(log.FieldEvent, "config.reload_failed").
					Msg("config reload failed")
			}
		}
	}
}
