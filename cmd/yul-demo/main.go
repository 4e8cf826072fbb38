// SPDX-License-Identifier: MIT

// yul-demo shows the harness end to end: it reads a file, records a span
// and keeps a run counter in the local state store.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"

	yul "github.com/ManuGH/yul"
	"github.com/ManuGH/yul/log"
	"github.com/ManuGH/yul/state"
	"github.com/ManuGH/yul/telemetry"
)

var (
	file     string
	stateDir string
)

func app(ctx context.Context, _ []string) error {
	ctx, span := telemetry.Tracer("yul-demo").Start(ctx, "app")
	defer span.End()

	logger := log.WithComponentFromContext(ctx, "demo")

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	logger.Info().
		Str(log.FieldPath, file).
		Int("bytes", len(data)).
		Msg("file read")

	store, err := state.Open(stateDir)
	if err != nil {
		return err
	}
	yul.OnShutdown(ctx, "state", func(context.Context) error { return store.Close() })

	runs := 0
	if raw, err := store.Get("runs"); err == nil {
		runs, _ = strconv.Atoi(string(raw))
	}
	runs++
	if err := store.Set("runs", []byte(strconv.Itoa(runs))); err != nil {
		return err
	}
	logger.Info().Int("runs", runs).Msg("run recorded")

	return nil
}

func main() {
	yul.Main("yul-demo", app,
		yul.WithShort("Demo binary for the yul CLI batteries"),
		yul.WithFlags(func(fs *pflag.FlagSet) {
			fs.StringVar(&file, "file", "README.md", "File to read")
			fs.StringVar(&stateDir, "state-dir", filepath.Join(os.TempDir(), "yul-demo"), "State store directory")
		}),
	)
}
