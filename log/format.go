// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the rendering of log events.
type Format string

const (
	// FormatJSON emits one zerolog JSON object per line.
	FormatJSON Format = "json"

	// FormatPretty emits colorised human-readable output.
	FormatPretty Format = "pretty"

	// FormatCompact emits terse human-readable output without color.
	FormatCompact Format = "compact"

	// FormatOTLP emits JSON records following the OpenTelemetry log data model.
	FormatOTLP Format = "otlp"
)

// ParseFormat validates a format name. The empty string means pretty,
// matching the default of the --log-format flag.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatPretty, nil
	case FormatJSON, FormatPretty, FormatCompact, FormatOTLP:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid log format %q: expected one of json, pretty, compact, otlp", s)
	}
}

func (f Format) writer(out io.Writer) (io.Writer, error) {
	switch f {
	case FormatJSON:
		return out, nil
	case FormatPretty, "":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}, nil
	case FormatCompact:
		return zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "15:04:05"}, nil
	case FormatOTLP:
		return NewOTLPWriter(out), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", string(f))
	}
}
