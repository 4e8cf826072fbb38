// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// OTLPWriter rewrites zerolog JSON events into the OpenTelemetry log data
// model (https://opentelemetry.io/docs/specs/otel/logs/data-model/): one JSON
// record per line with Timestamp, TraceId, SpanId, SeverityText,
// SeverityNumber, Body and Attributes.
type OTLPWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewOTLPWriter wraps out with OTLP log record formatting.
func NewOTLPWriter(out io.Writer) *OTLPWriter {
	return &OTLPWriter{out: out}
}

type otlpRecord struct {
	Timestamp      int64          `json:"Timestamp"`
	TraceID        string         `json:"TraceId,omitempty"`
	SpanID         string         `json:"SpanId,omitempty"`
	SeverityText   string         `json:"SeverityText"`
	SeverityNumber int            `json:"SeverityNumber"`
	Body           string         `json:"Body"`
	Attributes     map[string]any `json:"Attributes,omitempty"`
}

// Severity numbers per the OTLP log data model.
var severityNumbers = map[string]struct {
	text   string
	number int
}{
	zerolog.LevelTraceValue: {"TRACE", 1},
	zerolog.LevelDebugValue: {"DEBUG", 5},
	zerolog.LevelInfoValue:  {"INFO", 9},
	zerolog.LevelWarnValue:  {"WARN", 13},
	zerolog.LevelErrorValue: {"ERROR", 17},
	zerolog.LevelFatalValue: {"FATAL", 21},
	zerolog.LevelPanicValue: {"FATAL", 21},
}

// Write converts each complete zerolog event line. zerolog hands the writer
// one full event per call, but multi-line bursts are split defensively.
func (w *OTLPWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, line := range bytes.Split(p, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := w.writeRecord(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *OTLPWriter) writeRecord(line []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(line, &fields); err != nil {
		// Not a zerolog event; pass through untouched.
		_, werr := w.out.Write(append(line, '\n'))
		return werr
	}

	rec := otlpRecord{
		Timestamp:      time.Now().UnixMilli(),
		SeverityText:   "INFO",
		SeverityNumber: 9,
		Attributes:     make(map[string]any, len(fields)),
	}

	for k, v := range fields {
		switch k {
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					rec.Timestamp = ts.UnixMilli()
					continue
				}
			}
			rec.Attributes[k] = v
		case zerolog.LevelFieldName:
			if s, ok := v.(string); ok {
				if sev, found := severityNumbers[s]; found {
					rec.SeverityText = sev.text
					rec.SeverityNumber = sev.number
					continue
				}
			}
			rec.Attributes[k] = v
		case zerolog.MessageFieldName:
			rec.Body, _ = v.(string)
		case FieldTraceID:
			rec.TraceID, _ = v.(string)
		case FieldSpanID:
			rec.SpanID, _ = v.(string)
		default:
			rec.Attributes[k] = v
		}
	}
	if len(rec.Attributes) == 0 {
		rec.Attributes = nil
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = w.out.Write(append(buf, '\n'))
	return err
}
