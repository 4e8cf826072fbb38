// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID on fresh context, got %q", got)
	}
}

func TestNewRequestIDUnique(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}

func TestWithContextCorrelation(t *testing.T) {
	var buf bytes.Buffer
	if err := Configure(Config{Format: FormatJSON, Output: &buf}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithCorrelationID(ctx, "corr-7")

	logger := WithContext(ctx, Base())
	logger.Info().Msg("correlated")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("missing request_id: %q", out)
	}
	if !strings.Contains(out, `"correlation_id":"corr-7"`) {
		t.Errorf("missing correlation_id: %q", out)
	}
}

func TestWithContextSpanFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Configure(Config{Format: FormatJSON, Output: &buf}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:  trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger := WithContext(ctx, Base())
	logger.Info().Msg("in span")

	out := buf.String()
	if !strings.Contains(out, `"trace_id":"0102030405060708090a0b0c0d0e0f10"`) {
		t.Errorf("missing trace_id: %q", out)
	}
	if !strings.Contains(out, `"span_id":"0102030405060708"`) {
		t.Errorf("missing span_id: %q", out)
	}
}

func TestWithContextNoFields(t *testing.T) {
	l := Base()
	enriched := WithContext(context.Background(), l)
	// No correlation data present, logger is returned unchanged.
	if enriched.GetLevel() != l.GetLevel() {
		t.Error("unexpected logger mutation")
	}
}
