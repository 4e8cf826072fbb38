// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"
)

func TestParseString(t *testing.T) {
	t.Setenv("YUL_TEST_STR", "from-env")
	if got := ParseString("YUL_TEST_STR", "fallback"); got != "from-env" {
		t.Errorf("expected from-env, got %q", got)
	}
	if got := ParseString("YUL_TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}

	t.Setenv("YUL_TEST_STR_EMPTY", "")
	if got := ParseString("YUL_TEST_STR_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("empty env var must yield default, got %q", got)
	}
}

func TestParseStringWithAlias(t *testing.T) {
	t.Setenv("YUL_TEST_OLD", "legacy")
	if got := ParseStringWithAlias("YUL_TEST_NEW", "YUL_TEST_OLD", "fallback"); got != "legacy" {
		t.Errorf("expected alias value, got %q", got)
	}

	t.Setenv("YUL_TEST_NEW", "current")
	if got := ParseStringWithAlias("YUL_TEST_NEW", "YUL_TEST_OLD", "fallback"); got != "current" {
		t.Errorf("primary key must win over alias, got %q", got)
	}

	if got := ParseStringWithAlias("YUL_TEST_NONE_A", "YUL_TEST_NONE_B", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"banana", true}, // invalid keeps default
	}
	for _, tt := range tests {
		t.Setenv("YUL_TEST_BOOL", tt.value)
		if got := ParseBool("YUL_TEST_BOOL", true); got != tt.want {
			t.Errorf("ParseBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	t.Setenv("YUL_TEST_INT", "42")
	if got := ParseInt("YUL_TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	t.Setenv("YUL_TEST_INT", "not-a-number")
	if got := ParseInt("YUL_TEST_INT", 7); got != 7 {
		t.Errorf("invalid input must yield default, got %d", got)
	}
}

func TestParseFloat(t *testing.T) {
	t.Setenv("YUL_TEST_FLOAT", "0.25")
	if got := ParseFloat("YUL_TEST_FLOAT", 1.0); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}

	t.Setenv("YUL_TEST_FLOAT", "x")
	if got := ParseFloat("YUL_TEST_FLOAT", 1.0); got != 1.0 {
		t.Errorf("invalid input must yield default, got %v", got)
	}
}

func TestParseDuration(t *testing.T) {
	t.Setenv("YUL_TEST_DUR", "1500ms")
	if got := ParseDuration("YUL_TEST_DUR", time.Second); got != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", got)
	}

	t.Setenv("YUL_TEST_DUR", "soon")
	if got := ParseDuration("YUL_TEST_DUR", time.Second); got != time.Second {
		t.Errorf("invalid input must yield default, got %v", got)
	}
}
