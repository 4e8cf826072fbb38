// SPDX-License-Identifier: MIT

package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("config=debug, ops=warn")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if lvl, ok := f.LevelFor("config"); !ok || lvl != zerolog.DebugLevel {
		t.Errorf("expected config=debug, got %v (%v)", lvl, ok)
	}
	if lvl, ok := f.LevelFor("ops"); !ok || lvl != zerolog.WarnLevel {
		t.Errorf("expected ops=warn, got %v (%v)", lvl, ok)
	}
	if _, ok := f.LevelFor("telemetry"); ok {
		t.Error("unexpected override for telemetry")
	}
}

func TestParseFilterEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", ",", " , "} {
		f, err := ParseFilter(input)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", input, err)
		}
		if len(f) != 0 {
			t.Errorf("ParseFilter(%q): expected empty filter, got %v", input, f)
		}
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, input := range []string{"config", "=debug", "config=verydetailed"} {
		if _, err := ParseFilter(input); err == nil {
			t.Errorf("ParseFilter(%q): expected error", input)
		}
	}
}
