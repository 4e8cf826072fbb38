// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Filter maps component names to level overrides. A filter lets a user turn
// a single component up to debug without drowning in output from the rest.
type Filter map[string]zerolog.Level

// ParseFilter parses a comma-separated list of component=level directives,
// e.g. "config=debug,ops=warn". An empty string yields an empty filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter{}
	if strings.TrimSpace(s) == "" {
		return f, nil
	}
	for _, directive := range strings.Split(s, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}
		component, levelStr, ok := strings.Cut(directive, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter directive %q: expected component=level", directive)
		}
		component = strings.TrimSpace(component)
		if component == "" {
			return nil, fmt.Errorf("invalid filter directive %q: empty component", directive)
		}
		level, err := zerolog.ParseLevel(strings.TrimSpace(levelStr))
		if err != nil {
			return nil, fmt.Errorf("invalid filter directive %q: %w", directive, err)
		}
		f[component] = level
	}
	return f, nil
}

// LevelFor reports the level override for a component, if any.
func (f Filter) LevelFor(component string) (zerolog.Level, bool) {
	lvl, ok := f[component]
	return lvl, ok
}

func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for component, lvl := range f {
		parts = append(parts, component+"="+lvl.String())
	}
	return strings.Join(parts, ",")
}
