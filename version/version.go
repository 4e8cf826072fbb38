// SPDX-License-Identifier: MIT

// Package version captures build and version information for CLI binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the current application version.
	// It should be populated by the build system (ldflags) or fall back to VCS metadata.
	Version = "dev"

	// Commit is the git hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info describes a concrete build of a binary.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Collect assembles version information for the named binary.
// Ldflags-injected values win; gaps are filled from the embedded VCS
// build metadata when the binary was built inside a repository.
func Collect(name string) Info {
	info := Info{
		Name:      name,
		Version:   Version,
		Commit:    Commit,
		BuildDate: Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && s.Value != "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" && s.Value != "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the abbreviated commit hash used in logs.
func (i Info) ShortCommit() string {
	c := i.Commit
	if len(c) > 8 {
		c = c[:8]
	}
	if i.Dirty {
		c += "-dirty"
	}
	return c
}

// String renders a single-line version banner.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", i.Name, i.Version)
	fmt.Fprintf(&b, " (commit: %s, built: %s, %s %s/%s)",
		i.ShortCommit(), i.BuildDate, i.GoVersion, i.OS, i.Arch)
	return b.String()
}
