// SPDX-License-Identifier: MIT

package yul

// Standard exit codes for yul binaries, following Unix conventions.
const (
	// ExitOK indicates successful execution.
	ExitOK = 0

	// ExitError indicates the app returned an error or a subsystem failed.
	ExitError = 1

	// ExitUsage indicates invalid flags or arguments.
	ExitUsage = 2
)
