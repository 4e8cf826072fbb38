// SPDX-License-Identifier: MIT

package lifecycle

import "errors"

var (
	// ErrMissingLogger is returned when a logger is not provided
	ErrMissingLogger = errors.New("logger is required")

	// ErrMissingApp is returned when Run is called without an app function
	ErrMissingApp = errors.New("app function is required")

	// ErrAlreadyStarted is returned when Run is called twice
	ErrAlreadyStarted = errors.New("manager already started")

	// ErrNotStarted is returned when trying to shut down a manager that hasn't started
	ErrNotStarted = errors.New("manager not started")
)
