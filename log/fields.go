// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldService   = "service"
	FieldVersion   = "version"

	// Path fields
	FieldPath       = "path"
	FieldConfigPath = "config_path"

	// Network fields
	FieldAddr = "addr"
)
