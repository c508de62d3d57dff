// Package errors provides centralized error definitions for the boardsync
// engine. It defines sentinel errors for the conditions the engine
// recognises, a domain error type carrying component/sync/table context,
// and classification helpers.
//
// None of the engine's core operations fail outward: missing collaborators,
// unknown sync names and repeated teardowns all degrade to "do nothing".
// These values exist so that those conditions can be logged, counted and
// reported in a uniform way.
//
// # Usage
//
//	err := errors.NewSyncError("emitter declined to attach", errors.ErrMissingCollaborator).
//	    WithComponent("chart-a").
//	    WithSync("highlight")
//
//	if errors.Is(err, errors.ErrMissingCollaborator) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for expected conditions worth tracing only.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational conditions.
	SeverityInfo
	// SeverityWarning is for conditions that point at a caller bug.
	SeverityWarning
	// SeverityError is for real problems.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Synchronization sentinel errors
var (
	// ErrMissingCollaborator indicates that a table, chart or group hub
	// required by an emitter or handler was absent at sync start.
	ErrMissingCollaborator = New("missing collaborator")
	// ErrUnknownSyncName indicates a configuration entry with no definition.
	ErrUnknownSyncName = New("unknown sync name")
	// ErrDoubleTeardown indicates a stop for a sync that is not running.
	ErrDoubleTeardown = New("sync already torn down")
	// ErrTeardownLeak indicates a component whose teardowns never ran.
	ErrTeardownLeak = New("teardown leak")
	// ErrListenerPanic indicates a listener or teardown that panicked.
	ErrListenerPanic = New("listener panicked")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = New("not found")
)

// -----------------------------------------------------------------------------
// SyncError
// -----------------------------------------------------------------------------

// SyncError describes a condition raised while starting, running or
// stopping a synchronization on a component.
//
// Example:
//
//	err := errors.NewSyncError("handler declined to attach", errors.ErrMissingCollaborator)
//	err = err.WithComponent("chart-a").WithSync("extremes")
//	fmt.Println(err) // "sync error [component=chart-a, sync=extremes]: handler declined to attach: missing collaborator"
type SyncError struct {
	message   string
	cause     error
	severity  Severity
	Component string
	Sync      string
	Table     string
}

// NewSyncError creates a new SyncError. The default severity is debug
// since most sync conditions are expected degradations.
func NewSyncError(message string, cause error) *SyncError {
	return &SyncError{
		message:  message,
		cause:    cause,
		severity: SeverityDebug,
	}
}

// WithComponent adds a component ID to the error context.
func (e *SyncError) WithComponent(id string) *SyncError {
	e.Component = id
	return e
}

// WithSync adds a sync name to the error context.
func (e *SyncError) WithSync(name string) *SyncError {
	e.Sync = name
	return e
}

// WithTable adds a table ID to the error context.
func (e *SyncError) WithTable(id string) *SyncError {
	e.Table = id
	return e
}

// WithSeverity sets the error severity.
func (e *SyncError) WithSeverity(s Severity) *SyncError {
	e.severity = s
	return e
}

// Severity returns the error severity.
func (e *SyncError) Severity() Severity {
	return e.severity
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.cause
}

// Error returns the formatted error message.
func (e *SyncError) Error() string {
	var parts []string
	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("component=%s", e.Component))
	}
	if e.Sync != "" {
		parts = append(parts, fmt.Sprintf("sync=%s", e.Sync))
	}
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}

	prefix := "sync error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("sync error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SyncError) Is(target error) bool {
	if _, ok := target.(*SyncError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// GetSeverity returns the severity of err, or SeverityError when err does
// not carry one.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Severity()
	}
	return SeverityError
}

// IsExpected reports whether err is one of the degradations the engine
// absorbs without failing the caller.
func IsExpected(err error) bool {
	return errors.Is(err, ErrMissingCollaborator) ||
		errors.Is(err, ErrUnknownSyncName) ||
		errors.Is(err, ErrDoubleTeardown)
}
