package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "cursor.max_lasting")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// maxLastingLimit bounds cursor.max_lasting
const maxLastingLimit = 1024

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidColorModes returns the list of valid replay color modes
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateCursor()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateReplay()...)

	return errors
}

// UnknownSyncs returns configured sync names that no built-in definition
// handles. They are ignored at mount time; callers may warn about them.
func (c *Config) UnknownSyncs() []string {
	var names []string
	for name := range c.Sync {
		if !slices.Contains(builtin.Names(), name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// validateCursor validates the CursorConfig
func (c *Config) validateCursor() []ValidationError {
	var errors []ValidationError

	if c.Cursor.MaxLasting <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cursor.max_lasting",
			Value:   c.Cursor.MaxLasting,
			Message: "must be positive",
		})
	}
	if c.Cursor.MaxLasting > maxLastingLimit {
		errors = append(errors, ValidationError{
			Field:   "cursor.max_lasting",
			Value:   c.Cursor.MaxLasting,
			Message: fmt.Sprintf("exceeds maximum of %d", maxLastingLimit),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateReplay validates the ReplayConfig
func (c *Config) validateReplay() []ValidationError {
	var errors []ValidationError

	if c.Replay.Filter != "" {
		if _, err := glob.Compile(c.Replay.Filter); err != nil {
			errors = append(errors, ValidationError{
				Field:   "replay.filter",
				Value:   c.Replay.Filter,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	if c.Replay.Color != "" && !slices.Contains(ValidColorModes(), c.Replay.Color) {
		errors = append(errors, ValidationError{
			Field:   "replay.color",
			Value:   c.Replay.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}
