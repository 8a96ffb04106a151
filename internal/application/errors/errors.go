// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
	"strings"
)

// ValidationError indicates configuration validation failed.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// CapabilityQueryError indicates the capability source was unreachable or
// returned a malformed document. It is fatal for the configuration load.
type CapabilityQueryError struct {
	Cause  error
	Source string
}

func (e *CapabilityQueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("capability query failed (%s): %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("capability query failed (%s)", e.Source)
}

func (e *CapabilityQueryError) Unwrap() error {
	return e.Cause
}

// NewCapabilityQueryError creates a new capability query error.
func NewCapabilityQueryError(source string, cause error) *CapabilityQueryError {
	return &CapabilityQueryError{
		Source: source,
		Cause:  cause,
	}
}

// ConfigurationConflictError indicates mutually exclusive options were enabled together.
type ConfigurationConflictError struct {
	Cause   error
	Message string
	Options []string
}

func (e *ConfigurationConflictError) Error() string {
	return fmt.Sprintf("configuration conflict (%s): %s", strings.Join(e.Options, ", "), e.Message)
}

func (e *ConfigurationConflictError) Unwrap() error {
	return e.Cause
}

// NewConfigurationConflictError creates a new configuration conflict error.
func NewConfigurationConflictError(message string, cause error, options ...string) *ConfigurationConflictError {
	return &ConfigurationConflictError{
		Options: options,
		Message: message,
		Cause:   cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
