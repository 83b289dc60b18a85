package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSpecFormat indicates the input document is malformed or incomplete.
	ErrSpecFormat = errors.New("spec format error")

	// ErrCyclicReference indicates a $ref chain that never reaches a concrete node.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrUnsupportedOperation indicates a path entry that is not an HTTP operation.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrTemplateBinding indicates a template references data its context does not provide.
	ErrTemplateBinding = errors.New("template binding error")

	// ErrDestinationExists indicates the output directory is already populated.
	ErrDestinationExists = errors.New("destination exists")

	// ErrValidation indicates a document failed structural validation.
	ErrValidation = errors.New("validation error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SpecFormatError represents a document that cannot be loaded: undecodable
// content, a missing required section, or a $ref that does not resolve.
type SpecFormatError struct {
	// Path is the file path or source identifier
	Path string
	// Pointer is the JSON pointer of the offending node (e.g. "/paths/~1pets/get")
	Pointer string
	// Ref is the unresolved reference, when the failure is a dangling $ref
	Ref string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecFormatError) Error() string {
	msg := "spec format error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecFormatError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecFormatError) Is(target error) bool {
	return target == ErrSpecFormat
}

// CyclicReferenceError represents a $ref chain that revisits a reference
// already being resolved without passing through any concrete structure.
type CyclicReferenceError struct {
	// Chain is the sequence of references in resolution order, ending with
	// the reference that closed the cycle
	Chain []string
}

// Error returns a human-readable error message.
func (e *CyclicReferenceError) Error() string {
	if len(e.Chain) == 0 {
		return "cyclic reference"
	}
	return "cyclic reference: " + strings.Join(e.Chain, " -> ")
}

// Is reports whether target matches this error type.
func (e *CyclicReferenceError) Is(target error) bool {
	return target == ErrCyclicReference
}

// UnsupportedOperationError represents a path entry that cannot be turned
// into an operation. It is never fatal: the entry is skipped.
type UnsupportedOperationError struct {
	// Path is the path template the entry belongs to
	Path string
	// Method is the key found under the path item
	Method string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *UnsupportedOperationError) Error() string {
	msg := "unsupported operation"
	if e.Method != "" {
		msg += " " + e.Method
	}
	if e.Path != "" {
		msg += " on " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// TemplateBindingError represents a template that references a field its
// render context does not provide, or that otherwise fails to execute.
type TemplateBindingError struct {
	// Template is the template name
	Template string
	// Field is the missing or invalid field, when it can be determined
	Field string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *TemplateBindingError) Error() string {
	msg := "template binding error"
	if e.Template != "" {
		msg += " in " + e.Template
	}
	if e.Field != "" {
		msg += " for " + e.Field
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TemplateBindingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TemplateBindingError) Is(target error) bool {
	return target == ErrTemplateBinding
}

// DestinationExistsError represents an output location that already holds
// content. Nothing is written when it is returned.
type DestinationExistsError struct {
	// Path is the output location
	Path string
	// NotDir is true when Path exists but is not a directory
	NotDir bool
}

// Error returns a human-readable error message.
func (e *DestinationExistsError) Error() string {
	msg := "destination exists"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.NotDir {
		msg += ": not a directory"
	} else {
		msg += ": directory is not empty"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DestinationExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// ValidationError represents a structural violation found while validating
// a downloaded document.
type ValidationError struct {
	// Path is the file path or source identifier
	Path string
	// Problems lists the individual violations in document order
	Problems []string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	switch len(e.Problems) {
	case 0:
	case 1:
		msg += ": " + e.Problems[0]
	default:
		msg += fmt.Sprintf(": %s (and %d more)", e.Problems[0], len(e.Problems)-1)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
