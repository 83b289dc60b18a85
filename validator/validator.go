package validator

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/severity"
	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"go.yaml.in/yaml/v4"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a best practice violation or recommendation
	SeverityWarning = severity.SeverityWarning
)

const (
	// defaultErrorCapacity is the initial capacity for error slices
	defaultErrorCapacity = 10
	// defaultWarningCapacity is the initial capacity for warning slices
	defaultWarningCapacity = 10
)

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of validating an OpenAPI document
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Version is the declared swagger or openapi version string
	Version string
	// OASVersion is the major OAS version (0 when undetermined)
	OASVersion parser.OASVersion
	// Errors contains all validation errors
	Errors []ValidationError
	// Warnings contains all validation warnings
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// LoadTime is the time taken to load and check the document
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// SourceFormat is the format of the source data (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourcePath is the path the document was read from, if any
	SourcePath string
	// Document is the decoded document tree, in source order
	Document *yaml.Node
}

// Err returns a *oaserrors.ValidationError listing every error, or nil when
// the document is valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	problems := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Path == "" {
			problems = append(problems, e.Message)
			continue
		}
		problems = append(problems, e.Path+": "+e.Message)
	}
	return &oaserrors.ValidationError{Path: r.SourcePath, Problems: problems}
}

// MarshalJSON renders the validated document as indented JSON with the
// keys in source order.
func (r *ValidationResult) MarshalJSON() ([]byte, error) {
	if r.Document == nil {
		return nil, fmt.Errorf("validator: no document")
	}
	data, err := yamlnode.MarshalJSONIndent(r.Document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("validator: failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the validated document as JSON to path.
func (r *ValidationResult) WriteFile(path string) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("validator: failed to write %s: %w", path, err)
	}
	return nil
}

// Validator handles structural validation of downloaded documents
type Validator struct {
	// IncludeWarnings determines whether to include best practice warnings
	IncludeWarnings bool
	// StrictMode reports missing operationIds and unknown path item fields
	// as warnings
	StrictMode bool
	// SwaggerURL, when set, is recorded under info.x-origin of the
	// validated document.
	SwaggerURL string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
	}
}

// ValidateFile validates the document at inputFile, records swaggerURL as
// its origin and writes the validated JSON to outputFile. The output is only
// written when the document is valid; an invalid document yields the result
// together with a *oaserrors.ValidationError.
func ValidateFile(inputFile, outputFile, swaggerURL string) (*ValidationResult, error) {
	v := New()
	v.SwaggerURL = swaggerURL
	result, err := v.Validate(inputFile)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return result, err
	}
	if err := result.WriteFile(outputFile); err != nil {
		return result, err
	}
	return result, nil
}

// Validate reads and checks the document at path.
func (v *Validator) Validate(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validator: failed to read file: %w", err)
	}
	return v.validate(data, path)
}

// ValidateBytes checks an in-memory document.
func (v *Validator) ValidateBytes(data []byte) (*ValidationResult, error) {
	return v.validate(data, "")
}

func (v *Validator) validate(data []byte, source string) (*ValidationResult, error) {
	start := time.Now()
	root, err := yamlnode.Decode(data)
	if err != nil {
		return nil, &oaserrors.SpecFormatError{Path: source, Message: "failed to decode document", Cause: err}
	}

	result := &ValidationResult{
		Errors:       make([]ValidationError, 0, defaultErrorCapacity),
		Warnings:     make([]ValidationError, 0, defaultWarningCapacity),
		SourceSize:   int64(len(data)),
		SourceFormat: parser.DetectFormat(data),
		SourcePath:   source,
		Document:     root,
	}

	c := &checker{v: v, result: result, root: root, operationIDs: make(map[string]string)}
	c.check()

	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0
	result.LoadTime = time.Since(start)

	if result.Valid && v.SwaggerURL != "" {
		recordOrigin(root, v.SwaggerURL, result.OASVersion, result.Version)
	}

	log := parser.OrNop(v.Logger)
	log.Debug("validated document",
		"source", source,
		"version", result.Version,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount)
	return result, nil
}

// recordOrigin appends an entry to info.x-origin the way API catalogs do:
// a list of {format, url, version} mappings.
func recordOrigin(root *yaml.Node, swaggerURL string, major parser.OASVersion, version string) {
	info := yamlnode.Get(root, "info")
	if !yamlnode.IsMapping(info) {
		return
	}
	format := "openapi"
	if major == parser.OASVersion20 {
		format = "swagger"
	}
	entry := yamlnode.Mapping("format", format, "url", swaggerURL, "version", version)

	origin := yamlnode.Get(info, "x-origin")
	if !yamlnode.IsSequence(origin) {
		origin = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		yamlnode.Set(info, "x-origin", origin)
	}
	for _, existing := range origin.Content {
		if yamlnode.String(yamlnode.Get(existing, "url")) == swaggerURL {
			return
		}
	}
	origin.Content = append(origin.Content, entry)
}

// addError appends a validation error.
func (v *Validator) addError(result *ValidationResult, path, message string) {
	result.Errors = append(result.Errors, ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityError,
	})
}

// addWarning appends a validation warning unless warnings are disabled.
func (v *Validator) addWarning(result *ValidationResult, path, message string) {
	if !v.IncludeWarnings {
		return
	}
	result.Warnings = append(result.Warnings, ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
	})
}

// pointer joins JSON pointer tokens, escaping each one.
func pointer(base string, tokens ...string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(yamlnode.EscapeToken(t))
	}
	return sb.String()
}
