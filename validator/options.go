package validator

import (
	"github.com/erraggy/oasconnect/internal/options"
	"github.com/erraggy/oasconnect/parser"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte

	includeWarnings bool
	strictMode      bool
	swaggerURL      string
	logger          parser.Logger
}

// ValidateWithOptions validates a document using functional options.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi-original.json"),
//	    validator.WithSwaggerURL("https://example.com/openapi.json"),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
		SwaggerURL:      cfg.swaggerURL,
		Logger:          cfg.logger,
	}
	if cfg.filePath != nil {
		return v.Validate(*cfg.filePath)
	}
	return v.ValidateBytes(cfg.bytes)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("validator", "WithFilePath or WithBytes",
		cfg.filePath != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies an in-memory document as the input source
func WithBytes(data []byte) Option {
	return func(cfg *validateConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithIncludeWarnings enables or disables best practice warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode enables or disables the extra strict-mode checks
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithSwaggerURL records url under info.x-origin of a valid document
func WithSwaggerURL(url string) Option {
	return func(cfg *validateConfig) error {
		cfg.swaggerURL = url
		return nil
	}
}

// WithLogger sets the structured logger for debug output
func WithLogger(l parser.Logger) Option {
	return func(cfg *validateConfig) error {
		cfg.logger = l
		return nil
	}
}
