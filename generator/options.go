package generator

import (
	"fmt"

	"github.com/erraggy/oasconnect/extractor"
	"github.com/erraggy/oasconnect/internal/options"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"golang.org/x/mod/module"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte
	parsed   *parser.ParseResult

	packageName    string
	swaggerURL     string
	logger         parser.Logger
	maxSchemaDepth int
	kindPolicy     KindPolicy
	idSynthesizer  extractor.IDSynthesizer
	strictMode     bool
}

// GenerateWithOptions generates a connector package using functional options.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("openapi.yaml"),
//	    generator.WithPackageName("petstore-connector"),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}
	g := cfg.generator()

	switch {
	case cfg.filePath != nil:
		return g.Generate(*cfg.filePath)
	case cfg.parsed != nil:
		return g.GenerateParsed(*cfg.parsed)
	default:
		return g.GenerateBytes(cfg.bytes)
	}
}

// RunWithOptions generates a connector package and writes it to outputDir,
// returning the absolute output path. Nothing is written on failure.
func RunWithOptions(outputDir string, opts ...Option) (string, error) {
	if err := CheckDestination(outputDir); err != nil {
		return "", err
	}
	result, err := GenerateWithOptions(opts...)
	if err != nil {
		return "", err
	}
	return result.WriteFiles(outputDir)
}

func (cfg *generateConfig) generator() *Generator {
	return &Generator{
		PackageName:    cfg.packageName,
		SwaggerURL:     cfg.swaggerURL,
		MaxSchemaDepth: cfg.maxSchemaDepth,
		KindPolicy:     cfg.kindPolicy,
		IDSynthesizer:  cfg.idSynthesizer,
		StrictMode:     cfg.strictMode,
		Logger:         cfg.logger,
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{kindPolicy: DefaultKindPolicy}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("generator", "WithFilePath, WithBytes or WithParsed",
		cfg.filePath != nil, cfg.bytes != nil, cfg.parsed != nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a local file as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies raw document bytes as the input source
func WithBytes(data []byte) Option {
	return func(cfg *generateConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithPackageName sets the connector package name, which is also the module
// path of the generated go.mod.
// Default: kebab-case info.title plus "-connector"
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" {
			return &oaserrors.ConfigError{Option: "packageName", Message: "cannot be empty"}
		}
		if err := module.CheckImportPath(name); err != nil {
			return &oaserrors.ConfigError{Option: "packageName", Value: name, Message: "not a valid module path", Cause: err}
		}
		cfg.packageName = name
		return nil
	}
}

// WithSwaggerURL records where the document was downloaded from
func WithSwaggerURL(u string) Option {
	return func(cfg *generateConfig) error {
		cfg.swaggerURL = u
		return nil
	}
}

// WithLogger sets the structured logger for every stage
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxSchemaDepth bounds field nesting before schemas are cut to opaque
// fields. Default: mapper.DefaultMaxDepth
func WithMaxSchemaDepth(depth int) Option {
	return func(cfg *generateConfig) error {
		if err := options.ValidatePositive("maxSchemaDepth", depth); err != nil {
			return err
		}
		cfg.maxSchemaDepth = depth
		return nil
	}
}

// WithKindPolicy replaces the trigger/action classification
func WithKindPolicy(policy KindPolicy) Option {
	return func(cfg *generateConfig) error {
		if policy == nil {
			return &oaserrors.ConfigError{Option: "kindPolicy", Message: "must not be nil"}
		}
		cfg.kindPolicy = policy
		return nil
	}
}

// WithIDSynthesizer replaces the rule naming operations without an operationId
func WithIDSynthesizer(fn extractor.IDSynthesizer) Option {
	return func(cfg *generateConfig) error {
		if fn == nil {
			return &oaserrors.ConfigError{Option: "idSynthesizer", Message: "must not be nil"}
		}
		cfg.idSynthesizer = fn
		return nil
	}
}

// WithStrictMode makes any warning fail the run
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}
