package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Parser loads OpenAPI documents into the normalized Document model.
type Parser struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger Logger
	// SourceURL records where the document came from. It is never fetched.
	SourceURL string
	// MaxRefDepth is the maximum length of a $ref chain.
	// Default: 100
	MaxRefDepth int
	// MaxFileSize is the maximum size in bytes of the input.
	// Default: 10MB
	MaxFileSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return MaxFileSize
}

// Parse reads and normalizes the document at specPath.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	f, err := os.Open(specPath)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := p.parse(f, specPath)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ParseReader reads a document from r and normalizes it.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	return p.parse(r, "")
}

// ParseBytes normalizes an in-memory document.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	return p.parse(bytes.NewReader(data), "")
}

func (p *Parser) parse(r io.Reader, source string) (*ParseResult, error) {
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read input: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &oaserrors.SpecFormatError{
			Path:    source,
			Message: fmt.Sprintf("document exceeds maximum size of %d bytes", limit),
		}
	}

	root, err := yamlnode.Decode(data)
	if err != nil {
		return nil, &oaserrors.SpecFormatError{Path: source, Message: "failed to decode document", Cause: err}
	}

	version, err := detectVersion(root, source)
	if err != nil {
		return nil, err
	}

	log := p.log()
	if source != "" {
		log = log.With("source", source)
	}
	b := newBuilder(root, version, source, p.MaxRefDepth, log)
	doc, err := b.build()
	if err != nil {
		return nil, err
	}
	doc.SourceURL = p.SourceURL

	return &ParseResult{
		Document:     doc,
		SourcePath:   source,
		SourceFormat: DetectFormat(data),
		SourceSize:   int64(len(data)),
		Warnings:     b.warnings,
	}, nil
}

// detectVersion reads the swagger or openapi field.
func detectVersion(root *yaml.Node, source string) (OASVersion, error) {
	if v := yamlnode.String(yamlnode.Get(root, "swagger")); v != "" {
		if v != "2.0" {
			return 0, &oaserrors.SpecFormatError{Path: source, Pointer: "/swagger", Message: "unsupported swagger version " + v}
		}
		return OASVersion20, nil
	}
	if v := yamlnode.String(yamlnode.Get(root, "openapi")); v != "" {
		if sv, err := ParseSemver(v); err != nil || sv.Major != 3 {
			return 0, &oaserrors.SpecFormatError{Path: source, Pointer: "/openapi", Message: "unsupported openapi version " + v}
		}
		return OASVersion3x, nil
	}
	return 0, &oaserrors.SpecFormatError{Path: source, Message: "missing required field 'swagger' or 'openapi'"}
}

// DetectFormat reports JSON when data starts with "{" or "[", YAML otherwise.
func DetectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
