package parser

import "github.com/erraggy/oasconnect/internal/issues"

// OASVersion is the major OpenAPI version of a document.
type OASVersion int

const (
	// OASVersion20 is Swagger 2.0.
	OASVersion20 OASVersion = 2
	// OASVersion3x is any OpenAPI 3.x release.
	OASVersion3x OASVersion = 3
)

// String returns "2.0" or "3.x".
func (v OASVersion) String() string {
	switch v {
	case OASVersion20:
		return "2.0"
	case OASVersion3x:
		return "3.x"
	default:
		return "unknown"
	}
}

// SourceFormat records whether the input was JSON or YAML.
type SourceFormat string

const (
	SourceFormatJSON SourceFormat = "json"
	SourceFormatYAML SourceFormat = "yaml"
)

// ParseResult contains a normalized document and metadata about the load.
type ParseResult struct {
	// Document is the normalized, fully resolved document
	Document *Document
	// SourcePath is the file path or source identifier
	SourcePath string
	// SourceFormat is the detected input format
	SourceFormat SourceFormat
	// SourceSize is the input size in bytes
	SourceSize int64
	// Warnings lists non-fatal problems found while loading
	Warnings []issues.Issue
}

// Document is a version-neutral view of an OAS 2.0 or 3.x document.
// Every collection is kept in document order and every $ref is resolved.
type Document struct {
	// Version is the raw version string ("2.0", "3.0.3", ...)
	Version    string
	OASVersion OASVersion
	Info       Info
	// Paths are the path items in document order
	Paths []*PathItem
	// Schemas are the named component schemas (components.schemas or definitions)
	Schemas []*NamedSchema
	// SecuritySchemes are the declared schemes in document order
	SecuritySchemes []*SecurityScheme
	// Security lists the scheme names required by default
	Security []string
	// BaseURL is derived from servers (3.x) or schemes/host/basePath (2.0)
	BaseURL string
	// SourceURL is where the document came from, for provenance only
	SourceURL string
}

// Info is the document's info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

// NamedSchema pairs a component name with its schema.
type NamedSchema struct {
	Name   string
	Schema *Schema
}

// PathItem holds the operations declared under one path template.
type PathItem struct {
	Path string
	// Parameters apply to every operation of the path
	Parameters []*Parameter
	// Operations in document order
	Operations []*OperationDef
	// Unsupported lists keys that are neither operations nor path item fields
	Unsupported []string
}

// OperationDef is one method entry under a path item, before extraction.
type OperationDef struct {
	Method      string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   []*Response
	// Security lists required scheme names; only meaningful when HasSecurity is set
	Security    []string
	HasSecurity bool
}

// Location is where a parameter is carried.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationBody   Location = "body"
)

// Parameter is an operation input.
type Parameter struct {
	Name        string
	In          Location
	Description string
	Required    bool
	Schema      *Schema
	// Form is true for OAS 2.0 formData parameters, which travel in the body
	Form bool
}

// Key identifies a parameter within an operation.
func (p *Parameter) Key() string {
	return string(p.In) + ":" + p.Name
}

// RequestBody is the payload accepted by an operation.
type RequestBody struct {
	Description string
	Required    bool
	ContentType string
	Schema      *Schema
}

// Response is one declared response.
type Response struct {
	// Code is the status code key ("200", "2XX", "default")
	Code        string
	Description string
	ContentType string
	Schema      *Schema
}

// SecurityScheme describes how a client authenticates.
type SecurityScheme struct {
	Name        string
	Type        string // apiKey, http, oauth2, openIdConnect
	Description string
	// Scheme is the HTTP auth scheme for type http ("basic", "bearer")
	Scheme       string
	BearerFormat string
	// In and ParamName locate the key for type apiKey
	In        string
	ParamName string
}
