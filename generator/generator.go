package generator

import (
	"fmt"
	"runtime"
	"time"

	"github.com/erraggy/oasconnect/extractor"
	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/naming"
	"github.com/erraggy/oasconnect/internal/severity"
	"github.com/erraggy/oasconnect/mapper"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"golang.org/x/sync/errgroup"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates input that was skipped or approximated
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates problems that fail a strict run
	SeverityError = severity.SeverityError
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// DefaultVersion is used when the document's info.version is empty.
const DefaultVersion = "1.0.0"

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the slash-separated path relative to the package root
	// (e.g., "component.json", "triggers/get-pets-by-id.go")
	Name string
	// Content is the file content
	Content []byte
}

// GenerateResult contains the results of generating a connector package
type GenerateResult struct {
	// Files contains all generated files in a fixed order
	Files []GeneratedFile
	// Package describes the generated package
	Package *PackageDescriptor
	// Modules are the generated triggers and actions in document order
	Modules []*ConnectorModule
	// Skipped lists path entries that were not operations
	Skipped []*oaserrors.UnsupportedOperationError
	// SourceVersion is the detected source OAS version string
	SourceVersion string
	// SourceOASVersion is the enumerated source OAS version
	SourceOASVersion parser.OASVersion
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// PackageName is the connector package name
	PackageName string
	// Issues contains all non-fatal issues from every stage
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate the package
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Module returns the module with the given name, or nil.
func (r *GenerateResult) Module(name string) *ConnectorModule {
	for _, m := range r.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Generator turns OpenAPI documents into connector packages
type Generator struct {
	// PackageName is the connector package (and Go module) name.
	// If empty, it is derived from info.title.
	PackageName string

	// SwaggerURL records where the document came from
	SwaggerURL string

	// MaxSchemaDepth bounds field nesting; 0 means mapper.DefaultMaxDepth
	MaxSchemaDepth int

	// KindPolicy classifies operations; nil means DefaultKindPolicy
	KindPolicy KindPolicy

	// IDSynthesizer names operations without an operationId;
	// nil means extractor.SynthesizeOperationID
	IDSynthesizer extractor.IDSynthesizer

	// StrictMode causes generation to fail on any warning
	StrictMode bool

	// Logger receives structured progress logs; nil discards them
	Logger parser.Logger
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{KindPolicy: DefaultKindPolicy}
}

func (g *Generator) log() parser.Logger {
	return parser.OrNop(g.Logger)
}

// Generate parses the document at specPath and generates the package in memory.
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	return g.generateFrom(parser.WithFilePath(specPath))
}

// GenerateBytes parses data and generates the package in memory.
func (g *Generator) GenerateBytes(data []byte) (*GenerateResult, error) {
	return g.generateFrom(parser.WithBytes(data))
}

func (g *Generator) generateFrom(source parser.Option) (*GenerateResult, error) {
	start := time.Now()
	pr, err := parser.ParseWithOptions(source, parser.WithLogger(g.Logger), parser.WithSourceURL(g.SwaggerURL))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	loadTime := time.Since(start)

	result, err := g.GenerateParsed(*pr)
	if err != nil {
		return nil, err
	}
	result.LoadTime = loadTime
	return result, nil
}

// GenerateParsed generates the package from an already parsed document.
// Stages run strictly in order: extract, name, map, render.
func (g *Generator) GenerateParsed(pr parser.ParseResult) (*GenerateResult, error) {
	start := time.Now()
	doc := pr.Document
	if doc == nil {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "generator: parse result has no document"}
	}
	log := g.log()

	result := &GenerateResult{
		SourceVersion:    doc.Version,
		SourceOASVersion: doc.OASVersion,
		SourceFormat:     pr.SourceFormat,
		SourceSize:       pr.SourceSize,
	}
	result.Issues = append(result.Issues, pr.Warnings...)

	extractOpts := []extractor.Option{extractor.WithLogger(g.Logger)}
	if g.IDSynthesizer != nil {
		extractOpts = append(extractOpts, extractor.WithIDSynthesizer(g.IDSynthesizer))
	}
	extracted, err := extractor.Extract(doc, extractOpts...)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	result.Skipped = extracted.Skipped
	result.Issues = append(result.Issues, extracted.Issues...)

	pkg := g.describePackage(doc)
	result.PackageName = pkg.Name

	modules := g.resolveModules(extracted.Operations)
	m := mapper.New(g.MaxSchemaDepth, g.Logger)
	for _, mod := range modules {
		form := m.MapOperation(mod.Operation)
		mod.Input, mod.Output = form.Input, form.Output
	}
	result.Issues = append(result.Issues, m.Issues...)
	pkg.Modules = modules
	result.Modules = modules

	creds, rules, credIssues := buildCredentials(doc)
	pkg.Credentials, pkg.Auth = creds, rules
	result.Issues = append(result.Issues, credIssues...)
	result.Package = pkg

	r := newRenderer()
	files, err := r.renderAll(pkg)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	result.Files = files
	result.Issues = append(result.Issues, r.issues...)

	for _, i := range result.Issues {
		switch i.Severity {
		case SeverityInfo:
			result.InfoCount++
		default:
			result.WarningCount++
		}
	}
	result.GenerateTime = time.Since(start)
	log.Info("generated connector",
		"package", pkg.Name,
		"modules", len(modules),
		"files", len(files),
		"warnings", result.WarningCount)

	if g.StrictMode && result.WarningCount > 0 {
		return nil, fmt.Errorf("generator: strict mode: %d warning(s), first: %s",
			result.WarningCount, firstWarning(result.Issues))
	}
	return result, nil
}

func firstWarning(list []GenerateIssue) string {
	for _, i := range list {
		if i.Severity.AtLeast(SeverityWarning) {
			return i.String()
		}
	}
	return ""
}

func (g *Generator) describePackage(doc *parser.Document) *PackageDescriptor {
	name := g.PackageName
	if name == "" {
		name = naming.ConnectorName(doc.Info.Title)
	}
	version := doc.Info.Version
	if version == "" {
		version = DefaultVersion
	}
	swaggerURL := g.SwaggerURL
	if swaggerURL == "" {
		swaggerURL = doc.SourceURL
	}
	return &PackageDescriptor{
		Name:        name,
		ModulePath:  name,
		Title:       doc.Info.Title,
		Description: doc.Info.Description,
		Version:     version,
		SwaggerURL:  swaggerURL,
		BaseURL:     doc.BaseURL,
	}
}

// resolveModules names every operation. Module names share one namespace;
// Go identifiers are unique per Go package.
func (g *Generator) resolveModules(ops []*extractor.Operation) []*ConnectorModule {
	policy := g.KindPolicy
	if policy == nil {
		policy = DefaultKindPolicy
	}
	names := naming.NewResolver(naming.Policy{Style: naming.Kebab, Fallback: "operation"})
	typeNames := map[Kind]*naming.Resolver{
		KindTrigger: naming.NewResolver(naming.Policy{Style: naming.Pascal, Fallback: "Operation"}),
		KindAction:  naming.NewResolver(naming.Policy{Style: naming.Pascal, Fallback: "Operation"}),
	}

	modules := make([]*ConnectorModule, 0, len(ops))
	for _, op := range ops {
		kind := policy(op)
		if kind != KindTrigger {
			kind = KindAction
		}
		name := names.Resolve(op.ID)
		title := op.Summary
		if title == "" {
			title = naming.ToTitleCase(op.ID)
		}
		modules = append(modules, &ConnectorModule{
			Kind:      kind,
			Name:      name,
			TypeName:  typeNames[kind].Resolve(name),
			Title:     title,
			Operation: op,
			File:      kind.Dir() + "/" + name + ".go",
		})
		g.log().Debug("resolved module", "operation", op.String(), "name", name, "kind", string(kind))
	}
	return modules
}

// renderAll renders every file in a fixed order.
func (r *renderer) renderAll(pkg *PackageDescriptor) ([]GeneratedFile, error) {
	component, err := r.renderComponent(pkg)
	if err != nil {
		return nil, err
	}
	files := []GeneratedFile{component, r.renderLogo()}

	steps := []func() (GeneratedFile, error){
		func() (GeneratedFile, error) { return r.renderGoMod(pkg) },
		func() (GeneratedFile, error) { return r.renderReadme(pkg) },
		func() (GeneratedFile, error) { return r.renderMain(pkg) },
		r.renderPlugin,
	}
	for _, step := range steps {
		f, err := step()
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	// Modules are independent of each other; each renders into its own
	// slot so the file order stays fixed.
	moduleFiles := make([]GeneratedFile, len(pkg.Modules))
	moduleIssues := make([][]issues.Issue, len(pkg.Modules))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range pkg.Modules {
		eg.Go(func() error {
			mr := &renderer{version: r.version}
			f, err := mr.renderModule(pkg, m)
			if err != nil {
				return err
			}
			moduleFiles[i], moduleIssues[i] = f, mr.issues
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	files = append(files, moduleFiles...)
	for _, list := range moduleIssues {
		r.issues = append(r.issues, list...)
	}
	return files, nil
}

// Run generates the package for the document at specPath and writes it to
// outputDir. The destination is checked before any work is done.
// It returns the absolute output directory.
func (g *Generator) Run(specPath, outputDir string) (string, error) {
	if err := CheckDestination(outputDir); err != nil {
		return "", err
	}
	result, err := g.Generate(specPath)
	if err != nil {
		return "", err
	}
	return result.WriteFiles(outputDir)
}
