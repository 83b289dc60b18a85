package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/erraggy/oasconnect"
	"github.com/erraggy/oasconnect/internal/issues"
	"golang.org/x/mod/modfile"
)

// GoVersion is the go directive written to the generated go.mod.
const GoVersion = "1.24"

// renderer turns descriptors into files. It never touches the filesystem.
type renderer struct {
	version string
	issues  []issues.Issue
}

func newRenderer() *renderer {
	return &renderer{version: oasconnect.Version()}
}

// renderGo executes a Go template and formats the result. A formatting
// failure keeps the unformatted source and records a warning.
func (r *renderer) renderGo(file, name string, data any, items int) (GeneratedFile, error) {
	src, err := executeTemplate(name, data, items)
	if err != nil {
		return GeneratedFile{}, err
	}
	formatted, err := formatGo(path.Base(file), src)
	if err != nil {
		r.issues = append(r.issues, issues.Warning(file, "generated source could not be formatted", err))
		return GeneratedFile{Name: file, Content: src}, nil
	}
	return GeneratedFile{Name: file, Content: formatted}, nil
}

// renderModule renders one trigger or action.
func (r *renderer) renderModule(pkg *PackageDescriptor, m *ConnectorModule) (GeneratedFile, error) {
	op := m.Operation
	data := ModuleData{
		GeneratorVersion: r.version,
		GoPackage:        m.Kind.Dir(),
		ModulePath:       pkg.ModulePath,
		TypeName:         m.TypeName,
		Name:             m.Name,
		Kind:             m.Kind,
		Title:            m.Title,
		Description:      op.Description,
		Method:           strings.ToUpper(op.Method),
		Path:             op.Path,
		Deprecated:       op.Deprecated,
		Security:         op.Security,
		Input:            m.Input,
		Output:           m.Output,
	}
	return r.renderGo(m.File, moduleTemplate, data, fieldCount(m.Input, m.Output))
}

// renderPlugin renders the fixed plugin contract.
func (r *renderer) renderPlugin() (GeneratedFile, error) {
	return r.renderGo("plugin/plugin.go", pluginTemplate, PluginData{GeneratorVersion: r.version}, 0)
}

// renderMain renders the module registry.
func (r *renderer) renderMain(pkg *PackageDescriptor) (GeneratedFile, error) {
	data := MainData{
		GeneratorVersion: r.version,
		ModulePath:       pkg.ModulePath,
		Name:             pkg.Name,
		Title:            pkg.Title,
		Version:          pkg.Version,
		BaseURL:          pkg.BaseURL,
		UserAgent:        pkg.Name + "/" + pkg.Version,
		Credentials:      pkg.Credentials,
		Auth:             pkg.Auth,
	}
	for _, m := range pkg.Modules {
		if m.Kind == KindTrigger {
			data.Triggers = append(data.Triggers, m.TypeName)
		} else {
			data.Actions = append(data.Actions, m.TypeName)
		}
	}
	return r.renderGo("main.go", mainTemplate, data, len(pkg.Modules))
}

// renderReadme renders README.md.
func (r *renderer) renderReadme(pkg *PackageDescriptor) (GeneratedFile, error) {
	data := ReadmeData{
		GeneratorVersion: r.version,
		Name:             pkg.Name,
		Title:            pkg.Title,
		Description:      pkg.Description,
		Version:          pkg.Version,
		SwaggerURL:       pkg.SwaggerURL,
		Credentials:      pkg.Credentials,
	}
	for _, m := range pkg.Modules {
		row := ReadmeModule{
			Name:   m.Name,
			Method: strings.ToUpper(m.Operation.Method),
			Path:   m.Operation.Path,
			Title:  m.Title,
		}
		if m.Kind == KindTrigger {
			data.Triggers = append(data.Triggers, row)
		} else {
			data.Actions = append(data.Actions, row)
		}
	}
	content, err := executeTemplate(readmeTemplate, data, len(pkg.Modules))
	if err != nil {
		return GeneratedFile{}, err
	}
	return GeneratedFile{Name: "README.md", Content: content}, nil
}

// renderGoMod builds go.mod for the generated package.
func (r *renderer) renderGoMod(pkg *PackageDescriptor) (GeneratedFile, error) {
	f := new(modfile.File)
	if err := f.AddModuleStmt(pkg.ModulePath); err != nil {
		return GeneratedFile{}, fmt.Errorf("generator: go.mod: %w", err)
	}
	if err := f.AddGoStmt(GoVersion); err != nil {
		return GeneratedFile{}, fmt.Errorf("generator: go.mod: %w", err)
	}
	return GeneratedFile{Name: "go.mod", Content: modfile.Format(f.Syntax)}, nil
}

// renderLogo returns the default logo.
func (r *renderer) renderLogo() GeneratedFile {
	return GeneratedFile{Name: "logo.png", Content: defaultLogo}
}
