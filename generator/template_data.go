package generator

import "github.com/erraggy/oasconnect/mapper"

// ModuleData is the context of a trigger or action source file.
type ModuleData struct {
	GeneratorVersion string
	// GoPackage is "triggers" or "actions"
	GoPackage   string
	ModulePath  string
	TypeName    string
	Name        string
	Kind        Kind
	Title       string
	Description string
	Method      string
	Path        string
	Deprecated  bool
	Security    []string
	Input       *mapper.Field
	Output      *mapper.Field
}

// PluginData is the context of plugin/plugin.go.
type PluginData struct {
	GeneratorVersion string
}

// MainData is the context of main.go.
type MainData struct {
	GeneratorVersion string
	ModulePath       string
	Name             string
	Title            string
	Version          string
	BaseURL          string
	UserAgent        string
	Credentials      []CredentialField
	Auth             []AuthRule
	// Triggers and Actions hold exported variable names per Go package
	Triggers []string
	Actions  []string
}

// ReadmeData is the context of README.md.
type ReadmeData struct {
	GeneratorVersion string
	Name             string
	Title            string
	Description      string
	Version          string
	SwaggerURL       string
	Credentials      []CredentialField
	Triggers         []ReadmeModule
	Actions          []ReadmeModule
}

// ReadmeModule is one row of the README module tables.
type ReadmeModule struct {
	Name   string
	Method string
	Path   string
	Title  string
}
