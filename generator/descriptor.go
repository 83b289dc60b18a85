package generator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasconnect/extractor"
	"github.com/erraggy/oasconnect/internal/httputil"
	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/naming"
	"github.com/erraggy/oasconnect/mapper"
	"github.com/erraggy/oasconnect/parser"
)

// Kind classifies a generated module.
type Kind string

const (
	// KindTrigger modules produce data (read operations)
	KindTrigger Kind = "trigger"
	// KindAction modules send data
	KindAction Kind = "action"
)

// Dir returns the directory and Go package holding modules of this kind.
func (k Kind) Dir() string {
	if k == KindTrigger {
		return "triggers"
	}
	return "actions"
}

// KindPolicy decides whether an operation becomes a trigger or an action.
type KindPolicy func(op *extractor.Operation) Kind

// DefaultKindPolicy makes GET and HEAD operations triggers and everything
// else an action.
func DefaultKindPolicy(op *extractor.Operation) Kind {
	if httputil.IsReadMethod(op.Method) {
		return KindTrigger
	}
	return KindAction
}

// ConnectorModule is one trigger or action, created once per operation.
type ConnectorModule struct {
	Kind Kind
	// Name is the unique kebab-case module name
	Name string
	// TypeName is the exported Go identifier, unique within its Go package
	TypeName  string
	Title     string
	Operation *extractor.Operation
	Input     *mapper.Field
	Output    *mapper.Field
	// File is the slash-separated path relative to the package root
	File string
}

// CredentialField is one value the connector user supplies.
type CredentialField struct {
	Key      string
	Label    string
	Env      string
	Required bool
	Secret   bool
	Note     string
}

// AuthRule tells the generated runtime how to apply one security scheme.
type AuthRule struct {
	Scheme string
	// Type is "apiKey", "basic" or "bearer"
	Type string
	// In and Name locate an apiKey
	In   string
	Name string
	// Credentials are the credential keys the rule reads, in order
	Credentials []string
}

// PackageDescriptor describes the whole generated package. It is built last,
// after every module is resolved.
type PackageDescriptor struct {
	Name        string
	ModulePath  string
	Title       string
	Description string
	Version     string
	SwaggerURL  string
	BaseURL     string
	Modules     []*ConnectorModule
	Credentials []CredentialField
	Auth        []AuthRule
}

// buildCredentials derives credential fields and auth rules from the
// document's security schemes. A baseUrl credential is always present.
func buildCredentials(doc *parser.Document) ([]CredentialField, []AuthRule, []issues.Issue) {
	keys := naming.NewResolver(naming.Policy{Style: naming.Camel, Fallback: "credential"})
	keys.Reserve("baseUrl")

	creds := []CredentialField{{
		Key:   "baseUrl",
		Label: "Base URL",
		Env:   "BASE_URL",
		Note:  fmt.Sprintf("defaults to %s", doc.BaseURL),
	}}
	if doc.BaseURL == "" {
		creds[0].Required = true
		creds[0].Note = "the API declares no server"
	}

	var rules []AuthRule
	var found []issues.Issue
	add := func(scheme *parser.SecurityScheme, suffix, label string) string {
		key := keys.Resolve(strings.TrimSpace(scheme.Name + " " + suffix))
		creds = append(creds, CredentialField{
			Key:      key,
			Label:    label,
			Env:      envName(key),
			Required: true,
			Secret:   suffix != "username",
			Note:     scheme.Description,
		})
		return key
	}

	for _, s := range doc.SecuritySchemes {
		httpScheme := strings.ToLower(s.Scheme)
		switch {
		case s.Type == "apiKey":
			key := add(s, "", naming.ToTitleCase(s.Name))
			rules = append(rules, AuthRule{Scheme: s.Name, Type: "apiKey", In: s.In, Name: s.ParamName, Credentials: []string{key}})
		case s.Type == "http" && httpScheme == "basic":
			user := add(s, "username", "Username")
			pass := add(s, "password", "Password")
			rules = append(rules, AuthRule{Scheme: s.Name, Type: "basic", Credentials: []string{user, pass}})
		case s.Type == "http" && httpScheme == "bearer", s.Type == "oauth2", s.Type == "openIdConnect":
			key := add(s, "token", naming.ToTitleCase(s.Name)+" Token")
			rules = append(rules, AuthRule{Scheme: s.Name, Type: "bearer", Credentials: []string{key}})
			if s.Type != "http" {
				found = append(found, issues.Info(s.Name, fmt.Sprintf("%s scheme is applied as a bearer token", s.Type)))
			}
		default:
			found = append(found, issues.Warning(s.Name, fmt.Sprintf("unsupported security scheme type %q", s.Type+" "+s.Scheme), nil))
		}
	}
	return creds, rules, found
}

// envName renders a credential key as an environment variable name.
func envName(key string) string {
	return strings.ToUpper(naming.ToSnakeCase(key))
}
