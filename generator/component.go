package generator

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/erraggy/oasconnect/mapper"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/component.schema.json
var componentSchemaJSON []byte

// componentSchema compiles the descriptor schema once.
var componentSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(componentSchemaJSON))
})

// componentJSON is the catalog descriptor written to component.json.
type componentJSON struct {
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Version     string                     `json:"version"`
	DocsURL     string                     `json:"docsUrl,omitempty"`
	Credentials componentCredentials       `json:"credentials"`
	Triggers    map[string]componentModule `json:"triggers"`
	Actions     map[string]componentModule `json:"actions"`
}

type componentCredentials struct {
	Fields map[string]componentCredential `json:"fields"`
}

type componentCredential struct {
	Label     string `json:"label"`
	Required  bool   `json:"required"`
	ViewClass string `json:"viewClass"`
	Note      string `json:"note,omitempty"`
}

type componentModule struct {
	Main        string            `json:"main"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type,omitempty"`
	Metadata    componentMetadata `json:"metadata"`
}

type componentMetadata struct {
	In  *jsonSchema `json:"in"`
	Out *jsonSchema `json:"out"`
}

// jsonSchema is the metadata shape of a field: JSON Schema with a per-property
// required flag.
type jsonSchema struct {
	Type        string                 `json:"type,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Format      string                 `json:"format,omitempty"`
	Default     string                 `json:"default,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Properties  map[string]*jsonSchema `json:"properties,omitempty"`
	Items       *jsonSchema            `json:"items,omitempty"`
	OneOf       []*jsonSchema          `json:"oneOf,omitempty"`
}

// renderComponent builds component.json. Map keys are sorted by
// encoding/json, so the output does not depend on map iteration.
func (r *renderer) renderComponent(pkg *PackageDescriptor) (GeneratedFile, error) {
	c := componentJSON{
		Title:       pkg.Title,
		Description: pkg.Description,
		Version:     pkg.Version,
		DocsURL:     pkg.SwaggerURL,
		Credentials: componentCredentials{Fields: make(map[string]componentCredential)},
		Triggers:    make(map[string]componentModule),
		Actions:     make(map[string]componentModule),
	}
	for _, cred := range pkg.Credentials {
		view := "TextFieldView"
		if cred.Secret {
			view = "PasswordFieldView"
		}
		c.Credentials.Fields[cred.Key] = componentCredential{
			Label:     cred.Label,
			Required:  cred.Required,
			ViewClass: view,
			Note:      cred.Note,
		}
	}
	for _, m := range pkg.Modules {
		entry := componentModule{
			Main:        "./" + m.File,
			Title:       m.Title,
			Description: m.Operation.Description,
			Metadata: componentMetadata{
				In:  toJSONSchema(m.Input, true),
				Out: toJSONSchema(m.Output, false),
			},
		}
		if m.Kind == KindTrigger {
			entry.Type = "polling"
			c.Triggers[m.Name] = entry
		} else {
			c.Actions[m.Name] = entry
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("generator: component.json: %w", err)
	}
	if err := validateComponent(data); err != nil {
		return GeneratedFile{}, err
	}
	return GeneratedFile{Name: "component.json", Content: append(data, '\n')}, nil
}

// validateComponent checks a rendered descriptor against the embedded
// component.json schema. Violations are reported as a binding error on
// component.json.
func validateComponent(data []byte) error {
	schema, err := componentSchema()
	if err != nil {
		return fmt.Errorf("generator: component.json schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("generator: component.json: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &oaserrors.TemplateBindingError{
		Template: "component.json",
		Field:    result.Errors()[0].Field(),
		Cause:    errors.New(strings.Join(problems, "; ")),
	}
}

// toJSONSchema converts a field tree. Top-level input fields are keyed by
// their unique key since parameters in different locations may share a
// name; everywhere else properties are keyed by wire name.
func toJSONSchema(f *mapper.Field, byKey bool) *jsonSchema {
	if f == nil {
		return &jsonSchema{Type: "object"}
	}
	s := &jsonSchema{
		Title:       f.Label,
		Description: f.Description,
		Format:      f.Format,
		Default:     f.Default,
		Required:    f.Required,
	}
	switch f.Type {
	case mapper.TypeString, mapper.TypeInteger, mapper.TypeNumber, mapper.TypeBoolean:
		s.Type = string(f.Type)
	case mapper.TypeSelect:
		s.Type = string(f.BaseType)
		s.Enum = f.Enum
	case mapper.TypeGroup:
		s.Type = "object"
		s.Properties = make(map[string]*jsonSchema, len(f.Fields))
		for _, c := range f.Fields {
			key := c.Name
			if byKey {
				key = c.Key
			}
			s.Properties[key] = toJSONSchema(c, false)
		}
	case mapper.TypeList:
		s.Type = "array"
		s.Items = toJSONSchema(f.Item, false)
	case mapper.TypeUnion:
		for _, v := range f.Variants {
			s.OneOf = append(s.OneOf, toJSONSchema(v, false))
		}
	}
	return s
}
