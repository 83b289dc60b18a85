package mapper

import "github.com/erraggy/oasconnect/parser"

// FieldType is the kind of configuration field a schema maps to.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	// TypeSelect is a scalar restricted to Enum.
	TypeSelect FieldType = "select"
	// TypeGroup nests Fields.
	TypeGroup FieldType = "group"
	// TypeList repeats Item.
	TypeList FieldType = "list"
	// TypeUnion accepts one of Variants.
	TypeUnion FieldType = "union"
	// TypeOpaque accepts any JSON value without further validation.
	TypeOpaque FieldType = "opaque"
)

// Field is a configuration-field descriptor.
type Field struct {
	// Name is the wire name (property or parameter name)
	Name string
	// Key is a camelCase identifier unique among siblings
	Key   string
	Label string
	Type  FieldType
	// In is the parameter location for top-level input fields
	In          parser.Location
	Required    bool
	Enum        []string
	Format      string
	Description string
	Default     string
	// Schema is the component name the field was mapped from, if any
	Schema string
	// BaseType is the scalar type behind a select field
	BaseType FieldType

	Fields   []*Field
	Item     *Field
	Variants []*Field

	// Truncated marks an opaque field cut off by a cycle or the depth bound
	Truncated bool
}

// Form is the pair of field trees for one operation.
type Form struct {
	// Input is a group of parameter fields plus an optional "body" field
	Input *Field
	// Output is the mapped success response, an empty group when there is none
	Output *Field
}

// Field returns the direct child with the given wire name, or nil.
func (f *Field) Field(name string) *Field {
	if f == nil {
		return nil
	}
	for _, c := range f.Fields {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RequiredNames returns the wire names of required direct children.
func (f *Field) RequiredNames() []string {
	var out []string
	for _, c := range f.Fields {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

// IsScalar reports whether the field holds a single JSON scalar.
func (f *Field) IsScalar() bool {
	switch f.Type {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeSelect:
		return true
	}
	return false
}

// Walk calls fn for f and every descendant, depth first.
func (f *Field) Walk(fn func(*Field)) {
	if f == nil {
		return
	}
	fn(f)
	for _, c := range f.Fields {
		c.Walk(fn)
	}
	f.Item.Walk(fn)
	for _, v := range f.Variants {
		v.Walk(fn)
	}
}
