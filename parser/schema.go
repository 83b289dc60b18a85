package parser

// SchemaKind is the variant tag of a Schema.
type SchemaKind int

const (
	// KindUnknown marks a type the loader does not recognise. RawType keeps the original.
	KindUnknown SchemaKind = iota
	// KindAny accepts any value (no type constraint).
	KindAny
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindObject
	KindArray
	// KindUnion is a oneOf/anyOf choice between Variants.
	KindUnion
)

var kindNames = map[SchemaKind]string{
	KindUnknown: "unknown",
	KindAny:     "any",
	KindString:  "string",
	KindInteger: "integer",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindObject:  "object",
	KindArray:   "array",
	KindUnion:   "union",
}

// String returns the lower-case name of the kind.
func (k SchemaKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsScalar reports whether values of this kind are single JSON scalars.
func (k SchemaKind) IsScalar() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return true
	}
	return false
}

// Schema is a resolved schema node.
//
// Schemas are shared by pointer: a component referenced from several places is
// one *Schema, and a component whose properties refer back to it forms a
// pointer cycle. Consumers walking the graph must track visited nodes.
type Schema struct {
	Kind SchemaKind
	// Name is the component name when the schema is a named component
	Name string
	// RawType is the declared type string, kept for KindUnknown
	RawType     string
	Title       string
	Description string
	Format      string
	Default     string
	Enum        []string
	Nullable    bool
	ReadOnly    bool
	WriteOnly   bool

	// Properties of an object in document order
	Properties []*Property
	// Required lists property names that must be present
	Required []string
	// MapValues is the additionalProperties schema of a free-form object
	MapValues *Schema

	// Items is the element schema of an array
	Items *Schema

	// Variants are the oneOf/anyOf alternatives of a union
	Variants []*Schema
}

// Property is a named object member.
type Property struct {
	Name   string
	Schema *Schema
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property returns the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}
