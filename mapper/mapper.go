package mapper

import (
	"fmt"

	"github.com/erraggy/oasconnect/extractor"
	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/naming"
	"github.com/erraggy/oasconnect/parser"
)

// DefaultMaxDepth bounds nesting before a field is cut to opaque.
const DefaultMaxDepth = 8

// Direction selects which read/write-only properties are kept.
type Direction int

const (
	// Input drops readOnly properties.
	Input Direction = iota
	// Output drops writeOnly properties.
	Output
)

// Mapper converts schemas into field descriptor trees.
// The zero value is ready to use.
type Mapper struct {
	// MaxDepth bounds nesting; 0 means DefaultMaxDepth
	MaxDepth int
	Logger   parser.Logger
	// Issues collects warnings raised while mapping
	Issues []issues.Issue
}

// New returns a Mapper with the given depth bound.
func New(maxDepth int, logger parser.Logger) *Mapper {
	return &Mapper{MaxDepth: maxDepth, Logger: logger}
}

func (m *Mapper) maxDepth() int {
	if m.MaxDepth > 0 {
		return m.MaxDepth
	}
	return DefaultMaxDepth
}

// walk carries the traversal state of one mapping: the direction, the
// operation for issue attribution, and the schemas on the current path.
type walk struct {
	m         *Mapper
	dir       Direction
	operation string
	onPath    map[*parser.Schema]bool
}

// Map maps schema starting at depth (0 for a root) in the Input direction.
func (m *Mapper) Map(schema *parser.Schema, depth int) *Field {
	w := &walk{m: m, dir: Input, onPath: make(map[*parser.Schema]bool)}
	return w.field(schema, depth)
}

// MapOutput maps schema starting at depth in the Output direction.
func (m *Mapper) MapOutput(schema *parser.Schema, depth int) *Field {
	w := &walk{m: m, dir: Output, onPath: make(map[*parser.Schema]bool)}
	return w.field(schema, depth)
}

// MapOperation builds the input and output forms of op.
func (m *Mapper) MapOperation(op *extractor.Operation) *Form {
	in := &walk{m: m, dir: Input, operation: op.String(), onPath: make(map[*parser.Schema]bool)}
	input := &Field{Name: "input", Key: "input", Label: "Input", Type: TypeGroup}
	keys := naming.NewResolver(naming.Policy{Style: naming.Camel, Fallback: "field"})

	for _, p := range op.Parameters {
		if p.In == parser.LocationBody {
			continue
		}
		f := in.field(p.Schema, 1)
		in.name(f, p.Name, keys)
		f.In = p.In
		f.Required = p.Required || p.In == parser.LocationPath
		if p.Description != "" {
			f.Description = p.Description
		}
		input.Fields = append(input.Fields, f)
	}

	if body := bodyField(in, op); body != nil {
		body.Key = keys.Resolve("body")
		input.Fields = append(input.Fields, body)
	}

	out := &walk{m: m, dir: Output, operation: op.String(), onPath: make(map[*parser.Schema]bool)}
	output := &Field{Type: TypeGroup}
	if r := op.SuccessResponse(); r != nil && r.Schema != nil {
		output = out.field(r.Schema, 0)
		if r.Description != "" && output.Description == "" {
			output.Description = r.Description
		}
	}
	output.Name, output.Key, output.Label = "output", "output", "Output"
	return &Form{Input: input, Output: output}
}

// bodyField maps the request body, or groups the form parameters.
func bodyField(w *walk, op *extractor.Operation) *Field {
	if rb := op.RequestBody; rb != nil {
		f := w.field(rb.Schema, 1)
		f.Name, f.Label, f.In = "body", "Body", parser.LocationBody
		f.Required = rb.Required
		if rb.Description != "" {
			f.Description = rb.Description
		}
		return f
	}

	form := op.ParametersIn(parser.LocationBody)
	if len(form) == 0 {
		return nil
	}
	group := &Field{Name: "body", Label: "Body", Type: TypeGroup, In: parser.LocationBody}
	keys := naming.NewResolver(naming.Policy{Style: naming.Camel, Fallback: "field"})
	for _, p := range form {
		f := w.field(p.Schema, 2)
		w.name(f, p.Name, keys)
		f.Required = p.Required
		if p.Description != "" {
			f.Description = p.Description
		}
		group.Required = group.Required || p.Required
		group.Fields = append(group.Fields, f)
	}
	return group
}

func (w *walk) name(f *Field, name string, keys *naming.Resolver) {
	f.Name = name
	f.Key = keys.Resolve(name)
	f.Label = naming.ToTitleCase(name)
}

func (w *walk) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	issue := issues.Warning("", msg, nil)
	issue.Operation = w.operation
	w.m.Issues = append(w.m.Issues, issue)
	parser.OrNop(w.m.Logger).Warn(msg, "operation", w.operation)
}

// field maps one schema node. Composite schemas are marked on the current
// path while their children are mapped, so a schema reached again through
// its own descendants becomes a truncated opaque field.
func (w *walk) field(s *parser.Schema, depth int) *Field {
	if s == nil {
		return &Field{Type: TypeOpaque}
	}
	f := &Field{
		Description: s.Description,
		Format:      s.Format,
		Default:     s.Default,
		Schema:      s.Name,
	}
	if w.onPath[s] || depth > w.m.maxDepth() {
		f.Type = TypeOpaque
		f.Truncated = true
		parser.OrNop(w.m.Logger).Debug("truncated schema", "schema", s.Name, "depth", depth)
		return f
	}

	if s.Kind.IsScalar() && len(s.Enum) > 0 {
		f.Type = TypeSelect
		f.BaseType = scalarType(s.Kind)
		f.Enum = append([]string(nil), s.Enum...)
		return f
	}

	switch s.Kind {
	case parser.KindString, parser.KindInteger, parser.KindNumber, parser.KindBoolean:
		f.Type = scalarType(s.Kind)
	case parser.KindObject:
		w.object(f, s, depth)
	case parser.KindArray:
		w.onPath[s] = true
		f.Type = TypeList
		f.Item = w.field(s.Items, depth+1)
		f.Item.Name, f.Item.Key, f.Item.Label = "item", "item", "Item"
		delete(w.onPath, s)
	case parser.KindUnion:
		w.onPath[s] = true
		f.Type = TypeUnion
		keys := naming.NewResolver(naming.Policy{Style: naming.Camel})
		for _, v := range s.Variants {
			vf := w.field(v, depth+1)
			label := v.Name
			if label == "" {
				label = "option"
			}
			w.name(vf, label, keys)
			f.Variants = append(f.Variants, vf)
		}
		delete(w.onPath, s)
	case parser.KindUnknown:
		f.Type = TypeOpaque
		w.warn("unknown schema type %q mapped to opaque field", s.RawType)
	default:
		f.Type = TypeOpaque
	}
	return f
}

func (w *walk) object(f *Field, s *parser.Schema, depth int) {
	if len(s.Properties) == 0 {
		// free-form map or untyped object
		f.Type = TypeOpaque
		return
	}
	w.onPath[s] = true
	defer delete(w.onPath, s)

	f.Type = TypeGroup
	keys := naming.NewResolver(naming.Policy{Style: naming.Camel, Fallback: "field"})
	for _, p := range s.Properties {
		if p.Schema != nil && ((w.dir == Input && p.Schema.ReadOnly) || (w.dir == Output && p.Schema.WriteOnly)) {
			continue
		}
		child := w.field(p.Schema, depth+1)
		w.name(child, p.Name, keys)
		child.Required = s.IsRequired(p.Name)
		f.Fields = append(f.Fields, child)
	}
}

func scalarType(k parser.SchemaKind) FieldType {
	switch k {
	case parser.KindInteger:
		return TypeInteger
	case parser.KindNumber:
		return TypeNumber
	case parser.KindBoolean:
		return TypeBoolean
	default:
		return TypeString
	}
}
