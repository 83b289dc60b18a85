package parser

import (
	"strconv"

	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"go.yaml.in/yaml/v4"
)

// schema builds (or returns the memoized) Schema for n.
func (b *builder) schema(n *yaml.Node, at string) (*Schema, error) {
	if n == nil {
		return nil, nil
	}
	target, _, err := b.refs.follow(n, at)
	if err != nil {
		return nil, err
	}
	if s, ok := b.schemas[target]; ok {
		return s, nil
	}

	b.building[target] = b.level
	defer delete(b.building, target)

	// {allOf: [X]} with nothing else is an alias of X.
	if member := soleAllOf(target); member != nil {
		mat := pointer(at, "allOf", "0")
		if err := b.checkComposition(member, at, mat); err != nil {
			return nil, err
		}
		s, err := b.schema(member, mat)
		if err != nil {
			return nil, err
		}
		b.schemas[target] = s
		return s, nil
	}

	s := &Schema{Name: b.names[target]}
	b.schemas[target] = s
	if target.Kind != yaml.MappingNode {
		// OAS 3.1 boolean schemas
		if target.Kind == yaml.ScalarNode && target.Value == "true" {
			s.Kind = KindAny
		} else {
			s.Kind = KindUnknown
			s.RawType = target.Value
		}
		return s, nil
	}
	if err := b.fillSchema(s, target, at); err != nil {
		return nil, err
	}
	return s, nil
}

// child builds a schema reached through a structural edge.
func (b *builder) child(n *yaml.Node, at string) (*Schema, error) {
	b.level++
	defer func() { b.level-- }()
	return b.schema(n, at)
}

// checkComposition fails when an allOf member is a schema still being built
// with no structural edge in between: such a schema can never be completed.
func (b *builder) checkComposition(member *yaml.Node, owner, at string) error {
	target, ref, err := b.refs.follow(member, at)
	if err != nil {
		return err
	}
	if lvl, ok := b.building[target]; ok && lvl == b.level {
		if ref == "" {
			ref = "#" + at
		}
		return &oaserrors.CyclicReferenceError{Chain: []string{"#" + owner, ref}}
	}
	return nil
}

func (b *builder) fillSchema(s *Schema, n *yaml.Node, at string) error {
	s.Title = yamlnode.String(yamlnode.Get(n, "title"))
	s.Description = yamlnode.String(yamlnode.Get(n, "description"))
	s.Format = yamlnode.String(yamlnode.Get(n, "format"))
	s.Default = scalarOrJSON(yamlnode.Get(n, "default"))
	s.Enum = enumValues(yamlnode.Get(n, "enum"))
	s.ReadOnly = yamlnode.Bool(yamlnode.Get(n, "readOnly"))
	s.WriteOnly = yamlnode.Bool(yamlnode.Get(n, "writeOnly"))
	s.Nullable = yamlnode.Bool(yamlnode.Get(n, "nullable")) || yamlnode.Bool(yamlnode.Get(n, "x-nullable"))

	typ, nullable := schemaType(yamlnode.Get(n, "type"))
	if nullable {
		s.Nullable = true
	}

	composedKind := KindAny
	if all := yamlnode.Get(n, "allOf"); yamlnode.IsSequence(all) {
		for i, m := range all.Content {
			mat := pointer(at, "allOf", strconv.Itoa(i))
			if err := b.checkComposition(m, at, mat); err != nil {
				return err
			}
			ms, err := b.schema(m, mat)
			if err != nil {
				return err
			}
			mergeInto(s, ms)
			if ms.Kind != KindObject && ms.Kind != KindAny && composedKind == KindAny {
				composedKind = ms.Kind
			}
			if ms.Kind == KindObject {
				composedKind = KindObject
			}
		}
	}

	for _, key := range []string{"oneOf", "anyOf"} {
		seq := yamlnode.Get(n, key)
		if !yamlnode.IsSequence(seq) {
			continue
		}
		for i, v := range seq.Content {
			vs, err := b.child(v, pointer(at, key, strconv.Itoa(i)))
			if err != nil {
				return err
			}
			s.Variants = append(s.Variants, vs)
		}
	}

	for _, p := range yamlnode.Pairs(yamlnode.Get(n, "properties")) {
		ps, err := b.child(p.Value, pointer(at, "properties", p.Key))
		if err != nil {
			return err
		}
		setProperty(s, p.Key, ps)
	}
	s.Required = appendUnique(s.Required, yamlnode.Strings(yamlnode.Get(n, "required"))...)

	if ap := yamlnode.Get(n, "additionalProperties"); yamlnode.IsMapping(ap) {
		mv, err := b.child(ap, pointer(at, "additionalProperties"))
		if err != nil {
			return err
		}
		s.MapValues = mv
	}

	if items := yamlnode.Get(n, "items"); items != nil {
		iat := pointer(at, "items")
		// OAS 2.0 allows a tuple form; the first entry stands for all items.
		if yamlnode.IsSequence(items) && len(items.Content) > 0 {
			items, iat = items.Content[0], pointer(iat, "0")
		}
		it, err := b.child(items, iat)
		if err != nil {
			return err
		}
		s.Items = it
	}

	s.Kind = kindFor(typ, s, composedKind)
	if s.Kind == KindUnknown {
		s.RawType = typ
	}
	if typ == "file" && s.Format == "" {
		s.Format = "binary"
	}
	return nil
}

func kindFor(typ string, s *Schema, composed SchemaKind) SchemaKind {
	switch typ {
	case "string", "file":
		return KindString
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "object":
		return KindObject
	case "array":
		return KindArray
	case "null":
		return KindAny
	case "":
	default:
		return KindUnknown
	}
	switch {
	case len(s.Variants) > 0 && len(s.Properties) == 0:
		return KindUnion
	case len(s.Properties) > 0 || s.MapValues != nil:
		return KindObject
	case s.Items != nil:
		return KindArray
	case composed != KindAny:
		return composed
	case len(s.Enum) > 0:
		return KindString
	default:
		return KindAny
	}
}

// soleAllOf returns the only allOf member of a schema that has no other
// structural keywords, or nil.
func soleAllOf(n *yaml.Node) *yaml.Node {
	all := yamlnode.Get(n, "allOf")
	if !yamlnode.IsSequence(all) || len(all.Content) != 1 {
		return nil
	}
	for _, k := range []string{"type", "properties", "items", "oneOf", "anyOf", "additionalProperties", "enum", "required"} {
		if yamlnode.Has(n, k) {
			return nil
		}
	}
	return all.Content[0]
}

// mergeInto folds an allOf member into s. Fields already set on s win.
func mergeInto(s, m *Schema) {
	for _, p := range m.Properties {
		if s.Property(p.Name) == nil {
			s.Properties = append(s.Properties, &Property{Name: p.Name, Schema: p.Schema})
		}
	}
	s.Required = appendUnique(s.Required, m.Required...)
	s.Variants = append(s.Variants, m.Variants...)
	if s.Description == "" {
		s.Description = m.Description
	}
	if s.Format == "" {
		s.Format = m.Format
	}
	if len(s.Enum) == 0 {
		s.Enum = m.Enum
	}
	if s.MapValues == nil {
		s.MapValues = m.MapValues
	}
	if s.Items == nil {
		s.Items = m.Items
	}
}

func setProperty(s *Schema, name string, ps *Schema) {
	for _, p := range s.Properties {
		if p.Name == name {
			p.Schema = ps
			return
		}
	}
	s.Properties = append(s.Properties, &Property{Name: name, Schema: ps})
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// schemaType reads a type keyword, which OAS 3.1 allows to be a list.
func schemaType(n *yaml.Node) (typ string, nullable bool) {
	if yamlnode.IsSequence(n) {
		for _, t := range yamlnode.Strings(n) {
			if t == "null" {
				nullable = true
			} else if typ == "" {
				typ = t
			}
		}
		if typ == "" && nullable {
			typ = "null"
		}
		return typ, nullable
	}
	return yamlnode.String(n), false
}

func enumValues(n *yaml.Node) []string {
	if !yamlnode.IsSequence(n) {
		return nil
	}
	var out []string
	for _, item := range n.Content {
		item = yamlnode.Unalias(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() == "!!null" {
			continue
		}
		out = append(out, item.Value)
	}
	return out
}

func scalarOrJSON(n *yaml.Node) string {
	n = yamlnode.Unalias(n)
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return yamlnode.String(n)
	}
	data, err := yamlnode.MarshalJSON(n)
	if err != nil {
		return ""
	}
	return string(data)
}
