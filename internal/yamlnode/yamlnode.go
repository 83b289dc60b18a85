// Package yamlnode provides order-preserving helpers over go.yaml.in/yaml/v4
// node trees: decoding, mapping access, JSON pointer resolution and
// ordered JSON encoding.
//
// JSON documents are decoded through the same path since JSON is a subset of
// YAML, so every consumer sees keys in document order.
package yamlnode

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// ErrNotMapping is returned when a document root is not a mapping.
var ErrNotMapping = errors.New("document root is not a mapping")

// Pair is one key/value entry of a mapping node.
type Pair struct {
	Key     string
	KeyNode *yaml.Node
	Value   *yaml.Node
}

// Decode parses data and returns the root mapping node.
func Decode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := Unalias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrNotMapping
		}
		root = Unalias(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return root, nil
}

// Unalias follows alias nodes to their anchors.
func Unalias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// IsMapping reports whether n (after alias resolution) is a mapping.
func IsMapping(n *yaml.Node) bool {
	n = Unalias(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSequence reports whether n (after alias resolution) is a sequence.
func IsSequence(n *yaml.Node) bool {
	n = Unalias(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// Pairs returns the entries of a mapping node in document order.
// Non-mapping nodes yield nil.
func Pairs(m *yaml.Node) []Pair {
	m = Unalias(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]Pair, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := Unalias(m.Content[i])
		out = append(out, Pair{Key: k.Value, KeyNode: k, Value: Unalias(m.Content[i+1])})
	}
	return out
}

// Get returns the value stored under key in a mapping node, or nil.
func Get(m *yaml.Node, key string) *yaml.Node {
	m = Unalias(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if Unalias(m.Content[i]).Value == key {
			return Unalias(m.Content[i+1])
		}
	}
	return nil
}

// Has reports whether a mapping node contains key.
func Has(m *yaml.Node, key string) bool {
	return Get(m, key) != nil
}

// String returns the value of a scalar node, or "" for anything else.
func String(n *yaml.Node) string {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

// Bool returns the boolean value of a scalar node, false otherwise.
func Bool(n *yaml.Node) bool {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}
	b, err := strconv.ParseBool(n.Value)
	return err == nil && b
}

// Strings returns the scalar items of a sequence node.
func Strings(n *yaml.Node) []string {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if s := Unalias(item); s.Kind == yaml.ScalarNode {
			out = append(out, s.Value)
		}
	}
	return out
}

// Set replaces or appends key in a mapping node.
func Set(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, Scalar(key), value)
}

// Scalar builds a string scalar node.
func Scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// Mapping builds a mapping node from alternating key/value pairs of strings.
func Mapping(kv ...string) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Content = append(m.Content, Scalar(kv[i]), Scalar(kv[i+1]))
	}
	return m
}

// EscapeToken escapes one JSON pointer reference token (RFC 6901).
func EscapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// Pointer resolves a local reference such as "#/components/schemas/Pet"
// against root. Tokens may be percent-encoded.
func Pointer(root *yaml.Node, ref string) (*yaml.Node, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("not a local reference: %s", ref)
	}
	ptr := strings.TrimPrefix(ref, "#")
	if ptr == "" {
		return root, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("invalid JSON pointer: %s", ref)
	}
	cur := Unalias(root)
	for _, raw := range strings.Split(ptr[1:], "/") {
		tok, err := url.PathUnescape(raw)
		if err != nil {
			tok = raw
		}
		tok = UnescapeToken(tok)
		switch cur.Kind {
		case yaml.MappingNode:
			next := Get(cur, tok)
			if next == nil {
				return nil, fmt.Errorf("key %q not found", tok)
			}
			cur = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Content) {
				return nil, fmt.Errorf("index %q out of range", tok)
			}
			cur = Unalias(cur.Content[idx])
		default:
			return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
		}
	}
	return cur, nil
}
