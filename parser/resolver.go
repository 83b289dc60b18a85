package parser

import (
	"strings"

	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"go.yaml.in/yaml/v4"
)

const (
	// MaxRefDepth is the maximum length of a $ref chain (a reference whose
	// target is itself a reference, and so on).
	MaxRefDepth = 100

	// MaxFileSize is the maximum size (in bytes) of a document read from disk.
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// refResolver follows local $ref chains inside one document.
type refResolver struct {
	root       *yaml.Node
	sourcePath string
	maxDepth   int
}

func newRefResolver(root *yaml.Node, sourcePath string, maxDepth int) *refResolver {
	if maxDepth <= 0 {
		maxDepth = MaxRefDepth
	}
	return &refResolver{root: root, sourcePath: sourcePath, maxDepth: maxDepth}
}

// refOf returns the $ref string of a reference object.
func refOf(n *yaml.Node) (string, bool) {
	v := yamlnode.Get(n, "$ref")
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// follow resolves n through any chain of reference objects and returns the
// first node that is not itself a reference, together with the first ref of
// the chain ("" when n was not a reference).
//
// A chain that revisits one of its own refs never reaches a concrete node
// and fails with a CyclicReferenceError. A ref whose target does not exist
// fails with a SpecFormatError.
func (r *refResolver) follow(n *yaml.Node, at string) (*yaml.Node, string, error) {
	cur := yamlnode.Unalias(n)
	var chain []string
	onStack := make(map[string]bool)
	for {
		ref, ok := refOf(cur)
		if !ok {
			first := ""
			if len(chain) > 0 {
				first = chain[0]
			}
			return cur, first, nil
		}
		if onStack[ref] {
			return nil, "", &oaserrors.CyclicReferenceError{Chain: append(chain, ref)}
		}
		if len(chain) >= r.maxDepth {
			return nil, "", &oaserrors.SpecFormatError{
				Path:    r.sourcePath,
				Pointer: at,
				Ref:     ref,
				Message: "reference chain exceeds maximum depth",
			}
		}
		onStack[ref] = true
		chain = append(chain, ref)

		if !strings.HasPrefix(ref, "#") {
			return nil, "", &oaserrors.SpecFormatError{
				Path:    r.sourcePath,
				Pointer: at,
				Ref:     ref,
				Line:    cur.Line,
				Message: "external references are not supported",
			}
		}
		target, err := yamlnode.Pointer(r.root, ref)
		if err != nil {
			return nil, "", &oaserrors.SpecFormatError{
				Path:    r.sourcePath,
				Pointer: at,
				Ref:     ref,
				Line:    cur.Line,
				Message: "unresolved $ref",
				Cause:   err,
			}
		}
		cur = target
	}
}

// pointer joins JSON pointer tokens, escaping each one.
func pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(yamlnode.EscapeToken(t))
	}
	return b.String()
}
