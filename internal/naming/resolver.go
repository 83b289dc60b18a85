package naming

import (
	"fmt"
	"strings"
)

// Style selects how a raw name is rendered.
type Style int

const (
	// Kebab renders lower-case words joined by hyphens.
	Kebab Style = iota
	// Camel renders lowerCamelCase.
	Camel
	// Pascal renders UpperCamelCase.
	Pascal
	// Snake renders lower-case words joined by underscores.
	Snake
)

// DefaultMaxLength bounds generated names so file paths stay portable.
const DefaultMaxLength = 64

// SuffixFunc builds the n-th (n >= 2) variant of a colliding base name.
type SuffixFunc func(base string, n int) string

// Policy configures a Resolver. The zero value resolves kebab-case names
// truncated to DefaultMaxLength with "-2", "-3", ... suffixes.
type Policy struct {
	Style Style
	// MaxLength caps the resolved name, suffix included. 0 means DefaultMaxLength.
	MaxLength int
	// Fallback is used when sanitisation leaves nothing. Defaults to "unnamed".
	Fallback string
	// Suffix overrides the collision suffix format.
	Suffix SuffixFunc
}

// Assignment records one resolved occurrence.
type Assignment struct {
	Raw  string
	Name string
}

// Resolver hands out unique names in first-seen order.
// It is not safe for concurrent use.
type Resolver struct {
	policy   Policy
	used     map[string]bool
	assigned []Assignment
}

// NewResolver returns a Resolver for the given policy.
func NewResolver(p Policy) *Resolver {
	return &Resolver{policy: p, used: make(map[string]bool)}
}

// Reserve marks names as taken without recording an assignment.
func (r *Resolver) Reserve(names ...string) {
	for _, n := range names {
		r.used[key(n)] = true
	}
}

// Resolve returns a unique name for one occurrence of raw.
func (r *Resolver) Resolve(raw string) string {
	base := r.policy.Base(raw)
	name := base
	for n := 2; r.used[key(name)]; n++ {
		name = r.policy.withSuffix(base, n)
	}
	r.used[key(name)] = true
	r.assigned = append(r.assigned, Assignment{Raw: raw, Name: name})
	return name
}

// Assignments returns every resolved occurrence in resolution order.
func (r *Resolver) Assignments() []Assignment {
	out := make([]Assignment, len(r.assigned))
	copy(out, r.assigned)
	return out
}

// Base renders raw in the policy's style without collision handling.
func (p Policy) Base(raw string) string {
	var s string
	switch p.Style {
	case Camel:
		s = ToCamelCase(raw)
	case Pascal:
		s = ToPascalCase(raw)
	case Snake:
		s = ToSnakeCase(raw)
	default:
		s = ToKebabCase(raw)
	}
	if s == "" {
		s = p.fallback()
	}
	if s[0] >= '0' && s[0] <= '9' && (p.Style == Camel || p.Style == Pascal) {
		prefix := "x"
		if p.Style == Pascal {
			prefix = "X"
		}
		s = prefix + s
	}
	return Truncate(s, p.maxLength(), p.separator())
}

func (p Policy) withSuffix(base string, n int) string {
	name := p.suffix(base, n)
	if over := len(name) - p.maxLength(); over > 0 && over < len(base) {
		trimmed := strings.TrimRight(base[:len(base)-over], p.separator())
		name = p.suffix(trimmed, n)
	}
	return name
}

func (p Policy) suffix(base string, n int) string {
	if p.Suffix != nil {
		return p.Suffix(base, n)
	}
	if sep := p.separator(); sep != "" {
		return fmt.Sprintf("%s%s%d", base, sep, n)
	}
	return fmt.Sprintf("%s%d", base, n)
}

func (p Policy) separator() string {
	switch p.Style {
	case Kebab:
		return "-"
	case Snake:
		return "_"
	default:
		return ""
	}
}

func (p Policy) maxLength() int {
	if p.MaxLength > 0 {
		return p.MaxLength
	}
	return DefaultMaxLength
}

func (p Policy) fallback() string {
	if p.Fallback != "" {
		return p.Fallback
	}
	if p.Style == Pascal {
		return "Unnamed"
	}
	return "unnamed"
}

// key normalises names for collision checks so names differing only in case
// never land side by side on case-insensitive filesystems.
func key(name string) string {
	return strings.ToLower(name)
}
