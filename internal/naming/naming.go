package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.English)

// Words splits s into ASCII words.
// Non-alphanumeric characters separate words, as do lower-to-upper case
// changes and the end of an upper-case run followed by a lower-case letter.
// Diacritics are folded first, so "Über" yields "Uber".
// Example: "getPetsById" -> ["get", "Pets", "By", "Id"]
// Example: "APIClient_v2" -> ["API", "Client", "v2"]
func Words(s string) []string {
	rs := []rune(Fold(s))
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if !isASCIIAlnum(r) {
			flush()
			continue
		}
		if len(cur) > 0 && isUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && isLower(rs[i+1])
			if isLower(prev) || isDigit(prev) || (isUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Fold removes combining marks after canonical decomposition.
// Example: "Café Übersicht" -> "Cafe Ubersicht"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ToPascalCase converts a string to PascalCase.
// Example: "user_profile" -> "UserProfile"
// Example: "API client" -> "ApiClient"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "Pet ID" -> "petId"
// Example: "X-Request-ID" -> "xRequestId"
func ToCamelCase(s string) string {
	words := Words(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// Example: "UserProfile" -> "user_profile"
func ToSnakeCase(s string) string {
	return joinLower(Words(s), "_")
}

// ToKebabCase converts a string to kebab-case.
// Example: "getPetsById" -> "get-pets-by-id"
// Example: "APIClient" -> "api-client"
func ToKebabCase(s string) string {
	return joinLower(Words(s), "-")
}

// ToTitleCase converts a string to space separated Title Case for labels.
// Example: "getPetsById" -> "Get Pets By Id"
func ToTitleCase(s string) string {
	return titleCaser.String(joinLower(Words(s), " "))
}

var versionSuffix = regexp.MustCompile(`-v-([0-9]+)`)

// ConnectorName derives the default connector package name from an API title.
// Example: "Pet Store" -> "pet-store-connector"
// Example: "Billing API v 2" -> "billing-api-v2-connector"
func ConnectorName(title string) string {
	base := versionSuffix.ReplaceAllString(ToKebabCase(title), "-v$1")
	if base == "" {
		base = "api"
	}
	if strings.HasSuffix(base, "-connector") {
		return base
	}
	return base + "-connector"
}

// Truncate shortens s to at most max bytes, trimming any separator left
// dangling at the cut. s is expected to be ASCII.
func Truncate(s string, max int, sep string) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	s = s[:max]
	if sep != "" {
		s = strings.TrimRight(s, sep)
	}
	return s
}

func joinLower(words []string, sep string) string {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return strings.Join(lowered, sep)
}

func capitalize(w string) string {
	if w == "" {
		return ""
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

func isASCIIAlnum(r rune) bool { return isLower(r) || isUpper(r) || isDigit(r) }
func isLower(r rune) bool      { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool      { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
