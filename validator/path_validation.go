package validator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasconnect/internal/pathutil"
)

// validatePathTemplate reports malformed path templates: unbalanced or
// nested braces, empty or duplicate placeholders, and reserved characters.
func validatePathTemplate(pathPattern string) error {
	if strings.Contains(pathPattern, "{}") {
		return fmt.Errorf("empty parameter name in path template")
	}
	if strings.Contains(pathPattern, "//") {
		return fmt.Errorf("path contains consecutive slashes")
	}
	for _, reserved := range []string{"#", "?"} {
		if strings.Contains(pathPattern, reserved) {
			return fmt.Errorf("path contains reserved character '%s'", reserved)
		}
	}

	open := 0
	for i, ch := range pathPattern {
		switch ch {
		case '{':
			open++
			if open > 1 {
				return fmt.Errorf("nested braces are not allowed at position %d", i)
			}
		case '}':
			open--
			if open < 0 {
				return fmt.Errorf("unexpected closing brace at position %d", i)
			}
		case '/':
			if open > 0 {
				return fmt.Errorf("parameter spans a path segment at position %d", i)
			}
		}
	}
	if open != 0 {
		return fmt.Errorf("unclosed brace in path template")
	}

	seen := make(map[string]bool)
	for _, m := range pathutil.PathParamRegex.FindAllStringSubmatch(pathPattern, -1) {
		name := m[1]
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty parameter name in path template")
		}
		if seen[name] {
			return fmt.Errorf("duplicate parameter name '%s' in path template", name)
		}
		seen[name] = true
	}
	return nil
}
