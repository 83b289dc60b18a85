package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces; a placeholder never
// spans a path segment.
var PathParamRegex = regexp.MustCompile(`\{([^}/]+)\}`)

// Params returns the placeholder names of a path template in order of first
// appearance, without duplicates.
func Params(path string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// SanitizeOutputPath cleans path, makes it absolute and refuses symlinks.
// A path that does not exist yet is accepted.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
	case os.IsNotExist(err):
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}
	return abs, nil
}
