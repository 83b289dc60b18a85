// Package issues provides the issue type for non-fatal problems found while
// loading, extracting and generating.
package issues

import (
	"fmt"

	"github.com/erraggy/oasconnect/internal/severity"
)

// Issue represents a single non-fatal problem.
type Issue struct {
	// Path is the JSON pointer or path template of the problematic node (e.g., "/paths/~1pets/get")
	Path string
	// Operation is "METHOD /path" when the issue belongs to an operation
	Operation string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Cause is the typed error behind the issue, if any
	Cause error
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	where := i.Path
	if i.Operation != "" {
		if where != "" {
			where = fmt.Sprintf("%s (%s)", where, i.Operation)
		} else {
			where = i.Operation
		}
	}
	if where == "" {
		return fmt.Sprintf("%s %s", symbol, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, where, i.Message)
}

// Warning builds a warning-level issue.
func Warning(path, message string, cause error) Issue {
	return Issue{Path: path, Message: message, Severity: severity.SeverityWarning, Cause: cause}
}

// Info builds an info-level issue.
func Info(path, message string) Issue {
	return Issue{Path: path, Message: message, Severity: severity.SeverityInfo}
}

// Count returns how many issues are at least as severe as min.
func Count(list []Issue, min severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity.AtLeast(min) {
			n++
		}
	}
	return n
}
