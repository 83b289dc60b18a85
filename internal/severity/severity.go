// Package severity provides severity level constants for issues reported while
// loading, validating and generating connectors.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error
package severity

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices,
	// such as a synthesised operation id.
	SeverityInfo Severity = iota

	// SeverityWarning indicates something was skipped or approximated but the
	// run can continue, such as an unsupported path entry or a truncated schema.
	SeverityWarning

	// SeverityError indicates a violation that makes the document unusable.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}
