// Package cliutil provides output helpers for the oasconnect command.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/severity"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteIssues prints every issue at or above min, one per line.
func WriteIssues(w io.Writer, list []issues.Issue, min severity.Severity) {
	for _, i := range list {
		if i.Severity.AtLeast(min) {
			Writef(w, "%s\n", i.String())
		}
	}
}
