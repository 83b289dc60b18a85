package issues

import (
	"errors"
	"testing"

	"github.com/erraggy/oasconnect/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "warning with path",
			issue: Issue{Path: "/paths/~1pets", Message: "skipped x-internal", Severity: severity.SeverityWarning},
			want:  "⚠ /paths/~1pets: skipped x-internal",
		},
		{
			name:  "info with operation only",
			issue: Issue{Operation: "GET /pets/{id}", Message: "synthesised operationId getPetsById", Severity: severity.SeverityInfo},
			want:  "ℹ GET /pets/{id}: synthesised operationId getPetsById",
		},
		{
			name:  "error with path and operation",
			issue: Issue{Path: "/paths/~1pets/get", Operation: "GET /pets", Message: "bad", Severity: severity.SeverityError},
			want:  "✗ /paths/~1pets/get (GET /pets): bad",
		},
		{
			name:  "bare message",
			issue: Issue{Message: "note", Severity: severity.Severity(42)},
			want:  "? note",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestConstructorsAndCount(t *testing.T) {
	cause := errors.New("boom")
	list := []Issue{
		Warning("/a", "w", cause),
		Info("/b", "i"),
		{Path: "/c", Message: "e", Severity: severity.SeverityError},
	}

	assert.Equal(t, severity.SeverityWarning, list[0].Severity)
	assert.Same(t, cause, list[0].Cause)
	assert.Equal(t, 2, Count(list, severity.SeverityWarning))
	assert.Equal(t, 3, Count(list, severity.SeverityInfo))
	assert.Equal(t, 1, Count(list, severity.SeverityError))
}
