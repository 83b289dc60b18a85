package mcpserver

import (
	"context"

	"github.com/erraggy/oasconnect/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The OAS document to validate"`
	Strict     *bool     `json:"strict,omitempty"      jsonschema:"Enable strict validation mode"`
	NoWarnings bool      `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int       `json:"offset,omitempty"      jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int       `json:"limit,omitempty"       jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path      string `json:"path"`
	Message   string `json:"message"`
	Operation string `json:"operation,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	result, err := validator.ValidateWithOptions(
		validator.WithBytes(spec.data),
		validator.WithStrictMode(strict),
		validator.WithIncludeWarnings(!input.NoWarnings),
	)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Errors:       toValidateIssues(result.Errors),
		Warnings:     toValidateIssues(result.Warnings),
	}
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}

func toValidateIssues(list []validator.ValidationError) []validateIssue {
	out := makeSlice[validateIssue](len(list))
	for _, e := range list {
		out = append(out, validateIssue{
			Path:      e.Path,
			Message:   e.Message,
			Operation: e.Operation,
		})
	}
	return out
}
