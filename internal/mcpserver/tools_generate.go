package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/oasconnect/generator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateInput struct {
	Spec           specInput `json:"spec"                       jsonschema:"The OAS document to generate a connector from"`
	OutputDir      string    `json:"output_dir,omitempty"       jsonschema:"Directory to write the package to (required); must not exist or be empty"`
	PackageName    string    `json:"package_name,omitempty"     jsonschema:"Connector package name (default: derived from info.title)"`
	Strict         *bool     `json:"strict,omitempty"           jsonschema:"Fail when generation raises any warning"`
	MaxSchemaDepth int       `json:"max_schema_depth,omitempty" jsonschema:"Field nesting bound for generated forms (default 8)"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success      bool                `json:"success"`
	OutputDir    string              `json:"output_dir"`
	PackageName  string              `json:"package_name"`
	Triggers     int                 `json:"triggers"`
	Actions      int                 `json:"actions"`
	FileCount    int                 `json:"file_count"`
	Files        []generatedFileInfo `json:"files"`
	WarningCount int                 `json:"warning_count"`
	Warnings     []string            `json:"warnings,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}
	strict := cfg.GenerateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	depth := cfg.MaxSchemaDepth
	if input.MaxSchemaDepth > 0 {
		depth = input.MaxSchemaDepth
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	if spec.parseErr != nil {
		return errResult(spec.parseErr), generateOutput{}, nil
	}

	opts := []generator.Option{
		generator.WithParsed(*spec.parsed),
		generator.WithSwaggerURL(spec.swaggerURL()),
		generator.WithMaxSchemaDepth(depth),
		generator.WithStrictMode(strict),
	}
	if input.PackageName != "" {
		opts = append(opts, generator.WithPackageName(input.PackageName))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	dir, err := result.WriteFiles(input.OutputDir)
	if err != nil {
		return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
	}

	output := generateOutput{
		Success:      true,
		OutputDir:    dir,
		PackageName:  result.PackageName,
		FileCount:    len(result.Files),
		WarningCount: result.WarningCount,
	}
	for _, m := range result.Modules {
		if m.Kind == generator.KindTrigger {
			output.Triggers++
		} else {
			output.Actions++
		}
	}
	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{
			Name: f.Name,
			Size: len(f.Content),
		})
	}
	for _, i := range result.Issues {
		if i.Severity != generator.SeverityInfo {
			output.Warnings = append(output.Warnings, i.String())
		}
	}

	return nil, output, nil
}
