package mcpserver

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/erraggy/oasconnect/generator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listOperationsInput struct {
	Spec    specInput `json:"spec"               jsonschema:"The OAS document to inspect"`
	Kind    string    `json:"kind,omitempty"     jsonschema:"Filter by module kind (trigger or action)"`
	Tag     string    `json:"tag,omitempty"      jsonschema:"Filter by operation tag"`
	GroupBy string    `json:"group_by,omitempty" jsonschema:"Group results and return counts (kind or tag)"`
	Limit   int       `json:"limit,omitempty"    jsonschema:"Maximum number of results to return (default 100)"`
	Offset  int       `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
}

type operationSummary struct {
	Module      string   `json:"module"`
	Kind        string   `json:"kind"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id"`
	Synthesized bool     `json:"synthesized,omitempty"`
	Title       string   `json:"title,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	File        string   `json:"file"`
	Deprecated  bool     `json:"deprecated,omitempty"`
}

type listOperationsOutput struct {
	Package  string             `json:"package"`
	Total    int                `json:"total"`
	Matched  int                `json:"matched"`
	Returned int                `json:"returned"`
	Skipped  []string           `json:"skipped,omitempty"`
	Items    []operationSummary `json:"items,omitempty"`
	Groups   []groupCount       `json:"groups,omitempty"`
}

func handleListOperations(ctx context.Context, _ *mcp.CallToolRequest, input listOperationsInput) (*mcp.CallToolResult, listOperationsOutput, error) {
	if input.Kind != "" && input.Kind != string(generator.KindTrigger) && input.Kind != string(generator.KindAction) {
		return errResult(fmt.Errorf("invalid kind %q: must be trigger or action", input.Kind)), listOperationsOutput{}, nil
	}
	if input.GroupBy != "" && input.GroupBy != "kind" && input.GroupBy != "tag" {
		return errResult(fmt.Errorf("invalid group_by %q: must be kind or tag", input.GroupBy)), listOperationsOutput{}, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), listOperationsOutput{}, nil
	}
	if spec.parseErr != nil {
		return errResult(spec.parseErr), listOperationsOutput{}, nil
	}
	result, err := generator.GenerateWithOptions(
		generator.WithParsed(*spec.parsed),
		generator.WithSwaggerURL(spec.swaggerURL()),
		generator.WithMaxSchemaDepth(cfg.MaxSchemaDepth),
	)
	if err != nil {
		return errResult(err), listOperationsOutput{}, nil
	}

	var matched []operationSummary
	for _, m := range result.Modules {
		if input.Kind != "" && string(m.Kind) != input.Kind {
			continue
		}
		if input.Tag != "" && !slices.Contains(m.Operation.Tags, input.Tag) {
			continue
		}
		matched = append(matched, operationSummary{
			Module:      m.Name,
			Kind:        string(m.Kind),
			Method:      m.Operation.Method,
			Path:        m.Operation.Path,
			OperationID: m.Operation.ID,
			Synthesized: m.Operation.Synthesized,
			Title:       m.Title,
			Tags:        m.Operation.Tags,
			File:        m.File,
			Deprecated:  m.Operation.Deprecated,
		})
	}

	output := listOperationsOutput{
		Package: result.PackageName,
		Total:   len(result.Modules),
		Matched: len(matched),
	}
	output.Skipped = makeSlice[string](len(result.Skipped))
	for _, s := range result.Skipped {
		output.Skipped = append(output.Skipped, s.Error())
	}

	if input.GroupBy != "" {
		output.Groups = groupOperations(matched, input.GroupBy)
		return nil, output, nil
	}
	output.Items = paginate(matched, input.Offset, input.Limit)
	output.Returned = len(output.Items)
	return nil, output, nil
}

// groupOperations counts items per kind or per tag, largest group first.
// Untagged operations are counted under "(untagged)".
func groupOperations(items []operationSummary, by string) []groupCount {
	counts := make(map[string]int)
	for _, it := range items {
		switch by {
		case "kind":
			counts[it.Kind]++
		case "tag":
			if len(it.Tags) == 0 {
				counts["(untagged)"]++
			}
			for _, tag := range it.Tags {
				counts[tag]++
			}
		}
	}
	groups := makeSlice[groupCount](len(counts))
	for k, n := range counts {
		groups = append(groups, groupCount{Key: k, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
