// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasconnect capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oasconnect"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasconnect MCP server: validates OpenAPI documents and generates integration connector packages from them.

Typical flow: validate_spec, then list_operations to preview the triggers and actions that will be generated, then generate_connector with an empty output_dir.

Configuration: defaults are configurable via OASCONNECT_MCP_* environment variables set in your MCP client config.

Key settings:
- OASCONNECT_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for local file specs
- OASCONNECT_MCP_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched specs
- OASCONNECT_MCP_CACHE_ENABLED (default: true): disable spec caching entirely
- OASCONNECT_MCP_LIST_LIMIT (default: 100): default page size for list_operations
- OASCONNECT_MCP_VALIDATE_STRICT (default: false): enable strict validation by default
- OASCONNECT_MCP_GENERATE_STRICT (default: false): fail generation on any warning
- OASCONNECT_MCP_ALLOW_PRIVATE_IPS (default: false): allow spec URLs on private networks
- OASCONNECT_MAX_SCHEMA_DEPTH (default: 8): field nesting bound for generated forms

Caching: loaded specs are cached per session. File entries use path+mtime as key. URL entries are cached with a shorter TTL. A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasconnect", Version: oasconnect.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_spec",
		Description: "Validate an OpenAPI 2.0 or 3.x document before generating a connector from it. Returns errors and warnings with JSON pointer locations. Use no_warnings to focus on errors. Strict mode adds warnings for missing operationIds and unknown path item fields.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List the triggers and actions a connector generated from an OpenAPI document would contain: module name, kind, method, path and source file. Filter by kind (trigger or action) or tag. Use group_by (kind or tag) to get counts instead of items. Use offset/limit to paginate.",
	}, handleListOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_connector",
		Description: "Generate a connector package from an OpenAPI document into output_dir. The directory must not exist or be empty; nothing is written on failure. Returns the package name, module counts and a manifest of generated files.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
