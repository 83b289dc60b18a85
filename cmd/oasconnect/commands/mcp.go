package commands

import (
	"github.com/erraggy/oasconnect"
	"github.com/erraggy/oasconnect/internal/cliutil"
	"github.com/erraggy/oasconnect/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
validate_spec, list_operations and generate_connector tools.
Defaults are read from OASCONNECT_MCP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "oasconnect v%s\n%s\n", oasconnect.Version(), oasconnect.BuildInfo())
		},
	}
}
