// Package commands provides the cobra command tree for oasconnect.
package commands

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/erraggy/oasconnect"
	"github.com/erraggy/oasconnect/internal/config"
	"github.com/erraggy/oasconnect/parser"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	verbose bool
	cfg     *config.Config
	logger  parser.Logger
}

// httpClient returns a client bounded by the configured timeout.
func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.HTTPTimeout}
}

// NewRootCommand builds the oasconnect command tree. cfg supplies the
// environment defaults that flags override.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, logger: parser.NopLogger{}}

	root := &cobra.Command{
		Use:   "oasconnect",
		Short: "Generate integration connectors from OpenAPI documents",
		Long: `oasconnect turns an OpenAPI 2.0 or 3.x document into a connector package:
one trigger or action module per operation, a component.json descriptor,
go.mod, README and logo. The package can then be pushed to GitHub and
registered with a connector catalog.`,
		Version:       oasconnect.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			a.logger = parser.NewSlogAdapter(slog.New(handler))
		},
	}
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "log debug output to stderr")

	root.AddCommand(
		newGenerateCommand(a),
		newPublishCommand(a),
		newMCPCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with args, writing to stdout and stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(config.Load())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
