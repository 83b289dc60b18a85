package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/oasconnect/download"
	"github.com/erraggy/oasconnect/generator"
	"github.com/erraggy/oasconnect/internal/cliutil"
	"github.com/erraggy/oasconnect/internal/fileutil"
	"github.com/erraggy/oasconnect/internal/pathutil"
	"github.com/erraggy/oasconnect/internal/severity"
	"github.com/erraggy/oasconnect/validator"
	"github.com/spf13/cobra"
)

// Files kept next to the generated package.
const (
	OriginalFile  = "openapi-original.json"
	ValidatedFile = "openapi-validated.json"
	GeneratedDir  = "generated"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output         string
	Name           string
	Strict         bool
	MaxSchemaDepth int
}

func newGenerateCommand(a *app) *cobra.Command {
	flags := &GenerateFlags{}
	cmd := &cobra.Command{
		Use:   "generate <url|file>",
		Short: "Download, validate and generate a connector package",
		Long: `Generate fetches the OpenAPI document, validates it, and renders the connector
package into <output>/generated. The downloaded and validated documents are
kept as <output>/openapi-original.json and <output>/openapi-validated.json.

The generated directory must not exist or be empty; nothing is written into
it when generation fails.`,
		Example: `  oasconnect generate -o ./petstore https://petstore.swagger.io/v2/swagger.json
  oasconnect generate -o ./billing -n billing-connector billing.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output directory (required)")
	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "connector package name (default: derived from info.title)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "fail on any validation or generation warning")
	cmd.Flags().IntVar(&flags.MaxSchemaDepth, "max-schema-depth", 0, "field nesting bound (default: $OASCONNECT_MAX_SCHEMA_DEPTH or 8)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, flags *GenerateFlags, source string) (err error) {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	out, err := pathutil.SanitizeOutputPath(flags.Output)
	if err != nil {
		return err
	}
	depth := a.cfg.MaxSchemaDepth
	if flags.MaxSchemaDepth > 0 {
		depth = flags.MaxSchemaDepth
	}
	swaggerURL := ""
	if download.IsURL(source) {
		swaggerURL = source
	}

	generated := filepath.Join(out, GeneratedDir)
	if err := generator.CheckDestination(generated); err != nil {
		return err
	}

	// The documents are staged and only moved next to the generated
	// package once it is in place, so a failed run leaves out untouched.
	created, err := fileutil.MkdirAllTracked(out, fileutil.DirReadableByAll)
	if err != nil {
		return fmt.Errorf("generate: create output directory: %w", err)
	}
	stage, err := os.MkdirTemp(out, ".oasconnect-")
	if err != nil {
		fileutil.RemoveCreated(created)
		return fmt.Errorf("generate: create staging directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(stage)
		if err != nil {
			fileutil.RemoveCreated(created)
		}
	}()

	original := filepath.Join(stage, OriginalFile)
	if _, err := download.Download(ctx, source, original,
		download.WithTimeout(a.cfg.HTTPTimeout),
		download.WithProxy(a.cfg.Proxy),
		download.WithLogger(a.logger),
	); err != nil {
		return err
	}

	v := validator.New()
	v.StrictMode = flags.Strict
	v.SwaggerURL = swaggerURL
	v.Logger = a.logger
	vres, err := v.Validate(original)
	if err != nil {
		return err
	}
	cliutil.WriteIssues(stderr, vres.Errors, severity.SeverityError)
	cliutil.WriteIssues(stderr, vres.Warnings, severity.SeverityWarning)
	if err := vres.Err(); err != nil {
		return err
	}
	if flags.Strict && vres.WarningCount > 0 {
		return fmt.Errorf("validation: strict mode: %d warning(s)", vres.WarningCount)
	}
	validated := filepath.Join(stage, ValidatedFile)
	if err := vres.WriteFile(validated); err != nil {
		return err
	}

	opts := []generator.Option{
		generator.WithFilePath(validated),
		generator.WithSwaggerURL(swaggerURL),
		generator.WithMaxSchemaDepth(depth),
		generator.WithStrictMode(flags.Strict),
		generator.WithLogger(a.logger),
	}
	if flags.Name != "" {
		opts = append(opts, generator.WithPackageName(flags.Name))
	}
	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return err
	}
	cliutil.WriteIssues(stderr, result.Issues, severity.SeverityWarning)

	dir, err := result.WriteFiles(generated)
	if err != nil {
		return err
	}
	for _, name := range []string{OriginalFile, ValidatedFile} {
		if err := os.Rename(filepath.Join(stage, name), filepath.Join(out, name)); err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("generate: %w", err)
		}
	}
	cliutil.Writef(cmd.OutOrStdout(), "%s\n", dir)
	return nil
}
