package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/erraggy/oasconnect/internal/cliutil"
	"github.com/erraggy/oasconnect/publish"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// githubRequestsPerSecond paces GitHub API calls of one push.
const githubRequestsPerSecond = 5

// GitHubFlags contains flags for the publish github command
type GitHubFlags struct {
	Org          string
	Token        string
	IdentityFile string
	APIURL       string
	Branch       string
	RepoDir      string
}

// CatalogFlags contains flags for the publish catalog command
type CatalogFlags struct {
	Org      string
	URL      string
	OwnerID  string
	Username string
	Password string
}

func newPublishCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a generated connector",
	}
	cmd.AddCommand(newPublishGitHubCommand(a), newPublishCatalogCommand(a))
	return cmd
}

func newPublishGitHubCommand(a *app) *cobra.Command {
	flags := &GitHubFlags{}
	cmd := &cobra.Command{
		Use:   "github <name> <dir>",
		Short: "Push a generated connector to a GitHub repository",
		Long: `Push creates the organization repository <name> when it does not exist, or
updates its description when it does, then commits the tree in <dir> and
pushes it over SSH. The repository web URL is printed on success.

Defaults come from OASCONNECT_GITHUB_ORG, OASCONNECT_GITHUB_TOKEN,
OASCONNECT_GITHUB_IDENTITY_FILE and OASCONNECT_GITHUB_API_URL.`,
		Example: `  oasconnect publish github petstore-connector ./petstore/generated --org acme`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoDir := flags.RepoDir
			if repoDir == "" {
				tmp, err := os.MkdirTemp("", "oasconnect-repo-")
				if err != nil {
					return fmt.Errorf("publish: %w", err)
				}
				defer func() { _ = os.RemoveAll(tmp) }()
				repoDir = tmp
			}
			gh := &publish.GitHub{
				Org:          flags.Org,
				Token:        flags.Token,
				IdentityFile: flags.IdentityFile,
				APIURL:       flags.APIURL,
				Branch:       flags.Branch,
				Client:       a.httpClient(),
				Limiter:      rate.NewLimiter(rate.Every(time.Second/githubRequestsPerSecond), 1),
				Logger:       a.logger,
			}
			url, err := gh.Push(cmd.Context(), args[0], args[1], repoDir)
			if err != nil {
				return err
			}
			cliutil.Writef(cmd.OutOrStdout(), "%s\n", url)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Org, "org", a.cfg.GitHubOrg, "GitHub organization")
	cmd.Flags().StringVar(&flags.Token, "token", a.cfg.GitHubToken, "GitHub API token")
	cmd.Flags().StringVar(&flags.IdentityFile, "identity-file", a.cfg.GitHubIdentityFile, "SSH private key used by git")
	cmd.Flags().StringVar(&flags.APIURL, "api-url", a.cfg.GitHubAPIURL, "GitHub REST API root")
	cmd.Flags().StringVar(&flags.Branch, "branch", publish.DefaultBranch, "branch to push")
	cmd.Flags().StringVar(&flags.RepoDir, "repo-dir", "", "scratch working copy (default: a temporary directory)")
	return cmd
}

func newPublishCatalogCommand(a *app) *cobra.Command {
	flags := &CatalogFlags{}
	cmd := &cobra.Command{
		Use:   "catalog <name> <dir>",
		Short: "Register a published connector with the catalog",
		Long: `Register posts the component.json and logo.png found in <dir>, together with
the GitHub URL of <org>/<name>, to the catalog endpoint.

Defaults come from OASCONNECT_GITHUB_ORG, OASCONNECT_CATALOG_URL,
OASCONNECT_CATALOG_OWNER_ID, OASCONNECT_CATALOG_USERNAME and
OASCONNECT_CATALOG_PASSWORD.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &publish.Catalog{
				URL:      flags.URL,
				OwnerID:  flags.OwnerID,
				Username: flags.Username,
				Password: flags.Password,
				Client:   a.httpClient(),
				Logger:   a.logger,
			}
			if err := c.Register(cmd.Context(), flags.Org, args[0], args[1]); err != nil {
				return err
			}
			cliutil.Writef(cmd.OutOrStdout(), "registered %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Org, "org", a.cfg.GitHubOrg, "GitHub organization holding the repository")
	cmd.Flags().StringVar(&flags.URL, "url", a.cfg.CatalogURL, "catalog registration endpoint")
	cmd.Flags().StringVar(&flags.OwnerID, "owner-id", a.cfg.CatalogOwnerID, "catalog owner id")
	cmd.Flags().StringVar(&flags.Username, "username", a.cfg.CatalogUsername, "catalog basic auth user")
	cmd.Flags().StringVar(&flags.Password, "password", a.cfg.CatalogPassword, "catalog basic auth password")
	return cmd
}
