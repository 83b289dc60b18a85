package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/erraggy/oasconnect/internal/fileutil"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL is the GitHub REST API root.
	DefaultAPIURL = "https://api.github.com"
	// DefaultWebURL is the GitHub web root used for returned repository URLs.
	DefaultWebURL = "https://github.com"
	// DefaultSSHHost is the SSH remote prefix.
	DefaultSSHHost = "git@github.com"
	// DefaultBranch is the branch generated code is pushed to.
	DefaultBranch = "master"

	commitEmail = "oasconnect@users.noreply.github.com"
)

// GitHub pushes generated connectors to repositories of one organization.
type GitHub struct {
	Org   string
	Token string
	// IdentityFile is the SSH private key used for git. When empty, git
	// uses its own SSH configuration.
	IdentityFile string
	// APIURL defaults to DefaultAPIURL
	APIURL string
	// WebURL defaults to DefaultWebURL
	WebURL string
	// SSHHost defaults to DefaultSSHHost
	SSHHost string
	// Branch defaults to DefaultBranch
	Branch string

	// Client is the HTTP client for API calls. Default: http.DefaultClient
	Client *http.Client
	// Git runs git commands. Default: ExecGit{}
	Git GitRunner
	// Limiter, when set, paces API calls.
	Limiter *rate.Limiter
	// Logger is the structured logger for progress output.
	// If nil, logging is disabled (default)
	Logger parser.Logger
	// Now is the clock used for the commit message. Default: time.Now
	Now func() time.Time
}

type repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// Push publishes the tree in connDir to the repository named name and
// returns its web URL. repoDir is a scratch working copy: it is emptied
// first.
func (g *GitHub) Push(ctx context.Context, name, connDir, repoDir string) (string, error) {
	if g.Org == "" {
		return "", &oaserrors.ConfigError{Option: "org", Message: "publish: GitHub organization is required"}
	}
	if name == "" {
		return "", &oaserrors.ConfigError{Option: "name", Message: "publish: repository name is required"}
	}
	_, isDir, empty, err := fileutil.DirState(connDir)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	if !isDir || empty {
		return "", &oaserrors.ConfigError{Option: "connDir", Value: connDir, Message: "publish: connector directory is missing or empty"}
	}
	log := parser.OrNop(g.Logger).With("repo", g.Org+"/"+name)

	exists, err := g.repoExists(ctx, name)
	if err != nil {
		return "", err
	}

	if err := os.RemoveAll(repoDir); err != nil {
		return "", fmt.Errorf("publish: failed to clear %s: %w", repoDir, err)
	}
	if err := os.MkdirAll(repoDir, fileutil.DirReadableByAll); err != nil {
		return "", fmt.Errorf("publish: failed to create %s: %w", repoDir, err)
	}

	var env []string
	if g.IdentityFile != "" {
		env = append(env, "GIT_SSH_COMMAND="+sshCommand(g.IdentityFile))
	}
	git := func(args ...string) error {
		return g.git().Git(ctx, repoDir, env, args...)
	}

	repo := repository{Name: name, Description: "Generated connector - " + name}
	remote := g.remoteURL(name)
	if exists {
		log.Info("updating repository")
		if err := g.api(ctx, http.MethodPatch, nil, repo, "repos", g.Org, name); err != nil {
			return "", err
		}
		if err := git("clone", remote, "."); err != nil {
			return "", err
		}
	} else {
		log.Info("creating repository")
		if err := g.api(ctx, http.MethodPost, nil, repo, "orgs", g.Org, "repos"); err != nil {
			return "", err
		}
		if err := git("init"); err != nil {
			return "", err
		}
		if err := git("remote", "add", "origin", remote); err != nil {
			return "", err
		}
	}

	log.Debug("copying tree", "from", connDir, "to", repoDir)
	if err := copyTree(connDir, repoDir); err != nil {
		return "", fmt.Errorf("publish: failed to copy %s: %w", connDir, err)
	}

	message := "Automatic code generation " + g.now().UTC().Format(time.RFC3339)
	steps := [][]string{
		{"add", "."},
		{"-c", "user.name=oasconnect", "-c", "user.email=" + commitEmail, "commit", "-m", message},
		{"push", "-v", "origin", g.branch()},
	}
	for _, args := range steps {
		if err := git(args...); err != nil {
			return "", err
		}
	}

	webURL := g.webURL(name)
	log.Info("pushed connector", "url", webURL)
	return webURL, nil
}

// repoExists reports whether the organization repository exists.
func (g *GitHub) repoExists(ctx context.Context, name string) (bool, error) {
	var repo repository
	err := g.api(ctx, http.MethodGet, &repo, nil, "repos", g.Org, name)
	var apiErr *APIError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, err
	}
}

// api calls the REST endpoint made of the escaped path segments.
func (g *GitHub) api(ctx context.Context, method string, out, body any, segments ...string) error {
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	base := g.APIURL
	if base == "" {
		base = DefaultAPIURL
	}
	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	return do(ctx, g.client(), method, strings.TrimSuffix(base, "/")+escapePath(segments...), header, body, out)
}

// client returns the API client, authenticating every request with Token
// when one is set.
func (g *GitHub) client() *http.Client {
	base := g.Client
	if base == nil {
		base = http.DefaultClient
	}
	if g.Token == "" {
		return base
	}
	authed := *base
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.Token, TokenType: "token"}),
		Base:   base.Transport,
	}
	return &authed
}

func (g *GitHub) git() GitRunner {
	if g.Git != nil {
		return g.Git
	}
	return ExecGit{}
}

func (g *GitHub) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *GitHub) branch() string {
	if g.Branch != "" {
		return g.Branch
	}
	return DefaultBranch
}

func (g *GitHub) remoteURL(name string) string {
	host := g.SSHHost
	if host == "" {
		host = DefaultSSHHost
	}
	return host + ":" + url.PathEscape(g.Org) + "/" + url.PathEscape(name) + ".git"
}

func (g *GitHub) webURL(name string) string {
	return RepoWebURL(g.WebURL, g.Org, name)
}

// RepoWebURL returns the browser URL of org/name under webURL
// (DefaultWebURL when empty).
func RepoWebURL(webURL, org, name string) string {
	if webURL == "" {
		webURL = DefaultWebURL
	}
	return strings.TrimSuffix(webURL, "/") + escapePath(org, name)
}

func escapePath(segments ...string) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}
