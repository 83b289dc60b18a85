// Package config loads OASCONNECT_* environment defaults shared by the CLI
// and the MCP server.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvHTTPTimeout        = "OASCONNECT_HTTP_TIMEOUT"
	EnvProxy              = "OASCONNECT_PROXY"
	EnvMaxSchemaDepth     = "OASCONNECT_MAX_SCHEMA_DEPTH"
	EnvGitHubOrg          = "OASCONNECT_GITHUB_ORG"
	EnvGitHubToken        = "OASCONNECT_GITHUB_TOKEN"
	EnvGitHubIdentityFile = "OASCONNECT_GITHUB_IDENTITY_FILE"
	EnvGitHubAPIURL       = "OASCONNECT_GITHUB_API_URL"
	EnvCatalogURL         = "OASCONNECT_CATALOG_URL"
	EnvCatalogOwnerID     = "OASCONNECT_CATALOG_OWNER_ID"
	EnvCatalogUsername    = "OASCONNECT_CATALOG_USERNAME"
	EnvCatalogPassword    = "OASCONNECT_CATALOG_PASSWORD"
)

// Defaults used when a variable is unset or invalid.
const (
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultMaxSchemaDepth = 8
	DefaultGitHubAPIURL   = "https://api.github.com"
)

// Config holds the environment defaults. CLI flags override them.
type Config struct {
	// HTTPTimeout bounds every outbound request (download, GitHub, catalog)
	HTTPTimeout time.Duration
	// Proxy is an optional HTTP proxy URL for downloads
	Proxy          string
	MaxSchemaDepth int

	GitHubOrg          string
	GitHubToken        string
	GitHubIdentityFile string
	GitHubAPIURL       string

	CatalogURL      string
	CatalogOwnerID  string
	CatalogUsername string
	CatalogPassword string
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv.
// Invalid values log a warning and fall back to the default.
func LoadFrom(getenv func(string) string) *Config {
	e := env{getenv: getenv}
	return &Config{
		HTTPTimeout:        e.duration(EnvHTTPTimeout, DefaultHTTPTimeout),
		Proxy:              getenv(EnvProxy),
		MaxSchemaDepth:     e.int(EnvMaxSchemaDepth, DefaultMaxSchemaDepth),
		GitHubOrg:          getenv(EnvGitHubOrg),
		GitHubToken:        getenv(EnvGitHubToken),
		GitHubIdentityFile: getenv(EnvGitHubIdentityFile),
		GitHubAPIURL:       e.str(EnvGitHubAPIURL, DefaultGitHubAPIURL),
		CatalogURL:         getenv(EnvCatalogURL),
		CatalogOwnerID:     getenv(EnvCatalogOwnerID),
		CatalogUsername:    getenv(EnvCatalogUsername),
		CatalogPassword:    getenv(EnvCatalogPassword),
	}
}

type env struct {
	getenv func(string) string
}

func (e env) str(key, fallback string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e env) int(key string, fallback int) int {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func (e env) duration(key string, fallback time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
