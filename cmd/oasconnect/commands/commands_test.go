package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oasconnect/internal/config"
	"github.com/erraggy/oasconnect/internal/testutil"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyConfig ignores the ambient environment.
func emptyConfig() *config.Config {
	return config.LoadFrom(func(string) string { return "" })
}

func run(t *testing.T, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(cfg)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGenerateLocalFile(t *testing.T) {
	src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	out := filepath.Join(t.TempDir(), "petstore")

	stdout, _, err := run(t, emptyConfig(), "generate", src, "-o", out, "-n", "pets-connector")
	require.NoError(t, err)

	generated := filepath.Join(out, GeneratedDir)
	assert.Equal(t, generated+"\n", stdout)
	assert.FileExists(t, filepath.Join(out, OriginalFile))
	assert.FileExists(t, filepath.Join(out, ValidatedFile))
	assert.FileExists(t, filepath.Join(generated, "component.json"))
	assert.FileExists(t, filepath.Join(generated, "triggers", "get-pets-by-id.go"))

	gomod, err := os.ReadFile(filepath.Join(generated, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "module pets-connector")
}

func TestGenerateURLRecordsOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.PetStoreOAS2))
	}))
	defer srv.Close()

	out := t.TempDir()
	swaggerURL := srv.URL + "/swagger.json"
	_, _, err := run(t, emptyConfig(), "generate", swaggerURL, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, ValidatedFile))
	require.NoError(t, err)
	var doc struct {
		Info struct {
			Origin []map[string]string `json:"x-origin"`
		} `json:"info"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Info.Origin, 1)
	assert.Equal(t, swaggerURL, doc.Info.Origin[0]["url"])
	assert.Equal(t, "swagger", doc.Info.Origin[0]["format"])

	readme, err := os.ReadFile(filepath.Join(out, GeneratedDir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), swaggerURL)
}

func TestGenerateFailures(t *testing.T) {
	t.Run("invalid document", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.DuplicateIDsOAS3)
		out := t.TempDir()
		_, stderr, err := run(t, emptyConfig(), "generate", src, "-o", out)
		require.ErrorIs(t, err, oaserrors.ErrValidation)
		assert.Contains(t, stderr, "duplicate operationId")
		assert.NoFileExists(t, filepath.Join(out, ValidatedFile))
		assert.NoDirExists(t, filepath.Join(out, GeneratedDir))
	})

	t.Run("destination not empty", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
		out := t.TempDir()
		keep := filepath.Join(out, GeneratedDir, "keep.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
		require.NoError(t, os.WriteFile(keep, []byte("x"), 0o600))

		_, _, err := run(t, emptyConfig(), "generate", src, "-o", out)
		require.ErrorIs(t, err, oaserrors.ErrDestinationExists)
		entries, err := os.ReadDir(filepath.Dir(keep))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("rerun keeps earlier documents", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
		out := t.TempDir()
		original := filepath.Join(out, OriginalFile)
		require.NoError(t, os.WriteFile(original, []byte("earlier run"), 0o600))
		keep := filepath.Join(out, GeneratedDir, "main.go")
		require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
		require.NoError(t, os.WriteFile(keep, []byte("package main\n"), 0o600))

		_, _, err := run(t, emptyConfig(), "generate", src, "-o", out)
		require.ErrorIs(t, err, oaserrors.ErrDestinationExists)
		data, err := os.ReadFile(original)
		require.NoError(t, err)
		assert.Equal(t, "earlier run", string(data))
		assert.NoFileExists(t, filepath.Join(out, ValidatedFile))
	})

	t.Run("generation failure leaves nothing", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.CyclicRefOAS3)
		out := filepath.Join(t.TempDir(), "fresh", "petstore")
		_, _, err := run(t, emptyConfig(), "generate", src, "-o", out)
		require.ErrorIs(t, err, oaserrors.ErrCyclicReference)
		assert.NoDirExists(t, filepath.Dir(out))
	})

	t.Run("generation failure in existing directory", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.CyclicRefOAS3)
		out := t.TempDir()
		_, _, err := run(t, emptyConfig(), "generate", src, "-o", out)
		require.Error(t, err)
		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing output flag", func(t *testing.T) {
		src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
		_, _, err := run(t, emptyConfig(), "generate", src)
		assert.ErrorContains(t, err, `"output" not set`)
	})

	t.Run("missing source", func(t *testing.T) {
		_, _, err := run(t, emptyConfig(), "generate", filepath.Join(t.TempDir(), "none.yaml"), "-o", t.TempDir())
		assert.Error(t, err)
	})
}

func TestCatalogAfterGenerate(t *testing.T) {
	var got map[string]any
	var owner string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner = r.Header.Get("X-EIO-USER-ID")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	out := t.TempDir()
	_, _, err := run(t, emptyConfig(), "generate", src, "-o", out)
	require.NoError(t, err)

	stdout, _, err := run(t, emptyConfig(), "publish", "catalog", "pet-store-connector", filepath.Join(out, GeneratedDir),
		"--org", "acme", "--url", srv.URL, "--owner-id", "42")
	require.NoError(t, err)
	assert.Equal(t, "registered pet-store-connector\n", stdout)
	assert.Equal(t, "42", owner)
	assert.Equal(t, "https://github.com/acme/pet-store-connector", got["repoUrl"])
	assert.NotEmpty(t, got["logo"])
}

func TestPublishUsesEnvironmentDefaults(t *testing.T) {
	cfg := config.LoadFrom(func(key string) string {
		if key == config.EnvGitHubOrg {
			return "from-env"
		}
		return ""
	})
	root := NewRootCommand(cfg)
	cmd, _, err := root.Find([]string{"publish", "github"})
	require.NoError(t, err)
	org, err := cmd.Flags().GetString("org")
	require.NoError(t, err)
	assert.Equal(t, "from-env", org)

	_, _, err = run(t, emptyConfig(), "publish", "catalog", "x", t.TempDir())
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestVersionAndHelp(t *testing.T) {
	stdout, _, err := run(t, emptyConfig(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "oasconnect v"))
	assert.Contains(t, stdout, "Go Version:")

	stdout, _, err = run(t, emptyConfig(), "--help")
	require.NoError(t, err)
	for _, name := range []string{"generate", "publish", "mcp", "version"} {
		assert.Contains(t, stdout, name)
	}
}
