package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeGit records git invocations instead of running them.
type fakeGit struct {
	mu    sync.Mutex
	calls [][]string
	env   []string
	fail  string
}

func (f *fakeGit) Git(_ context.Context, dir string, env []string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, args)
	f.env = env
	if f.fail != "" && slices.Contains(args, f.fail) {
		return errors.New("git " + f.fail + " failed")
	}
	return nil
}

func (f *fakeGit) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

type apiCall struct {
	Method string
	Path   string
	Auth   string
	Body   repository
}

// fakeGitHub serves the repository endpoints used by Push.
func fakeGitHub(t *testing.T, exists bool) (*httptest.Server, *[]apiCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []apiCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{Method: r.Method, Path: r.URL.EscapedPath(), Auth: r.Header.Get("Authorization")}
		if r.Body != nil && r.Method != http.MethodGet {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		switch {
		case r.Method == http.MethodGet && !exists:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"name":"x"}`))
		default:
			_, _ = w.Write([]byte(`{"name":"x","description":"old"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func connectorTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"component.json":        `{"title":"Pet Store"}`,
		"logo.png":              "\x89PNG",
		"main.go":               "package main\n",
		"actions/create-pet.go": "package actions\n",
		".git/HEAD":             "ref: refs/heads/master\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestPushNewRepository(t *testing.T) {
	srv, calls := fakeGitHub(t, false)
	git := &fakeGit{}
	repoDir := filepath.Join(t.TempDir(), "repo")
	gh := &GitHub{
		Org:          "acme",
		Token:        "secret",
		IdentityFile: "/keys/id rsa",
		APIURL:       srv.URL,
		Client:       srv.Client(),
		Git:          git,
		Now:          fixedClock,
	}

	webURL, err := gh.Push(context.Background(), "pet-store-connector", connectorTree(t), repoDir)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/pet-store-connector", webURL)

	require.Len(t, *calls, 2)
	assert.Equal(t, "GET", (*calls)[0].Method)
	assert.Equal(t, "/repos/acme/pet-store-connector", (*calls)[0].Path)
	assert.Equal(t, "token secret", (*calls)[0].Auth)
	assert.Equal(t, "POST", (*calls)[1].Method)
	assert.Equal(t, "/orgs/acme/repos", (*calls)[1].Path)
	assert.Equal(t, "pet-store-connector", (*calls)[1].Body.Name)
	assert.Equal(t, "Generated connector - pet-store-connector", (*calls)[1].Body.Description)

	assert.Equal(t, []string{
		"init",
		"remote add origin git@github.com:acme/pet-store-connector.git",
		"add .",
		"-c user.name=oasconnect -c user.email=" + commitEmail + " commit -m Automatic code generation 2024-05-01T12:00:00Z",
		"push -v origin master",
	}, git.commands())
	assert.Equal(t, []string{"GIT_SSH_COMMAND=ssh -i '/keys/id rsa' -l git -o StrictHostKeyChecking=no"}, git.env)

	assert.FileExists(t, filepath.Join(repoDir, "component.json"))
	assert.FileExists(t, filepath.Join(repoDir, "actions", "create-pet.go"))
	assert.NoDirExists(t, filepath.Join(repoDir, ".git"))
}

func TestPushExistingRepository(t *testing.T) {
	srv, calls := fakeGitHub(t, true)
	git := &fakeGit{}
	repoDir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "stale.txt"), []byte("x"), 0o644))

	gh := &GitHub{
		Org:     "acme",
		APIURL:  srv.URL + "/",
		WebURL:  "https://git.example.com",
		Branch:  "main",
		Client:  srv.Client(),
		Git:     git,
		Now:     fixedClock,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	}
	webURL, err := gh.Push(context.Background(), "pets", connectorTree(t), repoDir)
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com/acme/pets", webURL)

	require.Len(t, *calls, 2)
	assert.Equal(t, "PATCH", (*calls)[1].Method)
	assert.Equal(t, "/repos/acme/pets", (*calls)[1].Path)
	assert.Empty(t, (*calls)[0].Auth)

	cmds := git.commands()
	assert.Equal(t, "clone git@github.com:acme/pets.git .", cmds[0])
	assert.Equal(t, "push -v origin main", cmds[len(cmds)-1])
	assert.Empty(t, git.env)
	assert.NoFileExists(t, filepath.Join(repoDir, "stale.txt"))
}

func TestPushFailures(t *testing.T) {
	t.Run("missing org", func(t *testing.T) {
		_, err := (&GitHub{}).Push(context.Background(), "x", t.TempDir(), t.TempDir())
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("empty connector dir", func(t *testing.T) {
		_, err := (&GitHub{Org: "acme"}).Push(context.Background(), "x", t.TempDir(), t.TempDir())
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer srv.Close()
		git := &fakeGit{}
		gh := &GitHub{Org: "acme", APIURL: srv.URL, Client: srv.Client(), Git: git}
		_, err := gh.Push(context.Background(), "x", connectorTree(t), filepath.Join(t.TempDir(), "repo"))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "bad credentials", apiErr.Body)
		assert.Empty(t, git.commands())
	})

	t.Run("git error", func(t *testing.T) {
		srv, _ := fakeGitHub(t, false)
		gh := &GitHub{Org: "acme", APIURL: srv.URL, Client: srv.Client(), Git: &fakeGit{fail: "push"}}
		_, err := gh.Push(context.Background(), "x", connectorTree(t), filepath.Join(t.TempDir(), "repo"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "git push failed")
	})
}

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"/home/me/.ssh/id_rsa": "/home/me/.ssh/id_rsa",
		"/keys/my key":         "'/keys/my key'",
		"it's":                 `'it'\''s'`,
		"":                     "''",
	}
	for in, want := range tests {
		assert.Equal(t, want, shellQuote(in), in)
	}
}

func TestCopyTreeKeepsModes(t *testing.T) {
	src := connectorTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(src, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	dst := t.TempDir()

	require.NoError(t, copyTree(src, dst))
	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	srcInfo, err := os.Stat(filepath.Join(src, "main.go"))
	require.NoError(t, err)
	dstInfo, err := os.Stat(filepath.Join(dst, "main.go"))
	require.NoError(t, err)
	assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()))
	assert.NoDirExists(t, filepath.Join(dst, ".git"))
}

func TestCatalogRegister(t *testing.T) {
	var (
		got    Registration
		header http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := &Catalog{
		URL:      srv.URL + "/connectors",
		OwnerID:  "owner-42",
		Username: "user",
		Password: "pass",
		Client:   srv.Client(),
	}
	require.NoError(t, c.Register(context.Background(), "acme", "pets", connectorTree(t)))

	assert.JSONEq(t, `{"title":"Pet Store"}`, string(got.ComponentJSON))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("\x89PNG")), got.Logo)
	assert.Equal(t, "https://github.com/acme/pets", got.RepoURL)
	assert.Equal(t, "owner-42", header.Get(OwnerHeader))
	assert.NotEmpty(t, header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))

	user, pass, ok := (&http.Request{Header: header}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

func TestCatalogRegisterFailures(t *testing.T) {
	t.Run("no url", func(t *testing.T) {
		err := (&Catalog{}).Register(context.Background(), "acme", "pets", t.TempDir())
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("missing component", func(t *testing.T) {
		err := (&Catalog{URL: "http://127.0.0.1:1"}).Register(context.Background(), "acme", "pets", t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid component", func(t *testing.T) {
		dir := connectorTree(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "component.json"), []byte("{"), 0o644))
		err := (&Catalog{URL: "http://127.0.0.1:1"}).Register(context.Background(), "acme", "pets", dir)
		assert.ErrorIs(t, err, oaserrors.ErrSpecFormat)
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "conflict", http.StatusConflict)
		}))
		defer srv.Close()
		err := (&Catalog{URL: srv.URL, Client: srv.Client()}).Register(context.Background(), "acme", "pets", connectorTree(t))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, http.MethodPost, apiErr.Method)
	})
}
