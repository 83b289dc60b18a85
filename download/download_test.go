package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erraggy/oasconnect/internal/testutil"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/openapi.json":
			_, _ = w.Write([]byte(testutil.PetStoreOAS2))
		case "/text":
			_, _ = w.Write([]byte("plain text"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "nested", "openapi-original.json")
	res, err := Download(context.Background(), srv.URL+"/openapi.json", out)
	require.NoError(t, err)
	assert.True(t, res.Remote)
	assert.Equal(t, parser.SourceFormatJSON, res.Format)
	assert.Equal(t, int64(len(testutil.PetStoreOAS2)), res.Size)
	assert.Contains(t, gotUA, "oasconnect/")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.PetStoreOAS2, string(data), "bytes are written as-is")

	t.Run("not found", func(t *testing.T) {
		_, err := Download(context.Background(), srv.URL+"/missing", filepath.Join(t.TempDir(), "x.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("not a document", func(t *testing.T) {
		_, err := Download(context.Background(), srv.URL+"/text", filepath.Join(t.TempDir(), "x.json"))
		assert.ErrorIs(t, err, oaserrors.ErrSpecFormat)
	})

	t.Run("user agent override", func(t *testing.T) {
		_, err := Download(context.Background(), srv.URL+"/openapi.json", filepath.Join(t.TempDir(), "x.json"),
			WithUserAgent("custom/1"))
		require.NoError(t, err)
		assert.Equal(t, "custom/1", gotUA)
	})
}

func TestDownloadLocal(t *testing.T) {
	src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	out := filepath.Join(t.TempDir(), "copy.yaml")
	res, err := Download(context.Background(), src, out)
	require.NoError(t, err)
	assert.False(t, res.Remote)
	assert.Equal(t, parser.SourceFormatYAML, res.Format)
	assert.FileExists(t, out)

	_, err = Download(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), out)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	data, err := Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, testutil.PetStoreOAS3, string(data))

	_, err = Fetch(context.Background(), testutil.WriteTemp(t, "empty.yaml", "  \n"))
	assert.ErrorIs(t, err, oaserrors.ErrSpecFormat)
}

func TestDownloadLimits(t *testing.T) {
	src := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	_, err := Download(context.Background(), src, filepath.Join(t.TempDir(), "x"), WithMaxSize(10))
	assert.ErrorIs(t, err, oaserrors.ErrSpecFormat)

	empty := testutil.WriteTemp(t, "empty.yaml", "  \n")
	_, err = Download(context.Background(), empty, filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, oaserrors.ErrSpecFormat)
}

func TestDownloadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x"), WithTimeout(50*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch URL")
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative timeout", WithTimeout(-time.Second)},
		{"bad proxy", WithProxy("::not a url")},
		{"zero max size", WithMaxSize(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Download(context.Background(), "x", "y", tt.opt)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/openapi.json"))
	assert.True(t, IsURL("http://localhost/spec"))
	assert.False(t, IsURL("./openapi.yaml"))
	assert.False(t, IsURL("ftp://example.com/spec"))
}
