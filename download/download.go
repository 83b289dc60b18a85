// Package download materializes an OpenAPI document from a URL or a local
// path into a file on disk.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/oasconnect"
	"github.com/erraggy/oasconnect/internal/fileutil"
	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
)

// DefaultTimeout bounds a remote download when no client or timeout is given.
const DefaultTimeout = 30 * time.Second

// Result describes a completed download.
type Result struct {
	Source     string
	OutputFile string
	Remote     bool
	Size       int64
	Format     parser.SourceFormat
}

// Option is a function that configures a download
type Option func(*downloadConfig) error

type downloadConfig struct {
	client    *http.Client
	timeout   time.Duration
	proxy     *url.URL
	userAgent string
	maxSize   int64
	logger    parser.Logger
}

// WithHTTPClient uses client for remote sources. Timeout and proxy options
// are ignored when a client is given.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *downloadConfig) error {
		cfg.client = client
		return nil
	}
}

// WithTimeout bounds the remote request
func WithTimeout(d time.Duration) Option {
	return func(cfg *downloadConfig) error {
		if d < 0 {
			return &oaserrors.ConfigError{Option: "timeout", Value: d, Message: "must not be negative"}
		}
		cfg.timeout = d
		return nil
	}
}

// WithProxy routes remote requests through an HTTP proxy
func WithProxy(proxy string) Option {
	return func(cfg *downloadConfig) error {
		if proxy == "" {
			return nil
		}
		u, err := url.Parse(proxy)
		if err != nil || u.Host == "" {
			return &oaserrors.ConfigError{Option: "proxy", Value: proxy, Message: "not a valid proxy URL", Cause: err}
		}
		cfg.proxy = u
		return nil
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(cfg *downloadConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithMaxSize bounds the document size in bytes
func WithMaxSize(n int64) Option {
	return func(cfg *downloadConfig) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "maxSize", Value: n, Message: "must be positive"}
		}
		cfg.maxSize = n
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(l parser.Logger) Option {
	return func(cfg *downloadConfig) error {
		cfg.logger = l
		return nil
	}
}

// IsURL determines if the given source is an http:// or https:// URL
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Download fetches source (a URL or a local path) and writes it unchanged to
// outputFile, creating parent directories. The content must decode as a YAML
// or JSON mapping.
func Download(ctx context.Context, source, outputFile string, opts ...Option) (*Result, error) {
	data, err := Fetch(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), fileutil.DirReadableByAll); err != nil {
		return nil, fmt.Errorf("download: failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, data, fileutil.OwnerReadWrite); err != nil {
		return nil, fmt.Errorf("download: failed to write %s: %w", outputFile, err)
	}
	return &Result{
		Source:     source,
		OutputFile: outputFile,
		Remote:     IsURL(source),
		Size:       int64(len(data)),
		Format:     parser.DetectFormat(data),
	}, nil
}

// Fetch reads source (a URL or a local path) into memory. The content must
// decode as a YAML or JSON mapping.
func Fetch(ctx context.Context, source string, opts ...Option) ([]byte, error) {
	cfg := &downloadConfig{timeout: DefaultTimeout, maxSize: parser.MaxFileSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("download: invalid options: %w", err)
		}
	}

	var data []byte
	var err error
	if IsURL(source) {
		data, err = cfg.fetch(ctx, source)
	} else {
		data, err = readLocal(source, cfg.maxSize)
	}
	if err != nil {
		return nil, err
	}
	parser.OrNop(cfg.logger).Debug("downloaded document", "source", source, "bytes", len(data))

	if _, err := yamlnode.Decode(data); err != nil {
		return nil, &oaserrors.SpecFormatError{
			Path:    source,
			Message: "content is not a YAML or JSON document",
			Cause:   err,
		}
	}
	return data, nil
}

func (cfg *downloadConfig) httpClient() *http.Client {
	if cfg.client != nil {
		return cfg.client
	}
	client := &http.Client{Timeout: cfg.timeout}
	if cfg.proxy != nil {
		client.Transport = &http.Transport{Proxy: http.ProxyURL(cfg.proxy)}
	}
	return client
}

// fetch fetches a URL and returns the body
func (cfg *downloadConfig) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("download: failed to create request: %w", err)
	}
	userAgent := cfg.userAgent
	if userAgent == "" {
		userAgent = oasconnect.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	resp, err := cfg.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return readLimited(resp.Body, cfg.maxSize, source)
}

func readLocal(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("download: failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, maxSize, path)
}

func readLimited(r io.Reader, maxSize int64, source string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("download: failed to read %s: %w", source, err)
	}
	if int64(len(data)) > maxSize {
		return nil, &oaserrors.SpecFormatError{
			Path:    source,
			Message: fmt.Sprintf("document exceeds maximum size of %d bytes", maxSize),
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.SpecFormatError{Path: source, Message: "document is empty"}
	}
	return data, nil
}
