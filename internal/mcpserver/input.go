package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasconnect/download"
	"github.com/erraggy/oasconnect/parser"
)

// specInput represents the three ways an OAS document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OAS document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
}

// loadedSpec is a fetched document and the outcome of parsing it.
// Entries are immutable once built, so cached values are shared freely.
type loadedSpec struct {
	data []byte
	// source is the file path or URL; empty for inline content
	source   string
	parsed   *parser.ParseResult
	parseErr error
}

// swaggerURL is the provenance recorded in generated packages.
func (l *loadedSpec) swaggerURL() string {
	if download.IsURL(l.source) {
		return l.source
	}
	return ""
}

// cacheEntry holds a cached load with LRU ordering and TTL expiry.
type cacheEntry struct {
	spec      *loadedSpec
	insertAt  time.Time
	expiresAt time.Time
}

// specCacheStore provides a session-scoped cache for loaded documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type specCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var specCache = &specCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached load or nil. Expired entries are lazily removed.
func (c *specCacheStore) get(key string) *loadedSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		e.insertAt = time.Now()
		return e.spec
	}
	return nil
}

// put stores a load with a specific TTL, evicting the least recently used
// entry when at capacity.
func (c *specCacheStore) put(key string, spec *loadedSpec, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{spec: spec, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *specCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper; it stops when ctx
// is cancelled.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the key and TTL for s, or "" when s cannot be cached.
func (s specInput) cacheKey() (string, time.Duration) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case s.URL != "":
		return "url:" + s.URL, cfg.CacheURLTTL
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	default:
		return "", 0
	}
}

func (s specInput) validate() error {
	count := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASCONNECT_MCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// resolve fetches and parses the document, using the cache when enabled.
// A document that fetches but fails to parse is still returned, with
// parseErr set, so validation can report on it.
func (s specInput) resolve(ctx context.Context) (*loadedSpec, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = s.cacheKey()
		if key != "" {
			if cached := specCache.get(key); cached != nil {
				return cached, nil
			}
		}
	}

	spec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if key != "" {
		specCache.put(key, spec, ttl)
	}
	return spec, nil
}

func (s specInput) load(ctx context.Context) (*loadedSpec, error) {
	spec := &loadedSpec{}
	switch {
	case s.Content != "":
		spec.data = []byte(s.Content)
	case s.File != "":
		spec.source = s.File
	default:
		spec.source = s.URL
	}

	if spec.source != "" {
		var opts []download.Option
		if s.URL != "" && !cfg.AllowPrivateIPs {
			opts = append(opts, download.WithHTTPClient(newSafeHTTPClient(cfg.HTTPTimeout)))
		} else {
			opts = append(opts, download.WithTimeout(cfg.HTTPTimeout))
		}
		data, err := download.Fetch(ctx, spec.source, opts...)
		if err != nil {
			return nil, err
		}
		spec.data = data
	}

	popts := []parser.Option{parser.WithBytes(spec.data), parser.WithSourceURL(spec.swaggerURL())}
	if spec.source != "" {
		popts = append(popts, parser.WithSourceName(spec.source))
	}
	spec.parsed, spec.parseErr = parser.ParseWithOptions(popts...)
	return spec, nil
}
