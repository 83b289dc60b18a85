package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasconnect/internal/config"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// list_operations paging.
	ListLimit int
	MaxLimit  int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool

	// Tool defaults.
	ValidateStrict bool
	GenerateStrict bool

	// Shared defaults from internal/config.
	HTTPTimeout    time.Duration
	MaxSchemaDepth int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASCONNECT_MCP_* environment variables
// on top of the shared OASCONNECT_* defaults.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	shared := config.Load()
	return &serverConfig{
		CacheEnabled:       envBool("OASCONNECT_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASCONNECT_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASCONNECT_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASCONNECT_MCP_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASCONNECT_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASCONNECT_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("OASCONNECT_MCP_LIST_LIMIT", 100),
		MaxLimit:           envInt("OASCONNECT_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("OASCONNECT_MCP_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:    envBool("OASCONNECT_MCP_ALLOW_PRIVATE_IPS", false),
		ValidateStrict:     envBool("OASCONNECT_MCP_VALIDATE_STRICT", false),
		GenerateStrict:     envBool("OASCONNECT_MCP_GENERATE_STRICT", false),
		HTTPTimeout:        shared.HTTPTimeout,
		MaxSchemaDepth:     shared.MaxSchemaDepth,
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
