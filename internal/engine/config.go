package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	Port            string
	MCPPort         string // empty = MCP surface disabled
	FetchTimeout    time.Duration
	MaxContentChars int
	MaxPageBytes    int64 // read cap for watch-page HTML

	RelaysEnabled bool // third-party relay strategy on/off

	CacheTTL             time.Duration // 0 = transcript cache disabled
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	YouTubeRatePerSec float64 // outbound YouTube request budget
	YouTubeRateBurst  int

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = plain client for watch pages
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (youtube).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewFetchClient(c.FetchTimeout)
	}
	if c.MaxPageBytes <= 0 {
		c.MaxPageBytes = 6 * 1024 * 1024
	}
	cfg = c
	Cfg = &cfg
	initYouTubeLimiter(c.YouTubeRatePerSec, c.YouTubeRateBurst)
}
