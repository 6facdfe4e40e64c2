// go_blender — transcript acquisition backend for the Research Blender app.
//
// Serves a JSON HTTP API (transcript, video info, article extraction,
// health, metrics) and optionally an MCP tool surface when MCP_PORT is set.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go_blender/internal/apiserver"
	"github.com/anatolykoptev/go_blender/internal/blendserver"
	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	initEngine()

	port := engine.Cfg.Port
	slog.Info("starting go_blender",
		slog.String("version", version),
		slog.String("port", port),
	)

	if mcpPort := engine.Cfg.MCPPort; mcpPort != "" {
		go runMCP(mcpPort)
	}

	if err := apiserver.New().ListenAndServe(port); err != nil {
		slog.Error("api server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runMCP(port string) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_blender",
		Version: version,
	}, nil)

	blendserver.RegisterTools(server)
	slog.Info("mcp tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_blender",
		Version:      version,
		Port:         port,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		Port:                 env.Str("PORT", "8892"),
		MCPPort:              env.Str("MCP_PORT", ""),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 10*time.Second),
		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 6000),
		RelaysEnabled:        env.Str("RELAYS_ENABLED", "true") == "true",
		CacheTTL:             env.Duration("CACHE_TTL", time.Hour),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		YouTubeRatePerSec:    env.Float("YOUTUBE_RATE_PER_SEC", 5),
		YouTubeRateBurst:     env.Int("YOUTUBE_RATE_BURST", 10),
	}

	bc, err := stealth.NewClient(stealth.WithTimeout(15))
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	engine.Init(c)

	engine.InitCache(
		env.Str("REDIS_URL", ""),
		c.CacheTTL,
		c.CacheMaxEntries,
		c.CacheCleanupInterval,
	)
}
