package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	InfoRequests       atomic.Int64
	ArticleRequests    atomic.Int64
	ArticleErrors      atomic.Int64

	PageScrapeAttempts atomic.Int64
	PageScrapeHits     atomic.Int64
	RelayAttempts      atomic.Int64
	RelayHits          atomic.Int64
	InnertubeAttempts  atomic.Int64
	InnertubeHits      atomic.Int64
	LegacyAttempts     atomic.Int64
	LegacyHits         atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"info_requests":        metrics.InfoRequests.Load(),
		"article_requests":     metrics.ArticleRequests.Load(),
		"article_errors":       metrics.ArticleErrors.Load(),
		"page_scrape_attempts": metrics.PageScrapeAttempts.Load(),
		"page_scrape_hits":     metrics.PageScrapeHits.Load(),
		"relay_attempts":       metrics.RelayAttempts.Load(),
		"relay_hits":           metrics.RelayHits.Load(),
		"innertube_attempts":   metrics.InnertubeAttempts.Load(),
		"innertube_hits":       metrics.InnertubeHits.Load(),
		"legacy_attempts":      metrics.LegacyAttempts.Load(),
		"legacy_hits":          metrics.LegacyHits.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "info_requests",
		"article_requests", "article_errors",
		"page_scrape_attempts", "page_scrape_hits",
		"relay_attempts", "relay_hits",
		"innertube_attempts", "innertube_hits",
		"legacy_attempts", "legacy_hits",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the apiserver and youtube sub-packages.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrInfoRequests()       { metrics.InfoRequests.Add(1) }
func IncrArticleRequests()    { metrics.ArticleRequests.Add(1) }
func IncrArticleErrors()      { metrics.ArticleErrors.Add(1) }

func IncrPageScrapeAttempts() { metrics.PageScrapeAttempts.Add(1) }
func IncrPageScrapeHits()     { metrics.PageScrapeHits.Add(1) }
func IncrRelayAttempts()      { metrics.RelayAttempts.Add(1) }
func IncrRelayHits()          { metrics.RelayHits.Add(1) }
func IncrInnertubeAttempts()  { metrics.InnertubeAttempts.Add(1) }
func IncrInnertubeHits()      { metrics.InnertubeHits.Add(1) }
func IncrLegacyAttempts()     { metrics.LegacyAttempts.Add(1) }
func IncrLegacyHits()         { metrics.LegacyHits.Add(1) }
