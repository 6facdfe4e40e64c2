package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_blender/internal/engine"
)

// watchBase is a var so tests can point the scraping strategies at a local
// server.
var watchBase = "https://www.youtube.com"

// Failure signals embedded in watch-page HTML, independent of any strategy.
const (
	consentMarker = `action="https://consent.youtube.com/s"`
	captchaMarker = `class="g-recaptcha"`
)

// fetchWatchHTML fetches the watch page for a video. Prefers the
// TLS-fingerprinted browser client when configured; the plain shared client
// (with its cookie jar) otherwise.
func fetchWatchHTML(ctx context.Context, videoID string) (string, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return "", err
	}
	watchURL := watchBase + "/watch?v=" + videoID

	if bc := engine.Cfg.BrowserClient; bc != nil {
		headers := engine.ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		body, _, status, err := bc.Do(http.MethodGet, watchURL, headers, nil)
		if err == nil && status == http.StatusOK {
			return string(body), nil
		}
		// Fall through to the plain client; a fingerprint mismatch on one
		// path must not kill the whole strategy.
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page: status %d", resp.StatusCode)
	}

	body, err := engine.ReadResponseBody(resp, engine.Cfg.MaxPageBytes)
	if err != nil {
		return "", fmt.Errorf("read watch page: %w", err)
	}
	return string(body), nil
}

// detectPageBlock reports consent walls and captcha challenges in watch-page
// HTML as classified failures. Returns nil when the page looks normal.
func detectPageBlock(html, videoID string) *Failure {
	if strings.Contains(html, consentMarker) {
		return &Failure{Kind: FailConsentRequired, VideoID: videoID}
	}
	if strings.Contains(html, captchaMarker) {
		return failf(FailIPBlocked, videoID, "captcha challenge on watch page")
	}
	return nil
}

// extractJSON returns the first balanced JSON object at the start of b,
// skipping over braces inside string literals.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}
