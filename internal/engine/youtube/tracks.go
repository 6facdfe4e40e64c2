package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_blender/internal/engine"
)

// pickTrack selects one caption track for fetching. The policy is shared by
// every strategy that sees multiple tracks: manually authored English, then
// any English, then any manually authored, then the first listed.
func pickTrack(tracks []captionTrack) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.Kind != "asr" {
			return t, true
		}
	}
	return tracks[0], true
}

// stripSrv3 removes the &fmt=srv3 suffix from a caption URL, forcing the
// plain XML timedtext format instead of the binary one.
func stripSrv3(u string) string {
	u = strings.ReplaceAll(u, "&fmt=srv3", "")
	return strings.ReplaceAll(u, "?fmt=srv3&", "?")
}

// fetchCaptionXML downloads a timedtext URL and parses it into segments.
func fetchCaptionXML(ctx context.Context, captionURL string) ([]Segment, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: status %d", resp.StatusCode)
	}

	body, err := engine.ReadResponseBody(resp, 1024*1024)
	if err != nil {
		return nil, fmt.Errorf("read timedtext: %w", err)
	}
	return ParseTimedText(body)
}
