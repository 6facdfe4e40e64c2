package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/tidwall/gjson"
)

// Third-party relay strategy: independent public transcript services that do
// their own extraction. Used when direct access is blocked. Each relay is
// wrapped in its own try/continue; the first one clearing the minimum-length
// threshold wins.

// relayMinChars guards against accepting empty or placeholder relay
// responses as a transcript.
const relayMinChars = 50

// Relay endpoints are vars so tests can point them at local servers.
var (
	tactiqRelayURL = "https://tactiq-apps-prod.tactiq.io/transcript"
	xmlRelayURL    = "https://youtubetranscript.com/?server_vid2="
)

type relayService struct {
	name  string
	fetch func(ctx context.Context, videoID string) ([]Segment, error)
}

var relays = []relayService{
	{"tactiq", fetchJSONRelay},
	{"youtubetranscript", fetchXMLRelay},
}

// fetchJSONRelay queries a JSON relay that returns caption snippets. The
// combined text is wrapped as one pseudo-segment: relays do not preserve
// reliable timing, so none is invented.
func fetchJSONRelay(ctx context.Context, videoID string) ([]Segment, error) {
	payload, err := json.Marshal(map[string]string{
		"videoUrl": "https://www.youtube.com/watch?v=" + videoID,
		"langCode": "en",
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tactiqRelayURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("json relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("json relay: status %d", resp.StatusCode)
	}
	body, err := engine.ReadResponseBody(resp, 3*1024*1024)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	gjson.GetBytes(body, "captions").ForEach(func(_, v gjson.Result) bool {
		if text := v.Get("text").String(); text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
		return true
	})
	if sb.Len() == 0 {
		// Some relays answer with a flat transcript field instead.
		sb.WriteString(gjson.GetBytes(body, "transcript").String())
	}

	text := engine.CleanCaption(sb.String())
	if text == "" {
		return nil, errors.New("json relay: empty transcript")
	}
	return []Segment{{Start: 0, Duration: 0, Text: text}}, nil
}

// fetchXMLRelay queries an XML relay whose response is plain timedtext.
func fetchXMLRelay(ctx context.Context, videoID string) ([]Segment, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, xmlRelayURL+videoID, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("xml relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("xml relay: status %d", resp.StatusCode)
	}
	body, err := engine.ReadResponseBody(resp, 3*1024*1024)
	if err != nil {
		return nil, err
	}
	return ParseTimedText(body)
}

// attemptRelay tries each relay in fixed order. A result below the length
// threshold is treated as not-found, not success.
func attemptRelay(ctx context.Context, videoID string) (*Result, error) {
	if !engine.Cfg.RelaysEnabled {
		return nil, errors.New("transcript relays disabled")
	}
	engine.IncrRelayAttempts()

	for _, r := range relays {
		segs, err := r.fetch(ctx, videoID)
		if err != nil {
			slog.Warn("relay failed", slog.String("relay", r.name), slog.String("id", videoID), slog.Any("err", err))
			continue
		}
		res := newResult(videoID, segs)
		if res == nil || len(res.FullText) < relayMinChars {
			slog.Debug("relay result below threshold", slog.String("relay", r.name), slog.String("id", videoID))
			continue
		}
		engine.IncrRelayHits()
		return res, nil
	}
	return nil, errors.New("no transcript relay succeeded")
}
