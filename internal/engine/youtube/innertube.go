package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/anatolykoptev/go_blender/internal/engine"
)

// Client-persona Innertube strategy: call the internal player API while
// rotating through emulated client identities. Some personas survive
// datacenter-IP blocking that kills the plain web client.

var apiKeyRe = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([a-zA-Z0-9_-]+)"`)

// persona is one way of presenting the caller to the internal API.
// Stateless, defined at process start, tried in preference order.
type persona struct {
	Label         string
	ClientName    string
	ClientVersion string
	ClientID      string // X-Youtube-Client-Name header value
	UserAgent     string
	AndroidSdk    int
	DeviceModel   string
	EmbedContext  bool // attach thirdParty embedUrl (TV embedded player)
}

var personas = []persona{
	{
		Label:         "ios",
		ClientName:    "IOS",
		ClientVersion: "20.10.4",
		ClientID:      "5",
		UserAgent:     "com.google.ios.youtube/20.10.4 (iPhone16,2; U; CPU iOS 18_3_2 like Mac OS X;)",
		DeviceModel:   "iPhone16,2",
	},
	{
		Label:         "android",
		ClientName:    "ANDROID",
		ClientVersion: "20.10.38",
		ClientID:      "3",
		UserAgent:     "com.google.android.youtube/20.10.38 (Linux; U; Android 11) gzip",
		AndroidSdk:    30,
	},
	{
		Label:         "tv_embedded",
		ClientName:    "TVHTML5_SIMPLY_EMBEDDED_PLAYER",
		ClientVersion: "2.0",
		ClientID:      "85",
		UserAgent:     engine.UserAgentChrome,
		EmbedContext:  true,
	},
}

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client     innertubeClient `json:"client"`
	ThirdParty *innertubeEmbed `json:"thirdParty,omitempty"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type innertubeEmbed struct {
	EmbedURL string `json:"embedUrl"`
}

type innertubePlayerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// extractAPIKey pulls the Innertube key out of watch-page HTML.
func extractAPIKey(html string) (string, bool) {
	if m := apiKeyRe.FindStringSubmatch(html); len(m) == 2 {
		return m[1], true
	}
	return "", false
}

// postPlayer POSTs to the internal player endpoint as the given persona.
// The access token, when present, rides on every persona attempt.
func postPlayer(ctx context.Context, apiKey, videoID string, p persona, accessToken string) (*innertubePlayerResp, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        p.ClientName,
				ClientVersion:     p.ClientVersion,
				AndroidSdkVersion: p.AndroidSdk,
				DeviceModel:       p.DeviceModel,
				Hl:                "en",
				Gl:                "US",
			},
			ThirdParty: embedContext(p, videoID),
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}

	endpoint := watchBase + "/youtubei/v1/player?key=" + apiKey + "&prettyPrint=false"
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("User-Agent", p.UserAgent)
		req.Header.Set("X-Youtube-Client-Name", p.ClientID)
		req.Header.Set("X-Youtube-Client-Version", p.ClientVersion)
		req.Header.Set("Origin", "https://www.youtube.com")
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("innertube [%s]: %w", p.Label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube [%s]: status %d", p.Label, resp.StatusCode)
	}

	var player innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player [%s]: %w", p.Label, err)
	}
	return &player, nil
}

func embedContext(p persona, videoID string) *innertubeEmbed {
	if !p.EmbedContext {
		return nil
	}
	return &innertubeEmbed{EmbedURL: "https://www.youtube.com/watch?v=" + videoID}
}

// attemptInnertube extracts the API key from the watch page, then tries each
// persona against the player endpoint until one returns playable captions.
func attemptInnertube(ctx context.Context, videoID, accessToken string) (*Result, error) {
	engine.IncrInnertubeAttempts()

	html, err := fetchWatchHTML(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if f := detectPageBlock(html, videoID); f != nil {
		return nil, f
	}
	apiKey, ok := extractAPIKey(html)
	if !ok {
		return nil, errors.New("INNERTUBE_API_KEY not found in watch page")
	}

	var lastErr error
	for _, p := range personas {
		player, err := postPlayer(ctx, apiKey, videoID, p, accessToken)
		if err != nil {
			slog.Warn("innertube: persona failed", slog.String("persona", p.Label), slog.String("id", videoID), slog.Any("err", err))
			lastErr = err
			continue
		}

		if ps := player.PlayabilityStatus; ps != nil && ps.Status != "OK" {
			lastErr = failf(FailUnavailable, videoID, "[%s] %s: %s", p.Label, ps.Status, ps.Reason)
			continue
		}
		if player.Captions == nil {
			lastErr = failf(FailNoCaptions, videoID, "[%s] playable but no captions", p.Label)
			continue
		}
		tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
		if len(tracks) == 0 {
			lastErr = failf(FailNoCaptions, videoID, "[%s] empty caption track list", p.Label)
			continue
		}

		track, _ := pickTrack(tracks)
		segs, err := fetchCaptionXML(ctx, stripSrv3(track.BaseURL))
		if err != nil {
			lastErr = err
			continue
		}

		engine.IncrInnertubeHits()
		return newResult(videoID, segs), nil
	}

	if lastErr == nil {
		lastErr = errors.New("all client personas failed")
	}
	return nil, lastErr
}
