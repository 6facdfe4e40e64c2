package youtube

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/tidwall/gjson"
)

// Page-scrape strategy: parse the watch page's embedded player-state JSON
// for caption track URLs. Cheapest and least detectable acquisition path,
// so it runs first.

// playerResponseMarker marks the start of the player response JSON in watch
// page HTML.
const playerResponseMarker = "ytInitialPlayerResponse = "

// extractPlayerResponse locates the embedded ytInitialPlayerResponse object.
// Best-effort structural extractor: returns nil on non-match, never errors.
func extractPlayerResponse(html string) []byte {
	idx := strings.Index(html, playerResponseMarker)
	if idx < 0 {
		return nil
	}
	return extractJSON([]byte(html[idx+len(playerResponseMarker):]))
}

// parseCaptionTracks decodes a captionTracks JSON array into tracks,
// skipping entries without a fetchable URL.
func parseCaptionTracks(arr gjson.Result) []captionTrack {
	var tracks []captionTrack
	arr.ForEach(func(_, v gjson.Result) bool {
		t := captionTrack{
			BaseURL:      v.Get("baseUrl").String(),
			LanguageCode: v.Get("languageCode").String(),
			Kind:         v.Get("kind").String(),
		}
		t.Name.SimpleText = v.Get("name.simpleText").String()
		if t.BaseURL != "" {
			tracks = append(tracks, t)
		}
		return true
	})
	return tracks
}

// attemptPageScrape fetches the watch page, extracts the player response and
// downloads the selected caption track.
func attemptPageScrape(ctx context.Context, videoID string) (*Result, error) {
	engine.IncrPageScrapeAttempts()

	html, err := fetchWatchHTML(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if f := detectPageBlock(html, videoID); f != nil {
		return nil, f
	}

	raw := extractPlayerResponse(html)
	if raw == nil {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("malformed ytInitialPlayerResponse JSON")
	}

	// Navigation through the payload is defensive and total: every lookup
	// yields an optional value, only the final leaf failing is an error.
	status := gjson.GetBytes(raw, "playabilityStatus.status").String()
	if status != "" && status != "OK" {
		reason := gjson.GetBytes(raw, "playabilityStatus.reason").String()
		if status == "LIVE_STREAM_OFFLINE" {
			return nil, failf(FailLiveVideo, videoID, "%s", reason)
		}
		return nil, failf(FailUnavailable, videoID, "%s: %s", status, reason)
	}

	tracks := parseCaptionTracks(gjson.GetBytes(raw, "captions.playerCaptionsTracklistRenderer.captionTracks"))
	if len(tracks) == 0 {
		return nil, &Failure{Kind: FailNoCaptions, VideoID: videoID}
	}

	track, _ := pickTrack(tracks)
	segs, err := fetchCaptionXML(ctx, stripSrv3(track.BaseURL))
	if err != nil {
		return nil, err
	}

	engine.IncrPageScrapeHits()
	return newResult(videoID, segs), nil
}
