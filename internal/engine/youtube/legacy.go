package youtube

import (
	"context"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// Legacy direct strategy: older/alternate raw-HTML pattern set. Safety net
// behind the structured strategies; each pattern is an isolated best-effort
// extractor that yields an optional caption URL.

var (
	timedtextURLRe = regexp.MustCompile(`(?:https://www\.youtube\.com)?/api/timedtext[^"'\\\s]+`)
	baseURLRe      = regexp.MustCompile(`"baseUrl"\s*:\s*"([^"]*timedtext[^"]*)"`)
	liveMarkerRe   = regexp.MustCompile(`"is[Ll]ive(?:Now|Broadcast|Content)?"\s*:\s*true`)
)

// unescapeCaptionURL undoes the JSON/HTML escaping YouTube applies to
// inline caption URLs.
func unescapeCaptionURL(u string) string {
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	u = strings.ReplaceAll(u, "&amp;", "&")
	return u
}

// extractCaptionTracksLiteral finds a "captionTracks":[...] array literal
// anywhere in the HTML and returns its tracks.
func extractCaptionTracksLiteral(page string) []captionTrack {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil
	}
	arr := extractJSONArray([]byte(page[idx+len(marker):]))
	if arr == nil {
		return nil
	}
	return parseCaptionTracks(gjson.ParseBytes(arr))
}

// extractJSONArray returns the first balanced JSON array at the start of b.
func extractJSONArray(b []byte) []byte {
	if len(b) == 0 || b[0] != '[' {
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
			case '[':
				depth++
			case ']':
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

// extractScriptPlayerResponse walks the HTML tree and pulls the player
// response out of whichever <script> node carries it. Tree-based walk copes
// with markup the flat marker search trips over.
func extractScriptPlayerResponse(page string) []byte {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}
	var raw []byte
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if raw != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			if c := n.FirstChild; c != nil && c.Type == html.TextNode {
				if idx := strings.Index(c.Data, "ytInitialPlayerResponse"); idx >= 0 {
					rest := c.Data[idx:]
					if brace := strings.IndexByte(rest, '{'); brace >= 0 {
						raw = extractJSON([]byte(rest[brace:]))
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return raw
}

// legacyCaptionURL applies the legacy pattern set in order and returns the
// first usable caption URL.
func legacyCaptionURL(page string) string {
	// (a) captionTracks array literal
	if tracks := extractCaptionTracksLiteral(page); len(tracks) > 0 {
		if track, ok := pickTrack(tracks); ok {
			return unescapeCaptionURL(track.BaseURL)
		}
	}

	// (b) raw /api/timedtext link
	if m := timedtextURLRe.FindString(page); m != "" {
		u := unescapeCaptionURL(m)
		if !strings.HasPrefix(u, "http") {
			u = "https://www.youtube.com" + u
		}
		return u
	}

	// (c) player response restricted to its captions field
	if raw := extractScriptPlayerResponse(page); raw != nil {
		tracks := parseCaptionTracks(gjson.GetBytes(raw, "captions.playerCaptionsTracklistRenderer.captionTracks"))
		if track, ok := pickTrack(tracks); ok {
			return unescapeCaptionURL(track.BaseURL)
		}
	}

	// (d) any baseUrl pointing at timedtext
	if m := baseURLRe.FindStringSubmatch(page); len(m) == 2 {
		return unescapeCaptionURL(m[1])
	}

	return ""
}

// attemptLegacy fetches the watch page and tries the raw pattern set.
func attemptLegacy(ctx context.Context, videoID string) (*Result, error) {
	engine.IncrLegacyAttempts()

	page, err := fetchWatchHTML(ctx, videoID)
	if err != nil {
		return nil, err
	}

	captionURL := legacyCaptionURL(page)
	if captionURL == "" {
		if liveMarkerRe.MatchString(page) {
			return nil, &Failure{Kind: FailLiveVideo, VideoID: videoID}
		}
		return nil, &Failure{Kind: FailNoCaptions, VideoID: videoID}
	}

	segs, err := fetchCaptionXML(ctx, stripSrv3(captionURL))
	if err != nil {
		return nil, err
	}

	engine.IncrLegacyHits()
	return newResult(videoID, segs), nil
}
