// Package youtube acquires video transcripts from YouTube, a platform that
// actively resists automated access. Four independent strategies are tried
// in sequence until one yields caption segments:
//
//	pagescrape.go — watch-page ytInitialPlayerResponse scrape (works from most IPs)
//	relay.go      — third-party public transcript services
//	innertube.go  — internal player API, rotating client personas
//	legacy.go     — raw-HTML regex patterns (older page layouts)
//
// transcript.go orchestrates the chain; timedtext.go normalizes the caption
// XML dialects the strategies end up fetching.
package youtube

import "strings"

// Segment is one timed caption line. Text is entity-decoded, tag-stripped
// and whitespace-collapsed; empty segments never appear in a Result.
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Result is a normalized transcript: chronological segments plus their
// space-joined full text.
type Result struct {
	VideoID  string    `json:"video_id"`
	Segments []Segment `json:"segments"`
	FullText string    `json:"transcript"`
}

// newResult builds a Result from segments, deriving FullText.
// Returns nil when segments is empty — an empty parse is a failure,
// never a degenerate success.
func newResult(videoID string, segments []Segment) *Result {
	if len(segments) == 0 {
		return nil
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return &Result{
		VideoID:  videoID,
		Segments: segments,
		FullText: strings.Join(parts, " "),
	}
}

// captionTrack is a candidate subtitle stream discovered in a player
// response. Ephemeral, never persisted.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}
