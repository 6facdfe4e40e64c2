package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"
)

const captionXML = `<transcript><text start="0" dur="2">hello world this is a caption</text></transcript>`

// newWatchServer serves a watch page built by buildPage (given the server's
// own base URL) and caption XML at /tt. watchBase is redirected for the
// duration of the test.
func newWatchServer(t *testing.T, buildPage func(base string) string) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, buildPage(ts.URL))
	})
	mux.HandleFunc("/tt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, captionXML)
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	orig := watchBase
	watchBase = ts.URL
	t.Cleanup(func() { watchBase = orig })
	return ts
}

func playerResponsePage(playerJSON string) string {
	return `<html><head><script>var ytInitialPlayerResponse = ` + playerJSON + `;var other = {};</script></head><body></body></html>`
}

func TestAttemptPageScrape(t *testing.T) {
	newWatchServer(t, func(base string) string {
		return playerResponsePage(`{
			"playabilityStatus": {"status": "OK"},
			"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
				{"baseUrl": "` + base + `/tt&fmt=srv3", "languageCode": "en", "name": {"simpleText": "English"}}
			]}}
		}`)
	})

	res, err := attemptPageScrape(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("attemptPageScrape() error = %v", err)
	}
	if res.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q", res.VideoID)
	}
	if len(res.Segments) != 1 || res.FullText != "hello world this is a caption" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAttemptPageScrapeFailures(t *testing.T) {
	tests := []struct {
		name string
		page string
		kind FailKind
	}{
		{
			name: "login required",
			page: playerResponsePage(`{"playabilityStatus": {"status": "LOGIN_REQUIRED", "reason": "Sign in"}}`),
			kind: FailUnavailable,
		},
		{
			name: "offline live stream",
			page: playerResponsePage(`{"playabilityStatus": {"status": "LIVE_STREAM_OFFLINE", "reason": "Premieres soon"}}`),
			kind: FailLiveVideo,
		},
		{
			name: "playable but captionless",
			page: playerResponsePage(`{"playabilityStatus": {"status": "OK"}, "captions": {"playerCaptionsTracklistRenderer": {"captionTracks": []}}}`),
			kind: FailNoCaptions,
		},
		{
			name: "consent wall",
			page: `<html><form action="https://consent.youtube.com/s"></form></html>`,
			kind: FailConsentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newWatchServer(t, func(string) string { return tt.page })

			_, err := attemptPageScrape(context.Background(), "dQw4w9WgXcQ")
			if err == nil {
				t.Fatal("expected error")
			}
			if f := Classify(err, ""); f.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (err: %v)", f.Kind, tt.kind, err)
			}
		})
	}
}

func TestAttemptPageScrapeNoPlayerResponse(t *testing.T) {
	newWatchServer(t, func(string) string {
		return "<html><body>nothing embedded here</body></html>"
	})

	_, err := attemptPageScrape(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("expected error when player response is missing")
	}
}

func TestExtractPlayerResponse(t *testing.T) {
	html := playerResponsePage(`{"videoDetails": {"title": "a {tricky} \"title\""}}`)
	raw := extractPlayerResponse(html)
	if raw == nil {
		t.Fatal("extractPlayerResponse() = nil")
	}
	if !gjson.ValidBytes(raw) {
		t.Fatalf("extracted JSON invalid: %s", raw)
	}
	if got := gjson.GetBytes(raw, "videoDetails.title").String(); got != `a {tricky} "title"` {
		t.Errorf("title = %q", got)
	}

	if extractPlayerResponse("<html>no marker</html>") != nil {
		t.Error("expected nil without marker")
	}
}

func TestParseCaptionTracks(t *testing.T) {
	arr := gjson.Parse(`[
		{"baseUrl": "https://a", "languageCode": "en", "kind": "asr"},
		{"languageCode": "fr"},
		{"baseUrl": "https://b", "languageCode": "de", "name": {"simpleText": "German"}}
	]`)
	tracks := parseCaptionTracks(arr)
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2 (url-less skipped)", len(tracks))
	}
	if tracks[0].Kind != "asr" || tracks[1].Name.SimpleText != "German" {
		t.Errorf("tracks = %+v", tracks)
	}
}
