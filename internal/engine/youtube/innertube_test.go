package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{"present", `..."INNERTUBE_API_KEY":"AIzaSyAO_x-abc_123"...`, "AIzaSyAO_x-abc_123", true},
		{"spaced", `"INNERTUBE_API_KEY" : "key123"`, "key123", true},
		{"absent", `<html>nothing</html>`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractAPIKey(tt.html)
			if got != tt.want || ok != tt.ok {
				t.Errorf("extractAPIKey() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

// innertubeServer serves a watch page with an API key and a player endpoint
// driven by the respond callback (keyed on the client name header).
func innertubeServer(t *testing.T, respond func(clientName string, w http.ResponseWriter)) {
	t.Helper()
	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>"INNERTUBE_API_KEY":"testkey"</html>`)
	})
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		respond(r.Header.Get("X-Youtube-Client-Name"), w)
	})
	mux.HandleFunc("/tt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, captionXML)
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	orig := watchBase
	watchBase = ts.URL
	t.Cleanup(func() { watchBase = orig })
}

func playerJSON(w http.ResponseWriter, trackURL string) {
	resp := map[string]any{
		"playabilityStatus": map[string]any{"status": "OK"},
		"captions": map[string]any{
			"playerCaptionsTracklistRenderer": map[string]any{
				"captionTracks": []map[string]any{
					{"baseUrl": trackURL, "languageCode": "en"},
				},
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestAttemptInnertubeFirstPersona(t *testing.T) {
	var seen []string
	innertubeServer(t, func(clientName string, w http.ResponseWriter) {
		seen = append(seen, clientName)
		playerJSON(w, watchBase+"/tt")
	})

	res, err := attemptInnertube(context.Background(), "dQw4w9WgXcQ", "")
	if err != nil {
		t.Fatalf("attemptInnertube() error = %v", err)
	}
	if res.FullText != "hello world this is a caption" {
		t.Errorf("FullText = %q", res.FullText)
	}
	if len(seen) != 1 || seen[0] != "5" {
		t.Errorf("client names seen = %v, want just the iOS persona (5)", seen)
	}
}

func TestAttemptInnertubePersonaFallback(t *testing.T) {
	var seen []string
	innertubeServer(t, func(clientName string, w http.ResponseWriter) {
		seen = append(seen, clientName)
		if clientName == "5" {
			// iOS persona rejected; next persona should be tried.
			w.WriteHeader(http.StatusForbidden)
			return
		}
		playerJSON(w, watchBase+"/tt")
	})

	res, err := attemptInnertube(context.Background(), "dQw4w9WgXcQ", "")
	if err != nil {
		t.Fatalf("attemptInnertube() error = %v", err)
	}
	if res == nil || len(res.Segments) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(seen) < 2 || seen[len(seen)-1] != "3" {
		t.Errorf("client names seen = %v, want fallback to Android (3)", seen)
	}
}

func TestAttemptInnertubeAllPersonasCaptionless(t *testing.T) {
	innertubeServer(t, func(_ string, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"playabilityStatus": {"status": "OK"}}`)
	})

	_, err := attemptInnertube(context.Background(), "dQw4w9WgXcQ", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if f := Classify(err, ""); f.Kind != FailNoCaptions {
		t.Errorf("Kind = %v, want FailNoCaptions", f.Kind)
	}
}

func TestAttemptInnertubeSendsBearerToken(t *testing.T) {
	var gotAuth string
	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>"INNERTUBE_API_KEY":"testkey"</html>`)
	})
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		playerJSON(w, ts.URL+"/tt")
	})
	mux.HandleFunc("/tt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, captionXML)
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	orig := watchBase
	watchBase = ts.URL
	t.Cleanup(func() { watchBase = orig })

	if _, err := attemptInnertube(context.Background(), "dQw4w9WgXcQ", "tok-456"); err != nil {
		t.Fatalf("attemptInnertube() error = %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization = %q, want Bearer tok-456", gotAuth)
	}
}
