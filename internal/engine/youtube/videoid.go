package youtube

import (
	"fmt"
	"regexp"
)

// URL patterns tried in order; each captures the 11-char video id.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#&]*&)*v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
}

var bareVideoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ResolveVideoID extracts the canonical 11-character video id from any
// supported YouTube URL shape or a bare id. Pure and total: malformed input
// returns ok=false, never panics, no network.
func ResolveVideoID(input string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	if bareVideoIDRe.MatchString(input) {
		return input, true
	}
	return "", false
}

// ThumbnailURL returns the deterministic CDN thumbnail URL for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// Info is metadata derived from a video reference alone, no network.
type Info struct {
	VideoID   string `json:"video_id"`
	Thumbnail string `json:"thumbnail"`
}

// VideoInfo resolves a reference and derives its metadata.
func VideoInfo(urlOrID string) (*Info, error) {
	videoID, ok := ResolveVideoID(urlOrID)
	if !ok {
		return nil, &Failure{Kind: FailInvalidReference}
	}
	return &Info{VideoID: videoID, Thumbnail: ThumbnailURL(videoID)}, nil
}
