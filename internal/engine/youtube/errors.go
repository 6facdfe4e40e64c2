package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

// FailKind classifies a transcript failure for user messaging.
type FailKind int

const (
	FailUnknown          FailKind = iota
	FailInvalidReference          // malformed/unresolvable URL or id
	FailNoCaptions                // video exists but has no transcript
	FailUnavailable               // private/removed/age-restricted
	FailConsentRequired           // region consent wall on the watch page
	FailLiveVideo                 // live broadcast, no transcript yet
	FailIPBlocked                 // captcha / bot detection
)

// Failure is a classified transcript error. Strategies return *Failure for
// outcomes the user should understand; anything else bubbles up as a raw
// error and is classified as FailUnknown at the boundary.
type Failure struct {
	Kind    FailKind
	VideoID string
	Reason  string // internal detail, e.g. playability reason text
}

func (f *Failure) Error() string {
	if f.Reason != "" {
		return fmt.Sprintf("%s: %s", f.Message(), f.Reason)
	}
	return f.Message()
}

// Message returns the user-facing message for the failure category.
func (f *Failure) Message() string {
	switch f.Kind {
	case FailInvalidReference:
		return "Invalid YouTube URL or video ID"
	case FailNoCaptions:
		return "No captions/transcript available for this video"
	case FailUnavailable:
		return "Video is unavailable"
	case FailConsentRequired:
		return "Video requires cookie consent in this region"
	case FailLiveVideo:
		return "Live broadcasts do not have a transcript yet"
	case FailIPBlocked:
		return "YouTube is blocking requests from this server"
	default:
		if f.Reason != "" {
			return "Could not fetch transcript: " + f.Reason
		}
		return "Could not fetch transcript"
	}
}

// HTTPStatus maps the failure category to a response status.
func (f *Failure) HTTPStatus() int {
	switch f.Kind {
	case FailInvalidReference:
		return http.StatusBadRequest
	case FailNoCaptions, FailUnavailable, FailConsentRequired, FailLiveVideo:
		return http.StatusNotFound
	case FailIPBlocked:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func failf(kind FailKind, videoID, format string, args ...any) *Failure {
	return &Failure{Kind: kind, VideoID: videoID, Reason: fmt.Sprintf(format, args...)}
}

// Classify wraps any error into a *Failure. Raw internal error text is used
// only as a last-resort reason.
func Classify(err error, videoID string) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		if f.VideoID == "" {
			f.VideoID = videoID
		}
		return f
	}
	return &Failure{Kind: FailUnknown, VideoID: videoID, Reason: err.Error()}
}
