package youtube

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_blender/internal/engine"
)

// strategy is one acquisition path. Strategies run sequentially in fixed
// order and the first success short-circuits the rest; there is no parallel
// fan-out against the same video.
type strategy struct {
	name string
	run  func(ctx context.Context, videoID, accessToken string) (*Result, error)
}

// strategies is a var so tests can swap in stubs.
var strategies = []strategy{
	{"page_scrape", func(ctx context.Context, id, _ string) (*Result, error) {
		return attemptPageScrape(ctx, id)
	}},
	{"relay", func(ctx context.Context, id, _ string) (*Result, error) {
		return attemptRelay(ctx, id)
	}},
	{"innertube", attemptInnertube},
	{"legacy", func(ctx context.Context, id, _ string) (*Result, error) {
		return attemptLegacy(ctx, id)
	}},
}

// FetchTranscript resolves the video reference and runs acquisition
// strategies in order until one produces a transcript. accessToken is
// optional; only the Innertube strategy uses it. Successful results are
// cached by video id, failures are not.
func FetchTranscript(ctx context.Context, urlOrID, accessToken string) (*Result, error) {
	engine.IncrTranscriptRequests()

	videoID, ok := ResolveVideoID(urlOrID)
	if !ok {
		return nil, failf(FailInvalidReference, "", "not a video URL or id: %q", engine.Truncate(urlOrID, 100))
	}

	key := engine.CacheKey("transcript", videoID)
	if cached, ok := engine.CacheLoadJSON[*Result](ctx, key); ok && cached != nil {
		slog.Debug("transcript cache hit", slog.String("id", videoID))
		return cached, nil
	}

	var lastErr error
	for _, s := range strategies {
		res, err := s.run(ctx, videoID, accessToken)
		if err == nil && res != nil {
			slog.Info("transcript acquired",
				slog.String("id", videoID),
				slog.String("strategy", s.name),
				slog.Int("segments", len(res.Segments)))
			engine.CacheStoreJSON(ctx, key, res)
			return res, nil
		}
		if err == nil {
			err = &Failure{Kind: FailNoCaptions, VideoID: videoID}
		}
		slog.Warn("transcript strategy failed",
			slog.String("id", videoID),
			slog.String("strategy", s.name),
			slog.Any("err", err))
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if lastErr == nil {
		lastErr = &Failure{Kind: FailNoCaptions, VideoID: videoID}
	}
	return nil, lastErr
}
