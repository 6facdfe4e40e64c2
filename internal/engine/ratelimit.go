package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// ytLimiter bounds outbound request volume against youtube.com.
// Sequential strategies already keep per-request volume low; the limiter
// guards against many concurrent user requests hammering the same IP.
var ytLimiter *rate.Limiter

func initYouTubeLimiter(perSec float64, burst int) {
	if perSec <= 0 {
		perSec = 5
	}
	if burst <= 0 {
		burst = 10
	}
	ytLimiter = rate.NewLimiter(rate.Limit(perSec), burst)
}

// WaitYouTube blocks until the outbound YouTube budget allows one request,
// or the context is done.
func WaitYouTube(ctx context.Context) error {
	if ytLimiter == nil {
		return nil
	}
	return ytLimiter.Wait(ctx)
}
