// Package runner drives repeated echo attempts at a fixed pace.
package runner

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/postalsys/rawping/internal/ping"
)

// Stats summarizes the attempts made by Repeat.
type Stats struct {
	Attempts int
	Replies  int
}

// Loss returns the fraction of attempts without a reply, in [0, 1].
func (s Stats) Loss() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Attempts-s.Replies) / float64(s.Attempts)
}

func (s *Stats) add(o ping.Outcome) {
	s.Attempts++
	if o.OK() {
		s.Replies++
	}
}

// Repeat calls fn with attempt numbers starting at 1, starting attempts at
// most once per interval. An attempt that overruns the interval is followed
// immediately by the next. count 0 repeats until ctx is done.
//
// Cancellation is a normal way to stop, so Repeat returns nil when ctx ends.
// fn itself is never interrupted.
func Repeat(ctx context.Context, interval time.Duration, count int, fn func(attempt int) ping.Outcome) (Stats, error) {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var stats Stats
	for attempt := 1; count == 0 || attempt <= count; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			// Wait fails early when the next slot is past ctx's deadline.
			<-ctx.Done()
			return stats, nil
		}
		if ctx.Err() != nil {
			return stats, nil
		}

		stats.add(fn(attempt))
	}

	return stats, nil
}
