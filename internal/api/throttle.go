package api

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Throttle limits outbound calls to a fixed rate. When the budget is spent the
// caller sleeps for a fixed backoff and then proceeds; it never sees an error.
type Throttle struct {
	limiter *rate.Limiter
	backoff time.Duration
	logger  *log.Logger
	sleep   func(ctx context.Context, d time.Duration)
}

// NewThrottle allows calls requests per period, sleeping backoff once exceeded
func NewThrottle(calls int, period, backoff time.Duration, logger *log.Logger) *Throttle {
	if logger == nil {
		logger = log.Default()
	}
	limit := rate.Inf
	if calls > 0 && period > 0 {
		limit = rate.Every(period / time.Duration(calls))
	}
	return &Throttle{
		limiter: rate.NewLimiter(limit, max(calls, 1)),
		backoff: backoff,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// Wait consumes one call from the budget, sleeping for the backoff if it is exhausted
func (t *Throttle) Wait(ctx context.Context) {
	if t == nil || t.limiter.Allow() {
		return
	}
	t.logger.Info("Rate limit encountered, sleeping", "duration", t.backoff)
	t.sleep(ctx, t.backoff)
}
