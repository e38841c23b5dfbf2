package api

import (
	"context"
	"io"
	"testing"
	"time"
)

func TestThrottleBackoff(t *testing.T) {
	th := NewThrottle(2, time.Hour, 10*time.Second, newTestLogger(io.Discard))
	var slept []time.Duration
	th.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }

	ctx := context.Background()
	th.Wait(ctx)
	th.Wait(ctx)
	if len(slept) != 0 {
		t.Fatalf("slept within budget: %v", slept)
	}

	th.Wait(ctx)
	if len(slept) != 1 || slept[0] != 10*time.Second {
		t.Errorf("slept = %v, want [10s]", slept)
	}
}

// A tripped throttle delays the caller by at least the backoff, without error
func TestThrottleMeasurableDelay(t *testing.T) {
	backoff := 50 * time.Millisecond
	th := NewThrottle(1, time.Hour, backoff, newTestLogger(io.Discard))

	th.Wait(context.Background())

	start := time.Now()
	th.Wait(context.Background())
	if elapsed := time.Since(start); elapsed < backoff {
		t.Errorf("Wait() took %v, want >= %v", elapsed, backoff)
	}
}

func TestThrottleUnlimited(t *testing.T) {
	th := NewThrottle(0, 0, time.Hour, newTestLogger(io.Discard))
	th.sleep = func(context.Context, time.Duration) { t.Fatal("unlimited throttle slept") }

	for i := 0; i < 100; i++ {
		th.Wait(context.Background())
	}

	var nilThrottle *Throttle
	nilThrottle.Wait(context.Background())
}
