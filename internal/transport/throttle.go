package transport

import (
	"context"
	"sync"
	"time"
)

// throttle spaces requests to the same host by at least delay.
type throttle struct {
	mu    sync.Mutex
	delay time.Duration
	next  map[string]time.Time
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay, next: make(map[string]time.Time)}
}

// wait blocks until host may be contacted again or ctx is done.
func (t *throttle) wait(ctx context.Context, host string) error {
	if t.delay <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := time.Now()
	at := t.next[host]
	if at.Before(now) {
		at = now
	}
	t.next[host] = at.Add(t.delay)
	t.mu.Unlock()

	d := at.Sub(now)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
