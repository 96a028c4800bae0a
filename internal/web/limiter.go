package web

import (
	"context"
	"errors"
	"sync"
	"time"
)

// errTooManyExports is returned when every export slot stayed busy for the
// limiter's wait time.
var errTooManyExports = errors.New("too many concurrent exports")

// limiter bounds concurrent exports with a semaphore. Requests wait up to
// maxWait for a slot.
type limiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
	served int64
}

func newLimiter(maxConcurrent int, maxWait time.Duration) *limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &limiter{slots: make(chan struct{}, maxConcurrent), maxWait: maxWait}
}

// acquire takes a slot. The caller must release it.
func (l *limiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return errTooManyExports
	}
}

func (l *limiter) release() {
	l.mu.Lock()
	l.active--
	l.served++
	l.mu.Unlock()
	<-l.slots
}

// limiterStatus is reported by the health endpoint.
type limiterStatus struct {
	Active    int   `json:"active"`
	Available int   `json:"available"`
	Max       int   `json:"max"`
	Served    int64 `json:"served"`
}

func (l *limiter) status() limiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return limiterStatus{
		Active:    l.active,
		Available: cap(l.slots) - len(l.slots),
		Max:       cap(l.slots),
		Served:    l.served,
	}
}
