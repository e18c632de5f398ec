package sink

import (
	"context"
	"sync"
	"time"
)

// Queue spaces request starts by a minimum gap. Callers reserve slots in arrival order,
// so concurrent posts to several endpoints still go out one gap apart.
type Queue struct {
	mu   sync.Mutex
	gap  time.Duration
	next time.Time
	now  func() time.Time
}

// NewQueue creates a queue with the given minimum gap between request starts.
func NewQueue(gap time.Duration) *Queue {
	return &Queue{gap: gap, now: time.Now}
}

// Wait blocks until the caller's slot arrives or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	now := q.now()
	slot := now
	if q.next.After(now) {
		slot = q.next
	}
	q.next = slot.Add(q.gap)
	q.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
