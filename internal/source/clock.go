// Package source feeds the face with clock and battery events.
package source

import (
	"context"
	"time"

	"github.com/coreman2200/constellation/internal/face"
)

// Post hands an event to the face loop. It reports false once the loop
// has stopped.
type Post func(face.Event) bool

// Clock emits a TickEvent on every Period boundary of the wall clock.
type Clock struct {
	Period time.Duration
	Now    func() time.Time
}

func NewClock() *Clock { return &Clock{Period: time.Second, Now: time.Now} }

// Run ticks until ctx is done or post refuses an event. The first tick is
// sent immediately.
func (c *Clock) Run(ctx context.Context, post Post) error {
	period := c.Period
	if period <= 0 {
		period = time.Second
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			at := now()
			if !post(face.TickEvent{Time: at}) {
				return nil
			}
			t.Reset(at.Truncate(period).Add(period).Sub(at))
		}
	}
}
