package face

import (
	"time"

	"github.com/coreman2200/constellation/internal/reconcile"
)

// Event is anything the face reacts to. Events are handled one at a time.
type Event interface{ event() }

// TickEvent is the per-second wall clock tick.
type TickEvent struct{ Time time.Time }

// PowerEvent reports a battery change.
type PowerEvent struct {
	Percent  int
	Charging bool
}

// ActivityEvent carries today's running step total.
type ActivityEvent struct{ Count int }

// MessageEvent is a configuration message from the control channel.
type MessageEvent struct{ Values reconcile.Message }

// SplashElapsed ends the splash for the window generation that scheduled it.
type SplashElapsed struct{ Generation uint64 }

func (TickEvent) event()     {}
func (PowerEvent) event()    {}
func (ActivityEvent) event() {}
func (MessageEvent) event()  {}
func (SplashElapsed) event() {}

// Scheduler delivers ev back to the face after d. Delivery must go through
// the same serialized path as every other event.
type Scheduler interface {
	After(d time.Duration, ev Event)
}
