package app

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/reconcile"
	"github.com/coreman2200/constellation/internal/sequence"
)

// Poster accepts face events.
type Poster interface {
	Post(face.Event) bool
}

// Conductor plays a simulation program into a face loop, including a
// simulated wall clock.
type Conductor struct {
	Seq  *sequence.Player
	prog sequence.Program
	to   Poster
	log  zerolog.Logger

	start   time.Time
	elapsed float64
	lastSec int64
}

func NewConductor(prog sequence.Program, to Poster, now time.Time, log zerolog.Logger) (*Conductor, error) {
	start, err := prog.StartTime(now)
	if err != nil {
		return nil, err
	}
	if prog.Rate <= 0 {
		prog.Rate = 1
	}
	c := &Conductor{prog: prog, to: to, start: start, lastSec: -1, log: log.With().Str("component", "conductor").Logger()}
	hooks := sequence.Hooks{
		Segment:  func(name string) { c.log.Info().Str("segment", name).Msg("segment") },
		Activity: func(n int) { to.Post(face.ActivityEvent{Count: n}) },
		Power:    func(p int, ch bool) { to.Post(face.PowerEvent{Percent: p, Charging: ch}) },
		Config:   func(v map[string]any) { to.Post(face.MessageEvent{Values: reconcile.Message(v)}) },
	}
	c.Seq = sequence.NewPlayer(hooks)
	if err := c.Seq.Load(prog); err != nil {
		return nil, err
	}
	return c, nil
}

// Clock is the simulated wall clock.
func (c *Conductor) Clock() time.Time {
	return c.start.Add(time.Duration(c.elapsed * float64(time.Second)))
}

// Step advances the program by dt simulated seconds.
func (c *Conductor) Step(dt float64) {
	c.elapsed += dt
	c.Seq.Tick(dt)
	if sec := int64(math.Floor(c.elapsed)); sec != c.lastSec {
		c.lastSec = sec
		c.to.Post(face.TickEvent{Time: c.Clock()})
	}
}

// Run plays the program at fps real frames per second until it finishes
// or ctx is done.
func (c *Conductor) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	c.to.Post(face.TickEvent{Time: c.Clock()})
	c.lastSec = 0
	c.Seq.Start()
	for c.Seq.State == sequence.Running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Step(dt.Seconds() * c.prog.Rate)
		}
	}
	c.log.Info().Float64("sim_s", c.elapsed).Msg("program finished")
	return nil
}
