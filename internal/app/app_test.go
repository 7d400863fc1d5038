package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/constellation/internal/config"
	"github.com/coreman2200/constellation/internal/dateformat"
	"github.com/coreman2200/constellation/internal/driver/fake"
	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/reconcile"
	"github.com/coreman2200/constellation/internal/render"
	"github.com/coreman2200/constellation/internal/sequence"
)

func basalt(t *testing.T) geometry.Platform {
	p, ok := geometry.Lookup("basalt")
	require.True(t, ok)
	return p
}

func TestInitCoreRequiresPlatform(t *testing.T) {
	_, err := InitCore(Options{Log: zerolog.Nop()})
	assert.Error(t, err)
}

func TestBootMessagePersist(t *testing.T) {
	store := config.NewMemStore()
	drv := fake.NewDriver(zerolog.Nop())

	core, err := InitCore(Options{
		Platform: basalt(t),
		Store:    store,
		Driver:   drv,
		Power:    func() (int, bool) { return 64, false },
		Log:      zerolog.Nop(),
	})
	require.NoError(t, err)
	assert.Equal(t, face.SplashShowing, core.Face.Phase())
	gen := core.Face.Generation()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()

	// stands in for the splash timer firing
	require.True(t, core.Loop.Post(face.SplashElapsed{Generation: gen}))
	require.Eventually(t, func() bool {
		return core.Loop.Snapshot().Phase == face.Active.String()
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, core.Loop.Post(face.MessageEvent{Values: reconcile.Message{
		config.KeyGoal: "12000",
		config.KeyRing: "0",
	}}))
	require.Eventually(t, func() bool {
		return core.Loop.Snapshot().Config.ActivityGoal == 12000
	}, 2*time.Second, 10*time.Millisecond)

	want := config.Defaults()
	want.ActivityGoal = 12000
	want.ShowClockRing = false
	cfg := core.Loop.Snapshot().Config
	assert.Equal(t, want, cfg)
	assert.True(t, cfg.ShowSplashScreen)
	assert.Equal(t, config.LogoBW, cfg.SplashLogo)
	assert.Equal(t, dateformat.Weekday, cfg.TopFormat)
	assert.Equal(t, render.ArcTrack, cfg.TrackStyle)

	assert.Equal(t, want.Values(), store.Snapshot())
	assert.Equal(t, want, config.LoadDisplay(store, zerolog.Nop()))

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, drv.Count(), 3)
	assert.Equal(t, 64, core.Face.State().PowerPercent)
	require.NoError(t, core.Close())
	assert.Equal(t, face.Unloading, core.Face.Phase())
}

func TestBootWithoutSplash(t *testing.T) {
	store := config.NewMemStore()
	require.NoError(t, store.Set(config.KeySplash, "0"))

	core, err := InitCore(Options{Platform: basalt(t), Store: store, Log: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, face.Active, core.Face.Phase())
	require.NoError(t, core.Close())
}

type recordPoster struct {
	mu     sync.Mutex
	events []face.Event
}

func (r *recordPoster) Post(ev face.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return true
}

func (r *recordPoster) all() []face.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]face.Event(nil), r.events...)
}

func program() sequence.Program {
	return sequence.Program{
		Version: sequence.Version,
		Start:   "2024-03-15T11:59:58Z",
		Rate:    1,
		Segments: []sequence.Segment{{
			Name: "noon", DurationS: 4,
			Activity: &sequence.Envelope{Keys: []sequence.Keyframe{{T: 0, V: 0}, {T: 4, V: 400}}},
			Cues:     []sequence.Cue{{AtS: 1, Values: map[string]any{config.KeyTopFormat: "step-count"}}},
		}},
	}
}

func TestConductorStepPostsClockAndValues(t *testing.T) {
	rec := &recordPoster{}
	c, err := NewConductor(program(), rec, time.Now(), zerolog.Nop())
	require.NoError(t, err)

	c.Seq.Start()
	c.Step(0.5)
	c.Step(0.5)
	c.Step(1)

	var ticks []time.Time
	var activity []int
	configs := 0
	for _, ev := range rec.all() {
		switch e := ev.(type) {
		case face.TickEvent:
			ticks = append(ticks, e.Time)
		case face.ActivityEvent:
			activity = append(activity, e.Count)
		case face.MessageEvent:
			configs++
		}
	}
	require.Len(t, ticks, 3)
	assert.Equal(t, 12, ticks[2].Hour())
	assert.Equal(t, []int{0, 50, 100, 200}, activity)
	assert.Equal(t, 1, configs)
}

func TestConductorRunFinishes(t *testing.T) {
	rec := &recordPoster{}
	prog := program()
	prog.Rate = 200
	c, err := NewConductor(prog, rec, time.Now(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx, 100))
	assert.Equal(t, sequence.Idle, c.Seq.State)
	assert.GreaterOrEqual(t, c.Clock().Sub(time.Date(2024, 3, 15, 11, 59, 58, 0, time.UTC)), 4*time.Second)
}
