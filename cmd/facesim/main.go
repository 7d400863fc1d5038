package main

import (
	"context"
	"errors"
	"flag"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/constellation/internal/app"
	"github.com/coreman2200/constellation/internal/config"
	"github.com/coreman2200/constellation/internal/driver/pngout"
	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/logger"
	"github.com/coreman2200/constellation/internal/sequence"
)

// counter forwards events to the loop and remembers how many it accepted.
type counter struct {
	to   *face.Loop
	sent atomic.Int64
}

func (c *counter) Post(ev face.Event) bool {
	if !c.to.Post(ev) {
		return false
	}
	c.sent.Add(1)
	return true
}

func main() {
	var (
		programPath = flag.String("program", "", "path to a sim.v1 program (YAML or JSON)")
		platform    = flag.String("platform", geometry.DefaultPlatform, "display platform")
		outDir      = flag.String("out", "sim-frames", "directory for numbered PNG frames")
		fps         = flag.Int("fps", 30, "simulation steps per real second")
		settings    = flag.String("settings", "", "settings file to start from and persist into")
		splash      = flag.Bool("splash", false, "show the splash screen first")
		clock24h    = flag.Bool("24h", false, "24 hour clock")
		logLevel    = flag.String("log-level", "info", "debug | info | warn | error")
	)
	flag.Parse()

	lg := logger.New(logger.Config{Level: *logLevel, Pretty: true})
	logger.SetGlobal(lg)

	if *programPath == "" {
		log.Fatal().Msg("provide -program path to a sim.v1 program")
	}
	prog, err := sequence.LoadFile(*programPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *programPath).Msg("load program")
	}
	plat, ok := geometry.Lookup(*platform)
	if !ok {
		log.Fatal().Str("platform", *platform).Strs("known", geometry.Platforms()).Msg("unknown platform")
	}

	var store config.Store = config.NewMemStore()
	if *settings != "" {
		fs, err := config.OpenFileStore(*settings)
		if err != nil {
			log.Fatal().Err(err).Str("path", *settings).Msg("settings store")
		}
		store = fs
	} else if !*splash {
		_ = store.Set(config.KeySplash, "0")
	}

	out, err := pngout.New(*outDir, true, lg)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *outDir).Msg("png output")
	}

	start, _ := prog.StartTime(time.Now())
	core, err := app.InitCore(app.Options{
		Platform: plat,
		Store:    store,
		Driver:   out,
		Clock24h: *clock24h,
		Now:      func() time.Time { return start },
		Log:      lg,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init face")
	}

	var handled atomic.Int64
	core.Loop.OnEvent = func(face.Event, face.Snapshot) { handled.Add(1) }
	post := &counter{to: core.Loop}

	cond, err := app.NewConductor(prog, post, time.Now(), lg)
	if err != nil {
		log.Fatal().Err(err).Msg("conductor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()

	began := time.Now()
	if err := cond.Run(ctx, *fps); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("conductor stopped")
	}

	// let the loop finish what the conductor posted
	deadline := time.Now().Add(2 * time.Second)
	for handled.Load() < post.sent.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		log.Error().Err(err).Msg("face loop")
	}

	snap := core.Loop.Snapshot()
	log.Info().
		Int("frames", out.Count()).
		Str("dir", *outDir).
		Dur("wall", time.Since(began)).
		Time("sim_clock", cond.Clock()).
		Int("activity", snap.State.ActivityCount).
		Int("power", snap.State.PowerPercent).
		Msg("simulation finished")

	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("close core")
	}
}
