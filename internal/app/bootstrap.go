// Package app wires a face, its window, the paint engine and an event
// loop into one runnable core.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/assets"
	"github.com/coreman2200/constellation/internal/config"
	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/driver/raster"
	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/layer"
	"github.com/coreman2200/constellation/internal/render"
)

type Core struct {
	Face    *face.Face
	Loop    *face.Loop
	Eng     *layer.Engine
	Win     *layer.Window
	Journal *diag.Journal

	surf *raster.Surface
	log  zerolog.Logger
}

type Options struct {
	Platform  geometry.Platform
	Store     config.Store
	AssetsDir string // builtin icons when empty
	Driver    layer.Driver
	Clock24h  bool
	PowerBar  render.PowerBar
	Power     func() (int, bool)
	Now       func() time.Time
	Journal   *diag.Journal
	Log       zerolog.Logger
}

// InitCore builds everything and loads the face. Nothing runs until Run.
func InitCore(opts Options) (*Core, error) {
	if opts.Platform.Size.W == 0 {
		return nil, errors.New("platform is required")
	}
	if opts.Journal == nil {
		opts.Journal = diag.NewJournal(0)
	}

	surf, err := raster.New(opts.Platform.Size.W, opts.Platform.Size.H)
	if err != nil {
		return nil, fmt.Errorf("raster surface: %w", err)
	}
	win := layer.NewWindow(opts.Platform.Bounds(), render.ThemeFor(opts.Platform.Color).Background)
	eng, err := layer.NewEngine(win, surf, opts.Driver)
	if err != nil {
		surf.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	eng.SetPost(render.PostFor(opts.Platform.Color))

	var load func() (*assets.Library, error)
	if opts.AssetsDir != "" {
		dir := opts.AssetsDir
		load = func() (*assets.Library, error) { return assets.Load(dir, opts.Log) }
	}
	f := face.New(face.Options{
		Platform: opts.Platform,
		Store:    opts.Store,
		Assets:   load,
		PowerBar: opts.PowerBar,
		Clock24h: opts.Clock24h,
		Power:    opts.Power,
		Now:      opts.Now,
		Report:   opts.Journal.Report,
		Log:      opts.Log,
	})
	f.Init()
	loop := face.NewLoop(f, eng, opts.Log)
	f.Load(win)

	opts.Journal.Report(diag.Diagnostic{
		Severity: diag.Info, Code: diag.FaceLoaded, Summary: "Face loaded",
		Evidence: map[string]any{"platform": opts.Platform.Name, "phase": f.Phase().String()},
	})
	return &Core{Face: f, Loop: loop, Eng: eng, Win: win, Journal: opts.Journal, surf: surf, log: opts.Log}, nil
}

// Run drives the event loop until ctx is done.
func (c *Core) Run(ctx context.Context) error {
	err := c.Loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close tears the face down. Call it after Run has returned.
func (c *Core) Close() error {
	regions := c.Face.Unload()
	bitmaps := c.Face.Deinit()
	c.log.Info().Int("regions", regions).Int("bitmaps", bitmaps).Msg("face closed")
	return c.surf.Close()
}
