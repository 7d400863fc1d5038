// Package face is the watch face itself: it owns the render state and the
// display configuration, creates the drawable regions, and turns events
// into targeted repaints.
package face

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/assets"
	"github.com/coreman2200/constellation/internal/config"
	"github.com/coreman2200/constellation/internal/dateformat"
	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/layer"
	"github.com/coreman2200/constellation/internal/reconcile"
	"github.com/coreman2200/constellation/internal/render"
)

const SplashDuration = 2000 * time.Millisecond

type Phase int

const (
	Uninitialized Phase = iota
	SplashShowing
	Active
	Unloading
)

func (p Phase) String() string {
	switch p {
	case SplashShowing:
		return "splash"
	case Active:
		return "active"
	case Unloading:
		return "unloading"
	}
	return "uninitialized"
}

// State is the cached data the renderers draw from.
type State struct {
	CurrentSecond int       `json:"current_second"`
	IsAfternoon   bool      `json:"is_afternoon"`
	ActivityCount int       `json:"activity_count"`
	ActivityGoal  int       `json:"activity_goal"`
	PowerPercent  int       `json:"power_percent"`
	IsCharging    bool      `json:"is_charging"`
	Now           time.Time `json:"now"`
}

type Options struct {
	Platform geometry.Platform
	Store    config.Store
	// Assets supplies the bitmap library on Init. Builtin icons are used
	// when nil.
	Assets    func() (*assets.Library, error)
	Scheduler Scheduler
	PowerBar  render.PowerBar
	Clock24h  bool
	// Power peeks the current battery state when the face activates.
	Power func() (percent int, charging bool)
	// Now is used when the face activates before the first tick.
	Now    func() time.Time
	Report func(diag.Diagnostic)
	Log    zerolog.Logger
}

type regions struct {
	splash, canvas               *layer.Layer
	top, clock, meridiem, bottom *layer.Layer
	power, walk, flag            *layer.Layer
	topSteps, bottomSteps        *layer.Layer
}

func (r *regions) all() []**layer.Layer {
	return []**layer.Layer{
		&r.splash, &r.canvas, &r.top, &r.clock, &r.meridiem, &r.bottom,
		&r.power, &r.walk, &r.flag, &r.topSteps, &r.bottomSteps,
	}
}

type Face struct {
	opts  Options
	log   zerolog.Logger
	phase Phase
	state State
	cfg   config.Display
	theme render.Theme
	geom  geometry.Screen

	lib *assets.Library
	rec *reconcile.Reconciler

	win    *layer.Window
	gen    uint64
	layers regions

	topText, clockText, bottomText string
}

func New(opts Options) *Face {
	if opts.PowerBar.Size.W == 0 {
		opts.PowerBar = render.PlainPowerBar
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Log.With().Str("component", "face").Logger()
	return &Face{
		opts:  opts,
		log:   log,
		cfg:   config.Defaults(),
		theme: render.ThemeFor(opts.Platform.Color),
		state: State{PowerPercent: 100, ActivityGoal: config.DefaultGoal},
		rec:   reconcile.New(opts.Store, opts.Log),
	}
}

func (f *Face) SetScheduler(s Scheduler) { f.opts.Scheduler = s }

func (f *Face) HasScheduler() bool { return f.opts.Scheduler != nil }

func (f *Face) Phase() Phase           { return f.phase }
func (f *Face) State() State           { return f.state }
func (f *Face) Config() config.Display { return f.cfg }
func (f *Face) Generation() uint64     { return f.gen }

// Init loads persisted settings and bitmaps.
func (f *Face) Init() {
	f.cfg = config.LoadDisplay(f.opts.Store, f.opts.Log)
	f.state.ActivityGoal = config.ClampGoal(f.cfg.ActivityGoal)

	lib := assets.Builtin()
	if f.opts.Assets != nil {
		l, err := f.opts.Assets()
		if err != nil {
			f.log.Warn().Err(err).Msg("asset load failed; using builtin icons")
		} else {
			lib = l
		}
	}
	f.lib = lib
	for _, id := range lib.Missing() {
		f.log.Warn().Str("asset", string(id)).Msg("asset missing; element will be skipped")
		f.report(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.AssetMissing, Summary: "Bitmap not found",
			Evidence: map[string]any{"asset": string(id)},
		})
	}
	f.log.Info().Str("platform", f.opts.Platform.Name).Int("goal", f.cfg.ActivityGoal).Msg("face initialized")
}

// Load attaches the face to a window and starts the splash or goes live.
func (f *Face) Load(win *layer.Window) {
	f.win = win
	f.gen++
	f.geom = f.screenFor(win.Bounds())

	if !f.cfg.ShowSplashScreen {
		f.activate()
		return
	}
	f.phase = SplashShowing
	if img := f.lib.Get(assets.LogoID(string(f.cfg.SplashLogo))); img != nil {
		b := img.Bounds()
		frame := win.Bounds().CenterIn(geometry.Size{W: b.Dx(), H: b.Dy()})
		f.layers.splash = win.Add("splash", frame, func(c render.Canvas, l *layer.Layer) {
			c.DrawBitmap(img, l.Bounds())
		})
	}
	if f.opts.Scheduler != nil {
		f.opts.Scheduler.After(SplashDuration, SplashElapsed{Generation: f.gen})
	}
	f.log.Info().Str("logo", string(f.cfg.SplashLogo)).Msg("splash showing")
}

func (f *Face) screenFor(b geometry.Rect) geometry.Screen {
	var opts []geometry.Option
	if f.opts.Platform.RingInset > 0 {
		opts = append(opts, geometry.WithRingInset(f.opts.Platform.RingInset))
	}
	return geometry.Compute(f.opts.Platform.Shape, b, opts...)
}

// Dispatch handles one event. Events before Load or after Unload are
// dropped.
func (f *Face) Dispatch(ev Event) {
	if f.phase == Uninitialized || f.phase == Unloading {
		f.log.Debug().Str("phase", f.phase.String()).Msgf("dropping %T", ev)
		return
	}
	switch e := ev.(type) {
	case TickEvent:
		f.onTick(e.Time)
	case PowerEvent:
		f.onPower(e.Percent, e.Charging)
	case ActivityEvent:
		f.onActivity(e.Count)
	case MessageEvent:
		f.onMessage(e.Values)
	case SplashElapsed:
		f.onSplashElapsed(e.Generation)
	}
}

func (f *Face) onSplashElapsed(gen uint64) {
	if f.phase != SplashShowing || gen != f.gen {
		f.log.Debug().Uint64("gen", gen).Msg("stale splash timer")
		return
	}
	if f.layers.splash != nil {
		f.layers.splash.Destroy()
		f.layers.splash = nil
	}
	f.activate()
}

func (f *Face) onTick(t time.Time) {
	f.state.Now = t
	f.state.CurrentSecond = t.Second()
	pm := t.Hour() >= 12
	if pm != f.state.IsAfternoon {
		f.state.IsAfternoon = pm
		f.layers.meridiem.MarkDirty()
	}
	f.refreshTexts()
	if f.cfg.ShowSecondTicker {
		f.layers.canvas.MarkDirty()
	}
}

func (f *Face) onPower(percent int, charging bool) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent == f.state.PowerPercent && charging == f.state.IsCharging {
		return
	}
	f.state.PowerPercent, f.state.IsCharging = percent, charging
	f.layers.power.MarkDirty()
}

func (f *Face) onActivity(count int) {
	if count < 0 {
		count = 0
	}
	if count == f.state.ActivityCount {
		return
	}
	f.state.ActivityCount = count
	f.layers.canvas.MarkDirty()
	f.refreshTexts()
}

func (f *Face) onMessage(msg reconcile.Message) {
	out := f.rec.Apply(f.cfg, msg)
	f.cfg = out.Config
	f.state.ActivityGoal = config.ClampGoal(f.cfg.ActivityGoal)

	for _, key := range out.Ignored {
		f.report(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.ConfigIgnored, Summary: "Config value ignored",
			Evidence: map[string]any{"key": key, "value": msg[key]},
		})
	}
	if out.PersistErr != nil {
		f.report(diag.Diagnostic{
			Severity: diag.Err, Code: diag.StoreWriteFailed, Summary: "Settings not saved",
			Detail: out.PersistErr.Error(),
		})
	}

	if out.Has(config.KeyTicker) || out.Has(config.KeyRing) || out.Has(config.KeyGoal) || out.Has(config.KeyTrackStyle) {
		f.layers.canvas.MarkDirty()
	}
	if out.Has(config.KeyTopFormat) || out.Has(config.KeyBottomFormat) {
		f.refreshTexts()
		f.syncStepIcons()
	}
	f.log.Info().Strs("changed", out.Changed).Msg("config message applied")
}

// activate builds every live region and enters Active.
func (f *Face) activate() {
	f.phase = Active
	if f.opts.Power != nil {
		f.state.PowerPercent, f.state.IsCharging = f.opts.Power()
	}
	if f.state.Now.IsZero() {
		now := f.opts.Now()
		f.state.Now = now
		f.state.CurrentSecond = now.Second()
		f.state.IsAfternoon = now.Hour() >= 12
	}
	f.buildLayers()
	f.refreshTexts()
	f.syncStepIcons()
	f.log.Info().Uint64("gen", f.gen).Msg("face active")
}

// Unload destroys every region this face created and returns how many
// were destroyed. Later events are ignored.
func (f *Face) Unload() int {
	n := 0
	all := f.layers.all()
	for i := len(all) - 1; i >= 0; i-- {
		if l := *all[i]; l != nil {
			if l.Destroy() {
				n++
			}
			*all[i] = nil
		}
	}
	f.phase = Unloading
	f.win = nil
	f.log.Info().Int("regions", n).Msg("face unloaded")
	return n
}

// Deinit releases the bitmaps and returns how many were freed.
func (f *Face) Deinit() int {
	n := f.lib.Release()
	f.log.Debug().Int("bitmaps", n).Msg("assets released")
	return n
}

func (f *Face) report(d diag.Diagnostic) {
	if f.opts.Report != nil {
		f.opts.Report(d)
	}
}

func (f *Face) refreshTexts() {
	t := f.state.Now
	n := f.state.ActivityCount
	setText(&f.topText, dateformat.Format(t, f.cfg.TopFormat, n), f.layers.top)
	setText(&f.bottomText, dateformat.Format(t, f.cfg.BottomFormat, n), f.layers.bottom)
	setText(&f.clockText, clockText(t, f.opts.Clock24h), f.layers.clock)
}

func setText(dst *string, s string, l *layer.Layer) {
	if *dst == s {
		return
	}
	*dst = s
	l.MarkDirty()
}

func clockText(t time.Time, h24 bool) string {
	if t.IsZero() {
		return ""
	}
	if h24 {
		return t.Format("15:04")
	}
	return t.Format("03:04")
}

func (f *Face) syncStepIcons() {
	f.layers.topSteps.SetHidden(f.cfg.TopFormat != dateformat.StepCount)
	f.layers.bottomSteps.SetHidden(f.cfg.BottomFormat != dateformat.StepCount)
}
