package face

import (
	"image"

	"github.com/coreman2200/constellation/internal/assets"
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/layer"
	"github.com/coreman2200/constellation/internal/render"
)

const iconSize = 15

// buildLayers creates the live regions bottom to top.
func (f *Face) buildLayers() {
	b := f.win.Bounds()
	w, h := b.W, b.H
	round := f.geom.Shape == geometry.Round
	win := f.win

	f.layers.canvas = win.Add("canvas", b, f.drawCanvas)
	f.layers.top = win.Add("top", geometry.R(0, h/2-40, w, 24), f.textProc(&f.topText, render.FontLabel))
	f.layers.clock = win.Add("time", geometry.R(0, h/2-22, w-20, 32), f.textProc(&f.clockText, render.FontTime))
	f.layers.meridiem = win.Add("ampm",
		geometry.R(w/2+30, h/2-15, render.MeridiemSize.W, render.MeridiemSize.H), f.drawMeridiem)
	f.layers.bottom = win.Add("bottom", geometry.R(0, h/2+8, w, 24), f.textProc(&f.bottomText, render.FontLabel))

	bar := f.opts.PowerBar
	f.layers.power = win.Add("power",
		geometry.R((w-bar.Size.W)/2, h/2+8+24+5, bar.Size.W, bar.Size.H), f.drawPower)

	walkX, walkY := 5, h/2-iconSize+4
	flagX, flagY := w-iconSize-3, h/2-iconSize+4
	if round {
		walkX, walkY = walkX+8, walkY-3
		flagX, flagY = flagX-8, flagY-4
	}
	if img := f.lib.Get(assets.Walking); img != nil {
		f.layers.walk = win.Add("walk", geometry.R(walkX, walkY, iconSize, iconSize), bitmapProc(img))
		f.layers.topSteps = win.Add("top-steps", geometry.R(w/2+20, h/2-35, iconSize, iconSize), bitmapProc(img))
		f.layers.bottomSteps = win.Add("bottom-steps", geometry.R(w/2+20, h/2+13, iconSize, iconSize), bitmapProc(img))
	}
	if img := f.lib.Get(assets.Flag); img != nil {
		f.layers.flag = win.Add("flag", geometry.R(flagX, flagY, iconSize, iconSize), bitmapProc(img))
	}
}

func (f *Face) drawCanvas(c render.Canvas, _ *layer.Layer) {
	if f.cfg.ShowClockRing {
		render.DrawClockRing(c, f.geom, f.theme)
	}
	p := render.Progress(f.state.ActivityCount, f.state.ActivityGoal)
	render.DrawProgress(c, f.geom, f.cfg.TrackStyle, p, f.theme)
	if f.cfg.ShowSecondTicker {
		render.DrawIndicator(c, f.geom, f.state.CurrentSecond, f.theme)
	}
}

func (f *Face) drawMeridiem(c render.Canvas, l *layer.Layer) {
	render.DrawMeridiem(c, l.Bounds().Size(), f.state.IsAfternoon, render.MeridiemIcons{
		AMActive:   f.lib.Get(assets.AMActive),
		AMInactive: f.lib.Get(assets.AMInactive),
		PMActive:   f.lib.Get(assets.PMActive),
		PMInactive: f.lib.Get(assets.PMInactive),
	})
}

func (f *Face) drawPower(c render.Canvas, _ *layer.Layer) {
	render.DrawPowerBar(c, f.opts.PowerBar, f.state.PowerPercent, f.state.IsCharging, f.theme)
}

func (f *Face) textProc(s *string, font render.Font) layer.UpdateProc {
	return func(c render.Canvas, l *layer.Layer) {
		if *s == "" {
			return
		}
		c.DrawText(*s, font, l.Bounds(), render.AlignCenter, f.theme.Foreground)
	}
}

func bitmapProc(img image.Image) layer.UpdateProc {
	return func(c render.Canvas, l *layer.Layer) {
		c.DrawBitmap(img, l.Bounds())
	}
}
