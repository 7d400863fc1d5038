package layer

import (
	"errors"
	"image"
	"image/draw"
	"time"

	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
)

// Driver receives finished frames (panel, PNG writer, preview socket...).
type Driver interface {
	Write(img image.Image) error
}

// Engine paints a window onto a surface, applies post-processing, then
// writes the frame to the driver.
type Engine struct {
	Win  *Window
	Surf render.Surface
	Drv  Driver

	frameID uint64
	post    render.PostPipeline

	// metrics of the last painted frame (durations in ms)
	Last struct {
		Damage   geometry.Rect
		Layers   []string
		RenderMS float64
		PostMS   float64
		TotalMS  float64
	}
}

func NewEngine(win *Window, surf render.Surface, drv Driver) (*Engine, error) {
	if win == nil || surf == nil {
		return nil, errors.New("window and surface are required")
	}
	if win.Bounds().Empty() {
		return nil, errors.New("invalid window bounds")
	}
	return &Engine{Win: win, Surf: surf, Drv: drv}, nil
}

func (e *Engine) SetPost(p render.PostPipeline) { e.post = p }

func (e *Engine) FrameID() uint64 { return e.frameID }

// RenderOnce paints pending damage. It reports whether a frame was produced.
func (e *Engine) RenderOnce() (bool, error) {
	if e.Win == nil || e.Win.Damage().Empty() {
		return false, nil
	}
	start := time.Now()

	area, drawn := e.Win.Paint(e.Surf)
	e.Last.Damage = area
	e.Last.Layers = drawn
	e.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0

	postStart := time.Now()
	frame := snapshot(e.Surf.Image())
	e.post.Apply(frame)
	e.Last.PostMS = float64(time.Since(postStart).Microseconds()) / 1000.0

	e.frameID++
	if e.Drv != nil {
		if err := e.Drv.Write(frame); err != nil {
			return true, err
		}
	}
	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0
	return true, nil
}

func snapshot(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Fanout writes each frame to every driver and returns the first error.
type Fanout []Driver

func (f Fanout) Write(img image.Image) error {
	var first error
	for _, d := range f {
		if d == nil {
			continue
		}
		if err := d.Write(img); err != nil && first == nil {
			first = err
		}
	}
	return first
}
