// Package raster is the software render.Surface backed by gg.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"

	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
)

const (
	labelSize = 18
	timeSize  = 28
	// radialStep is the arc sampling interval for FillRadial, in radians.
	radialStep = math.Pi / 180
)

var (
	fontsOnce sync.Once
	fonts     map[render.Font]text.Face
	fontsErr  error
)

func loadFonts() (map[render.Font]text.Face, error) {
	fontsOnce.Do(func() {
		label, err := text.NewFontSource(gobold.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("label font: %w", err)
			return
		}
		clock, err := text.NewFontSource(gomedium.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("time font: %w", err)
			return
		}
		fonts = map[render.Font]text.Face{
			render.FontLabel: label.Face(labelSize),
			render.FontTime:  clock.Face(timeSize),
		}
	})
	return fonts, fontsErr
}

// Surface draws into a scratch gg context and commits only the region of
// the outermost Push to its frame buffer, so damage clipping is exact.
type Surface struct {
	dc     *gg.Context
	tmp    *gg.Context // stroke scratch, masked to the clip on copy
	fb     *image.RGBA
	bounds geometry.Rect
	frames []geometry.Rect
	fonts  map[render.Font]text.Face
}

func New(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", w, h)
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Surface{
		dc:     gg.NewContext(w, h),
		tmp:    gg.NewContext(w, h),
		fb:     image.NewRGBA(image.Rect(0, 0, w, h)),
		bounds: geometry.R(0, 0, w, h),
		fonts:  f,
	}, nil
}

func (s *Surface) Bounds() geometry.Rect { return s.bounds }

// Image is the committed frame. It is reused across frames.
func (s *Surface) Image() image.Image { return s.fb }

func (s *Surface) Close() error {
	err := s.dc.Close()
	if terr := s.tmp.Close(); err == nil {
		err = terr
	}
	return err
}

func (s *Surface) origin() geometry.Point {
	if len(s.frames) == 0 {
		return geometry.Point{}
	}
	return s.frames[len(s.frames)-1].Origin()
}

// clip is the intersection of every pushed frame.
func (s *Surface) clip() geometry.Rect {
	c := s.bounds
	for _, f := range s.frames {
		c = c.Intersect(f)
	}
	return c
}

func (s *Surface) Push(frame geometry.Rect) {
	abs := frame.Move(s.origin())
	if len(s.frames) == 0 {
		s.dc.Clear()
	}
	s.frames = append(s.frames, abs)
}

func (s *Surface) Pop() {
	if len(s.frames) == 0 {
		return
	}
	if len(s.frames) == 1 {
		s.commit(s.frames[0].Intersect(s.bounds))
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Surface) commit(r geometry.Rect) {
	if r.Empty() {
		return
	}
	_ = s.dc.FlushGPU()
	src := s.dc.Image()
	draw.Draw(s.fb, r.Image(), src, r.Image().Min, draw.Over)
}

// paint runs fn inside an implicit full-surface frame when nothing is
// pushed.
func (s *Surface) paint(fn func()) {
	if len(s.frames) == 0 {
		s.Push(s.bounds)
		defer s.Pop()
	}
	fn()
}

// clipped runs fn against the scratch context and copies only the part
// inside the current clip onto the frame being drawn. gg's own clip is
// not applied by its CPU rasterizer.
func (s *Surface) clipped(fn func(dc *gg.Context)) {
	c := s.clip()
	if c.Empty() {
		return
	}
	s.tmp.Clear()
	fn(s.tmp)
	_ = s.tmp.FlushGPU()
	crop := image.NewRGBA(image.Rect(0, 0, c.W, c.H))
	draw.Draw(crop, crop.Bounds(), s.tmp.Image(), image.Pt(c.X, c.Y), draw.Src)
	s.dc.DrawImage(gg.ImageBufFromImage(crop), float64(c.X), float64(c.Y))
}

func (s *Surface) FillRect(r geometry.Rect, c render.Color) {
	if c.Transparent() {
		return
	}
	s.paint(func() {
		r = r.Move(s.origin()).Intersect(s.clip())
		if r.Empty() {
			return
		}
		s.dc.SetColor(c)
		s.dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
		_ = s.dc.Fill()
	})
}

func (s *Surface) DrawRect(r geometry.Rect, c render.Color) {
	if c.Transparent() || r.Empty() {
		return
	}
	s.paint(func() {
		r = r.Move(s.origin())
		s.clipped(func(dc *gg.Context) {
			dc.SetColor(c)
			dc.SetLineWidth(1)
			dc.DrawRectangle(float64(r.X)+0.5, float64(r.Y)+0.5, float64(r.W-1), float64(r.H-1))
			_ = dc.Stroke()
		})
	})
}

func (s *Surface) DrawLine(a, b geometry.Point, width int, c render.Color) {
	if c.Transparent() || width <= 0 {
		return
	}
	s.paint(func() {
		o := s.origin()
		a, b = a.Add(o), b.Add(o)
		s.clipped(func(dc *gg.Context) {
			dc.SetColor(c)
			dc.SetLineWidth(float64(width))
			dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
			_ = dc.Stroke()
		})
	})
}

// FillRadial fills the band between the circle inscribed in r and the one
// inset pixels inside it, clockwise from start to end with 0 at twelve
// o'clock.
func (s *Surface) FillRadial(r geometry.Rect, inset int, start, end geometry.Angle, c render.Color) {
	if c.Transparent() || end <= start || r.Empty() {
		return
	}
	s.paint(func() {
		r = r.Move(s.origin())
		cx := float64(r.X) + float64(r.W)/2
		cy := float64(r.Y) + float64(r.H)/2
		outer := float64(min(r.W, r.H)) / 2
		inner := math.Max(0, outer-float64(inset))
		a0, a1 := start.Radians(), end.Radians()

		s.clipped(func(dc *gg.Context) {
			dc.SetColor(c)
			dc.MoveTo(cx+outer*math.Sin(a0), cy-outer*math.Cos(a0))
			for a := a0 + radialStep; a < a1; a += radialStep {
				dc.LineTo(cx+outer*math.Sin(a), cy-outer*math.Cos(a))
			}
			dc.LineTo(cx+outer*math.Sin(a1), cy-outer*math.Cos(a1))
			dc.LineTo(cx+inner*math.Sin(a1), cy-inner*math.Cos(a1))
			for a := a1 - radialStep; a > a0; a -= radialStep {
				dc.LineTo(cx+inner*math.Sin(a), cy-inner*math.Cos(a))
			}
			dc.LineTo(cx+inner*math.Sin(a0), cy-inner*math.Cos(a0))
			dc.ClosePath()
			_ = dc.Fill()
		})
	})
}

// DrawBitmap draws img at the top-left of r, cropped to r.
func (s *Surface) DrawBitmap(img image.Image, r geometry.Rect) {
	if img == nil {
		return
	}
	s.paint(func() {
		abs := r.Move(s.origin())
		vis := abs.Intersect(s.clip())
		if vis.Empty() {
			return
		}
		b := img.Bounds()
		src := image.NewRGBA(image.Rect(0, 0, vis.W, vis.H))
		sp := b.Min.Add(image.Pt(vis.X-abs.X, vis.Y-abs.Y))
		draw.Draw(src, src.Bounds(), img, sp, draw.Src)
		s.dc.DrawImage(gg.ImageBufFromImage(src), float64(vis.X), float64(vis.Y))
	})
}

func (s *Surface) DrawText(str string, f render.Font, r geometry.Rect, align render.Align, c render.Color) {
	face, ok := s.fonts[f]
	if str == "" || !ok || c.Transparent() {
		return
	}
	s.paint(func() {
		r = r.Move(s.origin())
		x, ax := float64(r.X), 0.0
		switch align {
		case render.AlignCenter:
			x, ax = float64(r.X)+float64(r.W)/2, 0.5
		case render.AlignRight:
			x, ax = float64(r.MaxX()), 1
		}
		s.clipped(func(dc *gg.Context) {
			dc.SetFont(face)
			dc.SetColor(c)
			dc.DrawStringAnchored(str, x, float64(r.Y), ax, 0.8)
		})
	})
}

