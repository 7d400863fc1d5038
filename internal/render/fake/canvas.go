// Package fake provides a render.Canvas that records every call, for tests
// and headless runs.
package fake

import (
	"image"

	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
)

type Kind string

const (
	FillRect   Kind = "fill"
	DrawRect   Kind = "rect"
	DrawLine   Kind = "line"
	FillRadial Kind = "radial"
	DrawBitmap Kind = "bitmap"
	DrawText   Kind = "text"
)

// Op is one recorded primitive. Geometry is in absolute screen coordinates.
type Op struct {
	Kind       Kind
	Rect       geometry.Rect
	A, B       geometry.Point
	Width      int
	Inset      int
	Start, End geometry.Angle
	Color      render.Color
	Text       string
	Font       render.Font
	Align      render.Align
	Image      image.Image
}

// Canvas records primitives instead of drawing them.
type Canvas struct {
	Ops []Op

	bounds geometry.Rect
	frames []geometry.Rect
}

func New(w, h int) *Canvas {
	return &Canvas{bounds: geometry.R(0, 0, w, h)}
}

func (c *Canvas) origin() geometry.Point {
	if len(c.frames) == 0 {
		return geometry.Point{}
	}
	return c.frames[len(c.frames)-1].Origin()
}

func (c *Canvas) add(op Op) { c.Ops = append(c.Ops, op) }

func (c *Canvas) FillRect(r geometry.Rect, col render.Color) {
	c.add(Op{Kind: FillRect, Rect: r.Move(c.origin()), Color: col})
}

func (c *Canvas) DrawRect(r geometry.Rect, col render.Color) {
	c.add(Op{Kind: DrawRect, Rect: r.Move(c.origin()), Color: col})
}

func (c *Canvas) DrawLine(a, b geometry.Point, width int, col render.Color) {
	o := c.origin()
	c.add(Op{Kind: DrawLine, A: a.Add(o), B: b.Add(o), Width: width, Color: col})
}

func (c *Canvas) FillRadial(r geometry.Rect, inset int, start, end geometry.Angle, col render.Color) {
	c.add(Op{Kind: FillRadial, Rect: r.Move(c.origin()), Inset: inset, Start: start, End: end, Color: col})
}

func (c *Canvas) DrawBitmap(img image.Image, r geometry.Rect) {
	c.add(Op{Kind: DrawBitmap, Rect: r.Move(c.origin()), Image: img})
}

func (c *Canvas) DrawText(s string, f render.Font, r geometry.Rect, align render.Align, col render.Color) {
	c.add(Op{Kind: DrawText, Rect: r.Move(c.origin()), Text: s, Font: f, Align: align, Color: col})
}

func (c *Canvas) Push(frame geometry.Rect) {
	c.frames = append(c.frames, frame.Move(c.origin()))
}

func (c *Canvas) Pop() {
	if len(c.frames) > 0 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

func (c *Canvas) Bounds() geometry.Rect { return c.bounds }

func (c *Canvas) Image() image.Image { return image.NewRGBA(c.bounds.Image()) }

// Of returns the recorded ops of kind k in order.
func (c *Canvas) Of(k Kind) []Op {
	var out []Op
	for _, op := range c.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings drawn, in order.
func (c *Canvas) Texts() []string {
	var out []string
	for _, op := range c.Of(DrawText) {
		out = append(out, op.Text)
	}
	return out
}

func (c *Canvas) Reset() { c.Ops = nil }
