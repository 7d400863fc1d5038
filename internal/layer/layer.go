// Package layer tracks the drawable regions of a window and which of them
// need repainting.
package layer

import (
	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
)

// UpdateProc paints a layer. The canvas origin is the layer's top-left
// corner and drawing is clipped to the layer.
type UpdateProc func(c render.Canvas, l *Layer)

type Layer struct {
	Name string

	frame     geometry.Rect
	hidden    bool
	dirty     bool
	destroyed bool
	update    UpdateProc
	win       *Window
}

func (l *Layer) Frame() geometry.Rect  { return l.frame }
func (l *Layer) Bounds() geometry.Rect { return geometry.R(0, 0, l.frame.W, l.frame.H) }
func (l *Layer) Hidden() bool          { return l.hidden }
func (l *Layer) Dirty() bool           { return l.dirty }
func (l *Layer) Destroyed() bool       { return l.destroyed }

// MarkDirty schedules the layer for repaint. Calls on a destroyed layer are
// ignored.
func (l *Layer) MarkDirty() {
	if l == nil || l.destroyed {
		return
	}
	l.dirty = true
	l.win.damage(l.frame)
}

func (l *Layer) SetHidden(hidden bool) {
	if l == nil || l.destroyed || l.hidden == hidden {
		return
	}
	l.hidden = hidden
	l.dirty = true
	l.win.damage(l.frame)
}

// Destroy removes the layer from its window and reports whether this call
// did the removal.
func (l *Layer) Destroy() bool {
	if l == nil || l.destroyed {
		return false
	}
	l.destroyed = true
	l.win.remove(l)
	l.win.damage(l.frame)
	return true
}

// Window is an ordered stack of layers over a solid background.
type Window struct {
	Background render.Color

	bounds  geometry.Rect
	layers  []*Layer
	damaged geometry.Rect
}

func NewWindow(bounds geometry.Rect, bg render.Color) *Window {
	return &Window{Background: bg, bounds: bounds, damaged: bounds}
}

func (w *Window) Bounds() geometry.Rect { return w.bounds }

// Add creates a layer on top of the stack. It starts dirty.
func (w *Window) Add(name string, frame geometry.Rect, fn UpdateProc) *Layer {
	l := &Layer{Name: name, frame: frame, update: fn, win: w}
	w.layers = append(w.layers, l)
	l.MarkDirty()
	return l
}

func (w *Window) Layers() []*Layer {
	out := make([]*Layer, len(w.layers))
	copy(out, w.layers)
	return out
}

// Damage is the union of regions awaiting repaint.
func (w *Window) Damage() geometry.Rect { return w.damaged }

func (w *Window) damage(r geometry.Rect) {
	w.damaged = w.damaged.Union(r.Intersect(w.bounds))
}

func (w *Window) remove(l *Layer) {
	for i, x := range w.layers {
		if x == l {
			w.layers = append(w.layers[:i], w.layers[i+1:]...)
			return
		}
	}
}

// Paint repaints the damaged region: background first, then every visible
// layer that overlaps it in stacking order. It returns the painted region
// and the names of the layers drawn.
func (w *Window) Paint(c render.Canvas) (geometry.Rect, []string) {
	area := w.damaged
	if area.Empty() {
		return area, nil
	}
	w.damaged = geometry.Rect{}

	var drawn []string
	c.Push(area)
	c.FillRect(geometry.R(0, 0, area.W, area.H), w.Background)
	for _, l := range w.layers {
		l.dirty = false
		if l.hidden || l.update == nil || l.frame.Intersect(area).Empty() {
			continue
		}
		c.Push(l.frame.Move(geometry.Pt(-area.X, -area.Y)))
		l.update(c, l)
		c.Pop()
		drawn = append(drawn, l.Name)
	}
	c.Pop()
	return area, drawn
}
