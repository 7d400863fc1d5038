package geometry

import "image"

type Point struct{ X, Y int }

func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

type Size struct{ W, H int }

// Rect is an integer rectangle in screen pixels, origin top-left.
type Rect struct{ X, Y, W, H int }

func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Size() Size        { return Size{r.W, r.H} }
func (r Rect) Origin() Point     { return Point{r.X, r.Y} }
func (r Rect) Empty() bool       { return r.W <= 0 || r.H <= 0 }
func (r Rect) MaxX() int         { return r.X + r.W }
func (r Rect) MaxY() int         { return r.Y + r.H }
func (r Rect) Center() Point     { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Move(p Point) Rect { return Rect{r.X + p.X, r.Y + p.Y, r.W, r.H} }

// Contains reports whether p lies inside r (max edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := maxInt(r.X, o.X), maxInt(r.Y, o.Y)
	x1, y1 := minInt(r.MaxX(), o.MaxX()), minInt(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rect covering both. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := minInt(r.X, o.X), minInt(r.Y, o.Y)
	x1, y1 := maxInt(r.MaxX(), o.MaxX()), maxInt(r.MaxY(), o.MaxY())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// CenterIn returns a rect of size s centered inside r.
func (r Rect) CenterIn(s Size) Rect {
	return Rect{r.X + (r.W-s.W)/2, r.Y + (r.H-s.H)/2, s.W, s.H}
}

func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.MaxX(), r.MaxY())
}

func FromImage(b image.Rectangle) Rect {
	return Rect{b.Min.X, b.Min.Y, b.Dx(), b.Dy()}
}

// Shape is the physical outline of the display.
type Shape int

const (
	Rectangular Shape = iota
	Round
)

func (s Shape) String() string {
	if s == Round {
		return "round"
	}
	return "rect"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
