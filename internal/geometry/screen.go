package geometry

const (
	TrackWidth  = 15
	TrackMargin = 4

	refWidth  = 150
	refHeight = 168
	ringGap   = 3
)

// Screen holds every shape-dependent value the face needs. It is computed
// once per window load and never mutated.
type Screen struct {
	Shape  Shape
	Bounds Rect

	TrackRadius int
	TrackBounds Rect
	TrackCenter Point

	RingCenter Point
	RingRadius int
}

type options struct {
	ringInset int
}

type Option func(*options)

// WithRingInset pulls the clock ring further in by n pixels.
func WithRingInset(n int) Option { return func(o *options) { o.ringInset = n } }

// Compute derives the screen geometry for shape within bounds.
// Degenerate bounds produce degenerate geometry.
func Compute(shape Shape, bounds Rect, opts ...Option) Screen {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	s := Screen{Shape: shape, Bounds: bounds}
	switch shape {
	case Round:
		xOff := (bounds.W-refWidth)/2 + bounds.X
		yOff := (bounds.H-refHeight)/2 + bounds.Y
		s.TrackRadius = refWidth/2 + TrackMargin
		diameter := 2 * s.TrackRadius
		s.TrackCenter = Point{xOff + refWidth/2, yOff + refHeight + TrackMargin - 3}
		s.TrackBounds = Rect{s.TrackCenter.X - s.TrackRadius, yOff + 7, diameter, diameter}
	default:
		s.TrackRadius = bounds.W/2 + TrackMargin
		diameter := 2*s.TrackRadius - TrackWidth
		s.TrackCenter = Point{bounds.X + bounds.W/2, bounds.Y + bounds.H + TrackMargin - 3}
		s.TrackBounds = Rect{s.TrackCenter.X - s.TrackRadius + 8, bounds.Y + 22, diameter, diameter}
	}

	s.RingCenter = bounds.Center()
	s.RingRadius = s.TrackRadius - TrackWidth - ringGap - o.ringInset
	return s
}
