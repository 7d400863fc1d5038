package render

import (
	"strings"

	"github.com/coreman2200/constellation/internal/geometry"
)

// TrackStyle selects how activity progress is drawn.
type TrackStyle int

const (
	ArcTrack TrackStyle = iota
	LineTrack
)

func (s TrackStyle) String() string {
	if s == LineTrack {
		return "line"
	}
	return "arc"
}

func ParseTrackStyle(v string) (TrackStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "arc":
		return ArcTrack, true
	case "line":
		return LineTrack, true
	}
	return ArcTrack, false
}

// Progress is count/goal clamped to [0,1]. A goal <= 0 reads as no progress.
func Progress(count, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := float64(count) / float64(goal)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func DrawProgress(c Canvas, s geometry.Screen, style TrackStyle, p float64, th Theme) {
	if style == LineTrack {
		DrawProgressLine(c, s.Bounds.Size(), p, th)
		return
	}
	DrawProgressArc(c, s, p, th)
}

// DrawProgressArc fills the lower half-ring from 9 o'clock toward 3 o'clock.
func DrawProgressArc(c Canvas, s geometry.Screen, p float64, th Theme) {
	end := geometry.Degrees(270)
	c.FillRadial(s.TrackBounds, geometry.TrackWidth, geometry.Degrees(90), end, th.Track)
	if p <= 0 {
		return
	}
	start := geometry.Degrees(270 - int(180*p))
	c.FillRadial(s.TrackBounds, geometry.TrackWidth, start, end, th.Foreground)
}

const (
	lineMargin = 3
	lineWidth  = geometry.TrackWidth
)

// LineTrackLayout is the U-shaped track of the line style.
type LineTrackLayout struct {
	Left, Right, Top, Bottom int
	Vertical, Horizontal     int
}

func NewLineTrack(size geometry.Size) LineTrackLayout {
	l := LineTrackLayout{
		Left:   lineMargin,
		Right:  size.W - lineMargin - lineWidth,
		Top:    size.H/2 + 7,
		Bottom: size.H - lineMargin - lineWidth,
	}
	l.Vertical = l.Bottom - l.Top
	l.Horizontal = l.Right - l.Left
	return l
}

func (l LineTrackLayout) Length() int { return 2*l.Vertical + l.Horizontal }

func (l LineTrackLayout) Background() []geometry.Rect {
	return []geometry.Rect{
		geometry.R(l.Left, l.Top, lineWidth, l.Vertical),
		geometry.R(l.Left, l.Bottom, l.Horizontal+lineWidth, lineWidth),
		geometry.R(l.Right, l.Top, lineWidth, l.Vertical),
	}
}

// Fill returns the foreground rects covering distance d along the track:
// down the left side, across the bottom, then up the right side.
func (l LineTrackLayout) Fill(d int) []geometry.Rect {
	var out []geometry.Rect
	switch {
	case d <= 0:
	case d <= l.Vertical:
		out = append(out, geometry.R(l.Left, l.Top, lineWidth, d))
	case d <= l.Vertical+l.Horizontal:
		out = append(out,
			geometry.R(l.Left, l.Top, lineWidth, l.Vertical),
			geometry.R(l.Left, l.Bottom, d-l.Vertical, lineWidth),
		)
	default:
		rise := d - l.Vertical - l.Horizontal
		if rise > l.Vertical {
			rise = l.Vertical
		}
		out = append(out,
			geometry.R(l.Left, l.Top, lineWidth, l.Vertical),
			geometry.R(l.Left, l.Bottom, l.Horizontal+lineWidth, lineWidth),
			geometry.R(l.Right, l.Bottom-rise, lineWidth, rise),
		)
	}
	return out
}

func DrawProgressLine(c Canvas, size geometry.Size, p float64, th Theme) {
	l := NewLineTrack(size)
	for _, r := range l.Background() {
		c.FillRect(r, th.Track)
	}
	if p <= 0 {
		return
	}
	for _, r := range l.Fill(int(float64(l.Length()) * p)) {
		if !r.Empty() {
			c.FillRect(r, th.Foreground)
		}
	}
}
