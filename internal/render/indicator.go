package render

import "github.com/coreman2200/constellation/internal/geometry"

const (
	IndicatorSize = 4

	roundInset     = 6
	minRoundRadius = 5
	edgeInset      = 3
)

// IndicatorPosition maps a second (0-59) to the indicator center.
func IndicatorPosition(s geometry.Screen, second int) geometry.Point {
	if s.Shape == geometry.Round {
		return roundPosition(s.Bounds, second)
	}
	return perimeterPosition(s.Bounds, second)
}

func roundPosition(b geometry.Rect, second int) geometry.Point {
	r := b.W/2 - roundInset
	if r < minRoundRadius {
		r = minRoundRadius
	}
	return geometry.Polar(b.Center(), geometry.Turn(second, 60), r)
}

// perimeterPosition walks the inset rectangle clockwise starting from
// top-middle at second 0.
func perimeterPosition(b geometry.Rect, second int) geometry.Point {
	left := b.X + edgeInset
	right := b.X + b.W - 1 - edgeInset
	top := b.Y + edgeInset
	bottom := b.Y + b.H - 1 - edgeInset
	w, h := right-left, bottom-top

	p := geometry.Pt(left, top)
	if w <= 0 || h <= 0 {
		return p
	}
	perimeter := 2 * (w + h)
	d := (perimeter*second/60 + w/2) % perimeter

	switch {
	case d <= w:
		p = geometry.Pt(left+d, top)
	case d <= w+h:
		p = geometry.Pt(right, top+(d-w))
	case d <= 2*w+h:
		p = geometry.Pt(right-(d-w-h), bottom)
	default:
		p = geometry.Pt(left, bottom-(d-2*w-h))
	}
	return p
}

func DrawIndicator(c Canvas, s geometry.Screen, second int, th Theme) {
	p := IndicatorPosition(s, second)
	half := IndicatorSize / 2
	c.FillRect(geometry.R(p.X-half, p.Y-half, IndicatorSize, IndicatorSize), th.Indicator)
}
