package render

import "github.com/coreman2200/constellation/internal/geometry"

const (
	RingTicks = 60

	majorTickLen   = 5
	majorTickWidth = 2
	minorTickLen   = 2
	minorTickWidth = 1
)

// Tick is one clock-ring mark from the outer edge inward.
type Tick struct {
	Outer, Inner geometry.Point
	Width        int
	Major        bool
}

// Ticks lays out the 60 ring marks around center at radius outer.
func Ticks(center geometry.Point, outer int) []Tick {
	out := make([]Tick, 0, RingTicks)
	for i := 0; i < RingTicks; i++ {
		a := geometry.Turn(i, RingTicks)
		t := Tick{Width: minorTickWidth}
		length := minorTickLen
		if i%5 == 0 {
			t.Major, t.Width, length = true, majorTickWidth, majorTickLen
		}
		t.Outer = geometry.Polar(center, a, outer)
		t.Inner = geometry.Polar(center, a, outer-length)
		out = append(out, t)
	}
	return out
}

func DrawClockRing(c Canvas, s geometry.Screen, th Theme) {
	for _, t := range Ticks(s.RingCenter, s.RingRadius) {
		c.DrawLine(t.Outer, t.Inner, t.Width, th.Track)
	}
}
