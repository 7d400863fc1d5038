package render

import "github.com/coreman2200/constellation/internal/geometry"

// PowerBar is the layout of a battery gauge. Padding > 0 leaves room for
// the charging outline.
type PowerBar struct {
	Size    geometry.Size
	Padding int
}

var (
	PlainPowerBar    = PowerBar{Size: geometry.Size{W: 25, H: 2}}
	BorderedPowerBar = PowerBar{Size: geometry.Size{W: 29, H: 6}, Padding: 2}
)

func (b PowerBar) inner() geometry.Rect {
	return geometry.R(b.Padding, b.Padding, b.Size.W-2*b.Padding, b.Size.H-2*b.Padding)
}

// FillWidth is the foreground width for percent, clamped to the bar.
func (b PowerBar) FillWidth(percent int) int {
	avail := b.inner().W
	w := percent * avail / 100
	if w < 0 {
		return 0
	}
	if w > avail {
		return avail
	}
	return w
}

// DrawPowerBar draws the gauge in the current frame, origin at 0,0.
func DrawPowerBar(c Canvas, b PowerBar, percent int, charging bool, th Theme) {
	in := b.inner()
	c.FillRect(in, th.Track)
	if charging && b.Padding > 0 {
		c.DrawRect(geometry.R(0, 0, b.Size.W, b.Size.H), th.Accent)
	}
	w := b.FillWidth(percent)
	if w == 0 {
		return
	}
	fg := th.Foreground
	if charging {
		fg = th.Accent
	}
	c.FillRect(geometry.R(in.X, in.Y, w, in.H), fg)
}
