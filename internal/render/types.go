package render

import (
	"image"

	"github.com/coreman2200/constellation/internal/geometry"
)

// Color is an 8-bit RGBA value. It satisfies color.Color.
type Color struct{ R, G, B, A uint8 }

func (c Color) RGBA() (r, g, b, a uint32) {
	r, g, b, a = uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

func (c Color) Transparent() bool { return c.A == 0 }

var (
	Clear    = Color{}
	Black    = Color{0x00, 0x00, 0x00, 0xff}
	White    = Color{0xff, 0xff, 0xff, 0xff}
	DarkGray = Color{0x55, 0x55, 0x55, 0xff}
	Red      = Color{0xff, 0x00, 0x00, 0xff}
	Green    = Color{0x00, 0xff, 0x00, 0xff}
)

// Theme is the set of colors the face renderers draw with.
type Theme struct {
	Background Color
	Foreground Color
	Track      Color
	Indicator  Color
	Accent     Color
}

// ThemeFor returns the theme for a color or black & white display.
func ThemeFor(color bool) Theme {
	t := Theme{
		Background: Black,
		Foreground: White,
		Track:      DarkGray,
		Indicator:  White,
		Accent:     White,
	}
	if color {
		t.Indicator = Red
		t.Accent = Green
	}
	return t
}

type Font int

const (
	FontLabel Font = iota // 18px bold sans
	FontTime              // 28px numerals
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Canvas is the set of drawing primitives the renderers need. Coordinates
// are relative to the frame most recently pushed with Push.
type Canvas interface {
	FillRect(r geometry.Rect, c Color)
	DrawRect(r geometry.Rect, c Color)
	DrawLine(a, b geometry.Point, width int, c Color)
	// FillRadial fills the band of the circle fitted in r that is inset
	// pixels thick, from start to end clockwise.
	FillRadial(r geometry.Rect, inset int, start, end geometry.Angle, c Color)
	DrawBitmap(img image.Image, r geometry.Rect)
	DrawText(s string, f Font, r geometry.Rect, align Align, c Color)

	// Push moves the origin to frame's origin and clips to frame.
	Push(frame geometry.Rect)
	Pop()
}

// Surface is a Canvas backed by a readable image.
type Surface interface {
	Canvas
	Bounds() geometry.Rect
	Image() image.Image
}
