package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
)

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func at(s *Surface, x, y int) color.RGBA { return s.fb.RGBAAt(x, y) }

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(0, 10)
	assert.Error(t, err)
}

func TestNestedFramesOffsetAndClip(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.Push(geometry.R(10, 10, 50, 50))
	s.Push(geometry.R(5, 5, 10, 10))
	s.FillRect(geometry.R(0, 0, 100, 100), render.Red)
	s.Pop()
	s.Pop()

	assert.Equal(t, uint8(0xff), at(s, 20, 20).R)
	assert.Zero(t, at(s, 14, 14).A)
	assert.Zero(t, at(s, 30, 30).A)
}

func litOutside(s *Surface, r geometry.Rect) (inside, outside int) {
	b := s.fb.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if at(s, x, y).A == 0 {
				continue
			}
			if r.Contains(geometry.Pt(x, y)) {
				inside++
			} else {
				outside++
			}
		}
	}
	return inside, outside
}

func TestNestedFramesClipStrokesAndText(t *testing.T) {
	cases := map[string]func(s *Surface){
		"line": func(s *Surface) {
			s.DrawLine(geometry.Pt(-30, 5), geometry.Pt(40, 5), 2, render.White)
		},
		"text": func(s *Surface) {
			s.DrawText("MMMMMM", render.FontLabel, geometry.R(-20, -5, 50, 24), render.AlignCenter, render.White)
		},
		"rect": func(s *Surface) {
			s.DrawRect(geometry.R(5, -10, 30, 30), render.White)
		},
		"radial": func(s *Surface) {
			s.FillRadial(geometry.R(-40, -40, 80, 80), 45, 0, geometry.FullTurn, render.White)
		},
	}
	nested := geometry.R(40, 40, 10, 10)
	for name, draw := range cases {
		t.Run(name, func(t *testing.T) {
			s := newSurface(t, 100, 100)
			s.Push(geometry.R(0, 0, 100, 100))
			s.Push(nested)
			draw(s)
			s.Pop()
			s.Pop()

			inside, outside := litOutside(s, nested)
			assert.Positive(t, inside)
			assert.Zero(t, outside)
		})
	}
}

func TestCommitLeavesOutsideUntouched(t *testing.T) {
	s := newSurface(t, 100, 20)
	s.FillRect(geometry.R(0, 0, 100, 20), render.Red)

	s.Push(geometry.R(0, 0, 10, 10))
	s.DrawLine(geometry.Pt(0, 5), geometry.Pt(99, 5), 3, render.Green)
	s.Pop()

	assert.Equal(t, render.Red.R, at(s, 50, 5).R)
	assert.Zero(t, at(s, 50, 5).G)
	assert.Greater(t, at(s, 5, 5).G, at(s, 5, 5).R)
}

func TestFillRadialFullRing(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.FillRadial(geometry.R(0, 0, 100, 100), 10, 0, geometry.FullTurn, render.White)

	assert.Equal(t, uint8(0xff), at(s, 50, 5).R)
	assert.Equal(t, uint8(0xff), at(s, 95, 50).G)
	assert.Zero(t, at(s, 50, 50).A)
}

func TestFillRadialHalf(t *testing.T) {
	s := newSurface(t, 100, 100)
	// twelve through six o'clock is the right half
	s.FillRadial(geometry.R(0, 0, 100, 100), 10, 0, geometry.FullTurn/2, render.White)

	assert.Equal(t, uint8(0xff), at(s, 95, 50).R)
	assert.Zero(t, at(s, 5, 50).A)
}

func TestDrawBitmapCropped(t *testing.T) {
	s := newSurface(t, 20, 20)
	blue := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(blue.Pix); i += 4 {
		copy(blue.Pix[i:], []byte{0, 0, 0xff, 0xff})
	}
	s.DrawBitmap(blue, geometry.R(2, 2, 4, 4))

	assert.Greater(t, at(s, 3, 3).B, uint8(200))
	assert.Zero(t, at(s, 8, 8).A)
}

func TestDrawTextInk(t *testing.T) {
	s := newSurface(t, 144, 40)
	s.DrawText("12:34", render.FontTime, geometry.R(0, 0, 144, 32), render.AlignCenter, render.White)

	ink := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 144; x++ {
			if at(s, x, y).A > 0 {
				ink++
			}
		}
	}
	assert.Positive(t, ink)
	// centered text leaves the edges clear
	assert.Zero(t, at(s, 1, 16).A)
}
