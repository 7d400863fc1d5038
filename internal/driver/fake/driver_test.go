package fake

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDriverCountsAndKeepsLast(t *testing.T) {
	d := NewDriver(zerolog.Nop())
	a := image.NewRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewRGBA(image.Rect(0, 0, 3, 3))

	assert.NoError(t, d.Write(a))
	assert.NoError(t, d.Write(b))
	assert.Equal(t, 2, d.Count())
	assert.Same(t, b, d.Last())
}

func TestDriverReturnsConfiguredError(t *testing.T) {
	d := NewDriver(zerolog.Nop())
	d.Err = errors.New("unplugged")
	assert.EqualError(t, d.Write(image.NewRGBA(image.Rect(0, 0, 1, 1))), "unplugged")
	assert.Equal(t, 1, d.Count())
}

func TestAverage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	draw.Draw(img, image.Rect(0, 0, 1, 1), image.NewUniform(color.RGBA{200, 100, 0, 255}), image.Point{}, draw.Src)
	r, g, b := average(img)
	assert.Equal(t, []uint8{100, 50, 0}, []uint8{r, g, b})
}
