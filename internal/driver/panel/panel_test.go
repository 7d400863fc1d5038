package panel

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

type fakeDevice struct {
	draws  []image.Image
	halted bool
	err    error
}

func (f *fakeDevice) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }

func (f *fakeDevice) Draw(_ image.Rectangle, src image.Image, _ image.Point) error {
	if f.err != nil {
		return f.err
	}
	f.draws = append(f.draws, src)
	return nil
}

func (f *fakeDevice) Halt() error { f.halted = true; return nil }

type closeCounter int

func (c *closeCounter) Close() error { *c++; return nil }

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestWriteFitsAndThresholds(t *testing.T) {
	dev := &fakeDevice{}
	d := New(dev, nil, zerolog.Nop())

	require.NoError(t, d.Write(solid(144, 168, color.White)))
	require.Len(t, dev.draws, 1)
	out := dev.draws[0]
	assert.Equal(t, image1bit.On, out.At(64, 32))
	// a tall frame is pillarboxed on a wide panel
	assert.Equal(t, image1bit.Off, out.At(2, 32))
	assert.Equal(t, image1bit.Off, out.At(125, 32))
}

func TestWriteSkipsUnchangedFrames(t *testing.T) {
	dev := &fakeDevice{}
	d := New(dev, nil, zerolog.Nop())

	require.NoError(t, d.Write(solid(144, 168, color.White)))
	require.NoError(t, d.Write(solid(144, 168, color.White)))
	require.NoError(t, d.Write(solid(144, 168, color.Black)))
	assert.Len(t, dev.draws, 2)
}

func TestWriteErrorIsWrapped(t *testing.T) {
	boom := errors.New("nack")
	d := New(&fakeDevice{err: boom}, nil, zerolog.Nop())
	assert.ErrorIs(t, d.Write(solid(10, 10, color.White)), boom)
}

func TestCloseHaltsAndClosesBus(t *testing.T) {
	dev := &fakeDevice{}
	var bus closeCounter
	d := New(dev, &bus, zerolog.Nop())
	require.NoError(t, d.Close())
	assert.True(t, dev.halted)
	assert.Equal(t, closeCounter(1), bus)
}
