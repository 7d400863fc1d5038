package preview

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEmitsDecodablePNG(t *testing.T) {
	var got []Frame
	d := New(func(f Frame) { got = append(got, f) }, 0)

	require.NoError(t, d.Write(image.NewRGBA(image.Rect(0, 0, 144, 168))))
	require.Len(t, got, 1)
	assert.Equal(t, 144, got[0].W)
	assert.Equal(t, uint64(1), got[0].FrameID)

	img, err := png.Decode(bytes.NewReader(got[0].PNG))
	require.NoError(t, err)
	assert.Equal(t, 168, img.Bounds().Dy())

	last, ok := d.Last()
	assert.True(t, ok)
	assert.Equal(t, got[0].FrameID, last.FrameID)
}

func TestWriteThrottles(t *testing.T) {
	n := 0
	d := New(func(Frame) { n++ }, time.Hour)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Write(img))
	}
	assert.Equal(t, 1, n)
}
