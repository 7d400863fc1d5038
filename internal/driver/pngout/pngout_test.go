package pngout

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestSequenceWritesNumberedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	d, err := New(dir, true, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, d.Write(frame(color.RGBA{0xff, 0, 0, 0xff})))
	require.NoError(t, d.Write(frame(color.RGBA{0, 0xff, 0, 0xff})))
	assert.Equal(t, 2, d.Count())

	img := decode(t, filepath.Join(dir, "frame-000001.png"))
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	_, g, _, _ := img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), g)
	assert.FileExists(t, filepath.Join(dir, "frame-000000.png"))
}

func TestLatestIsReplaced(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir, false, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, d.Write(frame(color.RGBA{0xff, 0, 0, 0xff})))
	require.NoError(t, d.Write(frame(color.RGBA{0, 0, 0xff, 0xff})))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, _, b, _ := decode(t, filepath.Join(dir, "latest.png")).At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}
