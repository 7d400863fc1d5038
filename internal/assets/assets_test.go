package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinComplete(t *testing.T) {
	lib := Builtin()
	assert.Empty(t, lib.Missing())
	assert.Equal(t, len(All), lib.Len())

	am := lib.Get(AMActive)
	require.NotNil(t, am)
	assert.Equal(t, image.Rect(0, 0, 12, 8), am.Bounds())
	assert.Equal(t, image.Rect(0, 0, 15, 15), lib.Get(Walking).Bounds())
	assert.NotNil(t, lib.Get(LogoID("crimson")))
}

func TestBuiltinIconsHaveInk(t *testing.T) {
	lib := Builtin()
	for _, id := range []ID{AMActive, PMInactive, Walking, Flag, LogoBW} {
		img := lib.Get(id).(*image.RGBA)
		ink := 0
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] > 0 {
				ink++
			}
		}
		assert.Positive(t, ink, string(id))
	}
}

func TestReleaseOnce(t *testing.T) {
	lib := Builtin()
	assert.Equal(t, len(All), lib.Release())
	assert.Zero(t, lib.Release())
	assert.Nil(t, lib.Get(AMActive))
	assert.Zero(t, lib.Len())

	var none *Library
	assert.Zero(t, none.Release())
	assert.Nil(t, none.Get(Flag))
}

func TestLoadSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, string(Flag)+".png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 15, 15))))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, string(Walking)+".png"), []byte("not a png"), 0o644))

	lib, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())
	assert.NotNil(t, lib.Get(Flag))
	assert.Nil(t, lib.Get(Walking))
	assert.Contains(t, lib.Missing(), Walking)
	assert.Len(t, lib.Missing(), len(All)-1)
}

func TestLoadBadDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	assert.Error(t, err)
}
