package layer

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/constellation/internal/geometry"
	"github.com/coreman2200/constellation/internal/render"
	"github.com/coreman2200/constellation/internal/render/fake"
)

func fillProc(col render.Color) UpdateProc {
	return func(c render.Canvas, l *Layer) { c.FillRect(l.Bounds(), col) }
}

func TestPaintOnlyDamagedLayers(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 100, 100), render.Black)
	a := w.Add("a", geometry.R(0, 0, 10, 10), fillProc(render.White))
	w.Add("b", geometry.R(50, 50, 10, 10), fillProc(render.Red))

	cv := fake.New(100, 100)
	area, drawn := w.Paint(cv)
	assert.Equal(t, geometry.R(0, 0, 100, 100), area)
	assert.Equal(t, []string{"a", "b"}, drawn)
	assert.True(t, w.Damage().Empty())
	assert.False(t, a.Dirty())

	cv.Reset()
	a.MarkDirty()
	area, drawn = w.Paint(cv)
	assert.Equal(t, geometry.R(0, 0, 10, 10), area)
	assert.Equal(t, []string{"a"}, drawn)

	fills := cv.Of(fake.FillRect)
	require.Len(t, fills, 2)
	assert.Equal(t, render.Black, fills[0].Color)
	assert.Equal(t, geometry.R(0, 0, 10, 10), fills[1].Rect)
}

func TestPaintNothingWhenClean(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 10, 10), render.Black)
	cv := fake.New(10, 10)
	w.Paint(cv)
	cv.Reset()
	_, drawn := w.Paint(cv)
	assert.Nil(t, drawn)
	assert.Empty(t, cv.Ops)
}

func TestHiddenLayersSkipped(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 20, 20), render.Black)
	l := w.Add("icon", geometry.R(5, 5, 5, 5), fillProc(render.White))
	cv := fake.New(20, 20)
	w.Paint(cv)

	l.SetHidden(true)
	assert.Equal(t, geometry.R(5, 5, 5, 5), w.Damage())
	cv.Reset()
	_, drawn := w.Paint(cv)
	assert.Empty(t, drawn)
	require.Len(t, cv.Of(fake.FillRect), 1)

	l.SetHidden(true)
	assert.True(t, w.Damage().Empty())
}

func TestOverlappingLayersRepaintedInOrder(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 50, 50), render.Black)
	w.Add("canvas", geometry.R(0, 0, 50, 50), fillProc(render.DarkGray))
	top := w.Add("text", geometry.R(10, 10, 20, 10), fillProc(render.White))
	cv := fake.New(50, 50)
	w.Paint(cv)

	cv.Reset()
	top.MarkDirty()
	_, drawn := w.Paint(cv)
	assert.Equal(t, []string{"canvas", "text"}, drawn)
}

func TestDestroyOnce(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 20, 20), render.Black)
	l := w.Add("x", geometry.R(0, 0, 5, 5), fillProc(render.White))
	cv := fake.New(20, 20)
	w.Paint(cv)

	assert.True(t, l.Destroy())
	assert.False(t, l.Destroy())
	assert.Empty(t, w.Layers())
	assert.Equal(t, geometry.R(0, 0, 5, 5), w.Damage())

	l.MarkDirty()
	l.SetHidden(true)
	assert.Equal(t, geometry.R(0, 0, 5, 5), w.Damage())

	var nilLayer *Layer
	assert.False(t, nilLayer.Destroy())
	nilLayer.MarkDirty()
}

func TestDamageClippedToWindow(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 20, 20), render.Black)
	w.Paint(fake.New(20, 20))
	l := w.Add("off", geometry.R(15, 15, 10, 10), nil)
	assert.Equal(t, geometry.R(15, 15, 5, 5), w.Damage())
	_ = l
}

type recordDriver struct {
	frames []image.Image
	err    error
}

func (d *recordDriver) Write(img image.Image) error {
	d.frames = append(d.frames, img)
	return d.err
}

func TestEngineRenderOnce(t *testing.T) {
	w := NewWindow(geometry.R(0, 0, 30, 30), render.Black)
	l := w.Add("a", geometry.R(0, 0, 10, 10), fillProc(render.White))
	drv := &recordDriver{}
	e, err := NewEngine(w, fake.New(30, 30), drv)
	require.NoError(t, err)
	e.SetPost(render.PostFor(false))

	ok, err := e.RenderOnce()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, drv.frames, 1)
	assert.Equal(t, uint64(1), e.FrameID())

	ok, err = e.RenderOnce()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, drv.frames, 1)

	l.MarkDirty()
	drv.err = errors.New("panel gone")
	ok, err = e.RenderOnce()
	assert.True(t, ok)
	assert.EqualError(t, err, "panel gone")
	assert.Equal(t, []string{"a"}, e.Last.Layers)
}

func TestNewEngineValidates(t *testing.T) {
	_, err := NewEngine(nil, fake.New(1, 1), nil)
	assert.Error(t, err)
	_, err = NewEngine(NewWindow(geometry.Rect{}, render.Black), fake.New(1, 1), nil)
	assert.Error(t, err)
}

func TestFanout(t *testing.T) {
	a, b := &recordDriver{err: errors.New("a")}, &recordDriver{}
	err := Fanout{a, nil, b}.Write(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.EqualError(t, err, "a")
	assert.Len(t, b.frames, 1)
}
