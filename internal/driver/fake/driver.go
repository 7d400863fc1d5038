package fake

import (
	"image"
	"sync"

	"github.com/rs/zerolog"
)

// Driver keeps frames in memory and logs a compact summary of each one,
// useful for headless runs and tests.
type Driver struct {
	// Err is returned from every Write when set.
	Err error
	Log zerolog.Logger

	mu    sync.Mutex
	count int
	last  image.Image
}

func NewDriver(log zerolog.Logger) *Driver {
	return &Driver{Log: log.With().Str("driver", "fake").Logger()}
}

func (d *Driver) Write(img image.Image) error {
	d.mu.Lock()
	d.count++
	d.last = img
	n, err := d.count, d.Err
	d.mu.Unlock()

	if img != nil && d.Log.GetLevel() <= zerolog.DebugLevel {
		r, g, b := average(img)
		d.Log.Debug().Int("frame", n).Uints8("avg", []uint8{r, g, b}).Msg("frame")
	}
	return err
}

func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Last is the most recent frame written, or nil.
func (d *Driver) Last() image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func average(img image.Image) (uint8, uint8, uint8) {
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return uint8(r / n), uint8(g / n), uint8(bl / n)
}
