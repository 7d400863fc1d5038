// Package panel drives an SSD1306 OLED over I²C.
package panel

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/coreman2200/constellation/internal/config"
)

// Device is the part of a display the driver uses.
type Device interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

type Driver struct {
	mu     sync.Mutex
	dev    Device
	closer io.Closer
	last   *image1bit.VerticalLSB
	log    zerolog.Logger
}

// Open initializes the host, opens the bus and resets the panel.
func Open(cfg config.Panel, log zerolog.Logger) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}
	opts := ssd1306.DefaultOpts
	if cfg.Width > 0 {
		opts.W = cfg.Width
	}
	if cfg.Height > 0 {
		opts.H = cfg.Height
	}
	opts.Rotated = cfg.Rotated
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	log.Info().Str("bus", cfg.Bus).Int("w", opts.W).Int("h", opts.H).Msg("panel ready")
	return New(dev, bus, log), nil
}

func New(dev Device, closer io.Closer, log zerolog.Logger) *Driver {
	return &Driver{dev: dev, closer: closer, log: log.With().Str("driver", "panel").Logger()}
}

// Write scales img to fit the panel, thresholds it to one bit and sends
// it. Frames identical to the last one sent are skipped.
func (d *Driver) Write(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dst := image1bit.NewVerticalLSB(d.dev.Bounds())
	Fit(dst, img)
	if d.last != nil && bytes.Equal(d.last.Pix, dst.Pix) {
		return nil
	}
	if err := d.dev.Draw(dst.Bounds(), dst, image.Point{}); err != nil {
		return fmt.Errorf("panel draw: %w", err)
	}
	d.last = dst
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.dev.Halt()
	if d.closer != nil {
		if cerr := d.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Fit scales src into dst keeping its aspect ratio, centered.
func Fit(dst xdraw.Image, src image.Image) {
	db, sb := dst.Bounds(), src.Bounds()
	if sb.Empty() || db.Empty() {
		return
	}
	w, h := db.Dx(), sb.Dy()*db.Dx()/sb.Dx()
	if h > db.Dy() {
		w, h = sb.Dx()*db.Dy()/sb.Dy(), db.Dy()
	}
	x := db.Min.X + (db.Dx()-w)/2
	y := db.Min.Y + (db.Dy()-h)/2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, xdraw.Src, nil)
}
