// Package pngout writes frames to disk as PNG files.
package pngout

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/gg"
	"github.com/rs/zerolog"
)

// Driver writes every frame it receives. With Sequence set each frame
// gets its own numbered file; otherwise Latest is replaced in place.
type Driver struct {
	Dir      string
	Sequence bool
	Latest   string

	mu    sync.Mutex
	count int
	log   zerolog.Logger
}

func New(dir string, sequence bool, log zerolog.Logger) (*Driver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	return &Driver{
		Dir:      dir,
		Sequence: sequence,
		Latest:   "latest.png",
		log:      log.With().Str("driver", "png").Logger(),
	}, nil
}

func (d *Driver) Write(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := d.Latest
	if d.Sequence {
		name = fmt.Sprintf("frame-%06d.png", d.count)
	}
	d.count++
	path := filepath.Join(d.Dir, name)
	if err := writeAtomic(path, img); err != nil {
		return err
	}
	d.log.Debug().Str("path", path).Msg("frame written")
	return nil
}

// Count is how many frames were written.
func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func writeAtomic(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	if err := dc.EncodePNG(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close frame: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}
