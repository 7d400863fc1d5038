// Package preview turns frames into throttled PNG payloads for remote
// viewers.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gg"
)

// Frame is one encoded preview image.
type Frame struct {
	T       int64  `json:"t" msgpack:"t"`
	FrameID uint64 `json:"frame_id" msgpack:"frame_id"`
	W       int    `json:"w" msgpack:"w"`
	H       int    `json:"h" msgpack:"h"`
	PNG     []byte `json:"png" msgpack:"png"`
}

// Driver encodes at most one frame per throttle interval and hands it to
// emit. Skipped frames are not queued.
type Driver struct {
	emit     func(Frame)
	throttle time.Duration
	lastEmit time.Time
	frameID  uint64
	last     *Frame
	mu       sync.Mutex
}

func New(emit func(Frame), throttle time.Duration) *Driver {
	return &Driver{emit: emit, throttle: throttle}
}

func (d *Driver) Write(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frameID++
	now := time.Now()
	if d.throttle > 0 && d.lastEmit.Add(d.throttle).After(now) {
		return nil
	}
	d.lastEmit = now

	png, err := Encode(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	f := Frame{T: now.UnixNano(), FrameID: d.frameID, W: b.Dx(), H: b.Dy(), PNG: png}
	d.last = &f
	if d.emit != nil {
		d.emit(f)
	}
	return nil
}

// Last is the most recently emitted frame, if any.
func (d *Driver) Last() (Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return Frame{}, false
	}
	return *d.last, true
}

func Encode(img image.Image) ([]byte, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
