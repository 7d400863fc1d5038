// Package assets owns the bitmaps the face draws: AM/PM markers, track
// icons and splash logos.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

type ID string

const (
	AMActive   ID = "am_active"
	AMInactive ID = "am_inactive"
	PMActive   ID = "pm_active"
	PMInactive ID = "pm_inactive"
	Walking    ID = "walking"
	Flag       ID = "flag"

	LogoBW          ID = "logo_bw"
	LogoColor       ID = "logo_color"
	LogoHouseVaruun ID = "logo_house_varuun"
	LogoFreestar    ID = "logo_freestar"
	LogoSysdef      ID = "logo_sysdef"
	LogoCrimson     ID = "logo_crimson"
)

// All lists every asset the face knows how to use.
var All = []ID{
	AMActive, AMInactive, PMActive, PMInactive, Walking, Flag,
	LogoBW, LogoColor, LogoHouseVaruun, LogoFreestar, LogoSysdef, LogoCrimson,
}

// LogoID maps a splash logo name to its asset.
func LogoID(name string) ID { return ID("logo_" + name) }

// Library holds decoded bitmaps until Release.
type Library struct {
	imgs     map[ID]image.Image
	missing  []ID
	released bool
}

// Load reads <id>.png for every known asset from dir. Unreadable files are
// recorded as missing and skipped.
func Load(dir string, log zerolog.Logger) (*Library, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("assets dir: %s is not a directory", dir)
	}
	lib := &Library{imgs: map[ID]image.Image{}}
	for _, id := range All {
		img, err := decode(filepath.Join(dir, string(id)+".png"))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("asset", string(id)).Msg("asset decode failed")
			}
			lib.missing = append(lib.missing, id)
			continue
		}
		lib.imgs[id] = img
	}
	log.Debug().Int("loaded", len(lib.imgs)).Int("missing", len(lib.missing)).Str("dir", dir).Msg("assets loaded")
	return lib, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// New wraps an explicit set of bitmaps.
func New(imgs map[ID]image.Image) *Library {
	lib := &Library{imgs: map[ID]image.Image{}}
	for _, id := range All {
		if img, ok := imgs[id]; ok && img != nil {
			lib.imgs[id] = img
		} else {
			lib.missing = append(lib.missing, id)
		}
	}
	return lib
}

// Get returns the bitmap or nil when it is missing or released.
func (l *Library) Get(id ID) image.Image {
	if l == nil || l.released {
		return nil
	}
	return l.imgs[id]
}

func (l *Library) Missing() []ID {
	if l == nil {
		return nil
	}
	out := append([]ID(nil), l.missing...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *Library) Len() int {
	if l == nil || l.released {
		return 0
	}
	return len(l.imgs)
}

// Release drops every bitmap. It returns how many were freed by this call;
// later calls free nothing.
func (l *Library) Release() int {
	if l == nil || l.released {
		return 0
	}
	n := len(l.imgs)
	l.imgs = nil
	l.released = true
	return n
}
