package render

import (
	"image"

	"github.com/coreman2200/constellation/internal/geometry"
)

const sectionGap = 2

var MeridiemSize = geometry.Size{W: 18, H: 22}

// MeridiemIcons holds the four AM/PM bitmaps. Any of them may be nil.
type MeridiemIcons struct {
	AMActive, AMInactive image.Image
	PMActive, PMInactive image.Image
}

// MeridiemSlots returns the AM (top) and PM (bottom) slot rects for a
// region of the given size.
func MeridiemSlots(size geometry.Size) (am, pm geometry.Rect) {
	section := (size.H - sectionGap) / 2
	am = geometry.R(0, 0, size.W, section)
	pm = geometry.R(0, section+sectionGap, size.W, section)
	return am, pm
}

func DrawMeridiem(c Canvas, size geometry.Size, afternoon bool, icons MeridiemIcons) {
	am, pm := MeridiemSlots(size)
	amImg, pmImg := icons.AMActive, icons.PMInactive
	if afternoon {
		amImg, pmImg = icons.AMInactive, icons.PMActive
	}
	drawCentered(c, amImg, am)
	drawCentered(c, pmImg, pm)
}

func drawCentered(c Canvas, img image.Image, slot geometry.Rect) {
	if img == nil {
		return
	}
	b := img.Bounds()
	c.DrawBitmap(img, slot.CenterIn(geometry.Size{W: b.Dx(), H: b.Dy()}))
}
