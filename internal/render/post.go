package render

import "image"

// PostPipeline groups the stages run on a finished frame before it is
// handed to a sink. All are optional.
type PostPipeline struct {
	Quantize func(*image.RGBA)
}

// PostFor returns the pipeline matching a display's color capability.
func PostFor(color bool) PostPipeline {
	if color {
		return PostPipeline{Quantize: Quantize64}
	}
	return PostPipeline{Quantize: Threshold}
}

func (p PostPipeline) Apply(img *image.RGBA) {
	if img == nil {
		return
	}
	if p.Quantize != nil {
		p.Quantize(img)
	}
}

// Quantize64 snaps every pixel to the 64-color palette (2 bits per channel).
func Quantize64(img *image.RGBA) {
	px := img.Pix
	for i := 0; i+3 < len(px); i += 4 {
		px[i] = snap2(px[i])
		px[i+1] = snap2(px[i+1])
		px[i+2] = snap2(px[i+2])
		px[i+3] = 0xff
	}
}

// Threshold maps every pixel to black or white by luma. Mid tones such as
// DarkGray become a checkerboard so gray elements stay visible.
func Threshold(img *image.RGBA) {
	b := img.Rect
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4]
			l := (299*int(px[0]) + 587*int(px[1]) + 114*int(px[2])) / 1000
			on := l >= 0xc0 || (l >= 0x40 && (b.Min.X+x+b.Min.Y+y)%2 == 0)
			v := uint8(0)
			if on {
				v = 0xff
			}
			px[0], px[1], px[2], px[3] = v, v, v, 0xff
		}
	}
}

func snap2(v uint8) uint8 {
	return uint8((int(v) + 0x2a) / 0x55 * 0x55)
}
