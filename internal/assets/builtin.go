package assets

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	gray  = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

var logoTints = map[ID]color.RGBA{
	LogoBW:          white,
	LogoColor:       {0x55, 0xff, 0xff, 0xff},
	LogoHouseVaruun: {0xff, 0xaa, 0x00, 0xff},
	LogoFreestar:    {0x55, 0xaa, 0xff, 0xff},
	LogoSysdef:      {0xaa, 0xff, 0x55, 0xff},
	LogoCrimson:     {0xaa, 0x00, 0x00, 0xff},
}

var logoLabels = map[ID]string{
	LogoBW:          "CONSTELLATION",
	LogoColor:       "CONSTELLATION",
	LogoHouseVaruun: "VARUUN",
	LogoFreestar:    "FREESTAR",
	LogoSysdef:      "SYSDEF",
	LogoCrimson:     "CRIMSON",
}

// Builtin draws a complete library without any files on disk.
func Builtin() *Library {
	imgs := map[ID]image.Image{
		AMActive:   label("AM", white),
		AMInactive: label("AM", gray),
		PMActive:   label("PM", white),
		PMInactive: label("PM", gray),
		Walking:    walker(white),
		Flag:       flag(white),
	}
	for id, tint := range logoTints {
		imgs[id] = logo(logoLabels[id], tint)
	}
	return New(imgs)
}

// label renders text with the 7x13 face and scales it into a 12x8 marker.
func label(s string, c color.Color) image.Image {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	src := image.NewRGBA(image.Rect(0, 0, w, 13))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	dst := image.NewRGBA(image.Rect(0, 0, 12, 8))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func fill(dst draw.Image, c color.Color, pts ...[2]float32) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// walker is a 15x15 stick figure mid-stride.
func walker(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 15, 15))
	fill(img, c, [2]float32{6, 0}, [2]float32{9, 0}, [2]float32{9, 3}, [2]float32{6, 3})
	fill(img, c, [2]float32{6, 4}, [2]float32{9, 4}, [2]float32{9, 9}, [2]float32{6, 9})
	fill(img, c, [2]float32{6, 5}, [2]float32{7, 6}, [2]float32{3, 9}, [2]float32{2, 8})
	fill(img, c, [2]float32{8, 5}, [2]float32{12, 7}, [2]float32{12, 8}, [2]float32{8, 6})
	fill(img, c, [2]float32{6, 8}, [2]float32{8, 9}, [2]float32{4, 15}, [2]float32{2, 15})
	fill(img, c, [2]float32{7, 8}, [2]float32{9, 8}, [2]float32{13, 15}, [2]float32{11, 15})
	return img
}

// flag is a 15x15 pennant on a pole.
func flag(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 15, 15))
	fill(img, c, [2]float32{2, 0}, [2]float32{4, 0}, [2]float32{4, 15}, [2]float32{2, 15})
	fill(img, c, [2]float32{4, 1}, [2]float32{14, 4.5}, [2]float32{4, 8})
	return img
}

// logo draws a ring of stars above a name plate.
func logo(name string, tint color.RGBA) image.Image {
	const size = 96
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx, cy := float64(size)/2, float64(size)/2-8
	for i := 0; i < 7; i++ {
		a := float64(i) * 2 * math.Pi / 7
		r := 26.0
		if i%2 == 1 {
			r = 18
		}
		star(img, tint, cx+r*math.Sin(a), cy-r*math.Cos(a), 5)
	}
	star(img, tint, cx, cy, 8)

	face := basicfont.Face7x13
	w := font.MeasureString(face, name).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(tint),
		Face: face,
		Dot:  fixed.P((size-w)/2, size-6),
	}
	d.DrawString(name)
	return img
}

func star(dst draw.Image, c color.Color, x, y, r float64) {
	pts := make([][2]float32, 0, 8)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		rr := r
		if i%2 == 1 {
			rr = r / 3
		}
		pts = append(pts, [2]float32{float32(x + rr*math.Sin(a)), float32(y - rr*math.Cos(a))})
	}
	fill(dst, c, pts...)
}
