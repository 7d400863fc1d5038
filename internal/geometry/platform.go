package geometry

import "sort"

// Platform describes one supported display.
type Platform struct {
	Name      string
	Shape     Shape
	Size      Size
	Color     bool
	RingInset int
}

var platforms = map[string]Platform{
	"aplite":  {Name: "aplite", Shape: Rectangular, Size: Size{144, 168}},
	"basalt":  {Name: "basalt", Shape: Rectangular, Size: Size{144, 168}, Color: true},
	"diorite": {Name: "diorite", Shape: Rectangular, Size: Size{144, 168}},
	"chalk":   {Name: "chalk", Shape: Round, Size: Size{180, 180}, Color: true},
	"emery":   {Name: "emery", Shape: Rectangular, Size: Size{200, 228}, Color: true, RingInset: 15},
	"gabbro":  {Name: "gabbro", Shape: Round, Size: Size{260, 260}, Color: true},
}

const DefaultPlatform = "basalt"

// Lookup returns the named platform.
func Lookup(name string) (Platform, bool) {
	p, ok := platforms[name]
	return p, ok
}

// Platforms lists the known platform names in order.
func Platforms() []string {
	out := make([]string, 0, len(platforms))
	for k := range platforms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Platform) Bounds() Rect { return Rect{0, 0, p.Size.W, p.Size.H} }

func (p Platform) Screen() Screen {
	var opts []Option
	if p.RingInset > 0 {
		opts = append(opts, WithRingInset(p.RingInset))
	}
	return Compute(p.Shape, p.Bounds(), opts...)
}
