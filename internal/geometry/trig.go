package geometry

import "math"

// Angle is a fixed-point angle where FullTurn is one revolution,
// measured clockwise from 12 o'clock.
type Angle int32

const (
	FullTurn Angle = 0x10000
	// TrigMaxRatio is the scale of the values returned by Sin and Cos.
	TrigMaxRatio = 0xFFFF
)

// Degrees converts whole degrees to an Angle.
func Degrees(d int) Angle { return Angle(int64(FullTurn) * int64(d) / 360) }

// Turn returns the angle of step i out of n equal steps.
func Turn(i, n int) Angle {
	if n == 0 {
		return 0
	}
	return Angle(int64(FullTurn) * int64(i) / int64(n))
}

func (a Angle) Radians() float64 { return float64(a) * 2 * math.Pi / float64(FullTurn) }

func (a Angle) Degrees() float64 { return float64(a) * 360 / float64(FullTurn) }

func Sin(a Angle) int32 { return int32(math.Round(math.Sin(a.Radians()) * TrigMaxRatio)) }
func Cos(a Angle) int32 { return int32(math.Round(math.Cos(a.Radians()) * TrigMaxRatio)) }

// Polar returns the point at distance r from c along a. Screen y grows
// downward, so angle 0 points straight up. Division truncates toward zero.
func Polar(c Point, a Angle, r int) Point {
	return Point{
		X: c.X + int(int64(Sin(a))*int64(r)/TrigMaxRatio),
		Y: c.Y - int(int64(Cos(a))*int64(r)/TrigMaxRatio),
	}
}
