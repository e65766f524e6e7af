package pose

import "math"

// Angle returns the angle at p2 formed by p1 and p3, in degrees within [0,360).
// The angle is measured counterclockwise from the p2→p1 ray to the p2→p3 ray in
// the image plane; Z is ignored.
func Angle(p1, p2, p3 Point) float64 {
	deg := (math.Atan2(p3.Y-p2.Y, p3.X-p2.X) - math.Atan2(p1.Y-p2.Y, p1.X-p2.X)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	// A tiny negative difference rounds up to exactly 360 after the shift.
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
