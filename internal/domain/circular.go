package domain

import "math"

// EncodeDirection maps an angle in degrees to its (sin, cos) encoding so that
// angles adjacent across the 0°/360° wraparound stay close in feature space.
func EncodeDirection(degrees float64) (dirSin, dirCos float64) {
	rad := degrees * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// DecodeDirection inverts EncodeDirection via atan2, normalized into [0, 360).
func DecodeDirection(dirSin, dirCos float64) float64 {
	deg := math.Atan2(dirSin, dirCos) * 180 / math.Pi
	return NormalizeDegrees(deg)
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	// Mod can return 360 for tiny negative inputs after the adjustment.
	if d >= 360 {
		d -= 360
	}
	return d
}
