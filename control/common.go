// Package control holds the collaborators that feed a voltage command to the
// modulator: an incremental PID, a first-order filter and the Clarke/Park
// transforms.
package control

import "math"

// Saturate clamps value between lo and hi
func Saturate(value, lo, hi float64) float64 {
	if value > hi {
		return hi
	}
	if value < lo {
		return lo
	}
	return value
}

// WrapAngle folds an electrical angle into [0, 2π)
func WrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
