package control

import "math"

const invSqrt3 = 0.57735026918962576450914878050195745564760

// ABC is a three-phase quantity
type ABC struct {
	A, B, C float64
}

// AlphaBeta0 is a stationary-frame quantity with its zero-sequence part
type AlphaBeta0 struct {
	Alpha, Beta, Zero float64
}

// DQ0 is a rotor-frame quantity with its zero-sequence part
type DQ0 struct {
	D, Q, Zero float64
}

// ClarkeABC is the amplitude-invariant Clarke transform from three measured phases.
func ClarkeABC(v ABC) AlphaBeta0 {
	return AlphaBeta0{
		Alpha: (2*v.A - v.B - v.C) / 3,
		Beta:  (v.B - v.C) * invSqrt3,
		Zero:  (v.A + v.B + v.C) / 3,
	}
}

// ClarkeAC is the Clarke transform with two sensors on phases a and c; the
// third phase is reconstructed as b = -a - c, so Zero is always 0.
func ClarkeAC(a, c float64) AlphaBeta0 {
	return AlphaBeta0{
		Alpha: a,
		Beta:  -(a + 2*c) * invSqrt3,
	}
}

// InverseClarke maps a stationary-frame quantity back to three phases.
func InverseClarke(v AlphaBeta0) ABC {
	h := math.Sqrt(3) / 2 * v.Beta
	return ABC{
		A: v.Alpha + v.Zero,
		B: -v.Alpha/2 + h + v.Zero,
		C: -v.Alpha/2 - h + v.Zero,
	}
}

// Park rotates a stationary-frame quantity into the rotor frame at electrical angle thetaE.
func Park(v AlphaBeta0, thetaE float64) DQ0 {
	sin, cos := math.Sincos(thetaE)
	return DQ0{
		D:    v.Alpha*cos + v.Beta*sin,
		Q:    -v.Alpha*sin + v.Beta*cos,
		Zero: v.Zero,
	}
}

// InversePark rotates a rotor-frame quantity back to the stationary frame.
func InversePark(v DQ0, thetaE float64) AlphaBeta0 {
	sin, cos := math.Sincos(thetaE)
	return AlphaBeta0{
		Alpha: v.D*cos - v.Q*sin,
		Beta:  v.D*sin + v.Q*cos,
		Zero:  v.Zero,
	}
}
