package control

import (
	"fmt"
	"math"
)

// LowPass is a general first-order filter
//
//	y(k) = b1·y(k-1) + a0·u(k) + a1·u(k-1)
//
// with unity DC gain when a0 + a1 + b1 = 1.
type LowPass struct {
	a0, a1, b1 float64

	y float64
	u float64
}

// NewLowPass creates a filter from raw coefficients
func NewLowPass(a0, a1, b1 float64) *LowPass {
	return &LowPass{a0: a0, a1: a1, b1: b1}
}

// NewLowPassFromCutoff discretises 1/(1+s/ωc) with the bilinear transform
// for sample period ts.
func NewLowPassFromCutoff(cutoffHz, ts float64) (*LowPass, error) {
	if cutoffHz <= 0 || ts <= 0 {
		return nil, fmt.Errorf("lowpass: cutoff %g Hz and period %g s must be positive", cutoffHz, ts)
	}
	if cutoffHz >= 0.5/ts {
		return nil, fmt.Errorf("lowpass: cutoff %g Hz at or above Nyquist %g Hz", cutoffHz, 0.5/ts)
	}
	// prewarp-free Tustin: K = ωc·Ts/2
	k := math.Pi * cutoffHz * ts
	a := k / (1 + k)
	return NewLowPass(a, a, (1-k)/(1+k)), nil
}

// SetState sets the output and previous input, e.g. to start at steady state.
func (f *LowPass) SetState(y, u float64) {
	f.y = y
	f.u = u
}

// Update feeds one input sample and returns the new output
func (f *LowPass) Update(u float64) float64 {
	f.y = f.b1*f.y + f.a0*u + f.a1*f.u
	f.u = u
	return f.y
}

// Output returns the last filter output
func (f *LowPass) Output() float64 { return f.y }

// Coefficients returns a0, a1, b1
func (f *LowPass) Coefficients() (a0, a1, b1 float64) { return f.a0, f.a1, f.b1 }
