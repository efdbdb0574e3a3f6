package svm

import "golang.org/x/exp/constraints"

// pairLayout describes one 60° wedge: which projections feed the two active
// vector durations and the order in which the phase duties are built.
type pairLayout struct {
	d1, d2 int  // index into Projections
	negate bool // d1, d2 are the negated projections
	order  [3]Phase
}

// Indexed by wedge (sector pair). The first phase in order gets the base duty,
// the second base+d2, the third base+d2+d1.
var pairs = [6]pairLayout{
	{d1: 2, d2: 0, order: [3]Phase{PhaseC, PhaseB, PhaseA}},               // V1(100) V2(110)
	{d1: 2, d2: 1, negate: true, order: [3]Phase{PhaseC, PhaseA, PhaseB}}, // V3(010) V2(110)
	{d1: 0, d2: 1, order: [3]Phase{PhaseA, PhaseC, PhaseB}},               // V3(010) V4(011)
	{d1: 0, d2: 2, negate: true, order: [3]Phase{PhaseA, PhaseB, PhaseC}}, // V5(001) V4(011)
	{d1: 1, d2: 2, order: [3]Phase{PhaseB, PhaseA, PhaseC}},               // V5(001) V6(101)
	{d1: 1, d2: 0, negate: true, order: [3]Phase{PhaseB, PhaseC, PhaseA}}, // V1(100) V6(101)
}

// Synthesis carries the intermediate values of one duty computation.
type Synthesis[T constraints.Float] struct {
	D1, D2 T // active vector durations of the wedge
	V0Min  T
	V0Max  T
	VCM    T // injected common-mode value
	Duty   Duty[T]
}

// Synthesize computes the common-mode value and the phase duties for a
// classified command.
//
// In SpaceVectorPWM mode v_cm = (d2-d1)/6 is limited to V0max and then to
// V0min, so in over-modulation (V0min > V0max) V0min wins. Any mode other
// than ThirdHarmonicInjectionPWM is treated as SpaceVectorPWM.
//
// ThirdHarmonicInjectionPWM takes V0min when ⌊(sector+1)/2⌋ is even and V0max
// otherwise, sector being the 12-sector index. Under the 6-sector scheme the
// index is 2·wedge, so a whole wedge uses one bound.
//
// With clamp set every duty is limited to [0,1]. An out-of-range sector yields
// the zero Synthesis.
func Synthesize[T constraints.Float](sector int, s Scheme, p Projections[T], mode Mode, clamp bool) Synthesis[T] {
	wedge := PairOf(sector, s)
	if wedge < 0 {
		return Synthesis[T]{}
	}
	l := &pairs[wedge]

	d1, d2 := p[l.d1], p[l.d2]
	if l.negate {
		d1, d2 = -d1, -d2
	}

	v0min := -0.5 + d1/3 + 2*d2/3
	v0max := 0.5 - 2*d1/3 - d2/3

	var vcm T
	if mode == ThirdHarmonicInjectionPWM {
		s12 := sector
		if s.normalize() == Sectors6 {
			s12 = 2 * sector
		}
		if ((s12+1)/2)%2 == 0 {
			vcm = v0min
		} else {
			vcm = v0max
		}
	} else {
		vcm = (d2 - d1) / 6
		if vcm > v0max {
			vcm = v0max
		}
		if vcm < v0min {
			vcm = v0min
		}
	}

	var duty Duty[T]
	base := 0.5 + vcm - d1/3 - 2*d2/3
	duty[l.order[0]] = base
	duty[l.order[1]] = base + d2
	duty[l.order[2]] = base + d2 + d1

	if clamp {
		duty[PhaseA] = clampUnit(duty[PhaseA])
		duty[PhaseB] = clampUnit(duty[PhaseB])
		duty[PhaseC] = clampUnit(duty[PhaseC])
	}

	return Synthesis[T]{
		D1:    d1,
		D2:    d2,
		V0Min: v0min,
		V0Max: v0max,
		VCM:   vcm,
		Duty:  duty,
	}
}

// clampUnit limits v to [0,1]; NaN passes through.
func clampUnit[T constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
