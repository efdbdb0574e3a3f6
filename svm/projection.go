package svm

import "golang.org/x/exp/constraints"

const sqrt3 = 1.7320508075688772935274463415058723669428

// Project maps (Ualpha, Ubeta) onto the three sector-defining axes:
//
//	ta = Ubeta
//	tb = (-√3·Ualpha - Ubeta) / 2
//	tc = ( √3·Ualpha - Ubeta) / 2
//
// Non-finite input is not guarded and comes out non-finite.
func Project[T constraints.Float](alpha, beta T) Projections[T] {
	k := T(sqrt3) * alpha
	return Projections[T]{
		beta,
		(-k - beta) / 2,
		(k - beta) / 2,
	}
}
