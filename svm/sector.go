package svm

import "golang.org/x/exp/constraints"

// Classify6 resolves the 60° wedge holding the command, sector 0 starting at
// 0° and counting counter-clockwise. Only signs are compared.
//
// The cases are ordered; each one assumes the predicates above it failed.
func Classify6[T constraints.Float](p Projections[T]) int {
	ta, tb, tc := p[0], p[1], p[2]
	switch {
	case ta > 0 && tc > 0:
		return 0
	case ta > 0 && tb < 0:
		return 1
	case ta > 0:
		return 2
	case tc < 0:
		return 3
	case tb > 0:
		return 4
	default:
		return 5
	}
}

// Classify12 resolves the 30° sector holding the command. The 60° wedge from
// Classify6 is split in two by one magnitude comparison; equal values fall
// into the upper half.
//
// A NaN component fails every comparison and lands in sector 11.
func Classify12[T constraints.Float](p Projections[T]) int {
	ta, tb, tc := p[0], p[1], p[2]
	wedge := Classify6(p)

	var lower bool
	switch wedge {
	case 0:
		lower = ta < tc
	case 1:
		lower = tb < tc
	case 2:
		lower = tb < ta
	case 3:
		lower = tc < ta
	case 4:
		lower = tb > tc
	default:
		lower = ta < tb
	}

	if lower {
		return 2 * wedge
	}
	return 2*wedge + 1
}

// Classify runs the classifier selected by the scheme. An unsupported scheme
// falls back to 12 sectors; Config.Validate rejects it up front.
func Classify[T constraints.Float](s Scheme, p Projections[T]) int {
	if s.normalize() == Sectors6 {
		return Classify6(p)
	}
	return Classify12(p)
}

// PairOf maps a sector of the given scheme to its wedge index in [0,5]; both
// halves of a 12-sector pair use the same active vectors. It returns -1 for an
// out-of-range sector.
func PairOf(sector int, s Scheme) int {
	n := s.normalize()
	if n != Sectors6 {
		n = Sectors12
	}
	if sector < 0 || sector >= int(n) {
		return -1
	}
	if n == Sectors6 {
		return sector
	}
	return sector / 2
}
