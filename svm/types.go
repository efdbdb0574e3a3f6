// Package svm computes three-phase PWM duty cycles from a stationary-frame
// voltage command using space-vector modulation.
//
// The package is written for the control tick: nothing here allocates, loops
// over unbounded data, blocks or logs. One Modulator belongs to one motor
// channel and is never shared.
package svm

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidInput is returned by the checked entry point when a voltage
	// command component is NaN or infinite.
	ErrInvalidInput = errors.New("svm: non-finite voltage command")

	// ErrInvalidMode reports a modulation mode outside the known set.
	ErrInvalidMode = errors.New("svm: unknown modulation mode")

	// ErrInvalidScheme reports a sector scheme other than 6 or 12.
	ErrInvalidScheme = errors.New("svm: unknown sector scheme")
)

// Mode selects the common-mode injection policy.
type Mode int

const (
	// SpaceVectorPWM centres the zero vectors: v_cm = (d2-d1)/6 within bounds.
	SpaceVectorPWM Mode = 0
	// ThirdHarmonicInjectionPWM pins v_cm to one end of its feasible range,
	// alternating every 30°.
	ThirdHarmonicInjectionPWM Mode = 1
)

func (m Mode) String() string {
	switch m {
	case SpaceVectorPWM:
		return "svpwm"
	case ThirdHarmonicInjectionPWM:
		return "thipwm"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m == SpaceVectorPWM || m == ThirdHarmonicInjectionPWM
}

// ParseMode accepts the mode names used on the command line and in scenario
// files, as well as their numeric values.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svpwm", "svm", "space_vector", "0":
		return SpaceVectorPWM, nil
	case "thipwm", "dpwm", "dmpwm3", "third_harmonic", "1":
		return ThirdHarmonicInjectionPWM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Scheme is the number of angular sectors the classifier resolves. The zero
// value selects the 12-sector scheme.
type Scheme int

const (
	Sectors12 Scheme = 12
	Sectors6  Scheme = 6
)

func (s Scheme) normalize() Scheme {
	if s == 0 {
		return Sectors12
	}
	return s
}

func (s Scheme) String() string {
	return fmt.Sprintf("%d-sector", int(s.normalize()))
}

// Sectors returns how many sectors the scheme has.
func (s Scheme) Sectors() int { return int(s.normalize()) }

// Valid reports whether s names a supported scheme (0 counts as 12).
func (s Scheme) Valid() bool {
	n := s.normalize()
	return n == Sectors12 || n == Sectors6
}

// Phase indexes a leg of the inverter inside a Duty triple.
type Phase int

const (
	PhaseA Phase = iota
	PhaseB
	PhaseC
)

// Projections holds (ta, tb, tc), the command projected onto the three
// sector-defining axes. The components sum to zero.
type Projections[T constraints.Float] [3]T

func (p Projections[T]) Ta() T { return p[0] }
func (p Projections[T]) Tb() T { return p[1] }
func (p Projections[T]) Tc() T { return p[2] }

// Sum is analytically zero; exposed for diagnostics.
func (p Projections[T]) Sum() T { return p[0] + p[1] + p[2] }

// Duty is the per-phase on-time fraction within one PWM period, indexed by Phase.
type Duty[T constraints.Float] [3]T

func (d Duty[T]) A() T { return d[PhaseA] }
func (d Duty[T]) B() T { return d[PhaseB] }
func (d Duty[T]) C() T { return d[PhaseC] }
