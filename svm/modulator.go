package svm

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// State is what a Modulator remembers between ticks, for read-back only.
// Nothing in it feeds the next computation.
type State[T constraints.Float] struct {
	Alpha  T
	Beta   T
	Sector int
	Duty   Duty[T]
}

// Modulator turns one voltage command per control period into a duty triple.
// The zero value uses DefaultConfig.
type Modulator[T constraints.Float] struct {
	scheme Scheme
	clamp  bool
	cfgSet bool

	state State[T]
}

// New returns a modulator for cfg. The config is expected to be valid; an
// unknown scheme classifies with 12 sectors.
func New[T constraints.Float](cfg Config) *Modulator[T] {
	return &Modulator[T]{
		scheme: cfg.Scheme.normalize(),
		clamp:  cfg.Clamped(),
		cfgSet: true,
	}
}

// Config reports the settings in effect.
func (m *Modulator[T]) Config() Config {
	if !m.cfgSet {
		return DefaultConfig()
	}
	return Config{Scheme: m.scheme}.WithClamp(m.clamp)
}

// Modulate stores the command, classifies it, synthesizes the duties and
// stores sector and duty. It always succeeds; non-finite input gives a
// garbage sector and non-finite duties.
func (m *Modulator[T]) Modulate(alpha, beta T, mode Mode) Duty[T] {
	scheme, clamp := Sectors12, true
	if m.cfgSet {
		scheme, clamp = m.scheme, m.clamp
	}

	m.state.Alpha = alpha
	m.state.Beta = beta

	p := Project(alpha, beta)
	m.state.Sector = Classify(scheme, p)
	m.state.Duty = Synthesize(m.state.Sector, scheme, p, mode, clamp).Duty

	return m.state.Duty
}

// ModulateChecked validates the command and mode before touching any state.
func (m *Modulator[T]) ModulateChecked(alpha, beta T, mode Mode) (Duty[T], error) {
	if !finite(alpha) || !finite(beta) {
		return Duty[T]{}, fmt.Errorf("%w: alpha=%v beta=%v", ErrInvalidInput, alpha, beta)
	}
	if !mode.Valid() {
		return Duty[T]{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return m.Modulate(alpha, beta, mode), nil
}

// Input returns the last stored voltage command.
func (m *Modulator[T]) Input() (alpha, beta T) { return m.state.Alpha, m.state.Beta }

// Sector returns the last computed sector.
func (m *Modulator[T]) Sector() int { return m.state.Sector }

// Duty returns the last computed duty triple.
func (m *Modulator[T]) Duty() Duty[T] { return m.state.Duty }

// Snapshot copies the stored state.
func (m *Modulator[T]) Snapshot() State[T] { return m.state }

// Reset zeroes the stored state; the configuration is kept.
func (m *Modulator[T]) Reset() { m.state = State[T]{} }

func finite[T constraints.Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
