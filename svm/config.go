package svm

import "fmt"

// Config holds the per-channel modulator settings.
type Config struct {
	// Scheme is 12 (default when zero) or 6.
	Scheme Scheme `json:"scheme" yaml:"scheme"`

	// ClampDuty limits each duty to [0,1] after synthesis. Nil means true;
	// set false explicitly to get the raw, possibly out-of-range duties.
	ClampDuty *bool `json:"clamp_duty,omitempty" yaml:"clamp_duty,omitempty"`
}

// DefaultConfig returns the 12-sector scheme with duty clamping on.
func DefaultConfig() Config {
	clamp := true
	return Config{Scheme: Sectors12, ClampDuty: &clamp}
}

// Clamped reports the effective duty clamp policy.
func (c Config) Clamped() bool {
	return c.ClampDuty == nil || *c.ClampDuty
}

// WithClamp returns a copy of c with the clamp policy set.
func (c Config) WithClamp(on bool) Config {
	c.ClampDuty = &on
	return c
}

func (c Config) Validate() error {
	if !c.Scheme.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidScheme, int(c.Scheme))
	}
	return nil
}
