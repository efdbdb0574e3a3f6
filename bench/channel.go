// Package bench drives the modulator the way a simulation host does: a
// clocked per-channel instance, scenario files describing the voltage
// command, a fixed-period runner and CSV/PNG output.
package bench

import "foc-svm/svm"

// Inputs are the pins of one modulator channel for a simulation step.
type Inputs struct {
	UA, UB float64 // stationary-frame voltage command
	Clk    bool    // modulator runs on the rising edge
	Mode   svm.Mode
}

// Outputs hold the last latched duties and sector.
type Outputs struct {
	Ma, Mb, Mc float64
	Sector     int
}

type instance struct {
	mod     *svm.Modulator[float64]
	prevClk bool
	out     Outputs
}

// Channel is an opaque handle to one modulator instance. The instance is
// created on the first Step and released by Destroy. The zero value is ready
// to use with svm.DefaultConfig.
type Channel struct {
	cfg  svm.Config
	inst *instance
}

// NewChannel returns a handle whose instance will use cfg.
func NewChannel(cfg svm.Config) *Channel {
	return &Channel{cfg: cfg}
}

// Step advances the channel by one simulation step. On a rising clock edge
// the modulator runs and its result is latched; otherwise the previous
// outputs are held.
func (c *Channel) Step(in Inputs) Outputs {
	if c.inst == nil {
		c.inst = &instance{mod: svm.New[float64](c.cfg)}
	}
	inst := c.inst

	if in.Clk && !inst.prevClk {
		d := inst.mod.Modulate(in.UA, in.UB, in.Mode)
		inst.out = Outputs{Ma: d.A(), Mb: d.B(), Mc: d.C(), Sector: inst.mod.Sector()}
	}
	inst.prevClk = in.Clk
	return inst.out
}

// Active reports whether an instance currently exists.
func (c *Channel) Active() bool { return c.inst != nil }

// State returns the modulator read-back of the live instance.
func (c *Channel) State() (svm.State[float64], bool) {
	if c.inst == nil {
		return svm.State[float64]{}, false
	}
	return c.inst.mod.Snapshot(), true
}

// Destroy drops the instance; the next Step starts from scratch.
func (c *Channel) Destroy() {
	c.inst = nil
}
