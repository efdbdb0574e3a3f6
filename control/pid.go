package control

import (
	"errors"
	"fmt"
)

// PIDConfig holds PID controller parameters
type PIDConfig struct {
	OutHiLim   float64 `json:"out_hi_lim" yaml:"out_hi_lim"`
	OutLoLim   float64 `json:"out_lo_lim" yaml:"out_lo_lim"`
	IntRateLim float64 `json:"int_rate_lim" yaml:"int_rate_lim"` // max integral change per step, positive
	Kp         float64 `json:"kp" yaml:"kp"`
	Ts         float64 `json:"ts" yaml:"ts"` // loop period (s)
	Ti         float64 `json:"ti" yaml:"ti"` // integral time constant (s)
	KiEnable   bool    `json:"ki_enable" yaml:"ki_enable"`
	Td         float64 `json:"td" yaml:"td"` // derivative time constant (s)
	KdEnable   bool    `json:"kd_enable" yaml:"kd_enable"`
	KpAW       float64 `json:"kp_aw" yaml:"kp_aw"` // anti-windup gain
}

var ErrInvalidPIDConfig = errors.New("control: invalid pid config")

func (c PIDConfig) Validate() error {
	if c.Ts <= 0 {
		return fmt.Errorf("%w: ts must be positive, got %g", ErrInvalidPIDConfig, c.Ts)
	}
	if c.KiEnable && c.Ti <= 0 {
		return fmt.Errorf("%w: ti must be positive with integral enabled, got %g", ErrInvalidPIDConfig, c.Ti)
	}
	if c.OutLoLim > c.OutHiLim {
		return fmt.Errorf("%w: out_lo_lim %g above out_hi_lim %g", ErrInvalidPIDConfig, c.OutLoLim, c.OutHiLim)
	}
	if c.IntRateLim < 0 {
		return fmt.Errorf("%w: int_rate_lim must not be negative, got %g", ErrInvalidPIDConfig, c.IntRateLim)
	}
	return nil
}

// PID implements an incremental-form PID with integral rate limiting,
// output saturation and back-calculation anti-windup.
type PID struct {
	cfg PIDConfig

	// discrete gains
	ki float64 // Kp*Ts/Ti
	kd float64 // Kp*Td/Ts

	// State
	err   float64 // error of the previous step
	ui    float64 // integral output
	u     float64 // saturated output
	uff   float64 // last feedforward
	errAW float64 // saturated minus unsaturated output
}

// NewPID creates a PID from cfg; the integral and derivative gains are
// derived from the time constants only when enabled.
func NewPID(cfg PIDConfig) (*PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pid := &PID{cfg: cfg}
	if cfg.KiEnable {
		pid.ki = cfg.Kp * cfg.Ts / cfg.Ti
	}
	if cfg.KdEnable {
		pid.kd = cfg.Kp * cfg.Td / cfg.Ts
	}
	return pid, nil
}

// SetState preloads the controller history, e.g. for bumpless transfer.
func (pid *PID) SetState(err, ui, u, uff, errAW float64) {
	pid.err = err
	pid.ui = ui
	pid.u = u
	pid.uff = uff
	pid.errAW = errAW
}

// Reset clears the PID state
func (pid *PID) Reset() {
	pid.SetState(0, 0, 0, 0, 0)
}

// Update runs one step and returns the saturated output.
func (pid *PID) Update(ref, fb, uff float64) float64 {
	err := ref - fb

	// Proportional term
	up := pid.cfg.Kp * err

	// Trapezoidal integral increment plus anti-windup feedback, rate limited
	deltaUI := pid.ki*(err+pid.err)/2 + pid.cfg.KpAW*pid.errAW
	deltaUI = Saturate(deltaUI, -pid.cfg.IntRateLim, pid.cfg.IntRateLim)

	pid.ui = Saturate(pid.ui+deltaUI, pid.cfg.OutLoLim, pid.cfg.OutHiLim)

	// Derivative on error difference
	ud := pid.kd * (err - pid.err)

	u := up + pid.ui + ud + uff
	pid.u = Saturate(u, pid.cfg.OutLoLim, pid.cfg.OutHiLim)

	// Anti-windup error for the next step
	pid.errAW = pid.u - u

	pid.err = err
	pid.uff = uff
	return pid.u
}

// Output returns the last saturated output
func (pid *PID) Output() float64 { return pid.u }

// Gains returns the discrete gains in use
func (pid *PID) Gains() (kp, ki, kd float64) {
	return pid.cfg.Kp, pid.ki, pid.kd
}

// GetDiagnostics returns current PID state for logging/debugging
func (pid *PID) GetDiagnostics() PIDDiagnostics {
	return PIDDiagnostics{
		Error:       pid.err,
		Integral:    pid.ui,
		Output:      pid.u,
		Feedforward: pid.uff,
		AntiWindup:  pid.errAW,
	}
}

// PIDDiagnostics contains PID internal state for monitoring
type PIDDiagnostics struct {
	Error       float64
	Integral    float64
	Output      float64
	Feedforward float64
	AntiWindup  float64
}
