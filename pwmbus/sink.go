package pwmbus

import (
	"context"
	"errors"
	"sync"

	"foc-svm/svm"
)

// Signal names a duty frame is expected to carry.
const (
	SignalDutyA  = "duty_a"
	SignalDutyB  = "duty_b"
	SignalDutyC  = "duty_c"
	SignalSector = "sector"
	SignalMode   = "mode"
	SignalAlpha  = "u_alpha"
	SignalBeta   = "u_beta"
)

// DefaultDutyFrame is the frame name used when none is configured.
const DefaultDutyFrame = "PWM_DUTY_CMD"

var ErrSinkClosed = errors.New("pwmbus: sink closed")

// Sample is one modulator result as handed to the power stage.
type Sample struct {
	T      float64 // simulated time (s)
	Alpha  float64
	Beta   float64
	Sector int
	Mode   svm.Mode
	Duty   svm.Duty[float64]
}

// Sink consumes duty samples, one per PWM period.
type Sink interface {
	WriteDuty(ctx context.Context, s Sample) error
	Close() error
}

// DutyValues maps a sample onto the signal names of the duty and voltage
// frames; a frame picks the ones it defines.
func DutyValues(s Sample) map[string]float64 {
	return map[string]float64{
		SignalDutyA:  s.Duty.A(),
		SignalDutyB:  s.Duty.B(),
		SignalDutyC:  s.Duty.C(),
		SignalSector: float64(s.Sector),
		SignalMode:   float64(s.Mode),
		SignalAlpha:  s.Alpha,
		SignalBeta:   s.Beta,
	}
}

// RecorderSink keeps every sample in memory.
type RecorderSink struct {
	mu      sync.Mutex
	samples []Sample
	closed  bool
}

func NewRecorderSink() *RecorderSink { return &RecorderSink{} }

func (r *RecorderSink) WriteDuty(_ context.Context, s Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSinkClosed
	}
	r.samples = append(r.samples, s)
	return nil
}

// Samples returns a copy of what was recorded.
func (r *RecorderSink) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

func (r *RecorderSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
