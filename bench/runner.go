package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"foc-svm/control"
	"foc-svm/pwmbus"
	"foc-svm/svm"
	"foc-svm/utils"
)

type RunnerConfig struct {
	Scenario Scenario
	Record   bool // keep every tick in memory for Records()
}

// Record is one tick as seen by the sinks plus the filtered duty average.
type Record struct {
	pwmbus.Sample
	ThetaDeg float64
	Filtered [3]float64 // zero unless the scenario enables the filter
}

// CommonMode is the zero-sequence offset the modulator added, recovered
// from the mean duty.
func (r Record) CommonMode() float64 {
	return (r.Duty.A()+r.Duty.B()+r.Duty.C())/3 - 0.5
}

// Summary aggregates a completed run.
type Summary struct {
	Ticks          int
	SectorVisits   [12]int
	MinDuty        float64
	MaxDuty        float64
	DeadlineMisses int
}

type Runner struct {
	cfg     RunnerConfig
	log     *utils.Logger
	sinks   []pwmbus.Sink
	ch      *Channel
	filters [3]*control.LowPass
	records []Record
	summary Summary
}

func NewRunner(cfg RunnerConfig, log *utils.Logger, sinks ...pwmbus.Sink) (*Runner, error) {
	if log == nil {
		log = utils.NewLogger(nil, utils.CRITICAL)
	}
	cfg.Scenario.applyDefaults()
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	r := &Runner{
		cfg:   cfg,
		log:   log,
		sinks: sinks,
		ch:    NewChannel(cfg.Scenario.Modulator),
	}

	if f := cfg.Scenario.Filter; f != nil {
		for i := range r.filters {
			lp, err := control.NewLowPassFromCutoff(f.CutoffHz, cfg.Scenario.Timing.DtS)
			if err != nil {
				return nil, fmt.Errorf("filter: %w", err)
			}
			lp.SetState(0.5, 0.5)
			r.filters[i] = lp
		}
		log.Info("Duty filter enabled: cutoff=%.1f Hz", f.CutoffHz)
	}

	return r, nil
}

// Close releases the channel and every sink.
func (r *Runner) Close() error {
	r.ch.Destroy()
	var errs []error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) Run(ctx context.Context) error {
	scen := &r.cfg.Scenario
	dt := scen.Timing.DtS
	steps := int(math.Round(scen.Timing.DurationS / dt))

	logEvery := 0
	if scen.Timing.LogHz > 0 {
		logEvery = max(1, int(math.Round(1/(scen.Timing.LogHz*dt))))
	}

	r.log.Info("Starting run: scenario=%s duration=%.3fs dt=%gs ticks=%d scheme=%s clamp=%v sinks=%d realtime=%v",
		scen.Meta.Name, scen.Timing.DurationS, dt, steps,
		scen.Modulator.Scheme, scen.Modulator.Clamped(), len(r.sinks), scen.Timing.RealTimeMode)

	var ticker *time.Ticker
	period := time.Duration(dt * float64(time.Second))
	if scen.Timing.RealTimeMode {
		ticker = time.NewTicker(period)
		defer ticker.Stop()
	}

	r.summary = Summary{MinDuty: math.Inf(1), MaxDuty: math.Inf(-1)}
	theta := 0.0
	last := time.Now()

	for k := 0; k < steps; k++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				r.log.Warn("Context canceled; stopping run at tick %d", k)
				return ctx.Err()
			case now := <-ticker.C:
				if now.Sub(last) > 2*period {
					r.summary.DeadlineMisses++
					r.log.Trace("Deadline miss at tick %d: %v since previous", k, now.Sub(last))
				}
				last = now
			}
		} else if err := ctx.Err(); err != nil {
			r.log.Warn("Context canceled; stopping run at tick %d", k)
			return err
		}

		t := float64(k) * dt
		cmd := EvalCommand(scen, t)
		ab := control.InversePark(control.DQ0{D: cmd.Vd, Q: cmd.Vq}, theta)

		// One full PWM clock period per tick: the rising edge latches, the low
		// half only holds.
		in := Inputs{UA: ab.Alpha, UB: ab.Beta, Clk: true, Mode: cmd.Mode}
		out := r.ch.Step(in)
		in.Clk = false
		r.ch.Step(in)

		rec := Record{
			Sample: pwmbus.Sample{
				T:      t,
				Alpha:  ab.Alpha,
				Beta:   ab.Beta,
				Sector: out.Sector,
				Mode:   cmd.Mode,
				Duty:   svm.Duty[float64]{out.Ma, out.Mb, out.Mc},
			},
			ThetaDeg: theta * 180 / math.Pi,
		}
		if r.filters[0] != nil {
			for i, lp := range r.filters {
				rec.Filtered[i] = lp.Update(rec.Duty[i])
			}
		}

		for _, s := range r.sinks {
			if err := s.WriteDuty(ctx, rec.Sample); err != nil {
				r.log.Critical("Sink write failed at t=%.4f: %v", t, err)
				return err
			}
		}

		r.account(rec)
		if logEvery > 0 && k%logEvery == 0 {
			r.log.Debug("t=%.4f theta=%.1f sector=%d duty=(%.4f %.4f %.4f) mode=%s",
				t, rec.ThetaDeg, rec.Sector, out.Ma, out.Mb, out.Mc, cmd.Mode)
		}
		r.log.Trace("tick=%d alpha=%.5f beta=%.5f sector=%d", k, ab.Alpha, ab.Beta, out.Sector)

		theta = control.WrapAngle(theta + 2*math.Pi*cmd.FreqHz*dt)
	}

	r.log.Info("Completed run. ticks=%d deadline_misses=%d duty=[%.4f, %.4f]",
		r.summary.Ticks, r.summary.DeadlineMisses, r.summary.MinDuty, r.summary.MaxDuty)
	return nil
}

func (r *Runner) account(rec Record) {
	r.summary.Ticks++
	if rec.Sector >= 0 && rec.Sector < len(r.summary.SectorVisits) {
		r.summary.SectorVisits[rec.Sector]++
	}
	for _, d := range rec.Duty {
		r.summary.MinDuty = math.Min(r.summary.MinDuty, d)
		r.summary.MaxDuty = math.Max(r.summary.MaxDuty, d)
	}
	if r.cfg.Record {
		r.records = append(r.records, rec)
	}
}

// Records returns the ticks kept when RunnerConfig.Record is set.
func (r *Runner) Records() []Record { return r.records }

func (r *Runner) Summary() Summary { return r.summary }
