package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"foc-svm/control"
	"foc-svm/svm"
)

// Scenario defines an open-loop voltage command profile
type Scenario struct {
	Meta      ScenarioMeta      `json:"meta" yaml:"meta"`
	Timing    ScenarioTiming    `json:"timing" yaml:"timing"`
	Modulator svm.Config        `json:"modulator" yaml:"modulator"`
	Defaults  Command           `json:"defaults" yaml:"defaults"`
	Segments  []ScenarioSegment `json:"segments" yaml:"segments"`
	Filter    *FilterConfig     `json:"filter,omitempty" yaml:"filter,omitempty"` // Optional duty averaging filter
}

// ScenarioMeta contains scenario metadata
type ScenarioMeta struct {
	Name        string `json:"name" yaml:"name"`
	Version     int    `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

// ScenarioTiming defines timing parameters
type ScenarioTiming struct {
	DtS          float64 `json:"dt_s" yaml:"dt_s"` // PWM period
	DurationS    float64 `json:"duration_s" yaml:"duration_s"`
	LogHz        float64 `json:"log_hz" yaml:"log_hz"`
	RealTimeMode bool    `json:"real_time_mode" yaml:"real_time_mode"`
}

// Command is a rotor-frame voltage command, normalised to the modulator
// input range, rotating at FreqHz electrical.
type Command struct {
	Vd     float64  `json:"vd" yaml:"vd"`
	Vq     float64  `json:"vq" yaml:"vq"`
	FreqHz float64  `json:"freq_hz" yaml:"freq_hz"`
	Mode   svm.Mode `json:"mode" yaml:"mode"`
}

// ScenarioSegment overrides the defaults between T0 and T1 (T1 < 0 runs to the end)
type ScenarioSegment struct {
	T0      float64   `json:"t0" yaml:"t0"`
	T1      float64   `json:"t1" yaml:"t1"`
	Vd      float64   `json:"vd" yaml:"vd"`
	Vq      float64   `json:"vq" yaml:"vq"`
	FreqHz  float64   `json:"freq_hz" yaml:"freq_hz"`
	Mode    *svm.Mode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Comment string    `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// FilterConfig enables a first-order low-pass on every duty, which recovers
// the switching-period average of the phase voltage.
type FilterConfig struct {
	CutoffHz float64 `json:"cutoff_hz" yaml:"cutoff_hz"`
}

const (
	defaultDtS   = 1e-4 // 10 kHz PWM
	defaultLogHz = 10
)

// LoadScenario loads a scenario from a JSON or YAML file, chosen by extension
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read file: %w", err)
	}

	var scen Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &scen); err != nil {
			return Scenario{}, fmt.Errorf("unmarshal yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &scen); err != nil {
			return Scenario{}, fmt.Errorf("unmarshal: %w", err)
		}
	}

	scen.applyDefaults()
	if err := scen.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scen, nil
}

func (s *Scenario) applyDefaults() {
	if s.Timing.DtS == 0 {
		s.Timing.DtS = defaultDtS
	}
	if s.Timing.LogHz == 0 {
		s.Timing.LogHz = defaultLogHz
	}
	if s.Meta.Name == "" {
		s.Meta.Name = "unnamed"
	}
}

// Validate checks timing, segment ordering, modes and the modulator config
func (s *Scenario) Validate() error {
	if s.Timing.DurationS <= 0 {
		return fmt.Errorf("invalid duration_s: %f", s.Timing.DurationS)
	}
	if s.Timing.DtS <= 0 || s.Timing.DtS > s.Timing.DurationS {
		return fmt.Errorf("invalid dt_s: %g", s.Timing.DtS)
	}
	if s.Timing.LogHz < 0 {
		return fmt.Errorf("invalid log_hz: %f", s.Timing.LogHz)
	}
	if err := s.Modulator.Validate(); err != nil {
		return fmt.Errorf("modulator: %w", err)
	}
	if !s.Defaults.Mode.Valid() {
		return fmt.Errorf("defaults: %w: %d", svm.ErrInvalidMode, int(s.Defaults.Mode))
	}

	prevEnd := 0.0
	for i, seg := range s.Segments {
		if seg.T0 < prevEnd {
			return fmt.Errorf("segment %d: t0 %.4f overlaps previous segment ending at %.4f", i, seg.T0, prevEnd)
		}
		if seg.T1 >= 0 && seg.T1 <= seg.T0 {
			return fmt.Errorf("segment %d: t1 %.4f not after t0 %.4f", i, seg.T1, seg.T0)
		}
		if seg.Mode != nil && !seg.Mode.Valid() {
			return fmt.Errorf("segment %d: %w: %d", i, svm.ErrInvalidMode, int(*seg.Mode))
		}
		if seg.T1 < 0 {
			if i != len(s.Segments)-1 {
				return fmt.Errorf("segment %d: open-ended segment must be last", i)
			}
			prevEnd = s.Timing.DurationS
		} else {
			prevEnd = seg.T1
		}
	}

	if s.Filter != nil {
		if _, err := control.NewLowPassFromCutoff(s.Filter.CutoffHz, s.Timing.DtS); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}
	return nil
}

// EvalCommand evaluates the scenario at time t and returns the voltage command
func EvalCommand(scen *Scenario, t float64) Command {
	cmd := scen.Defaults

	for _, seg := range scen.Segments {
		t1 := seg.T1
		if t1 < 0 {
			t1 = scen.Timing.DurationS
		}

		if t >= seg.T0 && t < t1 {
			cmd.Vd = seg.Vd
			cmd.Vq = seg.Vq
			cmd.FreqHz = seg.FreqHz
			if seg.Mode != nil {
				cmd.Mode = *seg.Mode
			}
			break
		}
	}

	return cmd
}
