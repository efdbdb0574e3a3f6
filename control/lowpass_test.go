package control

import (
	"math"
	"testing"
)

func TestLowPass_RawCoefficients(t *testing.T) {
	f := NewLowPass(0.5, 0, 0.5)
	want := []float64{0.5, 0.75, 0.875}
	for i, w := range want {
		if got := f.Update(1); got != w {
			t.Errorf("step %d = %v, want %v", i, got, w)
		}
	}
	if f.Output() != 0.875 {
		t.Errorf("Output() = %v", f.Output())
	}
}

func TestLowPassFromCutoff_UnityDCGain(t *testing.T) {
	f, err := NewLowPassFromCutoff(50, 1e-4)
	if err != nil {
		t.Fatalf("NewLowPassFromCutoff: %v", err)
	}
	a0, a1, b1 := f.Coefficients()
	if math.Abs(a0+a1+b1-1) > 1e-12 {
		t.Errorf("a0+a1+b1 = %v, want 1", a0+a1+b1)
	}

	var y float64
	for i := 0; i < 20000; i++ { // 2 s, 100 time constants
		y = f.Update(1)
	}
	if math.Abs(y-1) > 1e-6 {
		t.Errorf("step response settles at %v, want 1", y)
	}
}

func TestLowPassFromCutoff_Attenuates(t *testing.T) {
	const ts = 1e-4
	f, err := NewLowPassFromCutoff(10, ts)
	if err != nil {
		t.Fatal(err)
	}
	var peak float64
	for i := 0; i < 40000; i++ {
		y := f.Update(math.Sin(2 * math.Pi * 1000 * float64(i) * ts))
		if i > 20000 && math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}
	if peak > 0.02 {
		t.Errorf("1 kHz through a 10 Hz filter peaks at %v", peak)
	}
}

func TestLowPass_SetState(t *testing.T) {
	f, _ := NewLowPassFromCutoff(100, 1e-3)
	f.SetState(0.3, 0.3)
	if got := f.Update(0.3); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("steady state drifted to %v", got)
	}
}

func TestLowPassFromCutoff_Rejects(t *testing.T) {
	for _, c := range [][2]float64{{0, 1e-3}, {10, 0}, {600, 1e-3}} {
		if _, err := NewLowPassFromCutoff(c[0], c[1]); err == nil {
			t.Errorf("cutoff=%v ts=%v: expected error", c[0], c[1])
		}
	}
}
