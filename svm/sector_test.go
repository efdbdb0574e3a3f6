package svm

import (
	"math"
	"math/rand"
	"testing"
)

func TestClassify12_SectorCentres(t *testing.T) {
	for k := 0; k < 12; k++ {
		a, b := polar(0.8, 15+30*float64(k))
		if got := Classify12(Project(a, b)); got != k {
			t.Errorf("centre of sector %d (%v°): got %d", k, 15+30*k, got)
		}
	}
}

func TestClassify6_SectorCentres(t *testing.T) {
	for k := 0; k < 6; k++ {
		a, b := polar(0.8, 30+60*float64(k))
		if got := Classify6(Project(a, b)); got != k {
			t.Errorf("centre of sector %d (%v°): got %d", k, 30+60*k, got)
		}
	}
}

func TestClassify_RevolutionVisitsEachSectorOnceInOrder(t *testing.T) {
	for _, scheme := range []Scheme{Sectors12, Sectors6} {
		t.Run(scheme.String(), func(t *testing.T) {
			n := scheme.Sectors()
			var seq []int
			for deg := 0.1; deg < 360; deg += 0.25 {
				a, b := polar(1, deg)
				s := Classify(scheme, Project(a, b))
				if len(seq) == 0 || seq[len(seq)-1] != s {
					seq = append(seq, s)
				}
			}
			if len(seq) != n {
				t.Fatalf("visited %v, want %d distinct sectors", seq, n)
			}
			for i, s := range seq {
				if s != i {
					t.Fatalf("visit order %v, want 0..%d ascending", seq, n-1)
				}
			}
		})
	}
}

func TestClassify_RangeOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20000; i++ {
		a := (rng.Float64()*2 - 1) * math.Pow(10, float64(rng.Intn(7)-3))
		b := (rng.Float64()*2 - 1) * math.Pow(10, float64(rng.Intn(7)-3))
		p := Project(a, b)
		if s := Classify12(p); s < 0 || s > 11 {
			t.Fatalf("Classify12(%v,%v) = %d", a, b, s)
		}
		if s := Classify6(p); s < 0 || s > 5 {
			t.Fatalf("Classify6(%v,%v) = %d", a, b, s)
		}
	}
}

func TestClassify12_TiesTakeUpperHalf(t *testing.T) {
	cases := []struct {
		name string
		p    Projections[float64]
		want int
	}{
		{"ta==tc", Projections[float64]{1, -2, 1}, 1},
		{"tb==tc", Projections[float64]{2, -1, -1}, 3},
		{"tb==ta", Projections[float64]{1, 1, -2}, 5},
		{"tc==ta", Projections[float64]{-1, 2, -1}, 7},
		{"tb==tc negative ta", Projections[float64]{-2, 1, 1}, 9},
		{"ta==tb", Projections[float64]{-1, -1, 2}, 11},
		{"all zero", Projections[float64]{0, 0, 0}, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify12(tc.p); got != tc.want {
				t.Errorf("Classify12(%v) = %d, want %d", tc.p, got, tc.want)
			}
		})
	}
}

func TestClassify6_SignTable(t *testing.T) {
	cases := []struct {
		p    Projections[float64]
		want int
	}{
		{Projections[float64]{1, -2, 1}, 0},
		{Projections[float64]{2, -1, -1}, 1},
		{Projections[float64]{1, 0, -1}, 2},
		{Projections[float64]{1, 1, -2}, 2},
		{Projections[float64]{0, 1, -1}, 3},
		{Projections[float64]{-2, 1, 1}, 4},
		{Projections[float64]{-1, -1, 2}, 5},
		{Projections[float64]{0, 0, 0}, 5},
	}
	for _, tc := range cases {
		if got := Classify6(tc.p); got != tc.want {
			t.Errorf("Classify6(%v) = %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestClassify_NaNIsDeterministic(t *testing.T) {
	p := Project(math.NaN(), math.NaN())
	if got := Classify12(p); got != 11 {
		t.Errorf("Classify12(NaN) = %d, want 11", got)
	}
	if got := Classify6(p); got != 5 {
		t.Errorf("Classify6(NaN) = %d, want 5", got)
	}
}

func TestPairOf(t *testing.T) {
	for s := 0; s < 12; s++ {
		if got := PairOf(s, Sectors12); got != s/2 {
			t.Errorf("PairOf(%d, 12) = %d", s, got)
		}
	}
	for s := 0; s < 6; s++ {
		if got := PairOf(s, Sectors6); got != s {
			t.Errorf("PairOf(%d, 6) = %d", s, got)
		}
	}
	for _, bad := range []int{-1, 12} {
		if got := PairOf(bad, 0); got != -1 {
			t.Errorf("PairOf(%d, 0) = %d, want -1", bad, got)
		}
	}
	if got := PairOf(6, Sectors6); got != -1 {
		t.Errorf("PairOf(6, 6) = %d, want -1", got)
	}
}
