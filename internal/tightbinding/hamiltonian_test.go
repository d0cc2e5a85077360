package tightbinding

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/PuffyDucks/elph/internal/elph"
)

var chainTypes = [][]int{
	{0, 1, 0},
	{1, 0, 2},
	{0, 2, 0},
}

func TestNewSampler_BaseMatrix(t *testing.T) {
	s, err := NewSampler(chainTypes, Coupling{
		Onsite:   0.1,
		Transfer: []float64{-0.05, 0.02, 0.01},
		Sigma:    []float64{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	h0 := s.Base()
	checks := []struct {
		i, j int
		want float64
	}{
		{0, 0, 0.1}, {1, 1, 0.1}, {2, 2, 0.1},
		{0, 1, -0.05}, {1, 0, -0.05},
		{1, 2, 0.02}, {2, 1, 0.02},
		{0, 2, 0}, {2, 0, 0},
	}
	for _, c := range checks {
		if got := h0.At(c.i, c.j); got != c.want {
			t.Errorf("H0[%d][%d] = %v, want %v", c.i, c.j, got, c.want)
		}
	}
}

func TestNewSampler_CouplingLength(t *testing.T) {
	tests := []struct {
		name     string
		transfer []float64
		sigma    []float64
	}{
		{"short transfer", []float64{1, 2}, []float64{0, 0, 0}},
		{"long transfer", []float64{1, 2, 3, 4}, []float64{0, 0, 0}},
		{"short sigma", []float64{1, 2, 3}, []float64{0}},
		{"nil sigma", []float64{1, 2, 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampler(chainTypes, Coupling{Transfer: tt.transfer, Sigma: tt.sigma})
			var cfgErr elph.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("NewSampler error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestSample_Symmetric(t *testing.T) {
	s, err := NewSampler(chainTypes, Coupling{
		OnsiteSigma: 0.01,
		Transfer:    []float64{-0.05, 0.02, 0.01},
		Sigma:       []float64{0.02, 0.01, 0.005},
	})
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		h := s.Sample(rng)
		for i := 0; i < s.N(); i++ {
			for j := 0; j < s.N(); j++ {
				if h.At(i, j) != h.At(j, i) {
					t.Fatalf("trial %d: H[%d][%d] != H[%d][%d]", trial, i, j, j, i)
				}
			}
		}
	}
}

func TestSample_ZeroDisorderIsBase(t *testing.T) {
	s, err := NewSampler(chainTypes, Coupling{
		Onsite:   0.2,
		Transfer: []float64{-0.05, 0.02, 0.01},
		Sigma:    []float64{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	h := s.Sample(rand.New(rand.NewSource(1)))
	h0 := s.Base()
	for i := 0; i < s.N(); i++ {
		for j := 0; j < s.N(); j++ {
			if h.At(i, j) != h0.At(i, j) {
				t.Errorf("H[%d][%d] = %v, want base %v", i, j, h.At(i, j), h0.At(i, j))
			}
		}
	}
}

func TestSample_FreshPerRealization(t *testing.T) {
	s, err := NewSampler(chainTypes, Coupling{
		Transfer: []float64{0, 0, 0},
		Sigma:    []float64{1, 1, 1},
	})
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	rng := rand.New(rand.NewSource(9))
	a := s.Sample(rng)
	b := s.Sample(rng)
	if a.At(0, 1) == b.At(0, 1) {
		t.Error("consecutive realizations drew identical disorder")
	}
}
