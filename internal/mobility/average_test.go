package mobility

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/PuffyDucks/elph/internal/elph"
	"github.com/PuffyDucks/elph/internal/lattice"
	"github.com/PuffyDucks/elph/internal/localization"
	"github.com/PuffyDucks/elph/internal/tightbinding"
)

func dimerAverager(t *testing.T, coupling tightbinding.Coupling, realizations, workers int) *Averager {
	t.Helper()
	types := [][]int{{0, 1}, {1, 0}}
	sampler, err := tightbinding.NewSampler(types, coupling)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	positions := [][3]float64{{0, 0, 0}, {0.5, 0, 0}}
	solver := localization.NewSolver(positions, lattice.Plane{0, 1},
		localization.Thermal{Temperature: 300, Gamma: 5e-3, IsHole: true})
	return &Averager{
		Sampler:      sampler,
		Solver:       solver,
		Realizations: realizations,
		Workers:      workers,
		Seed:         11,
	}
}

var noisyDimer = tightbinding.Coupling{
	Transfer: []float64{0.1, 0, 0},
	Sigma:    []float64{0.03, 0, 0},
}

func TestAverager_SeedDeterminismAcrossWorkers(t *testing.T) {
	serial, err := dimerAverager(t, noisyDimer, 64, 1).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("serial Run: %v", err)
	}
	parallel, err := dimerAverager(t, noisyDimer, 64, 4).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	if serial.Lx2 != parallel.Lx2 || serial.Ly2 != parallel.Ly2 {
		t.Errorf("worker count changed the average: serial (%v,%v) parallel (%v,%v)",
			serial.Lx2, serial.Ly2, parallel.Lx2, parallel.Ly2)
	}
	for i := range serial.Samples {
		if serial.Samples[i] != parallel.Samples[i] {
			t.Fatalf("sample %d differs between worker counts", i)
		}
	}
}

func TestAverager_StandardErrorShrinks(t *testing.T) {
	small, err := dimerAverager(t, noisyDimer, 50, 1).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run(50): %v", err)
	}
	large, err := dimerAverager(t, noisyDimer, 500, 1).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run(500): %v", err)
	}

	if large.ErrLx2 >= small.ErrLx2 {
		t.Errorf("stderr did not shrink: 50 -> %v, 500 -> %v", small.ErrLx2, large.ErrLx2)
	}
	// Roughly 1/sqrt(10); allow a generous band for sampling noise.
	ratio := large.ErrLx2 / small.ErrLx2
	if ratio > 0.7 {
		t.Errorf("stderr ratio = %v, want well below 1 (expected ~%v)", ratio, 1/math.Sqrt(10))
	}
}

func TestAverager_ZeroDisorderIsExact(t *testing.T) {
	quiet := tightbinding.Coupling{
		Transfer: []float64{0.1, 0, 0},
		Sigma:    []float64{0, 0, 0},
	}
	avg, err := dimerAverager(t, quiet, 10, 1).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if avg.ErrLx2 != 0 {
		t.Errorf("deterministic system has stderr %v, want 0", avg.ErrLx2)
	}
	want := 2 * 0.25 * 0.01 / (5e-3*5e-3 + 4*0.01)
	if math.Abs(avg.Lx2-want) > 1e-12 {
		t.Errorf("Lx2 = %v, want %v", avg.Lx2, want)
	}
}

func TestAverager_FailureAborts(t *testing.T) {
	bad := tightbinding.Coupling{
		Transfer: []float64{math.NaN(), 0, 0},
		Sigma:    []float64{0, 0, 0},
	}
	for _, workers := range []int{1, 4} {
		_, err := dimerAverager(t, bad, 20, workers).Run(context.Background(), nil)
		var numErr elph.NumericalError
		if !errors.As(err, &numErr) {
			t.Errorf("workers=%d: error = %v, want NumericalError", workers, err)
		}
	}
}

func TestAverager_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		avg, err := dimerAverager(t, noisyDimer, 1000, workers).Run(ctx, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
		if avg != nil {
			t.Errorf("workers=%d: got partial result on cancellation", workers)
		}
	}
}

func TestAverager_ProgressOrderIndependent(t *testing.T) {
	var seen int
	_, err := dimerAverager(t, noisyDimer, 32, 1).Run(context.Background(),
		func(i int, s localization.Lengths) { seen++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != 32 {
		t.Errorf("progress called %d times, want 32", seen)
	}
}
