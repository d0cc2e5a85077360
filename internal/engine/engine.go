// Package engine wires the mobility pipeline: lattice construction,
// interaction classification, disorder sampling, localization solving,
// Monte Carlo averaging and the final mobility conversion.
package engine

import (
	"context"
	"time"

	"github.com/PuffyDucks/elph/internal/config"
	"github.com/PuffyDucks/elph/internal/lattice"
	"github.com/PuffyDucks/elph/internal/localization"
	"github.com/PuffyDucks/elph/internal/mobility"
	"github.com/PuffyDucks/elph/internal/tightbinding"
)

// Engine holds the immutable per-run state shared by every realization.
type Engine struct {
	cfg      *config.Config
	averager *mobility.Averager
	sites    int
}

// Run is the complete outcome of one Monte Carlo mobility calculation.
type Run struct {
	mobility.Result
	Samples []localization.Lengths
	ErrLx2  float64
	ErrLy2  float64
	Sites   int
	Elapsed time.Duration
}

// New validates the configuration and performs the deterministic setup:
// supercell positions, interaction classification, and the base matrices.
// Everything prepared here is read-only during averaging and safe to share
// across workers.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cell := cfg.UnitCell()
	sc := cfg.Supercell()
	positions, err := lattice.Build(cell, sc)
	if err != nil {
		return nil, err
	}

	classifier := &lattice.Classifier{
		Cell:        cell,
		Super:       sc,
		Plane:       cfg.TransportPlane(),
		Cutoffs:     cfg.Distances,
		Translation: cfg.TranslationDist,
		LegacyPBC:   cfg.LegacyPBC,
	}
	inter, err := classifier.Classify(positions)
	if err != nil {
		return nil, err
	}

	sampler, err := tightbinding.NewSampler(inter.Types, cfg.Coupling())
	if err != nil {
		return nil, err
	}
	solver := localization.NewSolver(positions, cfg.TransportPlane(), cfg.Thermal())

	return &Engine{
		cfg: cfg,
		averager: &mobility.Averager{
			Sampler:      sampler,
			Solver:       solver,
			Realizations: cfg.Realizations,
			Workers:      cfg.Workers,
			Seed:         cfg.Seed,
		},
		sites: len(positions),
	}, nil
}

// Sites returns the supercell site count N; each realization costs one
// N x N eigendecomposition.
func (e *Engine) Sites() int { return e.sites }

// Realizations returns the configured Monte Carlo trial count.
func (e *Engine) Realizations() int { return e.averager.Realizations }

// Run executes the full average and converts it to mobilities. A cancelled
// context aborts with no partial result.
func (e *Engine) Run(ctx context.Context) (*Run, error) {
	return e.RunWithProgress(ctx, nil)
}

// RunWithProgress is Run with a per-realization callback, used by the live
// view.
func (e *Engine) RunWithProgress(ctx context.Context, progress mobility.Progress) (*Run, error) {
	start := time.Now()
	avg, err := e.averager.Run(ctx, progress)
	if err != nil {
		return nil, err
	}

	return &Run{
		Result:  mobility.Calculate(avg.Lx2, avg.Ly2, e.cfg.InverseHTau, e.cfg.Temp),
		Samples: avg.Samples,
		ErrLx2:  avg.ErrLx2,
		ErrLy2:  avg.ErrLy2,
		Sites:   e.sites,
		Elapsed: time.Since(start),
	}, nil
}
