// Package mobility averages localization lengths over disorder realizations
// and converts them into charge-carrier mobilities.
package mobility

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/PuffyDucks/elph/internal/localization"
	"github.com/PuffyDucks/elph/internal/tightbinding"
)

// Progress is called after each completed realization. Calls may arrive out
// of order when workers > 1.
type Progress func(index int, sample localization.Lengths)

// Averager repeats the draw-and-solve cycle over independent disorder
// realizations. Realization i uses the seed base+i, so results are
// reproducible for a fixed seed regardless of worker count.
type Averager struct {
	Sampler      *tightbinding.Sampler
	Solver       *localization.Solver
	Realizations int
	Workers      int
	Seed         int64
}

// Average is the outcome of one Monte Carlo run. Samples holds every
// realization in index order; the means and standard errors summarize them.
type Average struct {
	Samples  []localization.Lengths
	Lx2, Ly2 float64
	ErrLx2   float64
	ErrLy2   float64
}

// Run executes all realizations. Any single failure aborts the whole
// average: silently skipping realizations would bias the estimate. A
// cancelled context aborts without a partial result.
func (a *Averager) Run(ctx context.Context, progress Progress) (*Average, error) {
	if a.Realizations < 1 {
		a.Realizations = 1
	}
	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > a.Realizations {
		workers = a.Realizations
	}

	samples := make([]localization.Lengths, a.Realizations)
	if workers == 1 {
		for i := 0; i < a.Realizations; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			s, err := a.realize(i)
			if err != nil {
				return nil, err
			}
			samples[i] = s
			if progress != nil {
				progress(i, s)
			}
		}
		return summarize(samples), nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	indices := make(chan int)
	errs := make([]error, workers)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range indices {
				s, err := a.realize(i)
				if err != nil {
					errs[worker] = err
					cancel()
					return
				}
				samples[i] = s
				if progress != nil {
					mu.Lock()
					progress(i, s)
					mu.Unlock()
				}
			}
		}(w)
	}

feed:
	for i := 0; i < a.Realizations; i++ {
		select {
		case <-runCtx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summarize(samples), nil
}

// realize draws one Hamiltonian from an independent stream and solves it.
func (a *Averager) realize(i int) (localization.Lengths, error) {
	rng := rand.New(rand.NewSource(a.Seed + int64(i)))
	h := a.Sampler.Sample(rng)
	return a.Solver.Solve(h)
}

func summarize(samples []localization.Lengths) *Average {
	n := len(samples)
	lx := make([]float64, n)
	ly := make([]float64, n)
	for i, s := range samples {
		lx[i] = s.Lx2
		ly[i] = s.Ly2
	}

	avg := &Average{
		Samples: samples,
		Lx2:     stat.Mean(lx, nil),
		Ly2:     stat.Mean(ly, nil),
	}
	if n > 1 {
		root := math.Sqrt(float64(n))
		avg.ErrLx2 = stat.StdDev(lx, nil) / root
		avg.ErrLy2 = stat.StdDev(ly, nil) / root
	}
	return avg
}
